package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter writes results as JSON. A report with one unnamed entry is
// written as that entry alone.
type JSONFormatter struct {
	Indent bool
}

// Format returns FormatJSON
func (f *JSONFormatter) Format() Format {
	return FormatJSON
}

// Render encodes the report
func (f *JSONFormatter) Render(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	if f.Indent {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)

	if len(report.Entries) == 1 && report.Entries[0].Name == "" {
		e := report.Entries[0]
		if e.Error != nil {
			return enc.Encode(map[string]*ErrorView{"error": e.Error})
		}
		return enc.Encode(e.Result)
	}
	return enc.Encode(report)
}
