package output

import (
	"fmt"
	"io"
	"strings"

	"isofit/core/engine"
	"isofit/internal/i18n"
)

// TextFormatter writes each result's plain-text summary
type TextFormatter struct{}

// Format returns FormatText
func (f *TextFormatter) Format() Format {
	return FormatText
}

// Render writes summaries separated by blank lines; named entries get a header line
func (f *TextFormatter) Render(w io.Writer, report *Report) error {
	var b strings.Builder
	for i, e := range report.Entries {
		if i > 0 {
			b.WriteString("\n")
		}
		if e.Name != "" {
			fmt.Fprintf(&b, "== %s ==\n", e.Name)
		}
		switch {
		case e.Error != nil:
			fmt.Fprintf(&b, "%s: %s\n", i18n.Text(report.Language, "output.error"), e.Error.Message)
		case e.Result != nil:
			b.WriteString(engine.Summary(i18n.Printer(e.Result.Language), e.Result, precisionOf(report)))
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
