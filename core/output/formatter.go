// Package output renders calculation results for people and machines.
package output

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"isofit/core/engine"
	"isofit/core/types"
	"isofit/internal/errors"
	"isofit/internal/i18n"
)

// Format represents output format type
type Format string

const (
	// FormatText is the plain-text summary
	FormatText Format = "text"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown report with tables
	FormatMarkdown Format = "markdown"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given report
	Render(w io.Writer, report *Report) error
}

// Report is what gets rendered: one entry for a single calculation, many for a batch
type Report struct {
	Entries []Entry `json:"entries"`

	// Language selects the language of headings and error messages
	Language string `json:"language"`

	// Precision is the number of decimals for millimeter limits
	Precision int32 `json:"-"`
}

// Entry is one named result or failure
type Entry struct {
	Name   string                   `json:"name,omitempty"`
	Result *types.CalculationResult `json:"result,omitempty"`
	Error  *ErrorView               `json:"error,omitempty"`
}

// ErrorView is the presentable form of an error
type ErrorView struct {
	Type    errors.Type `json:"type"`
	Message string      `json:"message"`
	Field   string      `json:"field,omitempty"`
}

// NewErrorView localizes err by its kind
func NewErrorView(err error, lang string) *ErrorView {
	e, ok := errors.As(err)
	if !ok {
		e = errors.Internal(err.Error(), err)
	}

	var arg interface{} = e.Message
	switch {
	case e.Type == errors.TypeMissingGrade:
		arg = e.Field()
	case e.Context["value"] != nil:
		arg = e.Context["value"]
	}

	return &ErrorView{
		Type:    e.Type,
		Message: i18n.Text(lang, "error."+string(e.Type), arg),
		Field:   e.Field(),
	}
}

// Single builds a report holding one result
func Single(result *types.CalculationResult, lang string, precision int32) *Report {
	return &Report{
		Entries:   []Entry{{Result: result}},
		Language:  lang,
		Precision: precision,
	}
}

// Registry manages formatter registration
type Registry struct {
	formatters map[Format]Formatter
	mu         sync.RWMutex
}

// NewRegistry returns a registry with the built-in formatters
func NewRegistry() *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	_ = r.Register(&TextFormatter{})
	_ = r.Register(&JSONFormatter{Indent: true})
	_ = r.Register(&MarkdownFormatter{})
	return r
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[formatter.Format()]; exists {
		return fmt.Errorf("formatter %q already registered", formatter.Format())
	}
	r.formatters[formatter.Format()] = formatter
	return nil
}

// GetFormatter returns a formatter for a format type
func (r *Registry) GetFormatter(format Format) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[format]
	return f, ok
}

// GetAll returns all registered formatters, sorted by format
func (r *Registry) GetAll() []Formatter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Formatter, 0, len(r.formatters))
	for _, f := range r.formatters {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Format() < out[j].Format() })
	return out
}

// Render looks up a formatter by name and renders the report
func (r *Registry) Render(w io.Writer, format Format, report *Report) error {
	f, ok := r.GetFormatter(format)
	if !ok {
		return errors.Newf(errors.TypeInput, "unknown output format %q", format).WithField("format", string(format))
	}
	return f.Render(w, report)
}

func precisionOf(report *Report) int32 {
	if report.Precision <= 0 {
		return engine.DefaultPrecision
	}
	return report.Precision
}
