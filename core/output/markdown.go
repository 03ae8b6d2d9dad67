package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/message"

	"isofit/core/engine"
	"isofit/core/types"
	"isofit/internal/i18n"
)

// MarkdownFormatter writes one section with tables per entry
type MarkdownFormatter struct{}

// Format returns FormatMarkdown
func (f *MarkdownFormatter) Format() Format {
	return FormatMarkdown
}

// Render writes the report as markdown
func (f *MarkdownFormatter) Render(w io.Writer, report *Report) error {
	p := i18n.Printer(report.Language)
	prec := precisionOf(report)

	var b strings.Builder
	if len(report.Entries) > 1 {
		writeOverview(&b, p, report)
	}
	for i, e := range report.Entries {
		if i > 0 || len(report.Entries) > 1 {
			b.WriteString("\n")
		}
		writeEntry(&b, p, e, prec)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeOverview(b *strings.Builder, p *message.Printer, report *Report) {
	fmt.Fprintf(b, "| %s | %s | %s |\n", p.Sprintf("output.name"), p.Sprintf("output.grade"), p.Sprintf("output.result"))
	b.WriteString("|---|---|---|\n")
	for _, e := range report.Entries {
		switch {
		case e.Error != nil:
			fmt.Fprintf(b, "| %s | | %s: %s |\n", e.Name, p.Sprintf("output.error"), escape(e.Error.Message))
		case e.Result != nil:
			fmt.Fprintf(b, "| %s | %s | %s |\n", e.Name, designation(e.Result), resultLabel(p, e.Result))
		}
	}
}

func writeEntry(b *strings.Builder, p *message.Printer, e Entry, prec int32) {
	title := e.Name
	if e.Result != nil {
		if title != "" {
			title += ": "
		}
		title += designation(e.Result) + " @ " + e.Result.Nominal.String() + " mm"
	}
	fmt.Fprintf(b, "## %s\n\n", title)

	if e.Error != nil {
		fmt.Fprintf(b, "**%s:** %s\n", p.Sprintf("output.error"), escape(e.Error.Message))
		return
	}
	r := e.Result
	if r == nil {
		return
	}

	fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s |\n",
		p.Sprintf("output.component"), p.Sprintf("output.grade"),
		p.Sprintf("output.upper"), p.Sprintf("output.lower"),
		p.Sprintf("output.max_size"), p.Sprintf("output.min_size"),
		p.Sprintf("output.it"))
	b.WriteString("|---|---|---:|---:|---:|---:|---:|\n")
	for _, c := range r.Components() {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %d |\n",
			p.Sprintf("output."+c.Role.String()), c.Grade,
			engine.SignedMicrons(c.Upper), engine.SignedMicrons(c.Lower),
			c.MaxSize.StringFixed(prec), c.MinSize.StringFixed(prec), c.IT)
	}

	if r.Fit != nil {
		fmt.Fprintf(b, "\n| %s | %s | %s |\n",
			p.Sprintf("output.fit"), p.Sprintf("output.max_clearance"), p.Sprintf("output.min_clearance"))
		b.WriteString("|---|---:|---:|\n")
		fmt.Fprintf(b, "| %s | %s | %s |\n",
			engine.FitTypeName(p, r.Fit.Type),
			strconv.Itoa(r.Fit.MaxClearance), strconv.Itoa(r.Fit.MinClearance))
		if r.Fit.Description != "" {
			fmt.Fprintf(b, "\n%s\n", r.Fit.Description)
		}
	}

	if r.Recommendation != "" {
		fmt.Fprintf(b, "\n**%s:** %s\n", p.Sprintf("output.recommendation"), r.Recommendation)
	}
}

func designation(r *types.CalculationResult) string {
	switch {
	case r.Hole != nil && r.Shaft != nil:
		return r.Hole.Grade + "/" + r.Shaft.Grade
	case r.Hole != nil:
		return r.Hole.Grade
	case r.Shaft != nil:
		return r.Shaft.Grade
	}
	return ""
}

func resultLabel(p *message.Printer, r *types.CalculationResult) string {
	if r.Fit != nil {
		return engine.FitTypeName(p, r.Fit.Type)
	}
	c := r.Components()
	if len(c) == 0 {
		return ""
	}
	return c[0].MinSize.StringFixed(3) + " - " + c[0].MaxSize.StringFixed(3) + " mm"
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
