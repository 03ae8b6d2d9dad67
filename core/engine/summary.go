package engine

import (
	"strconv"
	"strings"

	"golang.org/x/text/message"

	"isofit/core/types"
	"isofit/internal/i18n"
)

// Localize fills the language-dependent fields of a result: the fit
// description, the recommendation text and the plain-text summary.
func Localize(result *types.CalculationResult, lang string) {
	tag := i18n.Match(lang)
	p := message.NewPrinter(tag)

	result.Language = tag.String()
	if result.Fit != nil {
		result.Fit.Description = FitDescription(p, result.Fit)
	}
	if result.RecommendationKey != "" {
		result.Recommendation = p.Sprintf(result.RecommendationKey)
	}
	result.Summary = Summary(p, result, DefaultPrecision)
}

// DefaultPrecision is the number of decimals for millimeter limits
const DefaultPrecision int32 = 3

// FitDescription renders the sentence describing a fit's extremes. The
// micrometer values keep plain digits in every language.
func FitDescription(p *message.Printer, fit *types.FitResult) string {
	switch fit.Type {
	case types.FitClearance:
		return p.Sprintf("fit.clearance.description", strconv.Itoa(fit.MaxClearance), strconv.Itoa(fit.MinClearance))
	case types.FitInterference:
		return p.Sprintf("fit.interference.description", strconv.Itoa(deref(fit.MaxInterference)), strconv.Itoa(deref(fit.MinInterference)))
	case types.FitTransition:
		return p.Sprintf("fit.transition.description", strconv.Itoa(fit.MaxClearance), strconv.Itoa(deref(fit.MaxInterference)))
	default:
		return ""
	}
}

// FitTypeName returns the localized name of a fit type
func FitTypeName(p *message.Printer, t types.FitType) string {
	return p.Sprintf("fit.type." + t.Key())
}

// Summary renders the plain-text form of a result from its structured fields,
// with limits rounded to places decimals. Numbers are passed pre-formatted so
// every language shows the same digits.
func Summary(p *message.Printer, result *types.CalculationResult, places int32) string {
	var b strings.Builder
	line := func(key string, args ...interface{}) {
		b.WriteString(p.Sprintf(key, args...))
		b.WriteByte('\n')
	}

	line("summary.nominal", result.Nominal.String())
	b.WriteByte('\n')

	if result.Hole != nil {
		line("summary.hole", result.Hole.Grade)
		line("summary.upper_hole", SignedMicrons(result.Hole.Upper))
		line("summary.lower_hole", SignedMicrons(result.Hole.Lower))
		line("summary.limits", result.Hole.MinSize.StringFixed(places), result.Hole.MaxSize.StringFixed(places))
		b.WriteByte('\n')
	}

	if result.Shaft != nil {
		line("summary.shaft", result.Shaft.Grade)
		line("summary.upper_shaft", SignedMicrons(result.Shaft.Upper))
		line("summary.lower_shaft", SignedMicrons(result.Shaft.Lower))
		line("summary.limits", result.Shaft.MinSize.StringFixed(places), result.Shaft.MaxSize.StringFixed(places))
		b.WriteByte('\n')
	}

	if result.Fit != nil {
		line("summary.fit", FitTypeName(p, result.Fit.Type))
		if result.Fit.Description != "" {
			b.WriteString(result.Fit.Description)
			b.WriteByte('\n')
		}
	}

	if result.Recommendation != "" {
		line("summary.recommendation", result.Recommendation)
	}
	if result.Standard != "" {
		line("summary.standard", result.Standard)
	}

	return strings.TrimRight(b.String(), "\n")
}

// SignedMicrons formats a deviation with an explicit plus sign when positive
func SignedMicrons(v int) string {
	if v > 0 {
		return "+" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
