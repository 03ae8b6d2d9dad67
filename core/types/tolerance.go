// Package types - Tolerance and fit result types
package types

import "github.com/shopspring/decimal"

// ToleranceResult is the computed tolerance zone of one component
type ToleranceResult struct {
	// Grade is the case-normalized grade label (H7, g6)
	Grade string `json:"grade"`

	// Role is hole or shaft
	Role Role `json:"role"`

	// Upper is the upper deviation ES/es in microns
	Upper int `json:"upper_deviation"`

	// Lower is the lower deviation EI/ei in microns
	Lower int `json:"lower_deviation"`

	// MaxSize is nominal + Upper/1000 in millimeters
	MaxSize decimal.Decimal `json:"max_size"`

	// MinSize is nominal + Lower/1000 in millimeters
	MinSize decimal.Decimal `json:"min_size"`

	// IT is the tolerance interval in microns
	IT int `json:"it_value"`

	// RangeIndex is the nominal size range used for the lookups
	RangeIndex int `json:"range_index"`
}

// Width returns the zone width in microns (always equal to IT)
func (t *ToleranceResult) Width() int {
	return t.Upper - t.Lower
}

// FitResult classifies a hole/shaft pair. Clearance values are signed:
// positive means clearance, negative means interference.
type FitResult struct {
	Type FitType `json:"type"`

	// MaxClearance is hole.ES - shaft.ei
	MaxClearance int `json:"max_clearance"`

	// MinClearance is hole.EI - shaft.es
	MinClearance int `json:"min_clearance"`

	// MaxInterference is set when interference is possible
	MaxInterference *int `json:"max_interference,omitempty"`

	// MinInterference is set only for interference fits
	MinInterference *int `json:"min_interference,omitempty"`

	// Description is filled by the presentation layer for the requested language
	Description string `json:"description,omitempty"`
}

// CalculationResult is the complete output of one calculation request
type CalculationResult struct {
	Nominal           decimal.Decimal  `json:"nominal_size"`
	Mode              Mode             `json:"mode"`
	Hole              *ToleranceResult `json:"hole,omitempty"`
	Shaft             *ToleranceResult `json:"shaft,omitempty"`
	Fit               *FitResult       `json:"fit,omitempty"`
	Recommendation    string           `json:"recommendation"`
	RecommendationKey string           `json:"recommendation_key"`
	Standard          string           `json:"iso_standard"`
	Language          string           `json:"language"`
	Summary           string           `json:"text_summary"`
}

// FitType returns the fit classification, or FitUnknown when no fit was computed
func (r *CalculationResult) FitType() FitType {
	if r.Fit == nil {
		return FitUnknown
	}
	return r.Fit.Type
}

// Components returns the computed tolerance zones in hole, shaft order
func (r *CalculationResult) Components() []*ToleranceResult {
	out := make([]*ToleranceResult, 0, 2)
	if r.Hole != nil {
		out = append(out, r.Hole)
	}
	if r.Shaft != nil {
		out = append(out, r.Shaft)
	}
	return out
}
