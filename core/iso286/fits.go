// Package iso286 - Catalog of commonly used hole-basis fits
package iso286

import "isofit/core/types"

// CommonFit is a frequently used fit with its usual character
type CommonFit struct {
	Designation string        `json:"designation"`
	Hole        string        `json:"hole"`
	Shaft       string        `json:"shaft"`
	Category    string        `json:"category"`
	Type        types.FitType `json:"type"`
}

// DescriptionKey is the catalog key of the fit's usage note
func (f CommonFit) DescriptionKey() string {
	return "fits." + f.Hole + "_" + f.Shaft
}

// CategoryKey is the catalog key of the fit's category label
func (f CommonFit) CategoryKey() string {
	return "fits.category." + f.Category
}

var commonFits = []CommonFit{
	{"H9/d9", "H9", "d9", "loose_running", types.FitClearance},
	{"H8/e8", "H8", "e8", "loose_running", types.FitClearance},
	{"H8/f7", "H8", "f7", "running", types.FitClearance},
	{"H7/g6", "H7", "g6", "sliding", types.FitClearance},
	{"H7/h6", "H7", "h6", "locational", types.FitClearance},
	{"H7/k6", "H7", "k6", "locational", types.FitTransition},
	{"H7/n6", "H7", "n6", "transition", types.FitTransition},
	{"H7/p6", "H7", "p6", "press", types.FitInterference},
	{"H7/s6", "H7", "s6", "drive", types.FitInterference},
}

// CommonFits returns the common fits catalog ordered loosest to tightest
func CommonFits() []CommonFit {
	out := make([]CommonFit, len(commonFits))
	copy(out, commonFits)
	return out
}
