// Package iso286 - Recommendation selection
package iso286

import (
	"strings"

	"isofit/core/types"
)

// RecommendationKey identifies a canned recommendation text in the locale catalogs
type RecommendationKey string

// String returns the catalog key
func (k RecommendationKey) String() string {
	return string(k)
}

const (
	// RecommendStandardZone applies when no fit exists
	RecommendStandardZone RecommendationKey = "recommend.standard_zone"

	recommendGenericPrefix   = "recommend.generic."
	recommendHoleBasisPrefix = "recommend.hole_basis."
)

// holeBasisAdvice lists shaft letters with a specific hole-basis recommendation
var holeBasisAdvice = map[byte]bool{
	'd': true, 'e': true, 'f': true, 'g': true, 'h': true,
	'k': true, 'm': true, 'n': true, 'p': true, 'r': true, 's': true,
}

// Recommend selects a recommendation: a hole-basis entry keyed by the shaft
// letter when the hole is H-based, else a generic entry for the fit type,
// else the standard tolerance zone.
func Recommend(holeGrade, shaftGrade string, fit types.FitType) RecommendationKey {
	hole := strings.ToUpper(strings.TrimSpace(holeGrade))
	shaft := strings.ToLower(strings.TrimSpace(shaftGrade))

	if fit != types.FitUnknown && strings.HasPrefix(hole, "H") && shaft != "" && holeBasisAdvice[shaft[0]] {
		return RecommendationKey(recommendHoleBasisPrefix + shaft[:1])
	}

	switch fit {
	case types.FitClearance, types.FitInterference, types.FitTransition:
		return RecommendationKey(recommendGenericPrefix + fit.Key())
	default:
		return RecommendStandardZone
	}
}
