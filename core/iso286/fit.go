// Package iso286 - Fit classification and fit designations
package iso286

import (
	"strings"

	"isofit/core/types"
	"isofit/internal/errors"
)

// ClassifyFit classifies a hole/shaft pair from their deviations alone.
// Descriptions are left empty for the presentation layer to localize.
func ClassifyFit(hole, shaft *types.ToleranceResult) types.FitResult {
	maxClearance := hole.Upper - shaft.Lower
	minClearance := hole.Lower - shaft.Upper

	fit := types.FitResult{
		MaxClearance: maxClearance,
		MinClearance: minClearance,
	}

	switch {
	case minClearance >= 0:
		fit.Type = types.FitClearance
	case maxClearance <= 0:
		fit.Type = types.FitInterference
		fit.MaxInterference = intPtr(-minClearance)
		fit.MinInterference = intPtr(-maxClearance)
	default:
		fit.Type = types.FitTransition
		fit.MaxInterference = intPtr(-minClearance)
	}
	return fit
}

// ParseFit splits a fit designation such as "H7/g6" into hole and shaft grades
func ParseFit(designation string) (hole, shaft string, err error) {
	parts := strings.Split(strings.TrimSpace(designation), "/")
	if len(parts) != 2 {
		return "", "", errors.InvalidFormat(designation)
	}
	hole, shaft = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if _, err := ParseGrade(hole); err != nil {
		return "", "", err
	}
	if _, err := ParseGrade(shaft); err != nil {
		return "", "", err
	}
	return hole, shaft, nil
}

func intPtr(v int) *int {
	return &v
}
