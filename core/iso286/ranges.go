// Package iso286 - Nominal size range resolution
package iso286

import (
	"github.com/shopspring/decimal"

	"isofit/internal/errors"
)

// MaxNominal is the largest supported nominal size in millimeters
var MaxNominal = decimal.NewFromInt(500)

// SizeRange is one nominal size interval (Lower, Upper] in millimeters
type SizeRange struct {
	Index int `json:"index"`
	Lower int `json:"lower_mm"`
	Upper int `json:"upper_mm"`
}

// Ranges returns all nominal size ranges in ascending order
func Ranges() []SizeRange {
	out := make([]SizeRange, rangeCount)
	lower := 0
	for i, upper := range Boundaries {
		out[i] = SizeRange{Index: i, Lower: lower, Upper: upper}
		lower = upper
	}
	return out
}

// ResolveRange returns the index of the range containing nominal.
// Boundaries are inclusive-upper: 3 mm belongs to range 0, not 1.
func ResolveRange(nominal decimal.Decimal) (int, error) {
	if !nominal.IsPositive() || nominal.GreaterThan(MaxNominal) {
		return -1, errors.OutOfRange(nominal.String())
	}
	for i, b := range Boundaries {
		if nominal.LessThanOrEqual(decimal.NewFromInt(int64(b))) {
			return i, nil
		}
	}
	return -1, errors.OutOfRange(nominal.String())
}
