// Package iso286 - Deviation derivation for one component
package iso286

import (
	"strconv"

	"github.com/shopspring/decimal"

	"isofit/core/types"
	"isofit/internal/errors"
)

// micronsPerMM converts deviations to millimeter limits
const micronsPerMM = 3

// CalculateComponent computes the tolerance zone of one hole or shaft.
// Role is always explicit here; case is only used to normalize lookups.
func CalculateComponent(nominal decimal.Decimal, grade string, role types.Role) (*types.ToleranceResult, error) {
	if !role.IsValid() {
		return nil, errors.Newf(errors.TypeInput, "invalid role %q", role)
	}

	rangeIdx, err := ResolveRange(nominal)
	if err != nil {
		return nil, err
	}

	g, err := ParseGrade(grade)
	if err != nil {
		return nil, err
	}

	it, ok := ITValue(g.Number, rangeIdx)
	if !ok {
		return nil, errors.UnsupportedGrade(g.Number)
	}

	kind, fd, err := fundamentalDeviation(role, g, rangeIdx)
	if err != nil {
		return nil, err
	}

	var upper, lower int
	switch kind {
	case DefinesUpper:
		upper = fd
		lower = upper - it
	default:
		lower = fd
		upper = lower + it
	}

	return &types.ToleranceResult{
		Grade:      FormatGrade(role, g.Letters, g.Number),
		Role:       role,
		Upper:      upper,
		Lower:      lower,
		MaxSize:    nominal.Add(decimal.New(int64(upper), -micronsPerMM)),
		MinSize:    nominal.Add(decimal.New(int64(lower), -micronsPerMM)),
		IT:         it,
		RangeIndex: rangeIdx,
	}, nil
}

// fundamentalDeviation looks up the letter's deviation for a range.
// Hole H is the zero-line hole and resolves even without a table row.
func fundamentalDeviation(role types.Role, g Grade, rangeIdx int) (DeviationKind, int, error) {
	letters := canonicalLetters(role, g.Letters)
	entry, ok := lookupLetter(role, letters)
	if !ok {
		if role == types.RoleHole && letters == "H" {
			return DefinesLower, 0, nil
		}
		return 0, 0, errors.UnsupportedLetter(role.String(), letters)
	}

	if role == types.RoleShaft && letters == "k" {
		if n, err := strconv.Atoi(g.Number); err == nil && n >= kCoarseFrom {
			return entry.kind, 0, nil
		}
	}
	return entry.kind, entry.row[rangeIdx], nil
}
