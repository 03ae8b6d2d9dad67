package iso286

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"isofit/core/types"
	"isofit/internal/errors"
)

func mm(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, mm(want).Equal(got), "want %s mm, got %s mm", want, got)
}

func TestCalculateComponentH7g6At40(t *testing.T) {
	hole, err := CalculateComponent(mm("40"), "H7", types.RoleHole)
	require.NoError(t, err)
	assert.Equal(t, "H7", hole.Grade)
	assert.Equal(t, 25, hole.Upper)
	assert.Equal(t, 0, hole.Lower)
	assert.Equal(t, 25, hole.IT)
	assert.Equal(t, 5, hole.RangeIndex)
	assertDecimal(t, "40.025", hole.MaxSize)
	assertDecimal(t, "40.000", hole.MinSize)

	shaft, err := CalculateComponent(mm("40"), "g6", types.RoleShaft)
	require.NoError(t, err)
	assert.Equal(t, "g6", shaft.Grade)
	assert.Equal(t, -9, shaft.Upper)
	assert.Equal(t, -25, shaft.Lower)
	assertDecimal(t, "39.991", shaft.MaxSize)
	assertDecimal(t, "39.975", shaft.MinSize)
}

func TestCalculateComponentLowerDefiningShaft(t *testing.T) {
	shaft, err := CalculateComponent(mm("40"), "p6", types.RoleShaft)
	require.NoError(t, err)

	// p defines ei; es follows from IT6.
	assert.Equal(t, 26, shaft.Lower)
	assert.Equal(t, 26+16, shaft.Upper)
}

func TestCalculateComponentUpperDefiningHole(t *testing.T) {
	hole, err := CalculateComponent(mm("40"), "N7", types.RoleHole)
	require.NoError(t, err)
	assert.Equal(t, -17, hole.Upper)
	assert.Equal(t, -17-25, hole.Lower)
}

func TestCalculateComponentNormalizesCase(t *testing.T) {
	hole, err := CalculateComponent(mm("40"), "h7", types.RoleHole)
	require.NoError(t, err)
	assert.Equal(t, "H7", hole.Grade)
	assert.Equal(t, 0, hole.Lower)

	shaft, err := CalculateComponent(mm("40"), "G6", types.RoleShaft)
	require.NoError(t, err)
	assert.Equal(t, "g6", shaft.Grade)
	assert.Equal(t, -9, shaft.Upper)
}

func TestH7IsZeroLineHole(t *testing.T) {
	for _, r := range Ranges() {
		for _, nominal := range []decimal.Decimal{
			decimal.NewFromInt(int64(r.Upper)),
			decimal.NewFromInt(int64(r.Lower)).Add(mm("0.5")),
		} {
			hole, err := CalculateComponent(nominal, "H7", types.RoleHole)
			require.NoError(t, err)

			it, ok := ITValue("7", r.Index)
			require.True(t, ok)
			assert.Equal(t, 0, hole.Lower, "nominal %s", nominal)
			assert.Equal(t, it, hole.Upper-hole.Lower, "nominal %s", nominal)
		}
	}
}

func TestZoneWidthEqualsIT(t *testing.T) {
	cases := []struct {
		role    types.Role
		letters []string
	}{
		{types.RoleHole, SupportedHoleLetters},
		{types.RoleShaft, SupportedShaftLetters},
	}

	for _, r := range Ranges() {
		nominal := decimal.NewFromInt(int64(r.Upper))
		for _, c := range cases {
			for _, letter := range c.letters {
				for _, number := range SupportedITGrades {
					res, err := CalculateComponent(nominal, letter+number, c.role)
					require.NoError(t, err)
					assert.Equal(t, res.IT, res.Width(), "%s at %s", res.Grade, nominal)
					assert.True(t, res.MaxSize.GreaterThanOrEqual(res.MinSize), "%s at %s", res.Grade, nominal)
				}
			}
		}
	}
}

func TestShaftKDependsOnITGrade(t *testing.T) {
	tests := []struct {
		grade   string
		nominal string
		lower   int
		upper   int
	}{
		{"k6", "40", 2, 18},
		{"k7", "40", 2, 27},
		{"k6", "5", 1, 9},
		{"k6", "2", 0, 6},
		{"k5", "100", 3, 18},
		{"k8", "40", 0, 39},
		{"k11", "40", 0, 160},
	}

	for _, tt := range tests {
		t.Run(tt.grade+"@"+tt.nominal, func(t *testing.T) {
			res, err := CalculateComponent(mm(tt.nominal), tt.grade, types.RoleShaft)
			require.NoError(t, err)
			assert.Equal(t, tt.lower, res.Lower)
			assert.Equal(t, tt.upper, res.Upper)
		})
	}
}

func TestCalculateComponentErrors(t *testing.T) {
	tests := []struct {
		name    string
		nominal string
		grade   string
		role    types.Role
		want    errors.Type
	}{
		{"digits before letters", "40", "7H", types.RoleHole, errors.TypeInvalidFormat},
		{"size above range", "600", "H7", types.RoleHole, errors.TypeOutOfRange},
		{"size checked before grade", "600", "7H", types.RoleHole, errors.TypeOutOfRange},
		{"zero size", "0", "H7", types.RoleHole, errors.TypeOutOfRange},
		{"unknown hole letter", "40", "Z7", types.RoleHole, errors.TypeUnsupportedLetter},
		{"unknown shaft letter", "40", "x6", types.RoleShaft, errors.TypeUnsupportedLetter},
		{"shaft-only letter as hole", "40", "D9", types.RoleHole, errors.TypeUnsupportedLetter},
		{"coarse IT grade", "40", "H12", types.RoleHole, errors.TypeUnsupportedGrade},
		{"fine IT grade", "40", "g4", types.RoleShaft, errors.TypeUnsupportedGrade},
		{"grade checked before letter", "40", "Z12", types.RoleHole, errors.TypeUnsupportedGrade},
		{"invalid role", "40", "H7", types.Role("pin"), errors.TypeInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := CalculateComponent(mm(tt.nominal), tt.grade, tt.role)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Equal(t, tt.want, errors.TypeOf(err), "got %v", err)
		})
	}
}

func TestLetterKindClassification(t *testing.T) {
	shaftKinds := map[string]DeviationKind{
		"d": DefinesUpper, "e": DefinesUpper, "f": DefinesUpper, "g": DefinesUpper, "h": DefinesUpper,
		"k": DefinesLower, "m": DefinesLower, "n": DefinesLower, "p": DefinesLower, "r": DefinesLower, "s": DefinesLower,
	}
	holeKinds := map[string]DeviationKind{
		"F": DefinesLower, "G": DefinesLower, "H": DefinesLower,
		"N": DefinesUpper, "P": DefinesUpper,
	}

	require.Len(t, shaftKinds, len(SupportedShaftLetters))
	for _, letter := range SupportedShaftLetters {
		kind, ok := LetterKind(types.RoleShaft, letter)
		require.True(t, ok, letter)
		assert.Equal(t, shaftKinds[letter], kind, "shaft %s", letter)
	}

	require.Len(t, holeKinds, len(SupportedHoleLetters))
	for _, letter := range SupportedHoleLetters {
		kind, ok := LetterKind(types.RoleHole, letter)
		require.True(t, ok, letter)
		assert.Equal(t, holeKinds[letter], kind, "hole %s", letter)
	}

	_, ok := LetterKind(types.RoleShaft, "z")
	assert.False(t, ok)
}

func TestITTableMonotonic(t *testing.T) {
	for gi, number := range SupportedITGrades {
		for r := 0; r < rangeCount; r++ {
			v, ok := ITValue(number, r)
			require.True(t, ok)
			if r > 0 {
				prev, _ := ITValue(number, r-1)
				assert.GreaterOrEqual(t, v, prev, "IT%s range %d", number, r)
			}
			if gi > 0 {
				coarser := v
				finer, _ := ITValue(SupportedITGrades[gi-1], r)
				assert.GreaterOrEqual(t, coarser, finer, "IT%s range %d", number, r)
			}
		}
	}

	_, ok := ITValue("12", 0)
	assert.False(t, ok)
	_, ok = ITValue("7", rangeCount)
	assert.False(t, ok)
}
