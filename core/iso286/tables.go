// Package iso286 implements the ISO 286 tolerance and fit calculation engine.
// Tables are read-only package data; every function is pure and safe for
// concurrent use.
package iso286

import "isofit/core/types"

// Boundaries are the upper limits (mm) of the nominal size ranges.
// Range i covers (Boundaries[i-1], Boundaries[i]]; range 0 covers (0, 3].
var Boundaries = [rangeCount]int{3, 6, 10, 18, 30, 50, 80, 120, 180, 250, 315, 400, 500}

const rangeCount = 13

// row is one value per nominal size range, in microns
type row [rangeCount]int

// itTable holds standard tolerance magnitudes for IT5..IT11
var itTable = map[string]row{
	"5":  {4, 5, 6, 8, 9, 11, 13, 15, 18, 20, 23, 25, 27},
	"6":  {6, 8, 9, 11, 13, 16, 19, 22, 25, 29, 32, 36, 40},
	"7":  {10, 12, 15, 18, 21, 25, 30, 35, 40, 46, 52, 57, 63},
	"8":  {14, 18, 22, 27, 33, 39, 46, 54, 63, 72, 81, 89, 97},
	"9":  {25, 30, 36, 43, 52, 62, 74, 87, 100, 115, 130, 140, 155},
	"10": {40, 48, 58, 70, 84, 100, 120, 140, 160, 185, 210, 230, 250},
	"11": {60, 75, 90, 110, 130, 160, 190, 220, 250, 290, 320, 360, 400},
}

// DeviationKind tells which limit a letter's fundamental deviation defines
type DeviationKind int

const (
	// DefinesUpper - the fundamental deviation is ES/es
	DefinesUpper DeviationKind = iota
	// DefinesLower - the fundamental deviation is EI/ei
	DefinesLower
)

// String returns string representation
func (k DeviationKind) String() string {
	switch k {
	case DefinesUpper:
		return "upper"
	case DefinesLower:
		return "lower"
	default:
		return "unknown"
	}
}

// letterEntry is a fundamental deviation row tagged with the limit it defines
type letterEntry struct {
	kind DeviationKind
	row  row
}

var shaftTable = map[string]letterEntry{
	"d": {DefinesUpper, row{-20, -30, -40, -50, -65, -80, -100, -120, -145, -170, -190, -210, -230}},
	"e": {DefinesUpper, row{-14, -20, -25, -32, -40, -50, -60, -72, -85, -100, -110, -125, -135}},
	"f": {DefinesUpper, row{-6, -10, -13, -16, -20, -25, -30, -36, -43, -50, -56, -62, -68}},
	"g": {DefinesUpper, row{-2, -4, -5, -6, -7, -9, -10, -12, -14, -15, -17, -18, -20}},
	"h": {DefinesUpper, row{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
	"k": {DefinesLower, row{0, 1, 1, 1, 2, 2, 2, 3, 3, 4, 4, 4, 5}},
	"m": {DefinesLower, row{2, 4, 6, 7, 8, 9, 11, 13, 15, 17, 20, 21, 23}},
	"n": {DefinesLower, row{4, 8, 10, 12, 15, 17, 20, 23, 27, 31, 34, 37, 40}},
	"p": {DefinesLower, row{6, 12, 15, 18, 22, 26, 32, 37, 43, 50, 56, 62, 68}},
	"r": {DefinesLower, row{10, 15, 19, 23, 28, 34, 41, 43, 51, 60, 66, 75, 82}},
	"s": {DefinesLower, row{14, 19, 23, 28, 35, 43, 53, 59, 79, 87, 100, 115, 130}},
}

var holeTable = map[string]letterEntry{
	"H": {DefinesLower, row{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
	"F": {DefinesLower, row{6, 10, 13, 16, 20, 25, 30, 36, 43, 50, 56, 62, 68}},
	"G": {DefinesLower, row{2, 4, 5, 6, 7, 9, 10, 12, 14, 15, 17, 18, 20}},
	"N": {DefinesUpper, row{-4, -8, -10, -12, -15, -17, -20, -23, -27, -31, -34, -37, -40}},
	"P": {DefinesUpper, row{-6, -12, -15, -18, -22, -26, -32, -37, -43, -50, -56, -62, -68}},
}

// kCoarseFrom is the first IT grade for which shaft k has ei = 0 in every range
const kCoarseFrom = 8

// Supported vocabulary, in display order.
var (
	SupportedITGrades     = []string{"5", "6", "7", "8", "9", "10", "11"}
	SupportedHoleLetters  = []string{"H", "F", "G", "N", "P"}
	SupportedShaftLetters = []string{"d", "e", "f", "g", "h", "k", "m", "n", "p", "r", "s"}
)

// ITValue returns the tolerance interval for an IT grade number and range index
func ITValue(gradeNumber string, rangeIndex int) (int, bool) {
	r, ok := itTable[gradeNumber]
	if !ok || rangeIndex < 0 || rangeIndex >= rangeCount {
		return 0, false
	}
	return r[rangeIndex], true
}

// LetterKind returns the static upper/lower classification of a supported letter.
// Letters are matched in the role's canonical case.
func LetterKind(role types.Role, letter string) (DeviationKind, bool) {
	entry, ok := lookupLetter(role, letter)
	if !ok {
		return 0, false
	}
	return entry.kind, true
}

func lookupLetter(role types.Role, letter string) (letterEntry, bool) {
	letter = canonicalLetters(role, letter)
	if role == types.RoleHole {
		entry, ok := holeTable[letter]
		return entry, ok
	}
	entry, ok := shaftTable[letter]
	return entry, ok
}
