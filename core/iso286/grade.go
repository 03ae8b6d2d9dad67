// Package iso286 - Grade designation parsing
package iso286

import (
	"regexp"
	"strings"
	"unicode"

	"isofit/core/types"
	"isofit/internal/errors"
)

var gradePattern = regexp.MustCompile(`^([A-Za-z]+)([0-9]+)$`)

// Grade is a parsed tolerance designation such as H7 or g6
type Grade struct {
	Letters string `json:"letters"`
	Number  string `json:"number"`
}

// String returns the grade exactly as parsed
func (g Grade) String() string {
	return g.Letters + g.Number
}

// ParseGrade splits a designation into position letters and IT grade number.
// It checks shape only; support is checked by CalculateComponent.
func ParseGrade(code string) (Grade, error) {
	m := gradePattern.FindStringSubmatch(strings.TrimSpace(code))
	if m == nil {
		return Grade{}, errors.InvalidFormat(code)
	}
	return Grade{Letters: m[1], Number: m[2]}, nil
}

// FormatGrade renders a designation in the role's canonical case
func FormatGrade(role types.Role, letters, number string) string {
	return canonicalLetters(role, letters) + number
}

// RoleFromCase infers a role from the case of the first letter: uppercase is a
// hole, lowercase a shaft. Only single-component callers should rely on this.
func RoleFromCase(code string) (types.Role, error) {
	g, err := ParseGrade(code)
	if err != nil {
		return "", err
	}
	if unicode.IsUpper(rune(g.Letters[0])) {
		return types.RoleHole, nil
	}
	return types.RoleShaft, nil
}

func canonicalLetters(role types.Role, letters string) string {
	if role == types.RoleHole {
		return strings.ToUpper(letters)
	}
	return strings.ToLower(letters)
}
