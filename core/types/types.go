// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions.
package types

// Role identifies which mating part a tolerance zone belongs to
type Role string

const (
	RoleHole  Role = "hole"
	RoleShaft Role = "shaft"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleHole, RoleShaft:
		return true
	default:
		return false
	}
}

// Mode selects between a single tolerance zone and a hole/shaft fit
type Mode string

const (
	ModeSingle Mode = "single"
	ModeFit    Mode = "fit"
)

// String returns the string representation of the mode
func (m Mode) String() string {
	return string(m)
}

// IsValid checks if the mode is a known mode
func (m Mode) IsValid() bool {
	switch m {
	case ModeSingle, ModeFit:
		return true
	default:
		return false
	}
}

// FitType classifies a hole/shaft pair
type FitType string

const (
	FitClearance    FitType = "Clearance"
	FitTransition   FitType = "Transition"
	FitInterference FitType = "Interference"

	// FitUnknown applies when no fit exists (single-component mode)
	FitUnknown FitType = "Unknown"
)

// String returns the string representation of the fit type
func (f FitType) String() string {
	return string(f)
}

// Key returns the lowercase catalog key segment for the fit type
func (f FitType) Key() string {
	switch f {
	case FitClearance:
		return "clearance"
	case FitTransition:
		return "transition"
	case FitInterference:
		return "interference"
	default:
		return "unknown"
	}
}
