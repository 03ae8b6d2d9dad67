// Package advisor recommends a fit from how two parts are meant to work
// together: the fit system, the primary function and the assembly condition.
package advisor

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/message"

	"isofit/core/engine"
	"isofit/core/iso286"
	"isofit/core/types"
	"isofit/internal/errors"
	"isofit/internal/i18n"
)

// System is the fit system preference
type System string

const (
	SystemGeneral System = "general"
	SystemHole    System = "hole"
	SystemShaft   System = "shaft"
)

// Function is the primary function of the joint
type Function string

const (
	FunctionMoving Function = "moving"
	FunctionFixed  Function = "fixed"
)

// Condition refines a function into a concrete fit
type Condition string

const (
	ConditionLoose     Condition = "loose"
	ConditionRunning   Condition = "running"
	ConditionPrecision Condition = "precision"
	ConditionRemovable Condition = "removable"
	ConditionRigid     Condition = "rigid"
	ConditionPermanent Condition = "permanent"
	ConditionDrive     Condition = "drive"
)

// decisions maps function and condition to a hole-basis fit
var decisions = map[Function]map[Condition]string{
	FunctionMoving: {
		ConditionLoose:     "H9/d9",
		ConditionRunning:   "H8/f7",
		ConditionPrecision: "H7/g6",
	},
	FunctionFixed: {
		ConditionRemovable: "H7/h6",
		ConditionRigid:     "H7/k6",
		ConditionPermanent: "H7/p6",
		ConditionDrive:     "H7/s6",
	},
}

// conditionOrder lists conditions loosest first
var conditionOrder = map[Function][]Condition{
	FunctionMoving: {ConditionLoose, ConditionRunning, ConditionPrecision},
	FunctionFixed:  {ConditionRemovable, ConditionRigid, ConditionPermanent, ConditionDrive},
}

// shaftBasis gives the shaft-basis equivalent of each hole-basis fit
var shaftBasis = map[string]string{
	"H9/d9": "D9/h9",
	"H8/f7": "F8/h7",
	"H7/g6": "G7/h6",
	"H7/h6": "H7/h6",
	"H7/k6": "K7/h6",
	"H7/p6": "P7/h6",
	"H7/s6": "S7/h6",
}

// Question is one pass through the decision tree
type Question struct {
	System    System
	Function  Function
	Condition Condition

	// Nominal, when set, makes the advisor calculate the recommended fit
	Nominal *decimal.Decimal

	Language string
}

// Advice is the recommended fit with its explanation
type Advice struct {
	// Designation is the fit to use in the chosen system
	Designation string `json:"designation"`

	// BaseFit is the hole-basis fit the texts describe
	BaseFit string `json:"base_fit"`

	System       System `json:"system"`
	Type         string `json:"type"`
	Explanation  string `json:"explanation"`
	Applications string `json:"applications"`
	Assembly     string `json:"assembly"`
	Language     string `json:"language"`

	// Result holds the calculated fit when a nominal size was given
	Result *types.CalculationResult `json:"result,omitempty"`

	// Note explains why no result was calculated
	Note string `json:"note,omitempty"`
}

// Calculator runs a tolerance calculation
type Calculator interface {
	Calculate(ctx context.Context, req engine.Request) (*types.CalculationResult, error)
}

// Conditions returns the conditions available for a function, loosest first
func Conditions(f Function) []Condition {
	return append([]Condition(nil), conditionOrder[f]...)
}

// Recommend walks the decision tree without calculating anything. It returns
// the designation in the chosen system and the hole-basis fit it derives from.
func Recommend(system System, function Function, condition Condition) (designation, baseFit string, err error) {
	switch system {
	case SystemGeneral, SystemHole, SystemShaft:
	default:
		return "", "", errors.Newf(errors.TypeInput, "unknown fit system %q (want general, hole or shaft)", system).
			WithField("system", string(system))
	}

	byCondition, ok := decisions[function]
	if !ok {
		return "", "", errors.Newf(errors.TypeInput, "unknown function %q (want moving or fixed)", function).
			WithField("function", string(function))
	}

	baseFit, ok = byCondition[condition]
	if !ok {
		return "", "", errors.Newf(errors.TypeInput, "condition %q does not apply to %s parts", condition, function).
			WithField("condition", string(condition))
	}

	designation = baseFit
	if system == SystemShaft {
		designation = shaftBasis[baseFit]
	}
	return designation, baseFit, nil
}

// Advise answers a question, calculating the fit when a nominal size is
// given and both grades of the designation are covered by the tables.
func Advise(ctx context.Context, calc Calculator, q Question) (*Advice, error) {
	designation, baseFit, err := Recommend(q.System, q.Function, q.Condition)
	if err != nil {
		return nil, err
	}

	tag := i18n.Match(q.Language)
	p := message.NewPrinter(tag)
	prefix := "advisor." + strings.ReplaceAll(baseFit, "/", "_")

	advice := &Advice{
		Designation:  designation,
		BaseFit:      baseFit,
		System:       q.System,
		Type:         p.Sprintf(prefix + ".type"),
		Explanation:  p.Sprintf(prefix + ".explanation"),
		Applications: p.Sprintf(prefix + ".applications"),
		Assembly:     p.Sprintf(prefix + ".assembly"),
		Language:     tag.String(),
	}

	if q.Nominal == nil {
		return advice, nil
	}

	hole, shaft, err := iso286.ParseFit(designation)
	if err != nil {
		return nil, err
	}
	if !covered(types.RoleHole, hole) || !covered(types.RoleShaft, shaft) {
		advice.Note = p.Sprintf("advisor.note.not_calculated", designation)
		return advice, nil
	}

	result, err := calc.Calculate(ctx, engine.Request{
		Nominal:  *q.Nominal,
		Mode:     types.ModeFit,
		Grade1:   hole,
		Grade2:   shaft,
		Language: q.Language,
	})
	if err != nil {
		return nil, err
	}
	advice.Result = result
	return advice, nil
}

func covered(role types.Role, grade string) bool {
	g, err := iso286.ParseGrade(grade)
	if err != nil {
		return false
	}
	_, ok := iso286.LetterKind(role, g.Letters)
	return ok
}
