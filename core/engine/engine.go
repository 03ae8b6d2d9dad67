// Package engine is the entry point of a tolerance calculation: it resolves
// roles, runs the ISO 286 lookups for each component, classifies the fit and
// renders the localized texts of the result.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"isofit/core/iso286"
	"isofit/core/types"
	"isofit/internal/errors"
	"isofit/internal/logging"
)

// Standard is the reference reported with every result
const Standard = "ISO 286-1:2010"

// Request is one calculation request
type Request struct {
	// Nominal is the basic size in millimeters
	Nominal decimal.Decimal

	// Mode selects a single component or a hole/shaft fit
	Mode types.Mode

	// Grade1 is the hole in fit mode, or the only component in single mode
	Grade1 string

	// Grade2 is the shaft in fit mode and ignored in single mode
	Grade2 string

	// Language is a language preference such as "de" or an Accept-Language value
	Language string
}

// Observer receives the outcome of every calculation run through an Engine
type Observer interface {
	ObserveCalculation(mode types.Mode, fit types.FitType, elapsed time.Duration)
	ObserveError(kind errors.Type)
}

// EngineConfig holds the defaults applied to incomplete requests
type EngineConfig struct {
	// DefaultLanguage is used when a request has no language
	DefaultLanguage string
}

// Engine applies configured defaults and reports outcomes to an Observer.
// CLI, HTTP and batch callers share one Engine.
type Engine struct {
	config   EngineConfig
	observer Observer
}

// NewEngine creates an engine; observer may be nil
func NewEngine(config EngineConfig, observer Observer) *Engine {
	return &Engine{config: config, observer: observer}
}

// Calculate fills request defaults and runs CalculateTolerance. A request
// without a mode is a fit when it names two grades and single otherwise.
func (e *Engine) Calculate(ctx context.Context, req Request) (*types.CalculationResult, error) {
	if req.Mode == "" {
		req.Mode = types.ModeSingle
		if strings.TrimSpace(req.Grade2) != "" {
			req.Mode = types.ModeFit
		}
	}
	if strings.TrimSpace(req.Language) == "" {
		req.Language = e.config.DefaultLanguage
	}

	start := time.Now()
	result, err := CalculateTolerance(ctx, req)
	if e.observer != nil {
		if err != nil {
			e.observer.ObserveError(errors.TypeOf(err))
		} else {
			e.observer.ObserveCalculation(result.Mode, result.FitType(), time.Since(start))
		}
	}
	return result, err
}

// InferRole decides the role of a single component from its letter case:
// uppercase is a hole, lowercase a shaft.
func InferRole(grade string) (types.Role, error) {
	return iso286.RoleFromCase(grade)
}

// CalculateTolerance computes a complete result. Any failing input aborts the
// whole calculation; the error carries the failing field in its context.
func CalculateTolerance(ctx context.Context, req Request) (*types.CalculationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := calculate(req)
	if err != nil {
		logging.Debug("calculation failed",
			zap.String("nominal", req.Nominal.String()),
			zap.String("mode", req.Mode.String()),
			zap.String("grade1", req.Grade1),
			zap.String("grade2", req.Grade2),
			zap.String("kind", string(errors.TypeOf(err))),
		)
		return nil, err
	}

	logging.Debug("calculation complete",
		zap.String("nominal", req.Nominal.String()),
		zap.String("mode", req.Mode.String()),
		zap.String("grade1", req.Grade1),
		zap.String("grade2", req.Grade2),
		zap.String("fit_type", result.FitType().String()),
	)
	return result, nil
}

func calculate(req Request) (*types.CalculationResult, error) {
	if !req.Mode.IsValid() {
		return nil, errors.Newf(errors.TypeInput, "invalid mode %q (want single or fit)", req.Mode).
			WithField("mode", req.Mode.String())
	}

	if _, err := iso286.ResolveRange(req.Nominal); err != nil {
		return nil, err
	}

	grade1 := strings.TrimSpace(req.Grade1)
	grade2 := strings.TrimSpace(req.Grade2)
	if grade1 == "" {
		return nil, errors.MissingGrade("grade1")
	}

	result := &types.CalculationResult{
		Nominal:  req.Nominal,
		Mode:     req.Mode,
		Standard: Standard,
	}

	switch req.Mode {
	case types.ModeFit:
		if grade2 == "" {
			return nil, errors.MissingGrade("grade2")
		}
		hole, err := component(req.Nominal, grade1, types.RoleHole, "grade1")
		if err != nil {
			return nil, err
		}
		shaft, err := component(req.Nominal, grade2, types.RoleShaft, "grade2")
		if err != nil {
			return nil, err
		}
		fit := iso286.ClassifyFit(hole, shaft)
		result.Hole, result.Shaft, result.Fit = hole, shaft, &fit

	default:
		role, err := InferRole(grade1)
		if err != nil {
			return nil, fieldError(err, "grade1")
		}
		zone, err := component(req.Nominal, grade1, role, "grade1")
		if err != nil {
			return nil, err
		}
		if role == types.RoleHole {
			result.Hole = zone
		} else {
			result.Shaft = zone
		}
	}

	var holeGrade, shaftGrade string
	if result.Hole != nil {
		holeGrade = result.Hole.Grade
	}
	if result.Shaft != nil {
		shaftGrade = result.Shaft.Grade
	}
	result.RecommendationKey = iso286.Recommend(holeGrade, shaftGrade, result.FitType()).String()

	Localize(result, req.Language)
	return result, nil
}

func component(nominal decimal.Decimal, grade string, role types.Role, field string) (*types.ToleranceResult, error) {
	zone, err := iso286.CalculateComponent(nominal, grade, role)
	if err != nil {
		return nil, fieldError(err, field)
	}
	return zone, nil
}

// fieldError tags grade errors with the request field they came from.
// Range errors already name the nominal field.
func fieldError(err error, field string) error {
	if e, ok := errors.As(err); ok && e.Field() == "" {
		e.WithContext("field", field)
	}
	return err
}
