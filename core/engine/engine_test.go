package engine

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"isofit/core/types"
	"isofit/internal/errors"
)

func fitRequest(nominal, hole, shaft string) Request {
	return Request{
		Nominal: decimal.RequireFromString(nominal),
		Mode:    types.ModeFit,
		Grade1:  hole,
		Grade2:  shaft,
	}
}

func TestCalculateToleranceClearanceFit(t *testing.T) {
	res, err := CalculateTolerance(context.Background(), fitRequest("40", "H7", "g6"))
	require.NoError(t, err)

	require.NotNil(t, res.Hole)
	require.NotNil(t, res.Shaft)
	require.NotNil(t, res.Fit)

	assert.Equal(t, 25, res.Hole.Upper)
	assert.Equal(t, 0, res.Hole.Lower)
	assert.Equal(t, "40.025", res.Hole.MaxSize.StringFixed(3))
	assert.Equal(t, "40.000", res.Hole.MinSize.StringFixed(3))
	assert.Equal(t, -9, res.Shaft.Upper)
	assert.Equal(t, -25, res.Shaft.Lower)

	assert.Equal(t, types.FitClearance, res.Fit.Type)
	assert.Equal(t, 50, res.Fit.MaxClearance)
	assert.Equal(t, 9, res.Fit.MinClearance)
	assert.Equal(t, "Always a gap. Max gap: 50 µm, Min gap: 9 µm.", res.Fit.Description)

	assert.Equal(t, "recommend.hole_basis.g", res.RecommendationKey)
	assert.Equal(t, "Precision Sliding Fit - Parts move/slide accurately.", res.Recommendation)
	assert.Equal(t, Standard, res.Standard)
	assert.Equal(t, "en", res.Language)
}

func TestCalculateTolerancePressFitFollowsSigns(t *testing.T) {
	res, err := CalculateTolerance(context.Background(), fitRequest("40", "H7", "p6"))
	require.NoError(t, err)

	assert.Equal(t, 5, res.Hole.RangeIndex)
	assert.Equal(t, res.Hole.Upper-res.Shaft.Lower, res.Fit.MaxClearance)
	assert.Equal(t, res.Hole.Lower-res.Shaft.Upper, res.Fit.MinClearance)

	if res.Fit.MaxClearance <= 0 {
		assert.Equal(t, types.FitInterference, res.Fit.Type)
	} else {
		assert.Equal(t, types.FitTransition, res.Fit.Type)
	}
}

func TestCalculateToleranceSingleMode(t *testing.T) {
	tests := []struct {
		grade     string
		wantHole  bool
		wantGrade string
	}{
		{"H7", true, "H7"},
		{"F8", true, "F8"},
		{"g6", false, "g6"},
		{"k6", false, "k6"},
	}

	for _, tt := range tests {
		t.Run(tt.grade, func(t *testing.T) {
			res, err := CalculateTolerance(context.Background(), Request{
				Nominal: decimal.RequireFromString("25"),
				Mode:    types.ModeSingle,
				Grade1:  tt.grade,
				Grade2:  "ignored",
			})
			require.NoError(t, err)
			assert.Nil(t, res.Fit)
			assert.Equal(t, types.FitUnknown, res.FitType())
			assert.Equal(t, "recommend.standard_zone", res.RecommendationKey)

			components := res.Components()
			require.Len(t, components, 1)
			assert.Equal(t, tt.wantGrade, components[0].Grade)
			if tt.wantHole {
				assert.NotNil(t, res.Hole)
				assert.Nil(t, res.Shaft)
			} else {
				assert.Nil(t, res.Hole)
				assert.NotNil(t, res.Shaft)
			}
		})
	}
}

func TestCalculateToleranceFitModeIsPositional(t *testing.T) {
	// letter case never decides roles in fit mode
	res, err := CalculateTolerance(context.Background(), fitRequest("40", "h7", "G6"))
	require.NoError(t, err)
	assert.Equal(t, "H7", res.Hole.Grade)
	assert.Equal(t, "g6", res.Shaft.Grade)
	assert.Equal(t, types.FitClearance, res.Fit.Type)
}

func TestCalculateToleranceErrors(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		kind  errors.Type
		field string
	}{
		{"bad format", fitRequest("40", "7H", "g6"), errors.TypeInvalidFormat, "grade1"},
		{"out of range", fitRequest("600", "H7", "g6"), errors.TypeOutOfRange, "nominal"},
		{"out of range beats format", fitRequest("600", "7H", "6g"), errors.TypeOutOfRange, "nominal"},
		{"unsupported hole letter", fitRequest("40", "Z7", "g6"), errors.TypeUnsupportedLetter, "grade1"},
		{"unsupported grade", fitRequest("40", "H12", "g6"), errors.TypeUnsupportedGrade, "grade1"},
		{"bad shaft aborts valid hole", fitRequest("40", "H7", "x6"), errors.TypeUnsupportedLetter, "grade2"},
		{"missing shaft", fitRequest("40", "H7", " "), errors.TypeMissingGrade, "grade2"},
		{"missing hole", fitRequest("40", "", "g6"), errors.TypeMissingGrade, "grade1"},
		{"single bad format", Request{Nominal: decimal.NewFromInt(40), Mode: types.ModeSingle, Grade1: "6g"}, errors.TypeInvalidFormat, "grade1"},
		{"bad mode", Request{Nominal: decimal.NewFromInt(40), Mode: "pair", Grade1: "H7"}, errors.TypeInput, "mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := CalculateTolerance(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, res)

			e, ok := errors.As(err)
			require.True(t, ok, "got %T", err)
			assert.Equal(t, tt.kind, e.Type)
			assert.Equal(t, tt.field, e.Field())
		})
	}
}

func TestCalculateToleranceCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CalculateTolerance(ctx, fitRequest("40", "H7", "g6"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCalculateToleranceLocalized(t *testing.T) {
	req := fitRequest("40", "H7", "k6")
	req.Language = "de-DE"

	res, err := CalculateTolerance(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "de", res.Language)
	assert.Equal(t, types.FitTransition, res.Fit.Type)
	assert.Contains(t, res.Summary, "Übergangspassung")

	en, err := CalculateTolerance(context.Background(), fitRequest("40", "H7", "k6"))
	require.NoError(t, err)
	assert.NotEqual(t, en.Recommendation, res.Recommendation)

	// structured values never depend on language
	assert.Equal(t, en.Hole, res.Hole)
	assert.Equal(t, en.Shaft, res.Shaft)
	assert.Equal(t, en.Fit.MaxClearance, res.Fit.MaxClearance)
}

func TestSummary(t *testing.T) {
	res, err := CalculateTolerance(context.Background(), fitRequest("40", "H7", "g6"))
	require.NoError(t, err)

	want := strings.Join([]string{
		"Nominal Size: 40 mm",
		"",
		"Hole [H7]:",
		"- Upper dev (ES): +25 µm",
		"- Lower dev (EI): 0 µm",
		"- Limits: 40.000 - 40.025 mm",
		"",
		"Shaft [g6]:",
		"- Upper dev (es): -9 µm",
		"- Lower dev (ei): -25 µm",
		"- Limits: 39.975 - 39.991 mm",
		"",
		"Fit Result: Clearance",
		"Always a gap. Max gap: 50 µm, Min gap: 9 µm.",
		"Recommendation: Precision Sliding Fit - Parts move/slide accurately.",
		"Standard: ISO 286-1:2010",
	}, "\n")
	assert.Equal(t, want, res.Summary)
}

func TestSummaryInterference(t *testing.T) {
	res, err := CalculateTolerance(context.Background(), fitRequest("40", "H7", "s6"))
	require.NoError(t, err)
	assert.Contains(t, res.Summary, "Fit Result: Interference")
	assert.Contains(t, res.Summary, "Max interference: 59 µm, Min interference: 18 µm.")
	assert.Contains(t, res.Summary, "- Lower dev (ei): +43 µm")
}

func TestSignedMicrons(t *testing.T) {
	assert.Equal(t, "+25", SignedMicrons(25))
	assert.Equal(t, "0", SignedMicrons(0))
	assert.Equal(t, "-9", SignedMicrons(-9))
}

type recordingObserver struct {
	mu     sync.Mutex
	fits   []types.FitType
	modes  []types.Mode
	errors []errors.Type
}

func (o *recordingObserver) ObserveCalculation(mode types.Mode, fit types.FitType, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.modes = append(o.modes, mode)
	o.fits = append(o.fits, fit)
}

func (o *recordingObserver) ObserveError(kind errors.Type) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errors = append(o.errors, kind)
}

func TestEngineDefaultsAndObserver(t *testing.T) {
	obs := &recordingObserver{}
	eng := NewEngine(EngineConfig{DefaultLanguage: "fr"}, obs)

	res, err := eng.Calculate(context.Background(), Request{
		Nominal: decimal.NewFromInt(40), Grade1: "H7", Grade2: "g6",
	})
	require.NoError(t, err)
	assert.Equal(t, types.ModeFit, res.Mode)
	assert.Equal(t, "fr", res.Language)

	res, err = eng.Calculate(context.Background(), Request{
		Nominal: decimal.NewFromInt(40), Grade1: "g6", Language: "ar",
	})
	require.NoError(t, err)
	assert.Equal(t, types.ModeSingle, res.Mode)
	assert.Equal(t, "ar", res.Language)

	_, err = eng.Calculate(context.Background(), Request{
		Nominal: decimal.NewFromInt(501), Grade1: "H7", Grade2: "g6",
	})
	require.Error(t, err)

	assert.Equal(t, []types.Mode{types.ModeFit, types.ModeSingle}, obs.modes)
	assert.Equal(t, []types.FitType{types.FitClearance, types.FitUnknown}, obs.fits)
	assert.Equal(t, []errors.Type{errors.TypeOutOfRange}, obs.errors)
}

func TestInferRole(t *testing.T) {
	role, err := InferRole("H7")
	require.NoError(t, err)
	assert.Equal(t, types.RoleHole, role)

	role, err = InferRole("g6")
	require.NoError(t, err)
	assert.Equal(t, types.RoleShaft, role)
}

func TestCalculateToleranceConcurrentCallers(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := CalculateTolerance(context.Background(), fitRequest("40", "H7", "g6"))
			if assert.NoError(t, err) {
				assert.Equal(t, 50, res.Fit.MaxClearance)
			}
		}()
	}
	wg.Wait()
}

func TestEngineInfersModeFromGrades(t *testing.T) {
	tests := []struct {
		name   string
		grade1 string
		grade2 string
		mode   types.Mode
	}{
		{"two grades", "H7", "g6", types.ModeFit},
		{"hole only", "H7", "", types.ModeSingle},
		{"blank second grade", "g6", "  ", types.ModeSingle},
	}

	eng := NewEngine(EngineConfig{}, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := eng.Calculate(context.Background(), Request{
				Nominal: decimal.NewFromInt(40), Grade1: tt.grade1, Grade2: tt.grade2,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.mode, res.Mode)
			if tt.mode == types.ModeFit {
				require.NotNil(t, res.Shaft)
				require.NotNil(t, res.Fit)
				assert.Equal(t, "g6", res.Shaft.Grade)
				assert.Equal(t, types.FitClearance, res.Fit.Type)
			} else {
				assert.Nil(t, res.Fit)
			}
		})
	}
}

func TestFitDescriptionKeepsPlainDigits(t *testing.T) {
	for _, lang := range []string{"en", "de", "fr", "ar"} {
		t.Run(lang, func(t *testing.T) {
			req := fitRequest("500", "H11", "d11")
			req.Language = lang
			res, err := CalculateTolerance(context.Background(), req)
			require.NoError(t, err)
			require.NotNil(t, res.Fit)
			assert.Equal(t, 1030, res.Fit.MaxClearance)

			assert.Contains(t, res.Fit.Description, "1030")
			assert.Contains(t, res.Fit.Description, "230")
			assert.NotRegexp(t, `1[,. \x{00a0}\x{202f}\x{066c}]030`, res.Fit.Description)
			assert.NotRegexp(t, `[\x{0660}-\x{0669}]`, res.Summary)
		})
	}
}
