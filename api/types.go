// Package api - API types for tolerance calculation
// Requests and responses of the HTTP endpoints. The engine's own result types
// are returned as-is; these wrap them with request metadata.
package api

import (
	"github.com/shopspring/decimal"

	"isofit/core/advisor"
	"isofit/core/iso286"
	"isofit/core/output"
	"isofit/core/types"
)

// CalculateRequest is the input to POST /calculate. Grade1/Grade2 follow the
// positional convention; Hole, Shaft and Grade are accepted as named aliases.
type CalculateRequest struct {
	Nominal decimal.Decimal `json:"nominal"`
	Mode    types.Mode      `json:"mode,omitempty"`
	Grade1  string          `json:"grade1,omitempty"`
	Grade2  string          `json:"grade2,omitempty"`
	Hole    string          `json:"hole,omitempty"`
	Shaft   string          `json:"shaft,omitempty"`
	Grade   string          `json:"grade,omitempty"`
	Lang    string          `json:"lang,omitempty"`
}

// grades resolves the aliases into positional grades. A shaft given on its
// own is a single component.
func (r *CalculateRequest) grades() (string, string) {
	g1 := firstNonEmpty(r.Grade1, r.Hole, r.Grade)
	g2 := firstNonEmpty(r.Grade2, r.Shaft)
	if g1 == "" && r.Grade2 == "" {
		return r.Shaft, ""
	}
	return g1, g2
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// FitRequest is the input to POST /fit
type FitRequest struct {
	Nominal decimal.Decimal `json:"nominal"`
	Fit     string          `json:"fit"`
	Lang    string          `json:"lang,omitempty"`
}

// AdviseRequest is the input to POST /advise
type AdviseRequest struct {
	System    advisor.System    `json:"system"`
	Function  advisor.Function  `json:"function"`
	Condition advisor.Condition `json:"condition"`
	Nominal   *decimal.Decimal  `json:"nominal,omitempty"`
	Lang      string            `json:"lang,omitempty"`
}

// CalculateResponse wraps a result with request metadata
type CalculateResponse struct {
	RequestID string `json:"request_id"`
	*types.CalculationResult
}

// AdviseResponse wraps advice with request metadata
type AdviseResponse struct {
	RequestID string `json:"request_id"`
	*advisor.Advice
}

// CommonFitView is a localized catalog entry
type CommonFitView struct {
	iso286.CommonFit
	CategoryLabel string                   `json:"category_label"`
	Description   string                   `json:"description"`
	Result        *types.CalculationResult `json:"result,omitempty"`
}

// FitsResponse is the output of GET /fits
type FitsResponse struct {
	RequestID string          `json:"request_id"`
	Language  string          `json:"language"`
	Nominal   *string         `json:"nominal,omitempty"`
	Fits      []CommonFitView `json:"fits"`
}

// GradesResponse is the output of GET /grades
type GradesResponse struct {
	ITGrades     []string           `json:"it_grades"`
	HoleLetters  []string           `json:"hole_letters"`
	ShaftLetters []string           `json:"shaft_letters"`
	Ranges       []iso286.SizeRange `json:"ranges"`
	MaxNominal   string             `json:"max_nominal"`
}

// BatchItemResponse is one item of a batch response
type BatchItemResponse struct {
	Name   string                   `json:"name"`
	Kind   string                   `json:"kind"`
	Line   int                      `json:"line"`
	Result *types.CalculationResult `json:"result,omitempty"`
	Error  *output.ErrorView        `json:"error,omitempty"`
}

// BatchResponse is the output of POST /batch
type BatchResponse struct {
	RequestID string              `json:"request_id"`
	Language  string              `json:"language"`
	Total     int64               `json:"total"`
	Completed int64               `json:"completed"`
	Failed    int64               `json:"failed"`
	Items     []BatchItemResponse `json:"items"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a failure
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
