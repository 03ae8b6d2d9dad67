package api

import (
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"isofit/core/advisor"
	"isofit/core/batch"
	"isofit/core/engine"
	"isofit/core/iso286"
	"isofit/core/output"
	"isofit/core/types"
	"isofit/internal/config"
	"isofit/internal/errors"
	"isofit/internal/i18n"
)

// handleCalculate handles POST /calculate
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err, s.language(r, ""))
		return
	}
	lang := s.language(r, req.Lang)

	g1, g2 := req.grades()
	result, err := s.engine.Calculate(r.Context(), engine.Request{
		Nominal:  req.Nominal,
		Mode:     req.Mode,
		Grade1:   g1,
		Grade2:   g2,
		Language: lang,
	})
	if err != nil {
		s.writeError(w, r, err, lang)
		return
	}
	s.writeJSON(w, CalculateResponse{RequestID: RequestID(r.Context()), CalculationResult: result}, http.StatusOK)
}

// handleFit handles POST /fit
func (s *Server) handleFit(w http.ResponseWriter, r *http.Request) {
	var req FitRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err, s.language(r, ""))
		return
	}
	lang := s.language(r, req.Lang)

	hole, shaft, err := iso286.ParseFit(req.Fit)
	if err != nil {
		s.writeError(w, r, fieldErr(err, "fit"), lang)
		return
	}
	result, err := s.engine.Calculate(r.Context(), engine.Request{
		Nominal:  req.Nominal,
		Mode:     types.ModeFit,
		Grade1:   hole,
		Grade2:   shaft,
		Language: lang,
	})
	if err != nil {
		s.writeError(w, r, err, lang)
		return
	}
	s.writeJSON(w, CalculateResponse{RequestID: RequestID(r.Context()), CalculationResult: result}, http.StatusOK)
}

// handleAdvise handles POST /advise
func (s *Server) handleAdvise(w http.ResponseWriter, r *http.Request) {
	var req AdviseRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err, s.language(r, ""))
		return
	}
	lang := s.language(r, req.Lang)

	advice, err := advisor.Advise(r.Context(), s.engine, advisor.Question{
		System:    req.System,
		Function:  req.Function,
		Condition: req.Condition,
		Nominal:   req.Nominal,
		Language:  lang,
	})
	if err != nil {
		s.writeError(w, r, err, lang)
		return
	}
	s.writeJSON(w, AdviseResponse{RequestID: RequestID(r.Context()), Advice: advice}, http.StatusOK)
}

// handleBatch handles POST /batch. The body is an HCL batch file, or a JSON
// object {"source": "..."} holding one.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	lang := s.language(r, "")

	src, err := batchSource(r)
	if err != nil {
		s.writeError(w, r, err, lang)
		return
	}
	file, err := batch.Parse(src, "request.hcl")
	if err != nil {
		s.writeError(w, r, err, lang)
		return
	}
	if file.Language != "" && r.URL.Query().Get("lang") == "" {
		lang = file.Language
	}

	workers := s.workers
	if q := r.URL.Query().Get("workers"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > config.MaxWorkers {
			s.writeError(w, r, errors.Input("workers must be a positive number").WithField("workers", q), lang)
			return
		}
		workers = n
	}

	runner := batch.NewRunner(s.engine, workers)
	outcomes := runner.Run(r.Context(), file.Items, lang)
	stats := runner.Stats()

	resp := BatchResponse{
		RequestID: RequestID(r.Context()),
		Language:  matched(lang),
		Total:     stats.Total,
		Completed: stats.Completed,
		Failed:    stats.Failed,
		Items:     make([]BatchItemResponse, len(outcomes)),
	}
	for i, o := range outcomes {
		item := BatchItemResponse{
			Name:   o.Item.Name,
			Kind:   string(o.Item.Kind),
			Line:   o.Item.Line,
			Result: o.Result,
		}
		if o.Err != nil {
			item.Error = output.NewErrorView(o.Err, lang)
		}
		resp.Items[i] = item
	}
	s.writeJSON(w, resp, http.StatusOK)
}

func batchSource(r *http.Request) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var body struct {
			Source string `json:"source"`
		}
		if err := decode(r, &body); err != nil {
			return nil, err
		}
		if strings.TrimSpace(body.Source) == "" {
			return nil, errors.Input("source is empty").WithField("source", "")
		}
		return []byte(body.Source), nil
	}

	src, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "read body", err).WithContext("value", err.Error())
	}
	return src, nil
}

// handleFits handles GET /fits. With ?nominal= every fit is also calculated.
func (s *Server) handleFits(w http.ResponseWriter, r *http.Request) {
	lang := s.language(r, "")
	p := i18n.Printer(lang)

	var nominal *decimal.Decimal
	if q := r.URL.Query().Get("nominal"); q != "" {
		d, err := decimal.NewFromString(q)
		if err != nil {
			s.writeError(w, r, errors.Input("nominal is not a number").WithField("nominal", q), lang)
			return
		}
		nominal = &d
	}

	resp := FitsResponse{
		RequestID: RequestID(r.Context()),
		Language:  matched(lang),
	}
	for _, f := range iso286.CommonFits() {
		view := CommonFitView{
			CommonFit:     f,
			CategoryLabel: p.Sprintf(f.CategoryKey()),
			Description:   p.Sprintf(f.DescriptionKey()),
		}
		if nominal != nil {
			result, err := s.engine.Calculate(r.Context(), engine.Request{
				Nominal:  *nominal,
				Mode:     types.ModeFit,
				Grade1:   f.Hole,
				Grade2:   f.Shaft,
				Language: lang,
			})
			if err != nil {
				s.writeError(w, r, err, lang)
				return
			}
			view.Result = result
		}
		resp.Fits = append(resp.Fits, view)
	}
	if nominal != nil {
		n := nominal.String()
		resp.Nominal = &n
	}
	s.writeJSON(w, resp, http.StatusOK)
}

// handleGrades handles GET /grades
func (s *Server) handleGrades(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, GradesResponse{
		ITGrades:     iso286.SupportedITGrades,
		HoleLetters:  iso286.SupportedHoleLetters,
		ShaftLetters: iso286.SupportedShaftLetters,
		Ranges:       iso286.Ranges(),
		MaxNominal:   iso286.MaxNominal.String(),
	}, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "healthy"}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":  s.version,
		"standard": engine.Standard,
	}, http.StatusOK)
}

// fieldErr records field on err when it has none
func fieldErr(err error, field string) error {
	if e, ok := errors.As(err); ok && e.Field() == "" {
		return e.WithContext("field", field)
	}
	return err
}
