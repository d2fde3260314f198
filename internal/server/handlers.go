package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"

	"github.com/homebudget/homebudget/internal/analysis"
	"github.com/homebudget/homebudget/internal/budget"
	"github.com/homebudget/homebudget/internal/listing"
	"github.com/homebudget/homebudget/internal/molit"
	"github.com/homebudget/homebudget/internal/region"
)

const maxBodyBytes = 1 << 20

// inputRequest is the body accepted by /v1/budget and /v1/analyze. Omitted
// fields take the server defaults.
type inputRequest struct {
	Salary        *float64        `json:"salary"`
	AnnualRatePct *float64        `json:"annual_rate_pct"`
	TermMonths    int             `json:"term_months"`
	Cash          []float64       `json:"cash"`
	Region        string          `json:"region"`
	Period        string          `json:"period"`
	Target        *listing.Target `json:"target"`
}

type errorBody struct {
	Error string `json:"error"`
}

// toRequest overlays the body on the defaults.
func (in inputRequest) toRequest(base analysis.Request) (analysis.Request, error) {
	req := base
	req.Profile.CashComponents = slices.Clone(base.Profile.CashComponents)

	if in.Salary != nil {
		req.Profile.Salary = *in.Salary
	}
	if in.AnnualRatePct != nil {
		req.Profile.AnnualRatePct = *in.AnnualRatePct
	}
	if in.TermMonths != 0 {
		req.Profile.TermMonths = in.TermMonths
	}
	if in.Cash != nil {
		req.Profile.CashComponents = slices.Clone(in.Cash)
	}
	if in.Region != "" {
		r, err := region.Parse(in.Region)
		if err != nil {
			return req, err
		}
		req.Query.RegionCode = r.Code
	}
	if in.Period != "" {
		if _, err := molit.ParseYearMonth(in.Period); err != nil {
			return req, err
		}
		req.Query.YearMonth = in.Period
	}
	if in.Target != nil {
		if in.Target.Price < 0 {
			return req, errors.New("target price must not be negative")
		}
		t := *in.Target
		req.Target = &t
	}
	return req, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.status())
}

// GET /v1/regions?province=NAME
func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	prov := r.URL.Query().Get("province")
	if prov == "" {
		writeJSON(w, http.StatusOK, region.All())
		return
	}
	districts := region.Districts(prov)
	if len(districts) == 0 {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown province %q", prov))
		return
	}
	writeJSON(w, http.StatusOK, districts)
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	res, err := budget.Estimate(req.Profile, s.an.Policy())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	rep, err := s.an.Run(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.log.Error().Err(err).Msg("analysis failed")
		}
		writeError(w, status, err)
		return
	}
	s.record(rep)
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (analysis.Request, bool) {
	var in inputRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return analysis.Request{}, false
	}
	req, err := in.toRequest(s.cfg.Defaults)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return analysis.Request{}, false
	}
	return req, true
}

func statusFor(err error) int {
	if errors.Is(err, budget.ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeJSON encodes before writing the header so an encoding failure
// becomes a 500 instead of an empty success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"encoding response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}
