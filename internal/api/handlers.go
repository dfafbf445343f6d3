package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/rshade/platform-carbon-estimator/internal/carbon"
)

var errInvalidJSON = errors.New("invalid JSON body")

// EquivalencesRequest is the body of POST /api/v1/equivalences.
type EquivalencesRequest struct {
	CO2Kg float64 `json:"co2Kg" validate:"required"`
}

// EquivalencesResponse is returned by POST /api/v1/equivalences.
type EquivalencesResponse struct {
	CO2Kg        float64                  `json:"co2Kg"`
	CO2Tonnes    float64                  `json:"co2Tonnes"`
	Equivalences carbon.EquivalenceResult `json:"equivalences"`
}

// ProjectionRequest is the body of POST /api/v1/projections.
type ProjectionRequest struct {
	CurrentKg       float64  `json:"currentKg" validate:"required"`
	UserGrowthRate  *float64 `json:"userGrowthRate,omitempty" validate:"omitempty,gte=-1"`
	UsageGrowthRate *float64 `json:"usageGrowthRate,omitempty" validate:"omitempty,gte=-1"`
	Periods         *float64 `json:"periods,omitempty" validate:"omitempty,gte=0"`
}

// ProjectionResponse is returned by POST /api/v1/projections.
type ProjectionResponse struct {
	CurrentKg  float64                 `json:"currentKg"`
	Projection carbon.ProjectionResult `json:"projection"`
	Parameters ProjectionParameters    `json:"parameters"`
	Unit       string                  `json:"unit"`
}

// decodeJSON reads one JSON document from r's body into v.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("%w: empty body", errInvalidJSON)
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: empty body", errInvalidJSON)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidJSON, err)
	}
	return nil
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.metrics.Analyses.WithLabelValues("rejected").Inc()
		respondFailure(w, r, err)
		return
	}
	if s.testMode {
		zerolog.Ctx(r.Context()).Debug().
			Int("instances", len(req.Instances)).
			Int("connections", len(req.Connections)).
			Msg("analyze request received")
	}

	resp, err := s.service.Analyze(req)
	if err != nil {
		s.metrics.Analyses.WithLabelValues("rejected").Inc()
		respondFailure(w, r, err)
		return
	}

	s.metrics.Analyses.WithLabelValues("success").Inc()
	s.metrics.FootprintKg.Observe(resp.SelectedKg)
	respondJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleEquivalences(w http.ResponseWriter, r *http.Request) {
	var req EquivalencesRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFailure(w, r, err)
		return
	}
	if err := ValidateStruct(req); err != nil {
		respondFailure(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, EquivalencesResponse{
		CO2Kg:        req.CO2Kg,
		CO2Tonnes:    carbon.KgToTonnes(req.CO2Kg),
		Equivalences: s.service.Convert(req.CO2Kg),
	})
}

func (s *Server) handleProjections(w http.ResponseWriter, r *http.Request) {
	var req ProjectionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondFailure(w, r, err)
		return
	}
	if err := ValidateStruct(req); err != nil {
		respondFailure(w, r, err)
		return
	}

	result, params, err := s.service.Project(req.CurrentKg, &GrowthParams{
		UserGrowthRate:  req.UserGrowthRate,
		UsageGrowthRate: req.UsageGrowthRate,
		Periods:         req.Periods,
	})
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, ProjectionResponse{
		CurrentKg:  req.CurrentKg,
		Projection: result,
		Parameters: params,
		Unit:       UnitKgCO2e,
	})
}

func (s *Server) handleCoefficients(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, s.service.Coefficients())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusNotFound, APIError{Code: "NOT_FOUND", Message: "route not found"})
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusMethodNotAllowed, APIError{Code: "METHOD_NOT_ALLOWED", Message: "method not allowed"})
}
