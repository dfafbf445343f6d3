package api

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rshade/platform-carbon-estimator/internal/adapter"
	"github.com/rshade/platform-carbon-estimator/internal/carbon"
	"github.com/rshade/platform-carbon-estimator/internal/config"
)

// UnitKgCO2e labels every mass in API responses.
const UnitKgCO2e = "kg CO2e"

// GrowthParams overrides the configured projection assumptions.
type GrowthParams struct {
	UserGrowthRate  *float64 `json:"userGrowthRate,omitempty" validate:"omitempty,gte=-1"`
	UsageGrowthRate *float64 `json:"usageGrowthRate,omitempty" validate:"omitempty,gte=-1"`
	Periods         *float64 `json:"periods,omitempty" validate:"omitempty,gte=0"`
}

// AnalyzeRequest is the body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	Instances   []adapter.RawInstance          `json:"instances" validate:"required,dive"`
	Connections []adapter.RawConnection        `json:"connections" validate:"required,dive"`
	UseCDN      *bool                          `json:"useCDN,omitempty"`
	DeviceUsage carbon.DeviceSessionAggregate  `json:"deviceUsage,omitempty"`
	Analytics   *carbon.BusinessVolumeCounters `json:"analytics,omitempty"`
	Growth      *GrowthParams                  `json:"growth,omitempty"`
}

func (r AnalyzeRequest) adapterRequest() adapter.Request {
	return adapter.Request{
		Instances:   r.Instances,
		Connections: r.Connections,
		UseCDN:      r.UseCDN,
		DeviceUsage: r.DeviceUsage,
		Analytics:   r.Analytics,
	}
}

// ProjectionParameters are the assumptions a projection was computed with.
type ProjectionParameters struct {
	UserGrowthRate  float64 `json:"userGrowthRate"`
	UsageGrowthRate float64 `json:"usageGrowthRate"`
	Periods         float64 `json:"periods"`
}

// AnalyzeResponse is the body returned by POST /api/v1/analyze.
type AnalyzeResponse struct {
	AnalysisID string `json:"analysisId"`
	carbon.Analysis

	UseCDN                bool                     `json:"useCDN"`
	SelectedKg            float64                  `json:"selectedKg"`
	FootprintEquivalences carbon.EquivalenceResult `json:"footprintEquivalences"`
	Projection            carbon.ProjectionResult  `json:"projection"`
	ProjectionParameters  ProjectionParameters     `json:"projectionParameters"`
	Unit                  string                   `json:"unit"`
}

// Service runs analyses for the HTTP handlers and the one-shot CLI.
type Service struct {
	analyzer   *carbon.Analyzer
	adapter    *adapter.Adapter
	projection config.ProjectionConfig
	logger     zerolog.Logger
}

// NewService creates a Service. projection supplies the growth assumptions
// used when a request omits them.
func NewService(analyzer *carbon.Analyzer, projection config.ProjectionConfig, logger zerolog.Logger) *Service {
	return &Service{
		analyzer:   analyzer,
		adapter:    adapter.New(logger.With().Str("component", "adapter").Logger()),
		projection: projection,
		logger:     logger,
	}
}

// Analyze validates req, adapts it and runs the full analysis. The selected
// footprint is the with-CDN total unless the caller disabled the CDN.
func (s *Service) Analyze(req AnalyzeRequest) (*AnalyzeResponse, error) {
	if err := ValidateStruct(req); err != nil {
		return nil, err
	}

	ar := req.adapterRequest()
	in, err := s.adapter.AdaptRequest(ar)
	if err != nil {
		return nil, err
	}

	analysis, err := s.analyzer.Analyze(in)
	if err != nil {
		return nil, err
	}

	selected := analysis.Impact.WithoutCDNKg
	if ar.CDNEnabled() {
		selected = analysis.Impact.WithCDNKg
	}

	params := s.growthParams(req.Growth)
	projection, err := s.analyzer.Project(selected, params.UserGrowthRate, params.UsageGrowthRate, params.Periods)
	if err != nil {
		return nil, err
	}

	resp := &AnalyzeResponse{
		AnalysisID:            uuid.New().String(),
		Analysis:              *analysis,
		UseCDN:                ar.CDNEnabled(),
		SelectedKg:            selected,
		FootprintEquivalences: s.analyzer.Convert(carbon.KgToTonnes(selected)),
		Projection:            projection,
		ProjectionParameters:  params,
		Unit:                  UnitKgCO2e,
	}

	s.logger.Info().
		Str("analysis_id", resp.AnalysisID).
		Int("instances", len(in.Instances)).
		Float64("selected_kg", selected).
		Str("gain_percent", analysis.Impact.GainPercent.String()).
		Msg("analysis completed")

	return resp, nil
}

// Project applies the growth assumptions in g, falling back to the
// configured ones, to currentKg.
func (s *Service) Project(currentKg float64, g *GrowthParams) (carbon.ProjectionResult, ProjectionParameters, error) {
	params := s.growthParams(g)
	result, err := s.analyzer.Project(currentKg, params.UserGrowthRate, params.UsageGrowthRate, params.Periods)
	return result, params, err
}

// Convert expresses kg of CO2e as everyday-activity counts.
func (s *Service) Convert(kg float64) carbon.EquivalenceResult {
	return s.analyzer.Convert(carbon.KgToTonnes(kg))
}

// Coefficients returns the table in use.
func (s *Service) Coefficients() *carbon.Coefficients {
	return s.analyzer.Coefficients()
}

func (s *Service) growthParams(g *GrowthParams) ProjectionParameters {
	p := ProjectionParameters{
		UserGrowthRate:  s.projection.UserGrowthRate,
		UsageGrowthRate: s.projection.UsageGrowthRate,
		Periods:         s.projection.Periods,
	}
	if g == nil {
		return p
	}
	if g.UserGrowthRate != nil {
		p.UserGrowthRate = *g.UserGrowthRate
	}
	if g.UsageGrowthRate != nil {
		p.UsageGrowthRate = *g.UsageGrowthRate
	}
	if g.Periods != nil {
		p.Periods = *g.Periods
	}
	return p
}
