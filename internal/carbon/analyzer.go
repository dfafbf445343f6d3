package carbon

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

// Analyzer runs the full estimation pipeline over one input bundle.
// It holds no per-call state and is safe for concurrent use.
type Analyzer struct {
	coeffs      *Coefficients
	logger      zerolog.Logger
	infra       *InfrastructureEstimator
	network     *NetworkEstimator
	usage       *UsageEstimator
	equivalence *EquivalenceConverter
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger handed to every stage.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// NewAnalyzer validates c and wires the estimation stages to it.
// A nil table selects DefaultCoefficients.
func NewAnalyzer(c *Coefficients, opts ...Option) (*Analyzer, error) {
	if c == nil {
		c = DefaultCoefficients()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	a := &Analyzer{coeffs: c, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(a)
	}

	a.infra = NewInfrastructureEstimator(c, a.logger.With().Str("stage", "infrastructure").Logger())
	a.network = NewNetworkEstimator(c, a.logger.With().Str("stage", "network").Logger())
	a.usage = NewUsageEstimator(c, a.logger.With().Str("stage", "usage").Logger())
	a.equivalence = NewEquivalenceConverter(c)
	return a, nil
}

// Coefficients returns the table the analyzer reads. Callers must not modify it.
func (a *Analyzer) Coefficients() *Coefficients {
	return a.coeffs
}

// Analyze validates in and runs infrastructure, network, usage, impact,
// metrics and equivalence stages in order. Equivalences are computed on the
// CDN gain. Any invalid input fails the whole analysis.
func (a *Analyzer) Analyze(in AnalysisInput) (*Analysis, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	infra := a.infra.Estimate(in.Instances)
	network := a.network.Estimate(in.Regions)
	usage := a.usage.Estimate(in.Sessions)
	impact := Aggregate(infra, network, usage)
	metrics := DeriveMetrics(impact, in.Volume)

	a.logger.Debug().
		Float64("without_cdn_kg", impact.WithoutCDNKg).
		Float64("with_cdn_kg", impact.WithCDNKg).
		Str("gain_percent", impact.GainPercent.String()).
		Msg("analysis complete")

	return &Analysis{
		Infrastructure: infra,
		Network:        network,
		Usage:          usage,
		Impact:         impact,
		Metrics:        metrics,
		Equivalences:   a.equivalence.Convert(KgToTonnes(impact.GainKg)),
	}, nil
}

// Convert expresses tonnes of CO2e as everyday-activity counts.
func (a *Analyzer) Convert(tonnes float64) EquivalenceResult {
	return a.equivalence.Convert(tonnes)
}

// Project applies compound growth to currentKg; see Project.
func (a *Analyzer) Project(currentKg, userGrowthRate, usageGrowthRate, periods float64) (ProjectionResult, error) {
	return Project(currentKg, userGrowthRate, usageGrowthRate, periods)
}

func validateInput(in AnalysisInput) error {
	if in.Instances == nil {
		return ErrMissingInstances
	}
	if in.Regions == nil {
		return ErrMissingRegions
	}
	if in.Sessions == nil {
		return ErrMissingSessions
	}

	for i, inst := range in.Instances {
		field := fmt.Sprintf("instances[%d]", i)
		if inst.MachineCount < 0 {
			return inputErrorf(field+".machineCount", "must be >= 0, got %d", inst.MachineCount)
		}
		if !inRange(inst.CPUUtilizationPercent, 0, 100) {
			return inputErrorf(field+".cpuUtilizationPercent", "must be within [0, 100], got %v", inst.CPUUtilizationPercent)
		}
		// Zero selects DefaultHoursInPeriod.
		if inst.HoursInPeriod != 0 && !inRange(inst.HoursInPeriod, 1, MaxHoursInPeriod) {
			return inputErrorf(field+".hoursInPeriod", "must be 0 or within [1, %v], got %v", MaxHoursInPeriod, inst.HoursInPeriod)
		}
	}

	for i, r := range in.Regions {
		field := fmt.Sprintf("regions[%d]", i)
		if r.ConnectionCount < 0 {
			return inputErrorf(field+".connectionCount", "must be >= 0, got %d", r.ConnectionCount)
		}
		if !(r.AverageDistanceKm > 0) || math.IsInf(r.AverageDistanceKm, 0) {
			return inputErrorf(field+".averageDistanceKm", "must be a positive distance, got %v", r.AverageDistanceKm)
		}
	}

	for device, s := range in.Sessions {
		if !(s.TotalSessionSeconds >= 0) || math.IsInf(s.TotalSessionSeconds, 0) {
			return inputErrorf("sessions."+device+".totalSessionSeconds", "must be >= 0, got %v", s.TotalSessionSeconds)
		}
	}

	v := in.Volume
	switch {
	case v.UniqueUsers < 0:
		return inputErrorf("volume.uniqueUsers", "must not be negative")
	case v.TotalSessions < 0:
		return inputErrorf("volume.totalSessions", "must not be negative")
	case v.TotalActions < 0:
		return inputErrorf("volume.totalActions", "must not be negative")
	}
	return nil
}

// inRange reports whether v is within [lo, hi]; NaN is never in range.
func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}
