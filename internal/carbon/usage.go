package carbon

import (
	"maps"
	"slices"

	"github.com/rs/zerolog"
)

// UsageEstimator converts aggregate device session time into end-user CO2e
// as a share of one device's annual footprint.
type UsageEstimator struct {
	coeffs *Coefficients
	logger zerolog.Logger
}

// NewUsageEstimator creates an estimator reading from c.
func NewUsageEstimator(c *Coefficients, logger zerolog.Logger) *UsageEstimator {
	return &UsageEstimator{coeffs: c, logger: logger}
}

// Estimate computes per-device and total usage CO2e. Unknown device
// categories are kept in the breakdown with zero emissions.
func (e *UsageEstimator) Estimate(sessions DeviceSessionAggregate) UsageResult {
	breakdown := make(map[string]DeviceUsageBreakdown, len(sessions))
	values := make([]float64, 0, len(sessions))

	// Sorted so the total is summed in the same order on every call.
	for _, device := range slices.Sorted(maps.Keys(sessions)) {
		seconds := sessions[device].TotalSessionSeconds
		factor, ok := e.coeffs.DeviceFactor(device)
		if !ok {
			e.logger.Warn().
				Str("device", device).
				Msg("unknown device category, contributing zero")
		}

		fraction := seconds / e.coeffs.SecondsPerYear
		row := DeviceUsageBreakdown{
			TotalSessionSeconds: seconds,
			AnnualTimeFraction:  fraction,
			CO2eKg:              fraction * factor,
		}
		e.logger.Debug().
			Str("device", device).
			Float64("annual_time_fraction", fraction).
			Float64("co2e_kg", row.CO2eKg).
			Msg("device usage calculated")

		breakdown[device] = row
		values = append(values, row.CO2eKg)
	}

	return UsageResult{
		TotalCO2eKg:        sum(values),
		PerDeviceBreakdown: breakdown,
	}
}
