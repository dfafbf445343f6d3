package carbon

import "github.com/rs/zerolog"

// NetworkEstimator converts per-region connection volumes into transport CO2e,
// once with each region's real distance and once with every region served
// from a CDN edge at a fixed reference distance.
type NetworkEstimator struct {
	coeffs *Coefficients
	logger zerolog.Logger
}

// NewNetworkEstimator creates an estimator reading from c.
func NewNetworkEstimator(c *Coefficients, logger zerolog.Logger) *NetworkEstimator {
	return &NetworkEstimator{coeffs: c, logger: logger}
}

// Estimate computes both network scenarios. Regions keep their input order
// in the per-region breakdown.
func (e *NetworkEstimator) Estimate(regions []RegionConnectionAggregate) NetworkResult {
	perRegion := make([]RegionNetworkBreakdown, 0, len(regions))
	kmWithout := make([]float64, 0, len(regions))
	kmWith := make([]float64, 0, len(regions))

	for _, r := range regions {
		connections := float64(r.ConnectionCount)
		row := RegionNetworkBreakdown{
			RegionName:        r.RegionName,
			ConnectionCount:   r.ConnectionCount,
			AverageDistanceKm: r.AverageDistanceKm,
			KmWithoutCDN:      connections * r.AverageDistanceKm,
			KmWithCDN:         connections * e.coeffs.CDNDistanceKm,
		}
		e.logger.Debug().
			Str("region", r.RegionName).
			Int64("connections", r.ConnectionCount).
			Float64("km_without_cdn", row.KmWithoutCDN).
			Float64("km_with_cdn", row.KmWithCDN).
			Msg("region traffic calculated")

		perRegion = append(perRegion, row)
		kmWithout = append(kmWithout, row.KmWithoutCDN)
		kmWith = append(kmWith, row.KmWithCDN)
	}

	without := NetworkScenario{TotalKm: sum(kmWithout)}
	without.CO2eKg = without.TotalKm * e.coeffs.NetworkKgPerKm
	with := NetworkScenario{TotalKm: sum(kmWith)}
	with.CO2eKg = with.TotalKm * e.coeffs.NetworkKgPerKm

	gain := without.CO2eKg - with.CO2eKg
	return NetworkResult{
		WithoutCDN:  without,
		WithCDN:     with,
		GainKg:      gain,
		GainPercent: PercentOf(gain, without.CO2eKg),
		PerRegion:   perRegion,
	}
}
