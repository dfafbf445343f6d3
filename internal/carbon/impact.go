package carbon

// Aggregate combines the three emission sources into the annual platform
// footprint with and without CDN.
func Aggregate(infra InfrastructureResult, network NetworkResult, usage UsageResult) ImpactResult {
	without := infra.AnnualCO2eKg + network.WithoutCDN.CO2eKg + usage.TotalCO2eKg
	with := infra.AnnualCO2eKg + network.WithCDN.CO2eKg + usage.TotalCO2eKg
	gain := without - with

	return ImpactResult{
		WithoutCDNKg: without,
		WithCDNKg:    with,
		GainKg:       gain,
		GainPercent:  PercentOf(gain, without),
		Breakdown: ImpactBreakdown{
			InfrastructureKg:    infra.AnnualCO2eKg,
			NetworkWithoutCDNKg: network.WithoutCDN.CO2eKg,
			NetworkWithCDNKg:    network.WithCDN.CO2eKg,
			UsersKg:             usage.TotalCO2eKg,
		},
	}
}

// DeriveMetrics divides the with-CDN footprint by the business volume.
// Non-positive counters are treated as 1.
func DeriveMetrics(impact ImpactResult, volume BusinessVolumeCounters) MetricsResult {
	v := volume.Normalized()
	return MetricsResult{
		CO2ePerUserKg:                 impact.WithCDNKg / float64(v.UniqueUsers),
		CO2ePerSessionKg:              impact.WithCDNKg / float64(v.TotalSessions),
		CO2ePerActionKg:               impact.WithCDNKg / float64(v.TotalActions),
		OptimizationEfficiencyPercent: impact.GainPercent,
	}
}
