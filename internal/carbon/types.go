package carbon

// InstanceDescriptor describes one homogeneous group of compute instances
// billed over a single period.
type InstanceDescriptor struct {
	// Type is the instance type (e.g., "t3.medium").
	Type string `json:"type"`

	// Region is the cloud region hosting the instances (e.g., "eu-west-3").
	Region string `json:"region"`

	// MachineCount is the number of identical machines. Zero counts as one.
	MachineCount int `json:"machineCount"`

	// CPUUtilizationPercent is the average CPU utilization, 0 to 100.
	CPUUtilizationPercent float64 `json:"cpuUtilizationPercent"`

	// HoursInPeriod is the number of billed hours, 1 to 744. Zero means 744.
	HoursInPeriod float64 `json:"hoursInPeriod"`
}

// RegionConnectionAggregate is the network traffic originating from one macro-region.
type RegionConnectionAggregate struct {
	RegionName        string  `json:"regionName"`
	ConnectionCount   int64   `json:"connectionCount"`
	AverageDistanceKm float64 `json:"averageDistanceKm"`
}

// DeviceSession is the aggregate session time of one device category.
type DeviceSession struct {
	TotalSessionSeconds float64 `json:"totalSessionSeconds"`
}

// DeviceSessionAggregate maps device categories (desktop, laptop, ...) to session time.
type DeviceSessionAggregate map[string]DeviceSession

// BusinessVolumeCounters are the denominators of per-unit metrics.
type BusinessVolumeCounters struct {
	UniqueUsers   int64 `json:"uniqueUsers"`
	TotalSessions int64 `json:"totalSessions"`
	TotalActions  int64 `json:"totalActions"`
}

// Normalized returns a copy where every non-positive counter is replaced by 1.
func (b BusinessVolumeCounters) Normalized() BusinessVolumeCounters {
	return BusinessVolumeCounters{
		UniqueUsers:   atLeastOne(b.UniqueUsers),
		TotalSessions: atLeastOne(b.TotalSessions),
		TotalActions:  atLeastOne(b.TotalActions),
	}
}

func atLeastOne(v int64) int64 {
	if v < 1 {
		return 1
	}
	return v
}

// PowerBreakdown holds the power-model figures of a detailed instance row.
type PowerBreakdown struct {
	HoursInPeriod         float64 `json:"hoursInPeriod"`
	CPUUtilizationPercent float64 `json:"cpuUtilizationPercent"`
	AverageWatts          float64 `json:"averageWatts"`
	KWh                   float64 `json:"kWh"`
	KWhTotal              float64 `json:"kWhTotal"`
	OperationalCO2eKg     float64 `json:"operationalCO2eKg"`
	EmbodiedCO2eKg        float64 `json:"embodiedCO2eKg"`
}

// InstanceBreakdown is the per-descriptor detail of an infrastructure estimate.
// PowerBreakdown is nil for MethodEstimated rows.
type InstanceBreakdown struct {
	Type         string `json:"type"`
	Region       string `json:"region"`
	MachineCount int    `json:"machineCount"`
	*PowerBreakdown
	TotalCO2eKg float64 `json:"totalCO2eKg"`
	Method      string  `json:"method"`
	Detail      string  `json:"detail"`
}

// InfrastructureResult is the output of InfrastructureEstimator.
type InfrastructureResult struct {
	MonthlyCO2eKg        float64             `json:"monthlyCO2eKg"`
	AnnualCO2eKg         float64             `json:"annualCO2eKg"`
	PerInstanceBreakdown []InstanceBreakdown `json:"perInstanceBreakdown"`
}

// NetworkScenario is the transport distance and footprint of one scenario.
type NetworkScenario struct {
	TotalKm float64 `json:"totalKm"`
	CO2eKg  float64 `json:"co2eKg"`
}

// RegionNetworkBreakdown is the per-region detail of a network estimate.
type RegionNetworkBreakdown struct {
	RegionName        string  `json:"regionName"`
	ConnectionCount   int64   `json:"connectionCount"`
	AverageDistanceKm float64 `json:"averageDistanceKm"`
	KmWithoutCDN      float64 `json:"kmWithoutCDN"`
	KmWithCDN         float64 `json:"kmWithCDN"`
}

// NetworkResult is the output of NetworkEstimator.
type NetworkResult struct {
	WithoutCDN  NetworkScenario          `json:"withoutCDN"`
	WithCDN     NetworkScenario          `json:"withCDN"`
	GainKg      float64                  `json:"gainKg"`
	GainPercent Percent                  `json:"gainPercent"`
	PerRegion   []RegionNetworkBreakdown `json:"perRegion"`
}

// DeviceUsageBreakdown is the per-device detail of a usage estimate.
type DeviceUsageBreakdown struct {
	TotalSessionSeconds float64 `json:"totalSessionSeconds"`
	AnnualTimeFraction  float64 `json:"annualTimeFraction"`
	CO2eKg              float64 `json:"co2eKg"`
}

// UsageResult is the output of UsageEstimator.
type UsageResult struct {
	TotalCO2eKg        float64                         `json:"totalCO2eKg"`
	PerDeviceBreakdown map[string]DeviceUsageBreakdown `json:"perDeviceBreakdown"`
}

// ImpactBreakdown splits the total impact by source.
type ImpactBreakdown struct {
	InfrastructureKg    float64 `json:"infrastructureKg"`
	NetworkWithoutCDNKg float64 `json:"networkWithoutCDNKg"`
	NetworkWithCDNKg    float64 `json:"networkWithCDNKg"`
	UsersKg             float64 `json:"usersKg"`
}

// ImpactResult is the annual platform footprint with and without CDN.
type ImpactResult struct {
	WithoutCDNKg float64         `json:"withoutCDNKg"`
	WithCDNKg    float64         `json:"withCDNKg"`
	GainKg       float64         `json:"gainKg"`
	GainPercent  Percent         `json:"gainPercent"`
	Breakdown    ImpactBreakdown `json:"breakdown"`
}

// MetricsResult holds per-unit footprints.
type MetricsResult struct {
	CO2ePerUserKg                 float64 `json:"co2ePerUserKg"`
	CO2ePerSessionKg              float64 `json:"co2ePerSessionKg"`
	CO2ePerActionKg               float64 `json:"co2ePerActionKg"`
	OptimizationEfficiencyPercent Percent `json:"optimizationEfficiencyPercent"`
}

// EquivalenceResult maps equivalence categories to scaled magnitudes.
type EquivalenceResult map[string]float64

// ProjectionResult is the outcome of a growth projection.
type ProjectionResult struct {
	ProjectedImpactKg    float64 `json:"projectedImpactKg"`
	IncreaseKg           float64 `json:"increaseKg"`
	CompoundGrowthFactor float64 `json:"compoundGrowthFactor"`
}

// AnalysisInput bundles everything PlatformAnalyzer consumes.
type AnalysisInput struct {
	Instances []InstanceDescriptor        `json:"instances"`
	Regions   []RegionConnectionAggregate `json:"regions"`
	Sessions  DeviceSessionAggregate      `json:"sessions"`
	Volume    BusinessVolumeCounters      `json:"volume"`
}

// Analysis is the full breakdown produced by PlatformAnalyzer.
type Analysis struct {
	Infrastructure InfrastructureResult `json:"infrastructure"`
	Network        NetworkResult        `json:"network"`
	Usage          UsageResult          `json:"usage"`
	Impact         ImpactResult         `json:"impact"`
	Metrics        MetricsResult        `json:"metrics"`

	// Equivalences are computed on the CDN gain.
	Equivalences EquivalenceResult `json:"equivalences"`
}
