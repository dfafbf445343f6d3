// Package carbon estimates the annual CO2e footprint of a cloud-hosted digital
// platform from three sources: server infrastructure, network transport and
// end-user device usage.
package carbon

const (
	// DefaultPUE is the Power Usage Effectiveness applied on top of raw compute draw.
	DefaultPUE = 1.2

	// DefaultGridIntensity is used when a region has no grid intensity entry,
	// in kg CO2e per kWh.
	DefaultGridIntensity = 0.400

	// EmbodiedCarbonPerServerKg is the manufacturing footprint of one server in kg CO2e.
	EmbodiedCarbonPerServerKg = 300.0

	// ServerLifespanYears is the amortization period for embodied carbon.
	ServerLifespanYears = 4.0

	// HoursPerYear is 365 days of 24 hours.
	HoursPerYear = 365.0 * 24

	// SecondsPerYear is 365 days of 24 hours of 3600 seconds.
	SecondsPerYear = 365.0 * 24 * 3600

	// MonthsPerYear is the annualization multiplier for a monthly profile.
	MonthsPerYear = 12.0

	// NetworkKgPerKm is the transport emission factor in kg CO2e per connection-km.
	NetworkKgPerKm = 0.0000458

	// CDNDistanceKm is the reference distance to a CDN edge cache.
	CDNDistanceKm = 400.0

	// FallbackMonthlyKgPerMachine is the flat monthly estimate for instance types
	// absent from the power table.
	FallbackMonthlyKgPerMachine = 2.0

	// DefaultCPUUtilizationPercent is assumed when a caller omits CPU utilization.
	DefaultCPUUtilizationPercent = 50.0

	// DefaultHoursInPeriod is a 31-day month of billed hours.
	DefaultHoursInPeriod = 744.0

	// MaxHoursInPeriod bounds the hours of one billing period.
	MaxHoursInPeriod = 744.0

	// KgPerTonne converts kilograms to metric tonnes.
	KgPerTonne = 1000.0
)

// Calculation methods tagged on infrastructure breakdown rows.
const (
	MethodDetailed  = "detailed"
	MethodEstimated = "estimated"
)
