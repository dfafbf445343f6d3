package carbon

import "fmt"

// EmbodiedCarbonEstimator amortizes the manufacturing footprint of a server
// linearly over its service life.
type EmbodiedCarbonEstimator struct {
	// EmbodiedCarbonPerServerKg is the total manufacturing footprint of one server.
	EmbodiedCarbonPerServerKg float64

	// LifespanHours is the service life over which it is amortized.
	LifespanHours float64
}

// NewEmbodiedCarbonEstimator builds an estimator from a coefficient table.
func NewEmbodiedCarbonEstimator(c *Coefficients) *EmbodiedCarbonEstimator {
	return &EmbodiedCarbonEstimator{
		EmbodiedCarbonPerServerKg: c.EmbodiedCarbonPerServerKg,
		LifespanHours:             c.ServerLifespanYears * c.HoursPerYear,
	}
}

// EstimateEmbodiedCarbonKg returns the share of one server's embodied carbon
// attributable to the given billed hours:
//
//	EmbodiedPerServer × hours / (lifespanYears × hoursPerYear)
func (e *EmbodiedCarbonEstimator) EstimateEmbodiedCarbonKg(hours float64) float64 {
	if hours <= 0 || e.LifespanHours <= 0 {
		return 0
	}
	return e.EmbodiedCarbonPerServerKg * hours / e.LifespanHours
}

// Detail explains the amortization for a breakdown row.
func (e *EmbodiedCarbonEstimator) Detail(hours float64) string {
	return fmt.Sprintf("embodied %s kgCO2e/server amortized over %s h, %s h billed",
		formatFloat(e.EmbodiedCarbonPerServerKg), formatFloat(e.LifespanHours), formatFloat(hours))
}
