package carbon

import (
	"fmt"
	"math"
)

// Project scales currentKg by the compound growth of users and per-user usage
// over the given number of periods:
//
//	factor = ((1 + userGrowthRate) × (1 + usageGrowthRate)) ^ periods
//
// Periods may be fractional. Rates below -1 and negative periods are rejected.
func Project(currentKg, userGrowthRate, usageGrowthRate, periods float64) (ProjectionResult, error) {
	if err := checkRate("userGrowthRate", userGrowthRate); err != nil {
		return ProjectionResult{}, err
	}
	if err := checkRate("usageGrowthRate", usageGrowthRate); err != nil {
		return ProjectionResult{}, err
	}
	if periods < 0 || math.IsNaN(periods) || math.IsInf(periods, 0) {
		return ProjectionResult{}, fmt.Errorf("%w: got %v", ErrInvalidPeriods, periods)
	}

	factor := math.Pow((1+userGrowthRate)*(1+usageGrowthRate), periods)
	projected := currentKg * factor
	return ProjectionResult{
		ProjectedImpactKg:    projected,
		IncreaseKg:           projected - currentKg,
		CompoundGrowthFactor: factor,
	}, nil
}

func checkRate(name string, rate float64) error {
	if rate < -1 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return fmt.Errorf("%w: %s is %v", ErrInvalidGrowthRate, name, rate)
	}
	return nil
}
