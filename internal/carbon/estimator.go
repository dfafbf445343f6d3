package carbon

import (
	"fmt"

	"github.com/rs/zerolog"
)

// InfrastructureEstimator converts compute-instance inventories into monthly
// and annual operational plus embodied CO2e.
type InfrastructureEstimator struct {
	coeffs   *Coefficients
	embodied *EmbodiedCarbonEstimator
	logger   zerolog.Logger
}

// NewInfrastructureEstimator creates an estimator reading from c.
func NewInfrastructureEstimator(c *Coefficients, logger zerolog.Logger) *InfrastructureEstimator {
	return &InfrastructureEstimator{
		coeffs:   c,
		embodied: NewEmbodiedCarbonEstimator(c),
		logger:   logger,
	}
}

// Estimate computes the footprint of every instance group. Unsupported
// instance types never abort the batch: they receive a flat per-machine
// estimate tagged MethodEstimated.
//
// For supported types the calculation is:
//  1. Average watts = MinWatts + (MaxWatts - MinWatts) × CPU% / 100
//  2. Energy (kWh) = Average watts × hours / 1000
//  3. Energy with PUE = Energy × PUE
//  4. Operational (kg) = Energy with PUE × region grid intensity
//  5. Embodied (kg) = EmbodiedPerServer × hours / (lifespan × hours per year)
//  6. Total (kg) = (Operational + Embodied) × machine count
//
// The annual figure assumes the supplied period repeats for twelve months.
func (e *InfrastructureEstimator) Estimate(instances []InstanceDescriptor) InfrastructureResult {
	rows := make([]InstanceBreakdown, 0, len(instances))
	totals := make([]float64, 0, len(instances))

	for _, inst := range instances {
		row := e.estimateOne(inst)
		rows = append(rows, row)
		totals = append(totals, row.TotalCO2eKg)
	}

	monthly := sum(totals)
	return InfrastructureResult{
		MonthlyCO2eKg:        monthly,
		AnnualCO2eKg:         monthly * MonthsPerYear,
		PerInstanceBreakdown: rows,
	}
}

func (e *InfrastructureEstimator) estimateOne(inst InstanceDescriptor) InstanceBreakdown {
	machines := inst.MachineCount
	if machines < 1 {
		machines = 1
	}

	spec, ok := e.coeffs.InstanceSpec(inst.Type)
	if !ok {
		total := e.coeffs.FallbackMonthlyKgPerMachine * float64(machines)
		e.logger.Warn().
			Str("instance_type", inst.Type).
			Strs("similar_types", e.coeffs.SimilarInstanceTypes(inst.Type, 3)).
			Int("machine_count", machines).
			Float64("co2e_kg", total).
			Msg("unsupported instance type, using flat estimate")
		return InstanceBreakdown{
			Type:         inst.Type,
			Region:       inst.Region,
			MachineCount: machines,
			TotalCO2eKg:  total,
			Method:       MethodEstimated,
			Detail: fmt.Sprintf("%s not in power table: flat %s kgCO2e/month × %d machines",
				inst.Type, formatFloat(e.coeffs.FallbackMonthlyKgPerMachine), machines),
		}
	}

	hours := inst.HoursInPeriod
	if hours <= 0 {
		hours = DefaultHoursInPeriod
	}

	intensity, known := e.coeffs.GridFactor(inst.Region)
	if !known {
		e.logger.Warn().
			Str("region", inst.Region).
			Float64("grid_intensity", intensity).
			Msg("unknown region, using default grid intensity")
	}

	avgWatts := spec.AverageWatts(inst.CPUUtilizationPercent)
	kWh := avgWatts * hours / 1000
	kWhTotal := kWh * e.coeffs.PUE
	operational := kWhTotal * intensity
	embodied := e.embodied.EstimateEmbodiedCarbonKg(hours)
	total := (operational + embodied) * float64(machines)

	e.logger.Debug().
		Str("instance_type", inst.Type).
		Str("region", inst.Region).
		Int("machine_count", machines).
		Float64("avg_watts", avgWatts).
		Float64("kwh_total", kWhTotal).
		Float64("co2e_kg", total).
		Msg("instance footprint calculated")

	return InstanceBreakdown{
		Type:         inst.Type,
		Region:       inst.Region,
		MachineCount: machines,
		PowerBreakdown: &PowerBreakdown{
			HoursInPeriod:         hours,
			CPUUtilizationPercent: inst.CPUUtilizationPercent,
			AverageWatts:          avgWatts,
			KWh:                   kWh,
			KWhTotal:              kWhTotal,
			OperationalCO2eKg:     operational,
			EmbodiedCO2eKg:        embodied,
		},
		TotalCO2eKg: total,
		Method:      MethodDetailed,
		Detail: fmt.Sprintf("%s W avg at %s%% CPU over %s h, PUE %s, %s kgCO2e/kWh; %s",
			formatFloat(avgWatts), formatFloat(inst.CPUUtilizationPercent), formatFloat(hours),
			formatFloat(e.coeffs.PUE), formatFloat(intensity), e.embodied.Detail(hours)),
	}
}
