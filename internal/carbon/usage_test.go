package carbon

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageEstimator(t *testing.T) {
	e := NewUsageEstimator(DefaultCoefficients(), zerolog.Nop())

	result := e.Estimate(DeviceSessionAggregate{
		"desktop":    {TotalSessionSeconds: 100000},
		"smartphone": {TotalSessionSeconds: SecondsPerYear},
	})

	require.Len(t, result.PerDeviceBreakdown, 2)

	desktop := result.PerDeviceBreakdown["desktop"]
	assert.InDelta(t, 100000/SecondsPerYear, desktop.AnnualTimeFraction, 1e-15)
	assert.InDelta(t, 100000/SecondsPerYear*175, desktop.CO2eKg, 1e-12)

	phone := result.PerDeviceBreakdown["smartphone"]
	assert.Equal(t, 1.0, phone.AnnualTimeFraction)
	assert.Equal(t, 30.0, phone.CO2eKg)

	assert.InDelta(t, desktop.CO2eKg+phone.CO2eKg, result.TotalCO2eKg, 1e-12)
}

func TestUsageEstimator_UnknownDeviceContributesZero(t *testing.T) {
	var buf bytes.Buffer
	e := NewUsageEstimator(DefaultCoefficients(), zerolog.New(&buf))

	result := e.Estimate(DeviceSessionAggregate{
		"smartwatch": {TotalSessionSeconds: 50000},
		"laptop":     {TotalSessionSeconds: 0},
	})

	assert.Zero(t, result.TotalCO2eKg)
	require.Contains(t, result.PerDeviceBreakdown, "smartwatch")
	assert.Zero(t, result.PerDeviceBreakdown["smartwatch"].CO2eKg)
	assert.Positive(t, result.PerDeviceBreakdown["smartwatch"].AnnualTimeFraction)
	assert.Contains(t, buf.String(), "unknown device category")
}

func TestUsageEstimator_Empty(t *testing.T) {
	e := NewUsageEstimator(DefaultCoefficients(), zerolog.Nop())

	result := e.Estimate(DeviceSessionAggregate{})

	assert.Zero(t, result.TotalCO2eKg)
	assert.Empty(t, result.PerDeviceBreakdown)
}
