package carbon

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidCoefficients is returned when a coefficient table fails validation.
var ErrInvalidCoefficients = errors.New("invalid coefficients")

// Coefficients holds every constant the estimators read. A table is built once,
// validated, and then shared read-only between analyses.
type Coefficients struct {
	// InstancePower maps instance types to their idle/peak draw.
	InstancePower map[string]PowerRange `json:"instancePower"`

	// GridIntensity maps regions to kg CO2e per kWh.
	GridIntensity map[string]float64 `json:"gridIntensity"`

	// DefaultGridIntensity applies to regions missing from GridIntensity.
	DefaultGridIntensity float64 `json:"defaultGridIntensity"`

	// DeviceFactors maps device categories to kg CO2e per device-year.
	DeviceFactors map[string]float64 `json:"deviceFactors"`

	// EquivalenceFactors maps equivalence categories to units per tonne CO2e.
	EquivalenceFactors map[string]float64 `json:"equivalenceFactors"`

	PUE                         float64 `json:"pue"`
	EmbodiedCarbonPerServerKg   float64 `json:"embodiedCarbonPerServerKg"`
	ServerLifespanYears         float64 `json:"serverLifespanYears"`
	HoursPerYear                float64 `json:"hoursPerYear"`
	SecondsPerYear              float64 `json:"secondsPerYear"`
	NetworkKgPerKm              float64 `json:"networkKgPerKm"`
	CDNDistanceKm               float64 `json:"cdnDistanceKm"`
	FallbackMonthlyKgPerMachine float64 `json:"fallbackMonthlyKgPerMachine"`
}

// DefaultCoefficients returns a fresh copy of the compiled-in table.
func DefaultCoefficients() *Coefficients {
	return &Coefficients{
		InstancePower:               defaultInstancePower(),
		GridIntensity:               copyFloatMap(gridIntensities),
		DefaultGridIntensity:        DefaultGridIntensity,
		DeviceFactors:               copyFloatMap(deviceFactors),
		EquivalenceFactors:          copyFloatMap(equivalenceFactors),
		PUE:                         DefaultPUE,
		EmbodiedCarbonPerServerKg:   EmbodiedCarbonPerServerKg,
		ServerLifespanYears:         ServerLifespanYears,
		HoursPerYear:                HoursPerYear,
		SecondsPerYear:              SecondsPerYear,
		NetworkKgPerKm:              NetworkKgPerKm,
		CDNDistanceKm:               CDNDistanceKm,
		FallbackMonthlyKgPerMachine: FallbackMonthlyKgPerMachine,
	}
}

// InstanceSpec returns the power range for an instance type.
func (c *Coefficients) InstanceSpec(instanceType string) (PowerRange, bool) {
	spec, ok := c.InstancePower[instanceType]
	return spec, ok
}

// GridFactor returns the grid intensity for a region and whether the region
// was known. Unknown regions get DefaultGridIntensity.
func (c *Coefficients) GridFactor(region string) (float64, bool) {
	if factor, ok := c.GridIntensity[region]; ok {
		return factor, true
	}
	return c.DefaultGridIntensity, false
}

// DeviceFactor returns the annual device footprint; unknown categories yield 0.
func (c *Coefficients) DeviceFactor(device string) (float64, bool) {
	factor, ok := c.DeviceFactors[device]
	return factor, ok
}

// Validate checks physical plausibility of every coefficient.
func (c *Coefficients) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil table", ErrInvalidCoefficients)
	}

	scalars := []struct {
		name     string
		value    float64
		positive bool
	}{
		{"defaultGridIntensity", c.DefaultGridIntensity, false},
		{"embodiedCarbonPerServerKg", c.EmbodiedCarbonPerServerKg, false},
		{"serverLifespanYears", c.ServerLifespanYears, true},
		{"hoursPerYear", c.HoursPerYear, true},
		{"secondsPerYear", c.SecondsPerYear, true},
		{"networkKgPerKm", c.NetworkKgPerKm, true},
		{"cdnDistanceKm", c.CDNDistanceKm, true},
		{"fallbackMonthlyKgPerMachine", c.FallbackMonthlyKgPerMachine, false},
	}
	for _, s := range scalars {
		if err := checkCoefficient(s.name, s.value, s.positive); err != nil {
			return err
		}
	}

	if err := checkCoefficient("pue", c.PUE, true); err != nil {
		return err
	}
	if c.PUE < 1 {
		return fmt.Errorf("%w: pue must be >= 1 (got %v)", ErrInvalidCoefficients, c.PUE)
	}

	for instanceType, p := range c.InstancePower {
		if err := checkCoefficient("instancePower."+instanceType+".minWatts", p.MinWatts, false); err != nil {
			return err
		}
		if err := checkCoefficient("instancePower."+instanceType+".maxWatts", p.MaxWatts, false); err != nil {
			return err
		}
		if p.MaxWatts < p.MinWatts {
			return fmt.Errorf("%w: instance %q has invalid power range [%v, %v]",
				ErrInvalidCoefficients, instanceType, p.MinWatts, p.MaxWatts)
		}
	}
	for region, v := range c.GridIntensity {
		if err := checkCoefficient("gridIntensity."+region, v, false); err != nil {
			return err
		}
	}
	for device, v := range c.DeviceFactors {
		if err := checkCoefficient("deviceFactors."+device, v, false); err != nil {
			return err
		}
	}
	for kind, v := range c.EquivalenceFactors {
		if err := checkCoefficient("equivalenceFactors."+kind, v, false); err != nil {
			return err
		}
	}
	return nil
}

func checkCoefficient(name string, v float64, positive bool) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s is not finite", ErrInvalidCoefficients, name)
	}
	if v < 0 || (positive && v == 0) {
		return fmt.Errorf("%w: %s out of range (got %v)", ErrInvalidCoefficients, name, v)
	}
	return nil
}

// coefficientsFile is the YAML shape of an override file. Absent scalars keep
// their compiled-in value; map entries are added or replaced.
type coefficientsFile struct {
	InstancePower               map[string]PowerRange `yaml:"instance_power"`
	GridIntensity               map[string]float64    `yaml:"grid_intensity"`
	DefaultGridIntensity        *float64              `yaml:"default_grid_intensity"`
	DeviceFactors               map[string]float64    `yaml:"device_factors"`
	EquivalenceFactors          map[string]float64    `yaml:"equivalence_factors"`
	PUE                         *float64              `yaml:"pue"`
	EmbodiedCarbonPerServerKg   *float64              `yaml:"embodied_carbon_per_server_kg"`
	ServerLifespanYears         *float64              `yaml:"server_lifespan_years"`
	NetworkKgPerKm              *float64              `yaml:"network_kg_per_km"`
	CDNDistanceKm               *float64              `yaml:"cdn_distance_km"`
	FallbackMonthlyKgPerMachine *float64              `yaml:"fallback_monthly_kg_per_machine"`
}

// LoadCoefficients reads a YAML override file and applies it over the
// compiled-in defaults. An empty path returns the defaults.
func LoadCoefficients(path string) (*Coefficients, error) {
	c := DefaultCoefficients()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading coefficients file: %w", err)
	}
	if err := c.ApplyYAML(data); err != nil {
		return nil, fmt.Errorf("coefficients file %s: %w", path, err)
	}
	return c, nil
}

// ApplyYAML overlays a YAML document onto c and revalidates it.
func (c *Coefficients) ApplyYAML(data []byte) error {
	var f coefficientsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCoefficients, err)
	}

	if c.InstancePower == nil {
		c.InstancePower = make(map[string]PowerRange)
	}
	if c.GridIntensity == nil {
		c.GridIntensity = make(map[string]float64)
	}
	if c.DeviceFactors == nil {
		c.DeviceFactors = make(map[string]float64)
	}
	if c.EquivalenceFactors == nil {
		c.EquivalenceFactors = make(map[string]float64)
	}

	for k, v := range f.InstancePower {
		c.InstancePower[k] = v
	}
	for k, v := range f.GridIntensity {
		c.GridIntensity[k] = v
	}
	for k, v := range f.DeviceFactors {
		c.DeviceFactors[k] = v
	}
	for k, v := range f.EquivalenceFactors {
		c.EquivalenceFactors[k] = v
	}

	overlay := []struct {
		src *float64
		dst *float64
	}{
		{f.DefaultGridIntensity, &c.DefaultGridIntensity},
		{f.PUE, &c.PUE},
		{f.EmbodiedCarbonPerServerKg, &c.EmbodiedCarbonPerServerKg},
		{f.ServerLifespanYears, &c.ServerLifespanYears},
		{f.NetworkKgPerKm, &c.NetworkKgPerKm},
		{f.CDNDistanceKm, &c.CDNDistanceKm},
		{f.FallbackMonthlyKgPerMachine, &c.FallbackMonthlyKgPerMachine},
	}
	for _, o := range overlay {
		if o.src != nil {
			*o.dst = *o.src
		}
	}

	return c.Validate()
}
