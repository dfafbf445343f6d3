// Package adapter turns the flat request shape accepted at the service
// boundary (raw instance list, per-country connection counts) into the
// engine's analysis input.
package adapter

import (
	"errors"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rshade/platform-carbon-estimator/internal/carbon"
)

var (
	// ErrMissingInstances is returned when the request carries no instance list.
	ErrMissingInstances = errors.New("instances is required")

	// ErrMissingConnections is returned when the request carries no connection list.
	ErrMissingConnections = errors.New("connections is required")
)

// MinimumConnections is the nominal traffic assigned to a macro-region that
// received no connections, so every region contributes to the network term.
const MinimumConnections = 10

// DefaultRegion receives connections from countries missing from the country table.
const DefaultRegion = "Europe"

// RawInstance is one instance group as submitted by a caller.
type RawInstance struct {
	Type           string   `json:"type" validate:"required"`
	Count          int      `json:"count" validate:"gte=0"`
	Region         string   `json:"region,omitempty"`
	CPUUtilization *float64 `json:"cpuUtilization,omitempty" validate:"omitempty,gte=0,lte=100"`
	Hours          *float64 `json:"heures,omitempty" validate:"omitempty,gte=0,lte=744"`
}

// RawConnection is the number of connections seen from one country.
type RawConnection struct {
	Country string `json:"country" validate:"required"`
	Count   int64  `json:"count" validate:"gte=0"`
}

// MacroRegion is a traffic origin with its average distance to the origin servers.
type MacroRegion struct {
	Name       string  `json:"name"`
	DistanceKm float64 `json:"distanceKm"`
}

// macroRegions is ordered; adapted regions are emitted in this order.
var macroRegions = []MacroRegion{
	{Name: "Europe", DistanceKm: 1000},
	{Name: "North America", DistanceKm: 7516},
	{Name: "Asia", DistanceKm: 7770},
	{Name: "Oceania", DistanceKm: 9700},
	{Name: "Africa", DistanceKm: 4900},
	{Name: "South America", DistanceKm: 9900},
	{Name: "Central America", DistanceKm: 8788},
}

// countryRegions maps ISO 3166-1 alpha-2 codes to macro-regions.
var countryRegions = map[string]string{
	"FR": "Europe",
	"DE": "Europe",
	"GB": "Europe",
	"US": "North America",
	"JP": "Asia",
	"CN": "Asia",
	"IN": "Asia",
	"AU": "Oceania",
}

// MacroRegions returns the macro-regions in emission order.
func MacroRegions() []MacroRegion {
	out := make([]MacroRegion, len(macroRegions))
	copy(out, macroRegions)
	return out
}

// RegionForCountry returns the macro-region of a country code and whether
// the code was recognized. Unrecognized codes map to DefaultRegion.
func RegionForCountry(country string) (string, bool) {
	region, ok := countryRegions[strings.ToUpper(strings.TrimSpace(country))]
	if !ok {
		return DefaultRegion, false
	}
	return region, true
}

// DefaultSessions is the session profile used when a caller supplies none.
func DefaultSessions() carbon.DeviceSessionAggregate {
	return carbon.DeviceSessionAggregate{
		"desktop":    {TotalSessionSeconds: 2348210},
		"smartphone": {TotalSessionSeconds: 2128983},
	}
}

// DefaultVolume is the business volume used when a caller supplies none.
func DefaultVolume() carbon.BusinessVolumeCounters {
	return carbon.BusinessVolumeCounters{
		UniqueUsers:   35000,
		TotalSessions: 50000,
		TotalActions:  400000,
	}
}

// Adapter converts raw request data into carbon.AnalysisInput.
type Adapter struct {
	logger zerolog.Logger
}

// New creates an Adapter.
func New(logger zerolog.Logger) *Adapter {
	return &Adapter{logger: logger}
}

// Adapt maps raw instances and per-country connections to an analysis input
// carrying the default session profile and business volume.
func (a *Adapter) Adapt(instances []RawInstance, connections []RawConnection) (carbon.AnalysisInput, error) {
	if instances == nil {
		return carbon.AnalysisInput{}, ErrMissingInstances
	}
	if connections == nil {
		return carbon.AnalysisInput{}, ErrMissingConnections
	}

	return carbon.AnalysisInput{
		Instances: a.adaptInstances(instances),
		Regions:   a.adaptConnections(connections),
		Sessions:  DefaultSessions(),
		Volume:    DefaultVolume(),
	}, nil
}

func (a *Adapter) adaptInstances(instances []RawInstance) []carbon.InstanceDescriptor {
	out := make([]carbon.InstanceDescriptor, 0, len(instances))
	for _, inst := range instances {
		out = append(out, carbon.InstanceDescriptor{
			Type:                  inst.Type,
			Region:                inst.Region,
			MachineCount:          inst.Count,
			CPUUtilizationPercent: carbon.ResolveUtilization(inst.CPUUtilization),
			HoursInPeriod:         carbon.ResolveHours(inst.Hours),
		})
	}
	return out
}

func (a *Adapter) adaptConnections(connections []RawConnection) []carbon.RegionConnectionAggregate {
	counts := make(map[string]int64, len(macroRegions))
	for _, c := range connections {
		region, ok := RegionForCountry(c.Country)
		if !ok {
			a.logger.Warn().
				Str("country", c.Country).
				Str("region", region).
				Int64("connections", c.Count).
				Msg("unmapped country, assigning to default region")
		}
		sum, overflow := addConnections(counts[region], c.Count)
		if overflow {
			a.logger.Warn().
				Str("country", c.Country).
				Str("region", region).
				Int64("connections", c.Count).
				Msg("region connection count overflows, capping at maximum")
		}
		counts[region] = sum
	}

	out := make([]carbon.RegionConnectionAggregate, 0, len(macroRegions))
	for _, r := range macroRegions {
		n := counts[r.Name]
		if n <= 0 {
			n = MinimumConnections
		}
		a.logger.Debug().
			Str("region", r.Name).
			Int64("connections", n).
			Msg("region connections adapted")

		out = append(out, carbon.RegionConnectionAggregate{
			RegionName:        r.Name,
			ConnectionCount:   n,
			AverageDistanceKm: r.DistanceKm,
		})
	}
	return out
}

// addConnections adds n to total, saturating at the int64 bounds.
func addConnections(total, n int64) (int64, bool) {
	switch {
	case n > 0 && total > math.MaxInt64-n:
		return math.MaxInt64, true
	case n < 0 && total < math.MinInt64-n:
		return math.MinInt64, true
	}
	return total + n, false
}
