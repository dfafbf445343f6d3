package carbon

import (
	_ "embed"
	"encoding/csv"
	"io"
	"maps"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// CSV column indices in data/instance_power.csv.
const (
	colInstanceType = 0
	colMinWatts     = 1
	colMaxWatts     = 2
)

//go:embed data/instance_power.csv
var instancePowerCSV string

// PowerRange is the electrical draw of one instance type, in watts, at idle
// and at 100% CPU utilization.
type PowerRange struct {
	MinWatts float64 `json:"minWatts" yaml:"min_watts"`
	MaxWatts float64 `json:"maxWatts" yaml:"max_watts"`
}

// AverageWatts interpolates linearly between idle and peak draw.
func (p PowerRange) AverageWatts(cpuUtilizationPercent float64) float64 {
	return p.MinWatts + (p.MaxWatts-p.MinWatts)*(cpuUtilizationPercent/100)
}

var (
	instancePower     map[string]PowerRange
	instancePowerOnce sync.Once
)

// parseInstancePower loads the embedded power table. Rows with an empty type,
// unparseable watts, negative idle draw or peak below idle are skipped.
func parseInstancePower() {
	instancePower = make(map[string]PowerRange)

	reader := csv.NewReader(strings.NewReader(instancePowerCSV))

	if _, err := reader.Read(); err != nil {
		logger.Error().Err(err).Msg("failed to read instance power CSV header")
		return
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Warn().Err(err).Msg("skipping malformed instance power CSV row")
			continue
		}
		if len(record) <= colMaxWatts {
			continue
		}

		instanceType := strings.TrimSpace(record[colInstanceType])
		if instanceType == "" {
			continue
		}

		minWatts, errMin := strconv.ParseFloat(strings.TrimSpace(record[colMinWatts]), 64)
		maxWatts, errMax := strconv.ParseFloat(strings.TrimSpace(record[colMaxWatts]), 64)
		if errMin != nil || errMax != nil {
			logger.Warn().
				Str("instance_type", instanceType).
				Msg("skipping instance power row with invalid watts")
			continue
		}
		if minWatts < 0 || maxWatts < minWatts {
			continue
		}

		instancePower[instanceType] = PowerRange{MinWatts: minWatts, MaxWatts: maxWatts}
	}
}

// defaultInstancePower returns a fresh copy of the embedded power table.
func defaultInstancePower() map[string]PowerRange {
	instancePowerOnce.Do(parseInstancePower)
	out := make(map[string]PowerRange, len(instancePower))
	for k, v := range instancePower {
		out[k] = v
	}
	return out
}

// InstanceSpecCount reports the number of instance types in the embedded table.
func InstanceSpecCount() int {
	instancePowerOnce.Do(parseInstancePower)
	return len(instancePower)
}

// SimilarInstanceTypes returns up to limit known instance types that fuzzily
// contain name, closest first.
func (c *Coefficients) SimilarInstanceTypes(name string, limit int) []string {
	if name == "" || limit <= 0 {
		return nil
	}

	known := slices.Sorted(maps.Keys(c.InstancePower))
	ranks := fuzzy.RankFindNormalizedFold(name, known)
	sort.Stable(ranks)

	out := make([]string, 0, min(limit, len(ranks)))
	for _, r := range ranks {
		if len(out) == limit {
			break
		}
		out = append(out, r.Target)
	}
	return out
}
