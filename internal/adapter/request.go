package adapter

import "github.com/rshade/platform-carbon-estimator/internal/carbon"

// Request is the analysis request accepted at the service boundary.
type Request struct {
	Instances   []RawInstance                  `json:"instances"`
	Connections []RawConnection                `json:"connections"`
	UseCDN      *bool                          `json:"useCDN,omitempty"`
	DeviceUsage carbon.DeviceSessionAggregate  `json:"deviceUsage,omitempty"`
	Analytics   *carbon.BusinessVolumeCounters `json:"analytics,omitempty"`
}

// CDNEnabled reports whether the caller selected the CDN scenario. It
// defaults to true.
func (r Request) CDNEnabled() bool {
	return r.UseCDN == nil || *r.UseCDN
}

// AdaptRequest adapts r. A non-empty device usage replaces the default
// session profile and any supplied analytics replace the default business
// volume; zero counters are later read as 1 by the engine.
func (a *Adapter) AdaptRequest(r Request) (carbon.AnalysisInput, error) {
	in, err := a.Adapt(r.Instances, r.Connections)
	if err != nil {
		return carbon.AnalysisInput{}, err
	}

	if len(r.DeviceUsage) > 0 {
		in.Sessions = r.DeviceUsage
	}
	if r.Analytics != nil {
		in.Volume = *r.Analytics
	}
	return in, nil
}
