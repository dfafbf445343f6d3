package carbon

// ResolveUtilization picks the CPU utilization percent for an instance group:
// the caller's value clamped to [0, 100] when present, DefaultCPUUtilizationPercent otherwise.
func ResolveUtilization(perInstance *float64) float64 {
	if perInstance != nil {
		return Clamp(*perInstance, 0, 100)
	}
	return DefaultCPUUtilizationPercent
}

// ResolveHours picks the billed hours for an instance group: the caller's value
// clamped to [1, MaxHoursInPeriod] when present and positive, DefaultHoursInPeriod otherwise.
func ResolveHours(perInstance *float64) float64 {
	if perInstance != nil && *perInstance > 0 {
		return Clamp(*perInstance, 1, MaxHoursInPeriod)
	}
	return DefaultHoursInPeriod
}

// Clamp restricts a value to the range [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
