package carbon

// EquivalenceConverter expresses a CO2e mass as everyday-activity counts.
type EquivalenceConverter struct {
	factors map[string]float64
}

// NewEquivalenceConverter creates a converter using the factors of c.
func NewEquivalenceConverter(c *Coefficients) *EquivalenceConverter {
	return &EquivalenceConverter{factors: c.EquivalenceFactors}
}

// Convert multiplies tonnes by every conversion factor. Negative input is not
// rejected and yields negative counts.
func (e *EquivalenceConverter) Convert(tonnes float64) EquivalenceResult {
	out := make(EquivalenceResult, len(e.factors))
	for name, perTonne := range e.factors {
		out[name] = tonnes * perTonne
	}
	return out
}

// KgToTonnes converts kilograms to tonnes.
func KgToTonnes(kg float64) float64 {
	return kg / KgPerTonne
}
