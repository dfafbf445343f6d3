package carbon

// gridIntensities maps AWS region codes to grid carbon intensity in kg CO2e per kWh.
var gridIntensities = map[string]float64{
	"eu-west-1":      0.180, // Ireland
	"eu-west-2":      0.225, // London
	"eu-west-3":      0.056, // Paris
	"eu-central-1":   0.338, // Frankfurt
	"eu-north-1":     0.008, // Stockholm
	"eu-south-1":     0.214, // Milan
	"us-east-1":      0.415, // N. Virginia
	"us-east-2":      0.442, // Ohio
	"us-west-1":      0.190, // N. California
	"us-west-2":      0.151, // Oregon
	"ap-southeast-1": 0.431, // Singapore
	"ap-southeast-2": 0.790, // Sydney
	"ap-northeast-1": 0.506, // Tokyo
	"ap-northeast-2": 0.500, // Seoul
	"ap-south-1":     0.708, // Mumbai
	"sa-east-1":      0.074, // São Paulo
	"ca-central-1":   0.130, // Canada
	"af-south-1":     0.890, // Cape Town
	"me-south-1":     0.732, // Bahrain
}

// deviceFactors is the annual footprint of one device running continuously,
// in kg CO2e per year.
var deviceFactors = map[string]float64{
	"desktop":    175,
	"laptop":     60,
	"smartphone": 30,
	"tablet":     45,
}

// Equivalence categories, expressed as units per tonne CO2e.
const (
	EquivalenceKmDriven       = "kmDriven"
	EquivalenceBeefMeals      = "beefMeals"
	EquivalenceSmartphones    = "smartphones"
	EquivalenceWaterLiters    = "waterLiters"
	EquivalenceGarments       = "garments"
	EquivalenceTreesPlanted   = "treesPlanted"
	EquivalenceStreamingHours = "streamingHours"
	EquivalencePhoneCharges   = "phoneCharges"
)

var equivalenceFactors = map[string]float64{
	EquivalenceKmDriven:       5000,
	EquivalenceBeefMeals:      138,
	EquivalenceSmartphones:    61,
	EquivalenceWaterLiters:    2200,
	EquivalenceGarments:       43,
	EquivalenceTreesPlanted:   50,
	EquivalenceStreamingHours: 8300,
	EquivalencePhoneCharges:   121000,
}

func copyFloatMap(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
