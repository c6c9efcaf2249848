package catalog

import "strings"

// MockIssue is a canned disease entry served by the symptom-based endpoint.
type MockIssue struct {
	Name       string   `json:"name"`
	Symptoms   []string `json:"symptoms"`
	Treatment  string   `json:"treatment"`
	Confidence float64  `json:"confidence"`
}

// MockPlant groups the canned diseases of one plant.
type MockPlant struct {
	CommonDiseases []MockIssue `json:"common_diseases"`
}

// DefaultPlant is used when a request names no plant or an unknown one.
const DefaultPlant = "domates"

// MockConfidence is the overall confidence reported for mock diagnoses.
const MockConfidence = 0.87

var mockDiseases = map[string]MockPlant{
	"domates": {
		CommonDiseases: []MockIssue{
			{
				Name:       "Alternaria Yaprak Lekesi",
				Symptoms:   []string{"kahverengi lekeler", "yaprak sararması", "yaprak dökülmesi"},
				Treatment:  "Fungisit uygulaması ve sulama düzeni",
				Confidence: 0.85,
			},
			{
				Name:       "Fusarium Solgunluğu",
				Symptoms:   []string{"yaprak sararması", "gövde çürümesi", "bitki ölümü"},
				Treatment:  "Toprak dezenfeksiyonu ve dayanıklı çeşit kullanımı",
				Confidence: 0.78,
			},
		},
	},
	"salatalik": {
		CommonDiseases: []MockIssue{
			{
				Name:       "Külleme Hastalığı",
				Symptoms:   []string{"beyaz toz tabaka", "yaprak deformasyonu"},
				Treatment:  "Havalandırma artırımı ve fungisit",
				Confidence: 0.92,
			},
		},
	},
}

var mockRecommendations = []Recommendation{
	{Type: "watering", Title: "Sulama Önerisi", Description: "Günde 2-3 kez, sabah ve akşam saatlerinde sulayın", Priority: "high"},
	{Type: "fertilizer", Title: "Gübre Önerisi", Description: "Azot oranı yüksek gübre kullanın", Priority: "medium"},
	{Type: "pest_control", Title: "Zararlı Kontrolü", Description: "Organik insektisit uygulaması yapın", Priority: "low"},
}

var recommendationTypes = []string{"watering", "fertilizer", "pest_control", "pruning", "harvesting"}

// PlantKey normalizes a plant name for the mock table: lower case, no spaces.
func PlantKey(plantType string) string {
	return strings.ReplaceAll(strings.ToLower(plantType), " ", "")
}

// MockPlantFor returns the mock entry for plantType, falling back to
// DefaultPlant when the key is missing.
func MockPlantFor(plantType string) MockPlant {
	if p, ok := mockDiseases[PlantKey(plantType)]; ok {
		return p
	}
	return mockDiseases[DefaultPlant]
}

// MockDiseases returns the full mock table.
func MockDiseases() map[string]MockPlant {
	out := make(map[string]MockPlant, len(mockDiseases))
	for k, v := range mockDiseases {
		out[k] = v
	}
	return out
}

// MockRecommendations returns the fixed recommendation list of mock diagnoses.
func MockRecommendations() []Recommendation {
	return append([]Recommendation(nil), mockRecommendations...)
}

// RecommendationTypes returns the advertised recommendation categories.
func RecommendationTypes() []string {
	return append([]string(nil), recommendationTypes...)
}
