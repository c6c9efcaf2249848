package catalog

// Recommendation is one advisory entry in a diagnosis.
type Recommendation struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// RecommendationsFor returns the advisory list for a severity. Treatment
// fills the description of the first entry for high and medium severities.
// The result is freshly allocated on every call.
func RecommendationsFor(severity Severity, treatment string) []Recommendation {
	switch severity {
	case SeverityHigh:
		return []Recommendation{
			{Type: "urgent_treatment", Title: "Acil Müdahale Gerekli", Description: treatment, Priority: "high"},
			{Type: "monitoring", Title: "Yakın Takip", Description: "Günlük kontroller yapın ve yayılımı engelleyin", Priority: "high"},
		}
	case SeverityMedium:
		return []Recommendation{
			{Type: "treatment", Title: "Tedavi Önerisi", Description: treatment, Priority: "medium"},
			{Type: "prevention", Title: "Önleyici Tedbirler", Description: "Sulama düzenini kontrol edin ve havalandırmayı artırın", Priority: "medium"},
		}
	case SeverityNone:
		return []Recommendation{
			{Type: "maintenance", Title: "Koruyucu Bakım", Description: "Mevcut bakım rutininizi sürdürün", Priority: "low"},
		}
	default:
		return []Recommendation{
			{Type: "consultation", Title: "Uzman Konsültasyonu", Description: "Kesin teşhis için tarım uzmanına danışın", Priority: "medium"},
		}
	}
}
