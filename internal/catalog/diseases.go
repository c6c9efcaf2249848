package catalog

// DiseaseInfo is the display record for a class label.
type DiseaseInfo struct {
	Name      string
	Symptoms  []string
	Treatment string
	Severity  Severity
}

var diseaseInfo = map[string]DiseaseInfo{
	"Tomato___Late_blight": {
		Name:      "Domates Geç Yanıklığı",
		Symptoms:  []string{"Yapraklarda kahverengi lekeler", "Beyaz küf tabakası", "Meyve çürümesi"},
		Treatment: "Fungisit uygulaması ve havalandırma artırımı",
		Severity:  SeverityHigh,
	},
	"Tomato___Early_blight": {
		Name:      "Domates Erken Yanıklığı",
		Symptoms:  []string{"Yapraklarda koyu kahverengi lekeler", "Hedef şeklinde desenler"},
		Treatment: "Bakır bazlı fungisit ve sulama düzeni",
		Severity:  SeverityMedium,
	},
	"Tomato___Bacterial_spot": {
		Name:      "Domates Bakteriyel Leke",
		Symptoms:  []string{"Küçük kahverengi lekeler", "Yaprak deformasyonu"},
		Treatment: "Bakır sülfat uygulaması ve hijyen",
		Severity:  SeverityMedium,
	},
	"Tomato___healthy": {
		Name:      "Sağlıklı Domates",
		Symptoms:  []string{"Belirtiler görülmüyor"},
		Treatment: "Koruyucu bakım devam ettirin",
		Severity:  SeverityNone,
	},
	"Potato___Late_blight": {
		Name:      "Patates Geç Yanıklığı",
		Symptoms:  []string{"Yapraklarda su emmiş lekeler", "Beyaz küf"},
		Treatment: "Sistemik fungisit ve drene edilmiş toprak",
		Severity:  SeverityHigh,
	},
	"Apple___Apple_scab": {
		Name:      "Elma Karaleke",
		Symptoms:  []string{"Yaprak ve meyvelerde koyu lekeler"},
		Treatment: "Fungisit spreyi ve budama",
		Severity:  SeverityMedium,
	},
}

const (
	unknownSymptom   = "Belirti analizi yapılıyor"
	unknownTreatment = "Uzman görüşü alınması önerilir"
)

// Lookup returns the record for label. Labels without an entry get a generic
// record named after the humanized label, with SeverityUnknown.
func Lookup(label string) DiseaseInfo {
	if info, ok := diseaseInfo[label]; ok {
		info.Symptoms = append([]string(nil), info.Symptoms...)
		return info
	}
	return DiseaseInfo{
		Name:      Humanize(label),
		Symptoms:  []string{unknownSymptom},
		Treatment: unknownTreatment,
		Severity:  SeverityUnknown,
	}
}

// Known reports whether label has a dedicated record.
func Known(label string) bool {
	_, ok := diseaseInfo[label]
	return ok
}
