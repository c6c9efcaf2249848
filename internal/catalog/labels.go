package catalog

import "strings"

// labelSeparator splits a class label into plant and condition.
const labelSeparator = "___"

// Fallback prediction used when inference is unavailable.
const (
	FallbackLabel      = "Tomato___Late_blight"
	FallbackConfidence = 0.75
)

// defaultLabels is the PlantVillage subset the classifier head is sized to.
// Position is the model output index.
var defaultLabels = []string{
	"Apple___Apple_scab",
	"Apple___Black_rot",
	"Apple___Cedar_apple_rust",
	"Apple___healthy",
	"Corn_(maize)___Cercospora_leaf_spot Gray_leaf_spot",
	"Corn_(maize)___Common_rust_",
	"Corn_(maize)___Northern_Leaf_Blight",
	"Corn_(maize)___healthy",
	"Grape___Black_rot",
	"Grape___Esca_(Black_Measles)",
	"Grape___Leaf_blight_(Isariopsis_Leaf_Spot)",
	"Grape___healthy",
	"Potato___Early_blight",
	"Potato___Late_blight",
	"Potato___healthy",
	"Tomato___Bacterial_spot",
	"Tomato___Early_blight",
	"Tomato___Late_blight",
	"Tomato___Leaf_Mold",
	"Tomato___Septoria_leaf_spot",
	"Tomato___Spider_mites Two-spotted_spider_mite",
	"Tomato___Target_Spot",
	"Tomato___Tomato_Yellow_Leaf_Curl_Virus",
	"Tomato___Tomato_mosaic_virus",
	"Tomato___healthy",
}

// Labels returns a copy of the built-in class list.
func Labels() []string {
	out := make([]string, len(defaultLabels))
	copy(out, defaultLabels)
	return out
}

// Humanize turns a class label into display text:
// "Tomato___Late_blight" becomes "Tomato - Late blight".
func Humanize(label string) string {
	return strings.ReplaceAll(strings.ReplaceAll(label, labelSeparator, " - "), "_", " ")
}

// PlantTypeFromLabel returns the plant part of a label with underscores
// replaced by spaces: "Corn_(maize)___healthy" becomes "Corn (maize)".
func PlantTypeFromLabel(label string) string {
	plant, _, _ := strings.Cut(label, labelSeparator)
	return strings.ReplaceAll(plant, "_", " ")
}
