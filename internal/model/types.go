package model

import "github.com/Brownie44l1/zirave-ai/internal/catalog"

// Metadata describes an exported classifier. Every field is optional;
// zero values fall back to the built-in label list and input size.
type Metadata struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	Classes     []string `json:"classes"`
	ImageSize   int      `json:"image_size"`
	InputName   string   `json:"input_name"`
	OutputName  string   `json:"output_name"`
}

// Prediction is the top-1 result of a forward pass.
type Prediction struct {
	Label      string
	Index      int
	Confidence float64
}

// HealthResponse is returned by the liveness endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// DiagnosisRequest is the body of a symptom-based diagnosis.
type DiagnosisRequest struct {
	PlantType string   `json:"plant_type,omitempty"`
	Symptoms  []string `json:"symptoms,omitempty"`
	Location  string   `json:"location,omitempty"`
	Season    string   `json:"season,omitempty"`
}

// DetectedIssue is one disease found in a diagnosis.
type DetectedIssue struct {
	Name       string   `json:"name"`
	Symptoms   []string `json:"symptoms"`
	Treatment  string   `json:"treatment"`
	Confidence float64  `json:"confidence"`
}

// DiagnosisResponse is the common diagnosis payload.
type DiagnosisResponse struct {
	DiagnosisID     string                   `json:"diagnosis_id"`
	PlantType       string                   `json:"plant_type"`
	DetectedIssues  []DetectedIssue          `json:"detected_issues"`
	Recommendations []catalog.Recommendation `json:"recommendations"`
	Confidence      float64                  `json:"confidence"`
	Timestamp       string                   `json:"timestamp"`
}

// ImageDiagnosisResponse extends DiagnosisResponse with model details.
type ImageDiagnosisResponse struct {
	DiagnosisResponse
	ImageProcessed   bool   `json:"image_processed"`
	ImageSize        string `json:"image_size"`
	ModelPrediction  string `json:"model_prediction"`
	ProcessingDevice string `json:"processing_device"`
}

// DiseasesResponse lists the mock disease catalog.
type DiseasesResponse struct {
	Diseases    map[string]catalog.MockPlant `json:"diseases"`
	TotalPlants int                          `json:"total_plants"`
	Timestamp   string                       `json:"timestamp"`
}

// RecommendationTypesResponse lists the recommendation categories.
type RecommendationTypesResponse struct {
	Types     []string `json:"types"`
	Timestamp string   `json:"timestamp"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
