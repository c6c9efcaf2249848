package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Brownie44l1/zirave-ai/internal/catalog"
	"github.com/Brownie44l1/zirave-ai/internal/imageproc"
	"github.com/Brownie44l1/zirave-ai/internal/metrics"
	"github.com/Brownie44l1/zirave-ai/internal/model"
)

// Version is reported by the health endpoints.
const Version = "1.0.0"

// DefaultMaxUploadBytes caps image upload bodies.
const DefaultMaxUploadBytes = 10 << 20

// Upload form fields. "image" is accepted for older clients.
const (
	fileField      = "file"
	legacyField    = "image"
	plantTypeField = "plant_type"
)

// Classifier is the model behaviour the handlers depend on.
type Classifier interface {
	EnsureLoaded() error
	Predict(ctx context.Context, input []float32) (model.Prediction, error)
	Device() string
	ImageSize() int
}

// Handler serves the diagnosis API.
type Handler struct {
	classifier     Classifier
	metrics        *metrics.Metrics
	maxUploadBytes int64
	now            func() time.Time

	diseasesBody []byte
	typesBody    []byte
}

// Option customizes a Handler.
type Option func(*Handler)

// WithMetrics records request and prediction metrics to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithMaxUploadBytes limits the size of image uploads.
func WithMaxUploadBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxUploadBytes = n
		}
	}
}

// WithClock replaces time.Now for timestamps and diagnosis IDs.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// NewHandler builds a Handler. The static catalog responses are encoded
// once here and served unchanged for the life of the process.
func NewHandler(classifier Classifier, opts ...Option) (*Handler, error) {
	h := &Handler{
		classifier:     classifier,
		maxUploadBytes: DefaultMaxUploadBytes,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}

	builtAt := timestamp(h.now())
	diseases := catalog.MockDiseases()
	var err error
	h.diseasesBody, err = encodeStatic(model.DiseasesResponse{
		Diseases:    diseases,
		TotalPlants: len(diseases),
		Timestamp:   builtAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode disease catalog: %w", err)
	}
	h.typesBody, err = encodeStatic(model.RecommendationTypesResponse{
		Types:     catalog.RecommendationTypes(),
		Timestamp: builtAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode recommendation types: %w", err)
	}
	return h, nil
}

// Root is the service banner.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{
		Status:    "healthy",
		Message:   "ZİRAVE AI Service is running successfully!",
		Version:   Version,
		Timestamp: timestamp(h.now()),
	})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{
		Status:    "healthy",
		Message:   "All systems operational",
		Version:   Version,
		Timestamp: timestamp(h.now()),
	})
}

// Diagnose returns a mock diagnosis for the requested plant. The symptom,
// location and season fields are accepted but do not affect the result yet.
func (h *Handler) Diagnose(w http.ResponseWriter, r *http.Request) {
	var req model.DiagnosisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	plantType := req.PlantType
	if plantType == "" {
		plantType = catalog.DefaultPlant
	}
	slog.Debug("mock diagnosis",
		"plant_type", plantType,
		"symptoms", req.Symptoms,
		"location", req.Location,
		"season", req.Season)

	first := catalog.MockPlantFor(plantType).CommonDiseases[0]
	now := h.now()
	writeJSON(w, http.StatusOK, model.DiagnosisResponse{
		DiagnosisID: diagnosisID("diag", now),
		PlantType:   plantType,
		DetectedIssues: []model.DetectedIssue{{
			Name:       first.Name,
			Symptoms:   append([]string(nil), first.Symptoms...),
			Treatment:  first.Treatment,
			Confidence: first.Confidence,
		}},
		Recommendations: catalog.MockRecommendations(),
		Confidence:      catalog.MockConfidence,
		Timestamp:       timestamp(now),
	})
}

// DiagnoseImage classifies an uploaded plant photo.
func (h *Handler) DiagnoseImage(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Image exceeds %d bytes", h.maxUploadBytes))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Image exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "Failed to parse form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(fileField)
	if errors.Is(err, http.ErrMissingFile) {
		file, header, err = r.FormFile(legacyField)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "No image file provided. Use 'file' as the form field name")
		return
	}
	defer file.Close()

	if ct := header.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		writeError(w, http.StatusBadRequest, "File must be an image")
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		h.internalError(w, err)
		return
	}

	// The loaded model's metadata decides the input resolution.
	loadErr := h.classifier.EnsureLoaded()
	tensor, err := imageproc.Preprocess(raw, h.classifier.ImageSize())
	if err != nil {
		if errors.Is(err, imageproc.ErrInvalidImage) {
			writeError(w, http.StatusBadRequest, "Error preprocessing image: "+err.Error())
			return
		}
		h.internalError(w, err)
		return
	}

	pred := h.predict(r.Context(), tensor, loadErr)
	info := catalog.Lookup(pred.Label)

	plantType := r.FormValue(plantTypeField)
	if plantType == "" {
		plantType = catalog.PlantTypeFromLabel(pred.Label)
	}

	slog.Info("image diagnosed",
		"file", header.Filename,
		"bytes", len(raw),
		"label", pred.Label,
		"confidence", pred.Confidence)

	now := h.now()
	writeJSON(w, http.StatusOK, model.ImageDiagnosisResponse{
		DiagnosisResponse: model.DiagnosisResponse{
			DiagnosisID: diagnosisID("img_diag", now),
			PlantType:   plantType,
			DetectedIssues: []model.DetectedIssue{{
				Name:       info.Name,
				Symptoms:   info.Symptoms,
				Treatment:  info.Treatment,
				Confidence: pred.Confidence,
			}},
			Recommendations: catalog.RecommendationsFor(info.Severity, info.Treatment),
			Confidence:      pred.Confidence,
			Timestamp:       timestamp(now),
		},
		ImageProcessed:   true,
		ImageSize:        fmt.Sprintf("%d bytes", len(raw)),
		ModelPrediction:  pred.Label,
		ProcessingDevice: h.classifier.Device(),
	})
}

// predict runs the classifier and degrades to the fallback label when the
// model is unavailable or the forward pass fails. A non-nil loadErr skips
// the forward pass.
func (h *Handler) predict(ctx context.Context, tensor []float32, loadErr error) model.Prediction {
	start := time.Now()
	var (
		pred model.Prediction
		err  error
	)
	if loadErr != nil {
		err = fmt.Errorf("%w: %v", model.ErrModelUnavailable, loadErr)
	} else {
		pred, err = h.classifier.Predict(ctx, tensor)
	}
	if err != nil {
		reason := "inference_failed"
		if errors.Is(err, model.ErrModelUnavailable) {
			reason = "model_unavailable"
		}
		slog.Warn("model prediction failed, using fallback", "error", err, "reason", reason)
		h.metrics.ObserveFallback(reason)
		pred = model.Prediction{
			Label:      catalog.FallbackLabel,
			Index:      -1,
			Confidence: catalog.FallbackConfidence,
		}
	} else {
		h.metrics.ObserveInference(time.Since(start))
	}
	h.metrics.ObservePrediction(pred.Label)
	return pred
}

// PlantDiseases lists the mock disease catalog.
func (h *Handler) PlantDiseases(w http.ResponseWriter, r *http.Request) {
	writeRaw(w, http.StatusOK, h.diseasesBody)
}

// RecommendationTypes lists the recommendation categories.
func (h *Handler) RecommendationTypes(w http.ResponseWriter, r *http.Request) {
	writeRaw(w, http.StatusOK, h.typesBody)
}

func (h *Handler) internalError(w http.ResponseWriter, err error) {
	slog.Error("image diagnosis failed", "error", err)
	writeError(w, http.StatusInternalServerError, "Image diagnosis failed: "+err.Error())
}

func diagnosisID(prefix string, t time.Time) string {
	return fmt.Sprintf("%s_%s_%s", prefix, t.Format("20060102_150405"), uuid.NewString()[:8])
}

func timestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func encodeStatic(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, model.ErrorResponse{Detail: detail})
}
