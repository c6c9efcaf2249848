package client

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/zirave-ai/internal/handlers"
	"github.com/Brownie44l1/zirave-ai/internal/model"
)

type stubClassifier struct{}

func (stubClassifier) EnsureLoaded() error { return nil }
func (stubClassifier) Device() string      { return "cpu" }
func (stubClassifier) ImageSize() int      { return 8 }

func (stubClassifier) Predict(context.Context, []float32) (model.Prediction, error) {
	return model.Prediction{Label: "Apple___Apple_scab", Confidence: 0.6}, nil
}

// newServer runs the real handlers behind httptest.
func newServer(t *testing.T) *Client {
	t.Helper()
	h, err := handlers.NewHandler(stubClassifier{})
	require.NoError(t, err)
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", WithTimeout(5*time.Second))
}

func TestHealth(t *testing.T) {
	c := newServer(t)
	resp, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", resp.Status)
}

func TestDiagnose(t *testing.T) {
	c := newServer(t)
	resp, err := c.Diagnose(context.Background(), model.DiagnosisRequest{PlantType: "salatalik"})
	require.NoError(t, err)
	assert.Equal(t, "salatalik", resp.PlantType)
	assert.Equal(t, "Külleme Hastalığı", resp.DetectedIssues[0].Name)
	assert.Equal(t, 0.87, resp.Confidence)
}

func TestDiagnoseImage(t *testing.T) {
	c := newServer(t)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 10))))

	resp, err := c.DiagnoseImage(context.Background(), "leaf.png", buf.Bytes(), "")
	require.NoError(t, err)
	assert.Equal(t, "Apple___Apple_scab", resp.ModelPrediction)
	assert.Equal(t, "Apple", resp.PlantType)
	assert.Equal(t, "Elma Karaleke", resp.DetectedIssues[0].Name)

	resp, err = c.DiagnoseImage(context.Background(), "leaf.png", buf.Bytes(), "elma")
	require.NoError(t, err)
	assert.Equal(t, "elma", resp.PlantType)
}

func TestDiagnoseImage_NotImage(t *testing.T) {
	c := newServer(t)

	_, err := c.DiagnoseImage(context.Background(), "notes.txt", []byte("plain text"), "")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "File must be an image", apiErr.Detail)
}

func TestCatalogEndpoints(t *testing.T) {
	c := newServer(t)

	diseases, err := c.PlantDiseases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, diseases.TotalPlants)

	types, err := c.RecommendationTypes(context.Background())
	require.NoError(t, err)
	assert.Len(t, types.Types, 5)
}

func TestAPIError_PlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Health(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream down", apiErr.Detail)
	assert.Equal(t, "HTTP 502: upstream down", apiErr.Error())
}

func TestDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).RecommendationTypes(context.Background())
	assert.ErrorContains(t, err, "failed to decode response")
}
