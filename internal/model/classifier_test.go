package model

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brownie44l1/zirave-ai/internal/catalog"
	"github.com/Brownie44l1/zirave-ai/internal/imageproc"
)

const testModelPath = "../../models/plant_disease.onnx"

func skipIfNoModel(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(testModelPath); os.IsNotExist(err) {
		t.Skip("model file not found; export one to models/plant_disease.onnx")
	}
}

func TestNewClassifier_Defaults(t *testing.T) {
	c := NewClassifier(Options{ModelPath: "missing.onnx"})
	assert.Equal(t, imageproc.DefaultSize, c.ImageSize())
	assert.Equal(t, catalog.Labels(), c.Labels())
	assert.Equal(t, DeviceCPU, c.Device())
	assert.False(t, c.Loaded())
}

func TestEnsureLoaded_MissingModel(t *testing.T) {
	c := NewClassifier(Options{ModelPath: filepath.Join(t.TempDir(), "nope.onnx")})

	err := c.EnsureLoaded()
	require.ErrorIs(t, err, ErrModelNotFound)
	assert.False(t, c.Loaded())

	// Failures are not cached.
	assert.ErrorIs(t, c.EnsureLoaded(), ErrModelNotFound)
}

func TestEnsureLoaded_ConcurrentMissingModel(t *testing.T) {
	c := NewClassifier(Options{ModelPath: filepath.Join(t.TempDir(), "nope.onnx")})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.ErrorIs(t, c.EnsureLoaded(), ErrModelNotFound)
		}()
	}
	wg.Wait()
}

func TestPredict_ModelUnavailable(t *testing.T) {
	c := NewClassifier(Options{ModelPath: filepath.Join(t.TempDir(), "nope.onnx")})

	_, err := c.Predict(context.Background(), make([]float32, imageproc.TensorLen(imageproc.DefaultSize)))
	require.ErrorIs(t, err, ErrModelUnavailable)
}

func TestPredict_CanceledContext(t *testing.T) {
	c := NewClassifier(Options{ModelPath: "irrelevant.onnx"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Predict(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClose_Unloaded(t *testing.T) {
	c := NewClassifier(Options{})
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestSoftmax(t *testing.T) {
	probs := softmax([]float32{1, 2, 3})
	require.Len(t, probs, 3)

	var sum float64
	for _, p := range probs {
		assert.True(t, p > 0 && p < 1)
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.InDelta(t, 0.6652409557748219, probs[2], 1e-9)
}

func TestSoftmax_LargeLogits(t *testing.T) {
	probs := softmax([]float32{1000, 1000})
	assert.InDelta(t, 0.5, probs[0], 1e-9)
	assert.InDelta(t, 0.5, probs[1], 1e-9)
	assert.Nil(t, softmax(nil))
}

func TestArgmax(t *testing.T) {
	assert.Equal(t, 2, argmax([]float64{0.1, 0.2, 0.7}))
	assert.Equal(t, 0, argmax([]float64{0.5, 0.5}))
	assert.Equal(t, 0, argmax([]float64{1}))
}

func TestTop1(t *testing.T) {
	labels := []string{"a", "b", "c"}

	p, err := top1([]float32{0, 5, 1}, labels)
	require.NoError(t, err)
	assert.Equal(t, "b", p.Label)
	assert.Equal(t, 1, p.Index)
	assert.True(t, p.Confidence > 0.9 && p.Confidence <= 1)

	_, err = top1([]float32{0, 1}, labels)
	assert.ErrorIs(t, err, ErrInferenceFailed)

	_, err = top1([]float32{float32(math.NaN()), 0, 0}, labels)
	assert.ErrorIs(t, err, ErrInferenceFailed)
}

func TestCheckDims(t *testing.T) {
	assert.NoError(t, checkDims([]int64{1, 3, 224, 224}, []int64{1, 25}, 224, 25))
	assert.NoError(t, checkDims([]int64{-1, 3, -1, -1}, []int64{-1, -1}, 224, 25))
	assert.Error(t, checkDims([]int64{1, 3, 224, 224}, []int64{1, 10}, 224, 25))
	assert.Error(t, checkDims([]int64{1, 3, 128, 128}, []int64{1, 25}, 224, 25))
}

func TestLoadMetadata(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meta.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"classes":["x","y"],"image_size":128,"input_name":"pixel_values"}`), 0o644))

	m, err := LoadMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, m.Classes)
	assert.Equal(t, 128, m.ImageSize)
	assert.Equal(t, "pixel_values", m.InputName)

	_, err = LoadMetadata(filepath.Join(dir, "absent.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = LoadMetadata(bad)
	assert.Error(t, err)
}

func TestPredict_RealModel(t *testing.T) {
	skipIfNoModel(t)

	c := NewClassifier(Options{ModelPath: testModelPath, Device: DeviceCPU})
	require.NoError(t, c.EnsureLoaded())
	defer c.Close()

	input := make([]float32, imageproc.TensorLen(c.ImageSize()))
	p, err := c.Predict(context.Background(), input)
	require.NoError(t, err)
	assert.Contains(t, c.Labels(), p.Label)
	assert.GreaterOrEqual(t, p.Confidence, 0.0)
	assert.LessOrEqual(t, p.Confidence, 1.0)

	_, err = c.Predict(context.Background(), input[:10])
	assert.ErrorIs(t, err, ErrInferenceFailed)
}
