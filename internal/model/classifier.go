package model

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/Brownie44l1/zirave-ai/internal/catalog"
	"github.com/Brownie44l1/zirave-ai/internal/imageproc"
)

// Compute devices a Classifier can run on.
const (
	DeviceAuto = "auto"
	DeviceCPU  = "cpu"
	DeviceCUDA = "cuda"
)

var (
	// ErrModelNotFound is returned by EnsureLoaded when no model file exists
	// at the configured path.
	ErrModelNotFound = errors.New("model file not found")

	// ErrModelUnavailable is returned by Predict when the model could not be
	// loaded.
	ErrModelUnavailable = errors.New("model not available")

	// ErrInferenceFailed is returned by Predict when the forward pass fails.
	ErrInferenceFailed = errors.New("inference failed")
)

// ortEnv guards the process-wide ONNX Runtime environment.
var ortEnv struct {
	once sync.Once
	err  error
}

func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// Options configures a Classifier.
type Options struct {
	ModelPath    string
	MetadataPath string
	// LibraryPath points at the onnxruntime shared library. Empty uses the
	// platform default search.
	LibraryPath string
	Device      string
	ImageSize   int
	Labels      []string
}

// Classifier wraps an ONNX Runtime session for the plant disease network.
// It is created cheaply and loads the session on first use, so it may be
// shared by concurrent requests from the start.
type Classifier struct {
	opts Options

	mu         sync.RWMutex
	session    *ort.DynamicAdvancedSession
	inputName  string
	outputName string
	labels     []string
	imageSize  int
	device     string
}

// NewClassifier returns an unloaded classifier. Call EnsureLoaded to load
// eagerly; Predict loads on demand otherwise.
func NewClassifier(opts Options) *Classifier {
	if opts.ImageSize <= 0 {
		opts.ImageSize = imageproc.DefaultSize
	}
	if len(opts.Labels) == 0 {
		opts.Labels = catalog.Labels()
	}
	if opts.Device == "" {
		opts.Device = DeviceAuto
	}
	return &Classifier{
		opts:      opts,
		labels:    opts.Labels,
		imageSize: opts.ImageSize,
		device:    DeviceCPU,
	}
}

// EnsureLoaded creates the inference session if it does not exist yet.
// Calling it on a loaded classifier is a no-op. A failed load leaves the
// classifier unloaded so a later call can retry.
func (c *Classifier) EnsureLoaded() error {
	c.mu.RLock()
	loaded := c.session != nil
	c.mu.RUnlock()
	if loaded {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		return nil
	}
	return c.load()
}

// load must be called with c.mu held for writing.
func (c *Classifier) load() error {
	if _, err := os.Stat(c.opts.ModelPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrModelNotFound, c.opts.ModelPath)
		}
		return fmt.Errorf("failed to stat model: %w", err)
	}

	labels := c.opts.Labels
	imageSize := c.opts.ImageSize
	var metadata Metadata
	if c.opts.MetadataPath != "" {
		m, err := LoadMetadata(c.opts.MetadataPath)
		switch {
		case err == nil:
			metadata = m
		case errors.Is(err, os.ErrNotExist):
			slog.Debug("model metadata not found, using built-in labels", "path", c.opts.MetadataPath)
		default:
			return err
		}
	}
	if len(metadata.Classes) > 0 {
		labels = metadata.Classes
	}
	if metadata.ImageSize > 0 {
		imageSize = metadata.ImageSize
	}

	if err := initORT(c.opts.LibraryPath); err != nil {
		return fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(c.opts.ModelPath)
	if err != nil {
		return fmt.Errorf("failed to read model info: %w", err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return fmt.Errorf("model must have at least one input and one output")
	}

	inputName, outputName := metadata.InputName, metadata.OutputName
	if inputName == "" {
		inputName = inputs[0].Name
	}
	if outputName == "" {
		outputName = outputs[0].Name
	}
	if err := checkDims(inputs[0].Dimensions, outputs[0].Dimensions, imageSize, len(labels)); err != nil {
		return err
	}

	opts, device, err := newSessionOptions(c.opts.Device)
	if err != nil {
		return err
	}
	defer opts.Destroy()

	session, err := ort.NewDynamicAdvancedSession(c.opts.ModelPath,
		[]string{inputName}, []string{outputName}, opts)
	if err != nil {
		return fmt.Errorf("failed to create ONNX session: %w", err)
	}

	c.session = session
	c.inputName = inputName
	c.outputName = outputName
	c.labels = labels
	c.imageSize = imageSize
	c.device = device

	slog.Info("model loaded",
		"path", c.opts.ModelPath,
		"device", device,
		"classes", len(labels),
		"image_size", imageSize)
	return nil
}

// checkDims validates the fixed dimensions of the model against the label
// list and input size. Dynamic dimensions (<= 0) are not checked.
func checkDims(in, out ort.Shape, imageSize, classes int) error {
	if len(out) > 0 {
		if width := out[len(out)-1]; width > 0 && int(width) != classes {
			return fmt.Errorf("model output width %d does not match %d labels", width, classes)
		}
	}
	if len(in) == 4 {
		h, w := in[2], in[3]
		if (h > 0 && int(h) != imageSize) || (w > 0 && int(w) != imageSize) {
			return fmt.Errorf("model input %dx%d does not match image size %d", h, w, imageSize)
		}
	}
	return nil
}

// newSessionOptions picks the execution provider. "auto" tries CUDA and
// silently falls back to CPU; "cuda" fails if CUDA cannot be used.
func newSessionOptions(device string) (*ort.SessionOptions, string, error) {
	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session options: %w", err)
	}
	if device == DeviceCPU {
		return opts, DeviceCPU, nil
	}

	err = appendCUDA(opts)
	if err == nil {
		return opts, DeviceCUDA, nil
	}
	if device == DeviceCUDA {
		opts.Destroy()
		return nil, "", fmt.Errorf("failed to enable CUDA: %w", err)
	}
	slog.Info("CUDA unavailable, running on CPU", "error", err)
	return opts, DeviceCPU, nil
}

func appendCUDA(opts *ort.SessionOptions) error {
	cuda, err := ort.NewCUDAProviderOptions()
	if err != nil {
		return err
	}
	defer cuda.Destroy()
	return opts.AppendExecutionProviderCUDA(cuda)
}

// Predict runs the network on a preprocessed [1,3,H,W] tensor and returns
// the most probable label with its softmax probability.
func (c *Classifier) Predict(ctx context.Context, input []float32) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}
	if err := c.EnsureLoaded(); err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return Prediction{}, ErrModelUnavailable
	}

	size := int64(c.imageSize)
	if want := imageproc.TensorLen(c.imageSize); len(input) != want {
		return Prediction{}, fmt.Errorf("%w: expected %d input values, got %d", ErrInferenceFailed, want, len(input))
	}

	in, err := ort.NewTensor(ort.NewShape(1, imageproc.Channels, size, size), input)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: failed to create input tensor: %v", ErrInferenceFailed, err)
	}
	defer in.Destroy()

	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(c.labels))))
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: failed to create output tensor: %v", ErrInferenceFailed, err)
	}
	defer out.Destroy()

	if err := c.session.Run([]ort.Value{in}, []ort.Value{out}); err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrInferenceFailed, err)
	}

	return top1(out.GetData(), c.labels)
}

// top1 applies softmax to logits and picks the best label.
func top1(logits []float32, labels []string) (Prediction, error) {
	if len(logits) != len(labels) {
		return Prediction{}, fmt.Errorf("%w: got %d logits for %d labels", ErrInferenceFailed, len(logits), len(labels))
	}
	probs := softmax(logits)
	idx := argmax(probs)
	conf := probs[idx]
	if math.IsNaN(conf) || math.IsInf(conf, 0) {
		return Prediction{}, fmt.Errorf("%w: non-finite model output", ErrInferenceFailed)
	}
	return Prediction{Label: labels[idx], Index: idx, Confidence: conf}, nil
}

// Device reports where inference runs. Before loading it reports "cpu".
func (c *Classifier) Device() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.device
}

// ImageSize is the square input resolution the loaded model expects.
func (c *Classifier) ImageSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.imageSize
}

// Labels returns the class list in output order.
func (c *Classifier) Labels() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.labels...)
}

// Loaded reports whether a session is ready.
func (c *Classifier) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session != nil
}

// Close releases the session. The classifier can be loaded again afterwards.
func (c *Classifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	err := c.session.Destroy()
	c.session = nil
	return err
}

// Shutdown tears down the ONNX Runtime environment. Call once at exit after
// every Classifier has been closed.
func Shutdown() error {
	if !ort.IsInitialized() {
		return nil
	}
	return ort.DestroyEnvironment()
}
