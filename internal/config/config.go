package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration.
type Config struct {
	Server  ServerConfig
	Model   ModelConfig
	Logging LoggingConfig

	// parseErrs holds variables that were set but could not be parsed.
	parseErrs []error
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
}

// ModelConfig holds classifier settings.
type ModelConfig struct {
	Path         string
	MetadataPath string
	LibraryPath  string
	Device       string // "auto", "cpu", "cuda"
	ImageSize    int
	EagerLoad    bool
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()

	env := &envReader{}
	cfg := Config{
		Server: ServerConfig{
			Port:            env.int("PORT", 8000),
			MaxUploadBytes:  int64(env.int("MAX_UPLOAD_BYTES", 10<<20)),
			ShutdownTimeout: env.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
			MetricsEnabled:  env.bool("METRICS_ENABLED", true),
		},
		Model: ModelConfig{
			Path:         getenv("MODEL_PATH", "models/plant_disease.onnx"),
			MetadataPath: getenv("METADATA_PATH", "models/model_metadata.json"),
			LibraryPath:  os.Getenv("ORT_LIBRARY_PATH"),
			Device:       strings.ToLower(getenv("DEVICE", "auto")),
			ImageSize:    env.int("IMAGE_SIZE", 224),
			EagerLoad:    env.bool("EAGER_LOAD", true),
		},
		Logging: LoggingConfig{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: strings.ToLower(getenv("LOG_FORMAT", "json")),
		},
	}
	cfg.parseErrs = env.errs
	return cfg
}

// Validate checks the configuration for values the service cannot run with.
// All problems are reported together, including variables Load could not
// parse.
func (c Config) Validate() error {
	errs := append([]error(nil), c.parseErrs...)
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, ErrInvalidPort)
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, ErrInvalidUploadLimit)
	}
	if c.Model.Path == "" {
		errs = append(errs, ErrEmptyModelPath)
	}
	switch c.Model.Device {
	case "auto", "cpu", "cuda":
	default:
		errs = append(errs, ErrInvalidDevice)
	}
	if c.Model.ImageSize <= 0 {
		errs = append(errs, ErrInvalidImageSize)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, ErrInvalidLogFormat)
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c ServerConfig) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envReader parses typed variables and records the ones that are malformed.
// A malformed value yields the fallback so Load can still return a Config.
type envReader struct {
	errs []error
}

func (e *envReader) malformed(key, value string) {
	e.errs = append(e.errs, fmt.Errorf("%w: %s=%q", ErrMalformedValue, key, value))
}

func (e *envReader) int(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		e.malformed(key, v)
		return fallback
	}
	return i
}

func (e *envReader) bool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.malformed(key, v)
		return fallback
	}
	return b
}

func (e *envReader) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.malformed(key, v)
		return fallback
	}
	return d
}
