package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Brownie44l1/zirave-ai/internal/config"
	"github.com/Brownie44l1/zirave-ai/internal/handlers"
	"github.com/Brownie44l1/zirave-ai/internal/logging"
	"github.com/Brownie44l1/zirave-ai/internal/metrics"
	"github.com/Brownie44l1/zirave-ai/internal/model"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logging.Init(cfg.Logging.Format, logging.ParseLevel(cfg.Logging.Level))

	classifier := model.NewClassifier(model.Options{
		ModelPath:    cfg.Model.Path,
		MetadataPath: cfg.Model.MetadataPath,
		LibraryPath:  cfg.Model.LibraryPath,
		Device:       cfg.Model.Device,
		ImageSize:    cfg.Model.ImageSize,
	})
	defer func() {
		if err := classifier.Close(); err != nil {
			slog.Error("failed to close model", "error", err)
		}
		if err := model.Shutdown(); err != nil {
			slog.Error("failed to shut down ONNX runtime", "error", err)
		}
	}()

	// Without a model the service still answers; image requests use the
	// fallback prediction until a model file appears.
	if cfg.Model.EagerLoad {
		slog.Info("loading plant disease classification model", "path", cfg.Model.Path)
		if err := classifier.EnsureLoaded(); err != nil {
			slog.Warn("model not loaded, serving fallback predictions", "error", err)
		}
	}

	opts := []handlers.Option{handlers.WithMaxUploadBytes(cfg.Server.MaxUploadBytes)}
	if cfg.Server.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts = append(opts, handlers.WithMetrics(metrics.New(reg)))
	}
	handler, err := handlers.NewHandler(classifier, opts...)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting",
			"addr", srv.Addr,
			"device", classifier.Device(),
			"model_loaded", classifier.Loaded(),
			"metrics", cfg.Server.MetricsEnabled)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}
	return nil
}
