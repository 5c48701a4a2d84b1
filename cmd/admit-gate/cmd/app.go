package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Sentinel-Gate/admitgate/internal/adapter/inbound/jsoninput"
	"github.com/Sentinel-Gate/admitgate/internal/adapter/outbound/catalog"
	celeval "github.com/Sentinel-Gate/admitgate/internal/adapter/outbound/cel"
	"github.com/Sentinel-Gate/admitgate/internal/config"
	"github.com/Sentinel-Gate/admitgate/internal/domain/criteria"
	"github.com/Sentinel-Gate/admitgate/internal/port/outbound"
	"github.com/Sentinel-Gate/admitgate/internal/service"
)

// app holds the components shared by evaluate and serve.
type app struct {
	cfg      *config.AppConfig
	logger   *slog.Logger
	service  *service.EvaluationService
	decoder  *jsoninput.Decoder
	registry *prometheus.Registry
	tracer   *sdktrace.TracerProvider
}

// newApp wires the evaluation service from cfg. Logs and spans go to stderr.
func newApp(cfg *config.AppConfig, stderr io.Writer) (*app, error) {
	logger := newLogger(cfg, stderr)

	cat, err := loadCatalog(cfg.Policy.File)
	if err != nil {
		return nil, err
	}
	logger.Debug("policy loaded", "policy", cat.Name(), "criteria", cat.Len(), "notes", len(cat.Notes()))

	evaluator, err := service.NewCatalogEvaluator(cat)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		decoder:  jsoninput.NewDecoder(cat, jsoninput.UnknownMode(cfg.UnknownCriteria)),
	}

	opts := []service.EvaluationServiceOption{
		service.WithMetrics(service.NewMetrics(a.registry)),
	}
	if cfg.Telemetry.Trace {
		tp, err := service.NewStdoutTracerProvider(stderr)
		if err != nil {
			return nil, err
		}
		a.tracer = tp
		opts = append(opts, service.WithTracerProvider(tp))
	}

	a.service = service.NewEvaluationService(evaluator, logger, opts...)
	return a, nil
}

// close flushes spans and writes the metrics textfile, if configured.
func (a *app) close(ctx context.Context) error {
	var errs []error
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush traces: %w", err))
		}
	}
	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := service.WriteTextfile(path, a.registry); err != nil {
			errs = append(errs, err)
		} else {
			a.logger.Debug("metrics written", "path", path)
		}
	}
	return errors.Join(errs...)
}

// newCatalogLoader returns the YAML catalog store with CEL note support.
func newCatalogLoader() (outbound.CatalogLoader, error) {
	eval, err := celeval.NewEvaluator()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL evaluator: %w", err)
	}
	store, err := catalog.NewStore(eval)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// loadCatalog returns the built-in catalog when path is empty.
func loadCatalog(path string) (*criteria.Catalog, error) {
	if path == "" {
		return criteria.DefaultCatalog(), nil
	}
	loader, err := newCatalogLoader()
	if err != nil {
		return nil, err
	}
	return loader.LoadFile(path)
}

// newLogger builds the stderr logger. stdout is reserved for results and
// the MCP stream.
func newLogger(cfg *config.AppConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// parseLogLevel converts a string log level to slog.Level.
// Returns slog.LevelInfo for unrecognized values.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
