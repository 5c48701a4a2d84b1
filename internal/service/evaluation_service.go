// Package service contains application services.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sentinel-Gate/admitgate/internal/ctxkey"
	"github.com/Sentinel-Gate/admitgate/internal/domain/admission"
	"github.com/Sentinel-Gate/admitgate/internal/domain/criteria"
	"github.com/Sentinel-Gate/admitgate/internal/port/inbound"
)

const tracerName = "github.com/Sentinel-Gate/admitgate/internal/service"

// loggerFromContext retrieves the enriched logger from context.
// Returns nil if no logger is in context, allowing caller to fall back.
func loggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.LoggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return nil
}

// EvaluationService runs single-input admission evaluations and wraps the
// result in a Record with an evaluation id, timestamp and input fingerprint.
type EvaluationService struct {
	evaluator *admission.Evaluator
	metrics   *Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time
	newID     func() string
}

// EvaluationServiceOption configures EvaluationService.
type EvaluationServiceOption func(*EvaluationService)

// WithMetrics records evaluation metrics.
func WithMetrics(m *Metrics) EvaluationServiceOption {
	return func(s *EvaluationService) {
		s.metrics = m
	}
}

// WithTracerProvider sets the tracer provider used for evaluation spans.
func WithTracerProvider(tp trace.TracerProvider) EvaluationServiceOption {
	return func(s *EvaluationService) {
		s.tracer = tp.Tracer(tracerName)
	}
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) EvaluationServiceOption {
	return func(s *EvaluationService) {
		s.now = now
	}
}

// WithIDGenerator overrides evaluation id generation (tests).
func WithIDGenerator(gen func() string) EvaluationServiceOption {
	return func(s *EvaluationService) {
		s.newID = gen
	}
}

// NewEvaluationService creates an EvaluationService around evaluator.
func NewEvaluationService(evaluator *admission.Evaluator, logger *slog.Logger, opts ...EvaluationServiceOption) *EvaluationService {
	s := &EvaluationService{
		evaluator: evaluator,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the catalog the service evaluates against.
func (s *EvaluationService) Catalog() *criteria.Catalog {
	return s.evaluator.Catalog()
}

// Evaluate evaluates one request. On failure no Record is returned.
func (s *EvaluationService) Evaluate(ctx context.Context, req admission.Request) (*admission.Record, error) {
	logger := loggerFromContext(ctx)
	if logger == nil {
		logger = s.logger
	}

	catalog := s.evaluator.Catalog()
	ctx, span := s.tracer.Start(ctx, "admission.evaluate",
		trace.WithAttributes(
			attribute.String("admission.policy", catalog.Name()),
			attribute.Int("admission.inputs", len(req.Set)),
		),
	)
	defer span.End()

	if len(req.Ignored) > 0 {
		logger.Warn("ignored unknown criteria", "keys", req.Ignored, "policy", catalog.Name())
	}

	start := time.Now()
	rec, err := s.evaluator.Evaluate(req.Set)
	elapsed := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.recordFailure(ctx, logger, err)
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}

	record := &admission.Record{
		EvaluationID:   s.newID(),
		EvaluatedAt:    s.now(),
		Fingerprint:    Fingerprint(catalog, req.Set),
		PatientID:      req.PatientID,
		EncounterID:    req.EncounterID,
		Ignored:        req.Ignored,
		Recommendation: rec,
	}

	span.SetAttributes(
		attribute.String("admission.evaluation_id", record.EvaluationID),
		attribute.Bool("admission.admit", rec.Admit),
		attribute.Int("admission.triggered", len(rec.Triggered)),
		attribute.Int("admission.missing", len(rec.Missing)),
	)

	if s.metrics != nil {
		s.metrics.EvaluationsTotal.WithLabelValues(catalog.Name(), resultLabel(rec.Admit)).Inc()
		s.metrics.MissingCriteria.Observe(float64(len(rec.Missing)))
		s.metrics.EvaluationDuration.Observe(elapsed.Seconds())
	}

	logger.Info("admission evaluated",
		"evaluation_id", record.EvaluationID,
		"policy", rec.Policy,
		"admit", rec.Admit,
		"triggered", len(rec.Triggered),
		"missing", len(rec.Missing),
		"fingerprint", record.Fingerprint,
	)
	if !rec.Admit && len(rec.Missing) > 0 {
		logger.Warn("no admission criterion met but inputs are missing",
			"evaluation_id", record.EvaluationID,
			"missing", rec.Missing,
		)
	}

	return record, nil
}

// RecordFailure logs and counts an input that failed before evaluation
// (for example a file that could not be decoded).
func (s *EvaluationService) RecordFailure(ctx context.Context, err error) {
	logger := loggerFromContext(ctx)
	if logger == nil {
		logger = s.logger
	}
	s.recordFailure(ctx, logger, err)
}

func (s *EvaluationService) recordFailure(ctx context.Context, logger *slog.Logger, err error) {
	s.metrics.ObserveFailure(err)

	attrs := []any{"error", err}
	var ve *criteria.ValidationError
	if errors.As(err, &ve) {
		attrs = append(attrs, "kind", string(ve.Kind), "field", ve.Field)
	}
	logger.ErrorContext(ctx, "admission input rejected", attrs...)
}

func resultLabel(admit bool) string {
	if admit {
		return "admit"
	}
	return "no_admit"
}

// Compile-time check that EvaluationService implements AdmissionService.
var _ inbound.AdmissionService = (*EvaluationService)(nil)
