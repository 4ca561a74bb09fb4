// Package service is the facade between the tool views and the generative-AI
// backend. Every operation makes exactly one backend call and never retries.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"AIToolbox/internal/backend"
)

// Models names the backend model used for each kind of request
type Models struct {
	Text      string
	Image     string
	ImageEdit string
}

// DefaultModels returns the Gemini models the toolbox was built against
func DefaultModels() Models {
	return Models{
		Text:      "gemini-2.5-flash",
		Image:     "imagen-4.0-generate-001",
		ImageEdit: "gemini-2.5-flash-image-preview",
	}
}

// Options configures a Service. Tracer and Meter default to no-ops.
type Options struct {
	Models Models
	Logger *slog.Logger
	Tracer trace.Tracer
	Meter  metric.Meter
}

// Service implements one operation per tool
type Service struct {
	backend  backend.Backend
	models   Models
	logger   *slog.Logger
	tracer   trace.Tracer
	duration metric.Float64Histogram
	failures metric.Int64Counter
}

// New creates the facade. A nil backend means the service was never
// configured with credentials and is refused.
func New(b backend.Backend, opts Options) (*Service, error) {
	if b == nil {
		return nil, fmt.Errorf("backend cannot be nil")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if opts.Tracer == nil {
		opts.Tracer = tracenoop.NewTracerProvider().Tracer("aitoolbox")
	}
	if opts.Meter == nil {
		opts.Meter = metricnoop.NewMeterProvider().Meter("aitoolbox")
	}
	if opts.Models == (Models{}) {
		opts.Models = DefaultModels()
	}

	duration, err := opts.Meter.Float64Histogram(
		"ai.request.duration",
		metric.WithDescription("AI request duration in milliseconds"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	failures, err := opts.Meter.Int64Counter(
		"ai.request.errors",
		metric.WithDescription("Failed AI requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create error counter: %w", err)
	}

	return &Service{
		backend:  b,
		models:   opts.Models,
		logger:   opts.Logger,
		tracer:   opts.Tracer,
		duration: duration,
		failures: failures,
	}, nil
}

// BackendName reports which backend serves requests
func (s *Service) BackendName() string {
	return s.backend.Name()
}

// observe wraps one backend call in a span and records its duration and outcome
func (s *Service) observe(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, op+"_api_call",
		trace.WithAttributes(attribute.String("ai.backend", s.backend.Name())),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)

	attrs := metric.WithAttributes(attribute.String("op", op))
	s.duration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.failures.Add(ctx, 1, attrs)
		s.logger.Error("ai request failed", "op", op, "error", err)
		return err
	}
	s.logger.Info("ai request completed", "op", op, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// generate runs a single-shot request and insists on at least one candidate
func (s *Service) generate(ctx context.Context, op string, req backend.Request) (*backend.Response, error) {
	var resp *backend.Response
	err := s.observe(ctx, op, func(ctx context.Context) error {
		r, err := s.backend.Generate(ctx, req)
		if err != nil {
			return &RemoteError{Op: op, Err: err}
		}
		if r == nil || r.Candidates == 0 {
			return &FormatError{Op: op, Detail: "empty candidate list"}
		}
		resp = r
		return nil
	})
	return resp, err
}

func textParts(text string) []backend.Part {
	return []backend.Part{{Text: text}}
}
