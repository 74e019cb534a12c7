// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tracing provides OpenTelemetry tracing for the sync engine. It
// supports stdout and OTLP exporters and offers span helpers for queue
// drains and remote apply calls.
package tracing

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/MKhiriev/neuroplan-sync/internal/config"
	"github.com/MKhiriev/neuroplan-sync/models"
)

// TracerName is the instrumentation scope of every span.
const TracerName = "github.com/MKhiriev/neuroplan-sync"

// Tracer wraps an OpenTelemetry tracer with sync-specific helpers.
type Tracer struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
}

// Option adjusts exporter construction.
type Option func(*options)

type options struct {
	output  io.Writer
	version string
}

// WithOutput redirects the stdout exporter.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

// WithVersion records the build version as service.version.
func WithVersion(v string) Option {
	return func(o *options) { o.version = v }
}

// Noop returns a tracer that records nothing.
func Noop() *Tracer {
	return &Tracer{tracer: noop.NewTracerProvider().Tracer(TracerName)}
}

// New creates a Tracer for serviceName. A disabled config or the "none"
// exporter yields [Noop].
func New(ctx context.Context, cfg config.Tracing, serviceName string, opts ...Option) (*Tracer, error) {
	if !cfg.Enabled || cfg.Exporter == "" || cfg.Exporter == config.ExporterNone {
		return Noop(), nil
	}

	o := options{version: "N/A"}
	for _, opt := range opts {
		opt(&o)
	}

	exporter, err := createExporter(ctx, cfg, o)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(o.version),
			attribute.String("deployment.environment", cfg.Environment),
		),
		resource.WithHost(),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRate)),
	)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	otel.SetTracerProvider(provider)

	return &Tracer{
		tracer:   provider.Tracer(TracerName, trace.WithInstrumentationVersion(o.version)),
		provider: provider,
	}, nil
}

// NewWithExporter builds a synchronous Tracer over exporter. Spans are
// exported as soon as they end.
func NewWithExporter(exporter sdktrace.SpanExporter) *Tracer {
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	return &Tracer{
		tracer:   provider.Tracer(TracerName),
		provider: provider,
	}
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	case rate <= 0.0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

func createExporter(ctx context.Context, cfg config.Tracing, o options) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case config.ExporterStdout:
		opts := []stdouttrace.Option{stdouttrace.WithPrettyPrint()}
		if o.output != nil {
			opts = append(opts, stdouttrace.WithWriter(o.output))
		}
		return stdouttrace.New(opts...)

	case config.ExporterOTLP:
		opts := []otlptracehttp.Option{otlptracehttp.WithInsecure()}
		if cfg.OTLPEndpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(cfg.OTLPEndpoint))
		}
		return otlptracehttp.New(ctx, opts...)

	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", cfg.Exporter)
	}
}

// Shutdown flushes and stops the provider.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.provider != nil {
		return t.provider.Shutdown(ctx)
	}
	return nil
}

// Start starts a new span with the given name.
func (t *Tracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}

// DrainSpan covers one pass over the operation queue.
type DrainSpan struct {
	span trace.Span
}

// StartDrainSpan starts a span for a drain caused by trigger.
func (t *Tracer) StartDrainSpan(ctx context.Context, trigger models.SyncTrigger) (context.Context, *DrainSpan) {
	ctx, span := t.tracer.Start(ctx, "sync.drain",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("sync.trigger", string(trigger))),
	)
	return ctx, &DrainSpan{span: span}
}

// End records the drain counters and closes the span.
func (s *DrainSpan) End(report models.DrainReport) {
	s.span.SetAttributes(
		attribute.Int("sync.applied", report.Applied),
		attribute.Int("sync.collapsed", report.Collapsed),
		attribute.Int("sync.conflicts", report.Conflicts),
		attribute.Int("sync.failed", report.Failed),
		attribute.Int("sync.retried", report.Retried),
		attribute.Bool("sync.completed", report.Completed),
		attribute.Bool("sync.interrupted", report.Interrupted),
	)
	s.span.SetStatus(codes.Ok, "drain finished")
	s.span.End()
}

// EndWithError closes the span with error status.
func (s *DrainSpan) EndWithError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
	s.span.End()
}

// ApplySpan covers one remote apply call.
type ApplySpan struct {
	span trace.Span
}

// StartApplySpan starts a client span for op.
func (t *Tracer) StartApplySpan(ctx context.Context, op models.PendingOperation) (context.Context, *ApplySpan) {
	ctx, span := t.tracer.Start(ctx, "sync.apply",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.Int64("op.id", op.OpID),
			attribute.String("op.kind", string(op.Kind)),
			attribute.String("entity.type", string(op.EntityType)),
			attribute.String("entity.id", op.TargetID.String()),
			attribute.Int("op.retry_count", op.RetryCount),
		),
	)
	return ctx, &ApplySpan{span: span}
}

// End records the outcome. Only fatal rejections mark the span as failed.
func (s *ApplySpan) End(result models.ApplyResult) {
	s.span.SetAttributes(attribute.String("apply.outcome", result.Outcome.String()))
	if result.Reason != "" {
		s.span.SetAttributes(attribute.String("apply.reason", result.Reason))
	}
	if result.Outcome == models.OutcomeFatal {
		s.span.SetStatus(codes.Error, result.Reason)
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}

// EndWithError closes the span with error status.
func (s *ApplySpan) EndWithError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
	s.span.End()
}

// AddEvent adds an event to the current span.
func AddEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(attrs...))
}
