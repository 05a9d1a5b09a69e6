// tracer.go
package smp

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type SpanKind int

const (
	SpanKindProducer SpanKind = iota
	SpanKindConsumer
)

type SpanContext struct {
	TraceID  string
	SpanID   string
	IsRemote bool
}

type Span interface {
	End()
	SetError(err error)
	SetAttribute(key string, value interface{})
	Context() SpanContext
}

type SpanOption func(*SpanOptions)

type SpanOptions struct {
	Kind       SpanKind
	Attributes map[string]interface{}
}

type Tracer interface {
	// StartSpan starts a new span
	StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)

	// Inject injects span context into carrier
	Inject(ctx context.Context, carrier propagation.TextMapCarrier)

	// Extract extracts span context from carrier
	Extract(ctx context.Context, carrier propagation.TextMapCarrier) context.Context
}

type DefaultSpan struct{}

func (s *DefaultSpan) End()                                       {}
func (s *DefaultSpan) SetError(err error)                         {}
func (s *DefaultSpan) SetAttribute(key string, value interface{}) {}
func (s *DefaultSpan) Context() SpanContext {
	return SpanContext{}
}

// DefaultTracer is a tracer that does nothing
type DefaultTracer struct{}

func (t *DefaultTracer) StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span) {
	return ctx, &DefaultSpan{}
}

func (t *DefaultTracer) Inject(ctx context.Context, carrier propagation.TextMapCarrier) {}

func (t *DefaultTracer) Extract(ctx context.Context, carrier propagation.TextMapCarrier) context.Context {
	return ctx
}

// OtelSpan wraps an OpenTelemetry span
type OtelSpan struct {
	span trace.Span
}

func (s *OtelSpan) End() {
	s.span.End()
}

func (s *OtelSpan) SetError(err error) {
	s.span.RecordError(err)
}

func (s *OtelSpan) SetAttribute(key string, value interface{}) {
	s.span.SetAttributes(toAttribute(key, value))
}

func (s *OtelSpan) Context() SpanContext {
	sc := s.span.SpanContext()
	return SpanContext{
		TraceID:  sc.TraceID().String(),
		SpanID:   sc.SpanID().String(),
		IsRemote: sc.IsRemote(),
	}
}

func toAttribute(key string, value interface{}) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}

// OtelTracer wraps an OpenTelemetry tracer
type OtelTracer struct {
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

func NewOtelTracer(tracer trace.Tracer, propagator propagation.TextMapPropagator) *OtelTracer {
	return &OtelTracer{
		tracer:     tracer,
		propagator: propagator,
	}
}

func (t *OtelTracer) StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span) {
	options := &SpanOptions{}
	for _, opt := range opts {
		opt(options)
	}

	spanOpts := make([]trace.SpanStartOption, 0, len(options.Attributes)+1)
	if options.Kind == SpanKindProducer {
		spanOpts = append(spanOpts, trace.WithSpanKind(trace.SpanKindProducer))
	} else {
		spanOpts = append(spanOpts, trace.WithSpanKind(trace.SpanKindConsumer))
	}
	for key, value := range options.Attributes {
		spanOpts = append(spanOpts, trace.WithAttributes(toAttribute(key, value)))
	}

	ctx, span := t.tracer.Start(ctx, name, spanOpts...)
	return ctx, &OtelSpan{span: span}
}

func (t *OtelTracer) Inject(ctx context.Context, carrier propagation.TextMapCarrier) {
	t.propagator.Inject(ctx, carrier)
}

func (t *OtelTracer) Extract(ctx context.Context, carrier propagation.TextMapCarrier) context.Context {
	return t.propagator.Extract(ctx, carrier)
}

// Helper functions for span options
func WithSpanKind(kind SpanKind) SpanOption {
	return func(o *SpanOptions) {
		o.Kind = kind
	}
}

func WithAttribute(key string, value interface{}) SpanOption {
	return func(o *SpanOptions) {
		if o.Attributes == nil {
			o.Attributes = make(map[string]interface{})
		}
		o.Attributes[key] = value
	}
}
