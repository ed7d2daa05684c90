package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Tracing holds the tracer provider for pipeline spans.
type Tracing struct {
	provider *sdktrace.TracerProvider
}

// NewTracing sets up a Jaeger-backed tracer provider. An empty endpoint
// returns a no-op Tracing so workers run fine without a collector.
func NewTracing(serviceName, jaegerEndpoint string) *Tracing {
	if jaegerEndpoint == "" {
		return &Tracing{}
	}

	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerEndpoint)))
	if err != nil {
		log.Printf("Failed to create Jaeger exporter: %v", err)
		return &Tracing{}
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		)),
	)
	otel.SetTracerProvider(provider)

	return &Tracing{provider: provider}
}

// StartStage opens a span for one pipeline stage on the global provider.
// Without a registered provider the returned span is a no-op, so workers
// run fine when tracing is disabled.
func StartStage(ctx context.Context, stage string, attrs map[string]string) (context.Context, trace.Span) {
	kvs := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		kvs = append(kvs, attribute.String(k, v))
	}

	return otel.Tracer("pipeline").Start(ctx, stage, trace.WithAttributes(kvs...))
}

func (t *Tracing) Shutdown() {
	if t.provider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = t.provider.Shutdown(ctx)
	}
}
