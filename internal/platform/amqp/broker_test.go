package amqp

import (
	"context"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestTraceContextRoundTrip(t *testing.T) {
	previous := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(previous) })

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	headers := amqp.Table{}
	otel.GetTextMapPropagator().Inject(ctx, HeadersCarrier(headers))
	assert.Contains(t, headers, "traceparent")

	extracted := trace.SpanContextFromContext(ExtractTraceContext(context.Background(), headers))
	assert.Equal(t, span.SpanContext().TraceID(), extracted.TraceID())
}

func TestExtractTraceContextWithoutHeaders(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, ExtractTraceContext(ctx, nil))
}

func TestConnectRejectsEmptyURL(t *testing.T) {
	_, _, err := Connect("  ")
	assert.Error(t, err)
}
