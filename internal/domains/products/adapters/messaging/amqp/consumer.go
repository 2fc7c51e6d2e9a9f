// Package amqp feeds stock decrease requests from RabbitMQ into the inventory.
package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	productapp "github.com/Apurer/go-inventory-service/internal/domains/products/application"
	producttypes "github.com/Apurer/go-inventory-service/internal/domains/products/application/types"
	productports "github.com/Apurer/go-inventory-service/internal/domains/products/ports"
	platformamqp "github.com/Apurer/go-inventory-service/internal/platform/amqp"
)

// StockDecreaseMessage is the body published on the stock decrease exchange.
type StockDecreaseMessage struct {
	ProductID uuid.UUID `json:"productId"`
	OrderID   string    `json:"orderId"`
}

// Disposition is what the consumer does with a delivery once handled.
type Disposition int

const (
	// Ack removes the message; every business outcome ends here.
	Ack Disposition = iota
	// Requeue puts the message back for one more attempt.
	Requeue
	// DeadLetter rejects the message to the dead letter exchange.
	DeadLetter
)

func (d Disposition) String() string {
	switch d {
	case Ack:
		return "ack"
	case Requeue:
		return "requeue"
	default:
		return "dead_letter"
	}
}

// Channel is the subset of *amqp.Channel the consumer needs.
type Channel interface {
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Consumer applies stock decrease messages through the workflow orchestrator.
type Consumer struct {
	workflows productports.WorkflowOrchestrator
	logger    *slog.Logger
	tracer    trace.Tracer
	queue     string
	prefetch  int
}

// Option customises the consumer.
type Option func(*Consumer)

// WithLogger sets the logger used for delivery outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Consumer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTracer sets the tracer used for delivery spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Consumer) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// WithPrefetch bounds the number of unacknowledged deliveries in flight.
func WithPrefetch(n int) Option {
	return func(c *Consumer) {
		if n > 0 {
			c.prefetch = n
		}
	}
}

// NewConsumer builds a consumer for the stock decrease queue.
func NewConsumer(workflows productports.WorkflowOrchestrator, opts ...Option) *Consumer {
	c := &Consumer{
		workflows: workflows,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:    otel.Tracer("internal.products.adapters.messaging.amqp"),
		queue:     platformamqp.StockDecreaseQueue,
		prefetch:  16,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Listen consumes deliveries until ctx is done or the broker closes the channel.
func (c *Consumer) Listen(ctx context.Context, ch Channel) error {
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}
	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", c.queue, err)
	}
	c.logger.Info("AMQP listening", slog.String("queue", c.queue))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("amqp delivery channel closed")
			}
			if err := c.settle(d, c.Handle(ctx, d)); err != nil {
				c.logger.Error("failed to settle delivery", slog.String("error", err.Error()))
			}
		}
	}
}

// Handle applies one delivery and decides its disposition. Storage failures get a
// single redelivery before the message is dead-lettered.
func (c *Consumer) Handle(ctx context.Context, d amqp.Delivery) Disposition {
	ctx = platformamqp.ExtractTraceContext(ctx, d.Headers)
	ctx, span := c.tracer.Start(ctx, "AMQP consume "+c.queue, trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	var msg StockDecreaseMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed message")
		c.logger.Warn("dropping malformed stock decrease message", slog.String("error", err.Error()))
		return DeadLetter
	}
	span.SetAttributes(
		attribute.String("inventory.product_id", msg.ProductID.String()),
		attribute.String("inventory.order_id", msg.OrderID),
	)
	logger := c.logger.With(slog.String("productId", msg.ProductID.String()), slog.String("orderId", msg.OrderID))

	result, err := c.workflows.DecreaseStock(ctx, producttypes.DecreaseStockInput{ProductID: msg.ProductID, OrderID: msg.OrderID})
	switch {
	case errors.Is(err, productapp.ErrInvalidInput):
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid message")
		logger.Warn("dropping invalid stock decrease message", slog.String("error", err.Error()))
		return DeadLetter
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if d.Redelivered {
			logger.Error("stock decrease failed after redelivery", slog.String("error", err.Error()))
			return DeadLetter
		}
		logger.Warn("stock decrease failed, requeueing", slog.String("error", err.Error()))
		return Requeue
	}
	span.SetAttributes(attribute.String("inventory.outcome", result.Outcome()))
	logger.Info("stock decrease message applied", slog.String("outcome", result.Outcome()))
	return Ack
}

func (c *Consumer) settle(d amqp.Delivery, disposition Disposition) error {
	switch disposition {
	case Ack:
		return d.Ack(false)
	case Requeue:
		return d.Nack(false, true)
	default:
		return d.Nack(false, false)
	}
}
