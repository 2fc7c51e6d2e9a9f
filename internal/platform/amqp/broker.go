// Package amqp declares the RabbitMQ topology the inventory consumes from.
package amqp

import (
	"context"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
)

const (
	// StockDecreaseExchange receives stock decrease requests from order processing.
	StockDecreaseExchange = "inventory.stock.decrease"
	// StockDecreaseQueue is the durable queue the stock consumer reads.
	StockDecreaseQueue = "inventory.stock.decrease"
	// DeadLetterExchange routes rejected messages to their queue's DLQ.
	DeadLetterExchange = "inventory.dlx"
	// StockDecreaseDLQ holds messages the consumer gave up on.
	StockDecreaseDLQ = StockDecreaseQueue + ".dlq"
)

// Connect dials RabbitMQ, declares the stock decrease topology and returns the channel
// plus a close function that releases the channel before the connection.
func Connect(url string) (*amqp.Channel, func() error, error) {
	if strings.TrimSpace(url) == "" {
		return nil, nil, fmt.Errorf("amqp url is empty")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := DeclareTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, err
	}
	closeFn := func() error {
		if err := ch.Close(); err != nil {
			return err
		}
		return conn.Close()
	}
	return ch, closeFn, nil
}

// DeclareTopology creates the exchanges and queues. Declarations are idempotent.
func DeclareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(DeadLetterExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare %s exchange: %w", DeadLetterExchange, err)
	}
	if _, err := ch.QueueDeclare(StockDecreaseDLQ, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare %s queue: %w", StockDecreaseDLQ, err)
	}
	if err := ch.QueueBind(StockDecreaseDLQ, StockDecreaseQueue, DeadLetterExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind %s: %w", StockDecreaseDLQ, err)
	}
	if err := ch.ExchangeDeclare(StockDecreaseExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare %s exchange: %w", StockDecreaseExchange, err)
	}
	args := amqp.Table{
		"x-dead-letter-exchange":    DeadLetterExchange,
		"x-dead-letter-routing-key": StockDecreaseQueue,
	}
	if _, err := ch.QueueDeclare(StockDecreaseQueue, true, false, false, false, args); err != nil {
		return fmt.Errorf("failed to declare %s queue: %w", StockDecreaseQueue, err)
	}
	if err := ch.QueueBind(StockDecreaseQueue, "", StockDecreaseExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind %s: %w", StockDecreaseQueue, err)
	}
	return nil
}

// ExtractTraceContext continues the trace carried by message headers.
func ExtractTraceContext(ctx context.Context, headers amqp.Table) context.Context {
	if headers == nil {
		return ctx
	}
	return otel.GetTextMapPropagator().Extract(ctx, HeadersCarrier(headers))
}

// HeadersCarrier adapts AMQP headers to propagation.TextMapCarrier.
type HeadersCarrier amqp.Table

func (c HeadersCarrier) Get(key string) string {
	if val, ok := c[key].(string); ok {
		return val
	}
	return ""
}

func (c HeadersCarrier) Set(key, value string) {
	c[key] = value
}

func (c HeadersCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}
