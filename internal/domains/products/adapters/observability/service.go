package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	producttypes "github.com/Apurer/go-inventory-service/internal/domains/products/application/types"
	productports "github.com/Apurer/go-inventory-service/internal/domains/products/ports"
)

const tracerName = "github.com/Apurer/go-inventory-service/internal/domains/products/adapters/observability/service"

// Service decorates the inventory service with tracing, logging, and metrics.
type Service struct {
	inner   productports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core inventory service.
func New(inner productports.Service, opts ...Option) productports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) FindProduct(ctx context.Context, input producttypes.ProductIdentifier) (*producttypes.FindProductResult, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.FindProduct",
		trace.WithAttributes(attribute.String("product.id", input.ID.String())))
	defer span.End()

	result, err := s.inner.FindProduct(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.String("product.id", input.ID.String()))
	}
	span.SetAttributes(attribute.Int("inventory.status", int(result.Status)))
	s.logInfo(ctx, "product lookup", slog.String("product.id", input.ID.String()), slog.String("status", result.Status.String()))
	return result, nil
}

func (s *Service) CreateProduct(ctx context.Context, input producttypes.CreateProductInput) (*producttypes.CreateProductResult, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.CreateProduct",
		trace.WithAttributes(attribute.String("product.sku", input.SKU), attribute.Int64("product.stock", input.Stock)))
	defer span.End()

	s.logInfo(ctx, "creating product", slog.String("product.sku", input.SKU), slog.Int64("product.stock", input.Stock))
	result, err := s.inner.CreateProduct(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product", slog.String("product.sku", input.SKU))
	}
	span.SetAttributes(attribute.String("product.id", result.ID.String()))
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "product created", slog.String("product.id", result.ID.String()), slog.String("product.sku", input.SKU))
	return result, nil
}

func (s *Service) DecreaseStock(ctx context.Context, input producttypes.DecreaseStockInput) (*producttypes.DecreaseStockResult, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.DecreaseStock",
		trace.WithAttributes(attribute.String("product.id", input.ProductID.String()), attribute.String("order.id", input.OrderID)))
	defer span.End()

	attrs := []slog.Attr{slog.String("product.id", input.ProductID.String()), slog.String("order.id", input.OrderID)}
	result, err := s.inner.DecreaseStock(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to decrease stock", attrs...)
	}
	outcome := result.Outcome()
	span.SetAttributes(attribute.String("inventory.outcome", outcome))
	s.metrics.recordDecrease(ctx, outcome)
	level := slog.LevelInfo
	if !result.Status.OK() && !result.AlreadyDecreased() {
		level = slog.LevelWarn
	}
	s.log(ctx, level, "stock decrease handled", append(attrs, slog.String("outcome", outcome))...)
	return result, nil
}

func (s *Service) log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	s.log(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.log(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	productsCreated metric.Int64Counter
	stockDecreases  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	productsCreated, _ := m.Int64Counter("inventory.service.products_created", metric.WithDescription("Number of products created"))
	stockDecreases, _ := m.Int64Counter("inventory.service.stock_decreases", metric.WithDescription("Stock decrease requests by outcome"))
	return serviceMetrics{productsCreated: productsCreated, stockDecreases: stockDecreases}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.productsCreated != nil {
		m.productsCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDecrease(ctx context.Context, outcome string) {
	if m.stockDecreases != nil {
		m.stockDecreases.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

var _ productports.Service = (*Service)(nil)
