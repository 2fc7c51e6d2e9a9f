package api

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	productredis "github.com/Apurer/go-inventory-service/internal/domains/products/adapters/cache/redis"
	productmemory "github.com/Apurer/go-inventory-service/internal/domains/products/adapters/memory"
	productobs "github.com/Apurer/go-inventory-service/internal/domains/products/adapters/observability"
	productpostgres "github.com/Apurer/go-inventory-service/internal/domains/products/adapters/persistence/postgres"
	productworkflows "github.com/Apurer/go-inventory-service/internal/domains/products/adapters/workflows"
	productapp "github.com/Apurer/go-inventory-service/internal/domains/products/application"
	productports "github.com/Apurer/go-inventory-service/internal/domains/products/ports"
	"github.com/Apurer/go-inventory-service/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-inventory-service/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-inventory-service/internal/platform/postgres"
)

const serviceScope = "internal.products.application"

// BuildStorage selects PostgreSQL when configured and reachable, otherwise in-memory storage.
func BuildStorage(ctx context.Context, cfg Config, logger *slog.Logger) (productports.Storage, func()) {
	db, cleanup := platformpostgres.ConnectDSN(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return productmemory.NewStorage(), cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate postgres schema, falling back to in-memory inventory storage", slog.String("error", err.Error()))
		cleanup()
		return productmemory.NewStorage(), func() {}
	}
	logger.Info("inventory storage configured with postgres")
	return productpostgres.NewStorage(db), cleanup
}

// BuildLedgerCache connects the Redis committed-order cache. It returns nil when Redis is
// not configured or unreachable; the service then relies on the storage ledger alone.
func BuildLedgerCache(ctx context.Context, cfg Config, logger *slog.Logger) (productports.LedgerCache, func()) {
	if cfg.RedisAddr == "" {
		logger.Info("REDIS_ADDR not set, committed-order cache disabled")
		return nil, func() {}
	}
	rdb, err := productredis.Connect(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("failed to connect to redis, committed-order cache disabled", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("committed-order cache configured with redis", slog.String("addr", cfg.RedisAddr))
	return productredis.NewLedgerCache(rdb, cfg.RedisTTL), func() { _ = rdb.Close() }
}

// BuildService wires storage, the optional ledger cache and the observability decorator.
func BuildService(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (productports.Service, func()) {
	logger := effectiveLogger(instruments)
	storage, cleanupStorage := BuildStorage(ctx, cfg, logger)
	ledger, cleanupLedger := BuildLedgerCache(ctx, cfg, logger)

	var opts []productapp.Option
	if ledger != nil {
		opts = append(opts, productapp.WithLedgerCache(ledger))
	}
	opts = append(opts, productapp.WithLogger(logger))
	service := productobs.New(
		productapp.NewService(storage, opts...),
		productobs.WithLogger(logger),
		productobs.WithTracer(instruments.Tracer(serviceScope)),
		productobs.WithMeter(instruments.Meter(serviceScope)),
	)
	return service, func() {
		cleanupLedger()
		cleanupStorage()
	}
}

// BuildWorkflows returns the Temporal orchestrator when a client is available, else the inline one.
func BuildWorkflows(cfg Config, service productports.Service, instruments *platformobservability.Instruments) (productports.WorkflowOrchestrator, func()) {
	logger := effectiveLogger(instruments)
	temporalClient, err := ConnectTemporal(cfg, instruments, "temporal-client")
	if err != nil {
		logger.Warn("Temporal workflows unavailable, running inline DecreaseStock", slog.String("error", err.Error()))
		return productworkflows.NewInlineStockWorkflows(service), func() {}
	}
	logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	return productworkflows.NewTemporalStockWorkflows(temporalClient), temporalClient.Close
}

// ConnectTemporal dials Temporal with tracing and structured logging.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(tracerName)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
