package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/Apurer/go-inventory-service/internal/app/api"
	productamqp "github.com/Apurer/go-inventory-service/internal/domains/products/adapters/messaging/amqp"
	platformamqp "github.com/Apurer/go-inventory-service/internal/platform/amqp"
	platformobservability "github.com/Apurer/go-inventory-service/internal/platform/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	const serviceName = "inventory-stock-consumer"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	ch, closeBroker, err := platformamqp.Connect(cfg.AMQPURL)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = closeBroker() }()

	service, cleanupService := api.BuildService(ctx, cfg, instruments)
	defer cleanupService()
	workflows, cleanupWorkflows := api.BuildWorkflows(cfg, service, instruments)
	defer cleanupWorkflows()

	consumer := productamqp.NewConsumer(
		workflows,
		productamqp.WithLogger(logger),
		productamqp.WithTracer(instruments.Tracer("internal.products.adapters.messaging.amqp")),
	)
	if err := consumer.Listen(ctx, ch); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stock consumer exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("stock consumer stopped")
}
