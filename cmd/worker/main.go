package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-inventory-service/internal/app/api"
	productactivities "github.com/Apurer/go-inventory-service/internal/durable/temporal/activities/products"
	productworkflows "github.com/Apurer/go-inventory-service/internal/durable/temporal/workflows/products"
	platformobservability "github.com/Apurer/go-inventory-service/internal/platform/observability"
)

func main() {
	ctx := context.Background()
	const serviceName = "inventory-worker"
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

	service, cleanupService := api.BuildService(ctx, cfg, instruments)
	defer cleanupService()
	activities := productactivities.NewActivities(service)

	temporalClient, err := api.ConnectTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, productworkflows.StockDecreaseTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(productworkflows.StockDecreaseWorkflow, workflow.RegisterOptions{Name: productworkflows.StockDecreaseWorkflowName})
	w.RegisterActivityWithOptions(activities.DecreaseStock, activity.RegisterOptions{Name: productactivities.DecreaseStockActivityName})

	logger.Info("worker listening", slog.String("taskQueue", productworkflows.StockDecreaseTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
