package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	inventoryserver "github.com/Apurer/go-inventory-service/go"
	platformobservability "github.com/Apurer/go-inventory-service/internal/platform/observability"
)

const serviceName = "inventory-api"

// Run boots the inventory HTTP API with observability, storage, and workflows wired.
// It returns when ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	service, cleanupService := BuildService(ctx, cfg, instruments)
	defer cleanupService()
	workflows, cleanupWorkflows := BuildWorkflows(cfg, service, instruments)
	defer cleanupWorkflows()

	// middleware must be registered before the routes to wrap them
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), otelgin.Middleware(serviceName))
	router := inventoryserver.NewRouterWithGinEngine(engine, inventoryserver.ApiHandleFunctions{
		ProductAPI: inventoryserver.NewProductAPI(service, workflows),
	})

	srv := &http.Server{Addr: cfg.Addr(), Handler: router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("inventory API listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("inventory API server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("inventory API shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
