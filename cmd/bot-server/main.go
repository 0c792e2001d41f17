// cmd/bot-server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	commonaws "dining-concierge/internal/common/aws"
	"dining-concierge/internal/common/config"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/observability"
	"dining-concierge/internal/models"
	"dining-concierge/pkg/registry"

	rdi "dining-concierge/internal/workers/dialog/resolve-dining-intent"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("config load failed: %v", err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting bot server...")

	obs := observability.New("bot-server")
	defer obs.Shutdown()

	ctx := context.Background()

	queue, err := commonaws.NewSQSClient(ctx, cfg.Queue.Region, cfg.Queue.RequestsQueueURL)
	if err != nil {
		zapLog.Fatal("sqs client failed", zap.Error(err))
	}

	slotRegistry := registry.Default()
	if cfg.Server.SlotRegistry != "" {
		slotRegistry, err = registry.Load(cfg.Server.SlotRegistry)
		if err != nil {
			zapLog.Fatal("slot registry load failed", zap.Error(err))
		}
		zapLog.Info("slot registry loaded", zap.String("path", cfg.Server.SlotRegistry))
	}

	workerCfg := config.GetWorkerConfig(cfg, rdi.TaskType)
	handler := rdi.NewHandler(
		&rdi.Config{
			Enabled: workerCfg.Enabled,
			Timeout: config.GetDuration(workerCfg.Timeout),
		},
		slotRegistry, queue, log,
	)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/v1/dialog", func(c *gin.Context) {
		var event models.DialogEvent
		if err := c.ShouldBindJSON(&event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dialog event: " + err.Error()})
			return
		}

		resp, err := handler.Handle(c.Request.Context(), &event)
		if err != nil {
			// Dialog users never see raw errors; the platform retries.
			c.JSON(http.StatusInternalServerError, gin.H{"error": "dialog resolution failed"})
			return
		}

		c.JSON(http.StatusOK, resp)
	})

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		zapLog.Info("bot server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("bot server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping bot server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Bot server stopped gracefully")
}
