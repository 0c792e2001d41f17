// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	commonaws "dining-concierge/internal/common/aws"
	"dining-concierge/internal/common/config"
	"dining-concierge/internal/common/database"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/observability"

	pr "dining-concierge/internal/workers/fulfillment/process-requests"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("config load failed: %v", err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init SQS with retry ---
	var queue *commonaws.SQSClient
	err = retryWithBackoff(func() error {
		var err error
		queue, err = commonaws.NewSQSClient(ctx, cfg.Queue.Region, cfg.Queue.RequestsQueueURL)
		return err
	}, 10, 2*time.Second, zapLog, "SQS client initialization")
	if err != nil {
		zapLog.Fatal("sqs client failed after retries", zap.Error(err))
	}
	zapLog.Info("SQS client initialized")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		// Test the connection
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init DynamoDB ---
	dynamo, err := commonaws.NewDynamoDBClient(ctx, cfg.Database.DynamoDB.Region, cfg.Database.DynamoDB.RestaurantsTable)
	if err != nil {
		zapLog.Fatal("dynamodb client failed", zap.Error(err))
	}
	zapLog.Info("DynamoDB client initialized")

	// --- Init SES ---
	sesClient, err := commonaws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
	if err != nil {
		zapLog.Fatal("ses client failed", zap.Error(err))
	}
	zapLog.Info("SES client initialized")

	// --- Build the fulfillment worker ---
	workerCfg := config.GetWorkerConfig(cfg, pr.TaskType)

	searcher := pr.NewElasticsearchIndex(esClient.Client, cfg.Database.Elasticsearch.RestaurantsIndex)
	store := pr.NewCachedRestaurantStore(
		pr.NewDynamoRestaurantStore(dynamo),
		redis,
		time.Duration(cfg.Database.Redis.CacheTTL)*time.Second,
		log,
	)
	sender := pr.NewSESEmailSender(sesClient, cfg.Integrations.AWS.SES.FromEmail)

	handler := pr.NewHandler(
		&pr.Config{
			Enabled:            workerCfg.Enabled,
			BatchSize:          cfg.Queue.BatchSize,
			VisibilityTimeout:  cfg.Queue.VisibilityTimeout,
			SearchSize:         100,
			SampleSize:         3,
			MaxReceiveCount:    cfg.Queue.MaxReceiveCount,
			DeadLetterQueueURL: cfg.Queue.DeadLetterQueueURL,
			FromEmail:          cfg.Integrations.AWS.SES.FromEmail,
			Subject:            cfg.Integrations.AWS.SES.Subject,
			Timeout:            config.GetDuration(workerCfg.Timeout),
		},
		queue, searcher, store, sender, log,
	)

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on " + cfg.Server.MetricsAddress)
		if err := http.ListenAndServe(cfg.Server.MetricsAddress, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Poll Loop ---
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pollInterval := config.GetDuration(cfg.Queue.PollInterval)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)

		if !config.IsWorkerEnabled(cfg, pr.TaskType) {
			zapLog.Info("fulfillment worker disabled")
			return
		}

		zapLog.Info("fulfillment worker polling", zap.Duration("interval", pollInterval))
		for {
			processed, err := handler.RunBatch(runCtx)
			if err != nil {
				zapLog.Error("batch failed", zap.Error(err))
			} else if processed > 0 {
				zapLog.Info("batch complete", zap.Int("processed", processed))
			}

			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping worker...")
	cancel()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		zapLog.Warn("worker did not stop within grace period")
	}

	zapLog.Info("Worker manager stopped gracefully")
}
