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

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sorabhv/social-media-strategist/internal/common/config"
	"github.com/sorabhv/social-media-strategist/internal/common/database"
	"github.com/sorabhv/social-media-strategist/internal/common/logger"
	"github.com/sorabhv/social-media-strategist/internal/common/observability"
	"github.com/sorabhv/social-media-strategist/internal/connectors"
	"github.com/sorabhv/social-media-strategist/internal/niche"
	"github.com/sorabhv/social-media-strategist/internal/profile"
	"github.com/sorabhv/social-media-strategist/internal/schedule"

	// Trend pipeline workers
	bcp "github.com/sorabhv/social-media-strategist/internal/workers/planning/build-content-plan"
	dp "github.com/sorabhv/social-media-strategist/internal/workers/planning/deliver-plan"
	pm "github.com/sorabhv/social-media-strategist/internal/workers/profile/profile-merge"
	ct "github.com/sorabhv/social-media-strategist/internal/workers/trends/collect-trends"
	st "github.com/sorabhv/social-media-strategist/internal/workers/trends/score-trends"
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
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	tracing := observability.NewTracing("worker-manager", os.Getenv("JAEGER_ENDPOINT"))
	defer tracing.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

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

	// --- Load reference data ---
	niches, err := niche.Load(cfg.References.NichePath)
	if err != nil {
		zapLog.Fatal("niche reference load failed", zap.Error(err))
	}
	scheduleRef, err := schedule.Load(cfg.References.SchedulePath)
	if err != nil {
		zapLog.Fatal("schedule reference load failed", zap.Error(err))
	}
	zapLog.Info("Reference data loaded", zap.Int("niches", niches.Len()))

	profileStore := profile.NewStore(pg.DB, redis.Client, log)

	// --- START: Register ALL 5 Workers ---

	// --- 1. Trend Workers (2) ---
	if config.IsWorkerEnabled(cfg, ct.TaskType) {
		conns := buildConnectors(cfg, log)
		ctConfig := ct.LoadConfig()
		if wcfg := config.GetWorkerConfig(cfg, ct.TaskType); wcfg.Timeout > 0 {
			ctConfig.Timeout = config.GetDuration(wcfg.Timeout)
		}
		if cfg.Database.Elasticsearch.AuditIndex != "" {
			ctConfig.ArchiveIndex = cfg.Database.Elasticsearch.AuditIndex
		}
		handler := ct.NewHandler(ctConfig, conns, niches, esClient, log)
		startWorker(zeebeClient, ct.TaskType, config.GetWorkerConfig(cfg, ct.TaskType), handler.Handle, zapLog)
	}

	if config.IsWorkerEnabled(cfg, st.TaskType) {
		stConfig := st.LoadConfig()
		var reranker st.Reranker
		if cfg.APIs.GenAI.Enabled && cfg.APIs.GenAI.BaseURL != "" {
			stConfig.GenAIBaseURL = cfg.APIs.GenAI.BaseURL
			stConfig.GenAIAPIKey = cfg.APIs.GenAI.APIKey
			if cfg.APIs.GenAI.Timeout > 0 {
				stConfig.GenAITimeout = config.GetDuration(cfg.APIs.GenAI.Timeout)
			}
			reranker = st.NewGenAIReranker(stConfig.GenAIBaseURL, stConfig.GenAIAPIKey, stConfig.MaxRetries)
		}
		handler := st.NewHandler(stConfig, reranker, log)
		startWorker(zeebeClient, st.TaskType, config.GetWorkerConfig(cfg, st.TaskType), handler.Handle, zapLog)
	}

	// --- 2. Planning Workers (2) ---
	if config.IsWorkerEnabled(cfg, bcp.TaskType) {
		handler := bcp.NewHandler(bcp.LoadConfig(), scheduleRef, log)
		startWorker(zeebeClient, bcp.TaskType, config.GetWorkerConfig(cfg, bcp.TaskType), handler.Handle, zapLog)
	}

	if config.IsWorkerEnabled(cfg, dp.TaskType) {
		dpConfig := dp.LoadConfig()
		dpConfig.EmailEnabled = cfg.Notifications.Email.Enabled
		dpConfig.SMSEnabled = cfg.Notifications.SMS.Enabled
		if cfg.Notifications.Email.FromEmail != "" {
			dpConfig.FromEmail = cfg.Notifications.Email.FromEmail
		}
		if cfg.Notifications.AWS.Region != "" {
			dpConfig.AWSRegion = cfg.Notifications.AWS.Region
		}
		handler, err := dp.NewHandler(dpConfig, log)
		if err != nil {
			zapLog.Fatal("failed to create deliver-plan handler", zap.Error(err))
		}
		startWorker(zeebeClient, dp.TaskType, config.GetWorkerConfig(cfg, dp.TaskType), handler.Handle, zapLog)
	}

	// --- 3. Profile Worker (1) ---
	if config.IsWorkerEnabled(cfg, pm.TaskType) {
		handler := pm.NewHandler(pm.LoadConfig(), profileStore, log)
		startWorker(zeebeClient, pm.TaskType, config.GetWorkerConfig(cfg, pm.TaskType), handler.Handle, zapLog)
	}

	zapLog.Info("All 5 workers registered successfully")

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
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_ = shutdownCtx

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// buildConnectors assembles the enabled trend sources from config.
func buildConnectors(cfg *config.Config, log logger.Logger) []connectors.Connector {
	minInterval := config.GetDuration(cfg.Sources.MinRequestInterval)

	var conns []connectors.Connector
	if cfg.Sources.TikTok.Enabled {
		conns = append(conns, connectors.NewTikTok(connectors.TikTokOptions{
			BaseURL:     cfg.Sources.TikTok.BaseURL,
			APIURL:      cfg.Sources.TikTok.APIURL,
			UserAgent:   cfg.Sources.TikTok.UserAgent,
			Timeout:     config.GetDuration(cfg.Sources.TikTok.Timeout),
			MinInterval: minInterval,
		}, log))
	}
	if cfg.Sources.GoogleTrends.Enabled {
		conns = append(conns, connectors.NewGoogleTrends(connectors.GoogleTrendsOptions{
			RSSURL:      cfg.Sources.GoogleTrends.RSSURL,
			RelatedURL:  cfg.Sources.GoogleTrends.RelatedURL,
			Timeout:     config.GetDuration(cfg.Sources.GoogleTrends.Timeout),
			MinInterval: minInterval,
		}, log))
	}
	if cfg.Sources.Reddit.Enabled {
		conns = append(conns, connectors.NewReddit(connectors.RedditOptions{
			BaseURL:     cfg.Sources.Reddit.BaseURL,
			UserAgent:   cfg.Sources.Reddit.UserAgent,
			Timeout:     config.GetDuration(cfg.Sources.Reddit.Timeout),
			MinInterval: minInterval,
		}, log))
	}
	return conns
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
