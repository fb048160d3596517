package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/skillstream/edu-notify/internal/infra/config"
	"github.com/skillstream/edu-notify/internal/infra/database"
	kafkainfra "github.com/skillstream/edu-notify/internal/infra/kafka"
	"github.com/skillstream/edu-notify/internal/infra/logger"
	"github.com/skillstream/edu-notify/internal/infra/mail"
	redisinfra "github.com/skillstream/edu-notify/internal/infra/redis"
	"github.com/skillstream/edu-notify/internal/infra/telemetry"
	postgresrepo "github.com/skillstream/edu-notify/internal/repository/postgres"
	redisrepo "github.com/skillstream/edu-notify/internal/repository/redis"
	"github.com/skillstream/edu-notify/internal/usecase"
)

// Worker wires the change feed consumer: it drains the request change topic
// and dispatches status notifications.
type Worker struct {
	cfg      *config.AppConfig
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
	runner   *kafkainfra.ChangeFeedRunner
}

func NewWorker(ctx context.Context, cfg *config.AppConfig) (*Worker, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	outcomes, producer := newOutcomePublisher(cfg, log)

	sender := mail.NewSender(cfg.Mail, log)
	notifier := usecase.NewNotifierService(sender, outcomes, log)

	feedMetrics, err := telemetry.NewFeedMetrics(telemetry.FeedMetricsOptions{})
	if err != nil {
		return nil, fmt.Errorf("init feed metrics: %w", err)
	}

	feedService := usecase.NewChangeFeedService(repos.Profiles, repos.Requests, notifier, log).
		WithMetrics(feedMetrics)

	var redisClient *redisinfra.Client
	if cfg.Notify.DedupeEnabled {
		redisClient, err = redisinfra.NewClient(cfg.Redis, log)
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}
		ledger := redisrepo.NewNotificationLedger(redisClient.Client(), cfg.Notify.DedupePrefix, cfg.Notify.DedupeTTL)
		feedService = feedService.WithLedger(ledger)
		log.Info("notification dedupe ledger enabled",
			zap.String("prefix", cfg.Notify.DedupePrefix),
			zap.Duration("ttl", cfg.Notify.DedupeTTL),
		)
	}

	runner, err := kafkainfra.NewChangeFeedRunner(cfg.Kafka, feedService, log)
	if err != nil {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, fmt.Errorf("init change feed runner: %w", err)
	}

	return &Worker{
		cfg:      cfg,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
		runner:   runner,
	}, nil
}

// Run consumes the change topic until the context is cancelled. A small HTTP
// server exposes metrics and liveness for the worker process.
func (w *Worker) Run(ctx context.Context) error {
	defer func() {
		_ = w.logger.Sync()
	}()
	defer func() {
		if w.pool != nil {
			w.pool.Close()
		}
	}()
	defer func() {
		if w.redis != nil {
			_ = w.redis.Close()
		}
	}()
	defer func() {
		if w.producer != nil {
			_ = w.producer.Close()
		}
	}()
	defer func() {
		if w.runner != nil {
			_ = w.runner.Close()
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})

	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", w.cfg.Telemetry.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			w.logger.Error("metrics server error", zap.Error(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}()

	w.logger.Info("starting change feed worker",
		zap.String("env", w.cfg.App.Env),
		zap.String("topic", w.cfg.Kafka.ChangeTopic),
		zap.String("group", w.cfg.Kafka.GroupID),
	)

	return w.runner.Run(ctx)
}
