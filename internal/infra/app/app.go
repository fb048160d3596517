package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/skillstream/edu-notify/internal/core/port"
	"github.com/skillstream/edu-notify/internal/infra/config"
	"github.com/skillstream/edu-notify/internal/infra/database"
	kafkainfra "github.com/skillstream/edu-notify/internal/infra/kafka"
	"github.com/skillstream/edu-notify/internal/infra/logger"
	"github.com/skillstream/edu-notify/internal/infra/mail"
	redisinfra "github.com/skillstream/edu-notify/internal/infra/redis"
	postgresrepo "github.com/skillstream/edu-notify/internal/repository/postgres"
	"github.com/skillstream/edu-notify/internal/transport/http/middleware"
	"github.com/skillstream/edu-notify/internal/transport/http/routes"
	"github.com/skillstream/edu-notify/internal/usecase"
)

// Application wires the HTTP API: profile reconciliation and the on-demand
// notification trigger.
type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	// Redis is only a readiness probe for the API; the process stays up
	// without it.
	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		log.Warn("redis unavailable, readiness check disabled", zap.Error(err))
		redisClient = nil
	}

	repos := postgresrepo.NewRepositories(pool)

	outcomes, producer := newOutcomePublisher(cfg, log)

	sender := mail.NewSender(cfg.Mail, log)
	notifier := usecase.NewNotifierService(sender, outcomes, log)
	feedService := usecase.NewChangeFeedService(repos.Profiles, repos.Requests, notifier, log)
	profileService := usecase.NewProfileService(repos.Profiles, repos.Roles, cfg.Notify.DefaultRoleName, cfg.Notify.DefaultAppID, log)

	httpMetrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	deps := routes.Dependencies{
		Config:   cfg,
		Logger:   log,
		Metrics:  httpMetrics,
		Database: pool,
		Services: routes.ServiceSet{
			Profiles: profileService,
			Feed:     feedService,
		},
	}
	if redisClient != nil {
		deps.Cache = redisClient
	}

	engine := routes.Register(deps)

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
	}, nil
}

// newOutcomePublisher returns the Kafka-backed publisher when brokers are
// configured, falling back to the logging stub for local development.
func newOutcomePublisher(cfg *config.AppConfig, log *zap.Logger) (port.OutcomePublisher, *kafkainfra.Producer) {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Info("kafka brokers not configured, using stub publisher")
		return kafkainfra.NewStubPublisher(log), nil
	}

	producer, err := kafkainfra.NewProducer(cfg.Kafka, log)
	if err != nil {
		log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
		return kafkainfra.NewStubPublisher(log), nil
	}

	log.Info("kafka outcome publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
	return kafkainfra.NewOutcomePublisher(producer, cfg.App, log), producer
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			_ = a.producer.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting notification API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
