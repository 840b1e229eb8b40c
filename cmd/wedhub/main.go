package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wedhub/internal/backend"
	"wedhub/internal/config"
	"wedhub/internal/dashboard"
	"wedhub/internal/domain"
	"wedhub/internal/events"
	"wedhub/internal/export"
	"wedhub/internal/logging"
	"wedhub/internal/metrics"
	"wedhub/internal/service"
	"wedhub/internal/session"
	"wedhub/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	metrics.Register()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	sessions := initSessions(cfg, redisClient, &logger)

	client := backend.NewClient(cfg.Backend.BaseURL, time.Duration(cfg.Backend.TimeoutSeconds)*time.Second, &logger)
	if redisClient != nil {
		client.UseRedisCache(redisClient, time.Duration(cfg.Backend.CacheTTL)*time.Second)
	}

	eventBus := events.NewEventBus()

	bookings := service.NewBookingService(client, sessions, eventBus, &logger)
	notifications := service.NewNotificationService(client, sessions, &logger)
	planner := service.NewPlannerService(client, sessions, &logger)
	catalog := service.NewCatalogService(client, sessions, &logger)

	exporter := export.NewExporter(cfg.Exports.Path)

	var poller *worker.NotificationPoller
	if cfg.Worker.Enabled {
		poller = worker.NewNotificationPoller(
			notifications,
			eventBus,
			time.Duration(cfg.Worker.PollIntervalSeconds)*time.Second,
			worker.RetryPolicy{MaxRetries: cfg.Worker.MaxRetries},
			&logger,
		)
	}

	srv := dashboard.NewServer(cfg.Dashboard, bookings, notifications, planner, catalog, sessions, exporter, &logger)
	if poller != nil {
		// Actors seen on authenticated dashboard requests get polled.
		srv.WatchActors(poller)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if poller != nil {
		go poller.Run(ctx)
		defer poller.Stop()
	}

	startMetrics(ctx, cfg, &logger)

	return serve(ctx, srv, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "wedhub-main").Logger()

	return cfg, logger, closer, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}

	client := session.NewRedisClient(cfg.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := session.Ping(ctx, client); err != nil {
		logger.Warn().Err(err).Msg("redis unreachable, sessions fall back to memory")
	}
	return client
}

func initSessions(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) domain.SessionStore {
	ttl := time.Duration(cfg.Session.TTLSeconds) * time.Second
	memory := session.NewMemoryStore(ttl)
	if redisClient == nil {
		return memory
	}
	return session.NewFailoverStore(session.NewRedisStore(redisClient, ttl), memory, logger)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("metrics listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("metrics server error")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
}

func serve(ctx context.Context, srv *dashboard.Server, logger *zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown dashboard: %w", err)
	}
	return nil
}
