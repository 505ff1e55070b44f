package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"taskflow/api"
	"taskflow/board"
	"taskflow/config"
	"taskflow/notify"
	"taskflow/storage"
)

const (
	forwardBuffer   = 256
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := log.New()
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&log.JSONFormatter{})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := board.NewService(board.New(logger))
	if cfg.SeedSampleTasks {
		if err := svc.Seed(ctx, board.SampleTasks()); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	var rc *redis.Client
	if cfg.RedisConnectionString != "" {
		rc = redis.NewClient(config.RedisOptions(cfg.RedisConnectionString))
	}

	var settings api.SettingsStore
	var sinks []board.EventSink
	switch {
	case cfg.StorageConnectionString != "":
		store, err := storage.New(cfg.StorageConnectionString, cfg.SettingsTable, cfg.EventsQueue, cfg.BoardID)
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
		settings = store
		if rc != nil {
			settings = storage.NewCache(store, rc, cfg.SettingsCacheTTL)
		}
		if cfg.EventsQueue != "" {
			sinks = append(sinks, store)
		}
	case rc != nil:
		settings = storage.NewRedisSettings(rc)
	default:
		logger.Warn("no storage configured; settings are kept in memory")
		settings = storage.NewMemory()
	}
	if rc != nil && cfg.EventsChannel != "" {
		sinks = append(sinks, storage.NewRedisPublisher(rc, cfg.EventsChannel, cfg.BoardID))
	}

	var deduper api.Deduper
	if rc != nil {
		deduper = api.NewRedisDeduper(rc, cfg.DeduperTTL)
	}

	if len(sinks) > 0 {
		events, unsubscribe := svc.Subscribe(forwardBuffer)
		defer unsubscribe()
		go board.Forward(ctx, events, logger, sinks...)
	}

	notifier := notify.New(notify.Config{
		Workers:        cfg.Notify.Workers,
		Buffer:         cfg.Notify.Buffer,
		HandoffTimeout: cfg.Notify.HandoffTimeout,
		Timeout:        cfg.Notify.Timeout,
	}, nil, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderContentEncoding, "Idempotency-Key"},
	}))
	e.Use(echoprometheus.NewMiddleware("taskflow"))
	e.GET("/metrics", echoprometheus.NewHandler())

	api.Register(e, api.Deps{
		Board:             svc,
		Settings:          settings,
		Deduper:           deduper,
		Notifier:          notifier,
		Log:               logger,
		BoardID:           cfg.BoardID,
		DefaultWebhookURL: cfg.DefaultWebhookURL,
	})

	go func() {
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("server shutdown")
	}
	svc.Close()
	notifier.Close()
	if rc != nil {
		if err := rc.Close(); err != nil {
			logger.WithError(err).Warn("redis close")
		}
	}
}
