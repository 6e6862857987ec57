package main

import (
	"context"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/AbdulRehman-Syed/task-manager/api"
	"github.com/AbdulRehman-Syed/task-manager/store"
	"github.com/AbdulRehman-Syed/task-manager/storage"
)

func main() {
	cfg, err := loadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := log.New()
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
		logger.SetLevel(log.DebugLevel)
	}

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	var backend store.Backend
	var deduper api.Deduper
	if cfg.Redis != "" {
		rc := redis.NewClient(storage.ParseRedisOptions(cfg.Redis))
		backend = storage.NewRedis(rc, cfg.StorageKey)
		deduper = api.NewRedisDeduper(rc, cfg.deduperTTL)
		logger.Info("persisting to redis")
	} else {
		backend = storage.NewFile(cfg.DataFile)
		logger.WithField("path", cfg.DataFile).Info("persisting to local file")
	}

	st := store.New(backend, logger)
	st.Load(context.Background())

	e := echo.New()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "Idempotency-Key"},
	}))
	e.Use(api.DecompressRequest())

	api.Register(e, st, deduper, logger)

	listenAddr := cfg.ListenAddr
	if val, ok := os.LookupEnv("PORT"); ok {
		listenAddr = ":" + val
	}

	e.Logger.Fatal(e.Start(listenAddr))
}
