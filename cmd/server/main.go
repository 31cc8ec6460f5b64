package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"media-tracker/internal/media"
	"media-tracker/internal/platform/config"
	"media-tracker/internal/platform/logger"
	"media-tracker/internal/platform/metrics"
	"media-tracker/internal/sink"
	"media-tracker/internal/tracker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	shutdownTimeout  = 10 * time.Second
	redisDialTimeout = 5 * time.Second
)

func main() {
	_ = config.Load()
	cfg := config.FromEnv()

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	met := metrics.New()

	sinks := sink.Multi{sink.NewLogSink(log)}
	var closeRedis func() error
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
		rdb, err := sink.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		cancel()
		if err != nil {
			log.Error("redis unavailable", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		closeRedis = rdb.Close
		sinks = append(sinks, sink.NewRedisSink(rdb, cfg.RedisChannel, log))
	}

	base := media.DefaultConfig()
	base.LogMediaEvent = cfg.LogMediaEvents
	base.LogPageEvent = cfg.LogPageEvents
	base.ExcludeAdBreaksFromContentTime = cfg.ExcludeAdBreaks
	base.ContentCompleteLimit = cfg.ContentCompleteLimit

	repo := tracker.NewInMemoryRepository()
	svc := tracker.NewService(repo, sink.Instrument(sinks, met), base)
	h := tracker.NewHandler(svc, log, met)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		met.Handler(func() { met.SetTrackedSessions(repo.Count()) }).ServeHTTP(w, r)
	})
	h.Routes(r)

	addr := ":" + cfg.Port
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", cfg.Port,
		"log_level", cfg.LogLevel,
		"log_media_events", cfg.LogMediaEvents,
		"log_page_events", cfg.LogPageEvents,
		"redis", cfg.RedisAddr != "",
		"actions", tracker.Actions(),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	if closeRedis != nil {
		if err := closeRedis(); err != nil {
			log.Warn("redis close error", "error", err)
		}
	}

	log.Info("server stopped")
}
