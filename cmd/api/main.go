package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/postboard/internal/auth"
	"github.com/geocoder89/postboard/internal/config"
	"github.com/geocoder89/postboard/internal/db"
	httpx "github.com/geocoder89/postboard/internal/http"
	"github.com/geocoder89/postboard/internal/observability"
	"github.com/geocoder89/postboard/internal/ratelimit"
	"github.com/geocoder89/postboard/internal/redisclient"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	// tracing is optional; only wired when an OTLP endpoint is configured
	if cfg.OTLPEndpoint != "" {
		ctx, cancel := config.WithTimeout(5 * time.Second)

		shutdownTracer, err := observability.InitTracer(ctx, "postboard", cfg.OTLPEndpoint)
		cancel()

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}

		defer func() {
			ctx, cancel := config.WithTimeout(5 * time.Second)
			defer cancel()
			_ = shutdownTracer(ctx)
		}()
	}

	// storage: one pool for the process, migrations before first request
	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	mctx, mcancel := config.WithTimeout(30 * time.Second)
	err = db.RunMigrations(mctx, cfg.DBURL)
	mcancel()

	if err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	sctx, scancel := config.WithTimeout(5 * time.Second)
	_, err = db.EnsureAdminUser(sctx, pool, cfg)
	scancel()

	if err != nil {
		log.Error("admin bootstrap failed", "err", err)
		os.Exit(1)
	}

	prom := observability.NewProm(prometheus.DefaultRegisterer)

	// rate limiting: shared counters when Redis is configured, otherwise
	// a per-process fallback
	var limiter ratelimit.Limiter = ratelimit.NewMemory(60, time.Minute)

	if cfg.RedisAddr != "" {
		rc := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		pctx, pcancel := config.WithTimeout(2 * time.Second)
		err = rc.Ping(pctx)
		pcancel()

		if err != nil {
			log.Error("redis connect failed", "err", err)
			os.Exit(1)
		}

		defer func() { _ = rc.Close() }()

		limiter = ratelimit.NewRedis(rc.Raw(), 60, time.Minute)
	}

	jwtManager := auth.NewManager(cfg.JWTSecret, 24*time.Hour)

	router := httpx.NewRouter(cfg, pool, prom, limiter, jwtManager)

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
