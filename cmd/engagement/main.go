package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avikulina/kinolenta/internal/cache"
	"github.com/avikulina/kinolenta/internal/config"
	"github.com/avikulina/kinolenta/internal/films"
	"github.com/avikulina/kinolenta/internal/service"
	enmongo "github.com/avikulina/kinolenta/internal/storage/mongo"
	enredis "github.com/avikulina/kinolenta/internal/storage/redis"
	enhttp "github.com/avikulina/kinolenta/internal/transport/http"
	"github.com/avikulina/kinolenta/internal/transport/http/middleware"
)

// Константы окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting engagement-service", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	mongoStore, err := enmongo.New(dbCtx, cfg)
	dbCancel()
	if err != nil {
		log.Error("mongo_connect_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}
	log.Info("mongo_connected")

	kvCtx, kvCancel := context.WithTimeout(rootCtx, 10*time.Second)
	kv, err := enredis.New(kvCtx, cfg.Cache.URL)
	kvCancel()
	if err != nil {
		log.Error("redis_connect_failed", slog.String("err", err.Error()))
		rootCancel()
		_ = mongoStore.Close(context.Background())
		os.Exit(1)
	}
	log.Info("redis_connected")

	// Общий документ под префиксом обслуживает только публичный
	// films-кэш: ответы каталогов одинаковы для всех. Приватные
	// черновики оценок ходят через store.ForProfile(<id профиля>).
	store := cache.New(kv,
		cache.WithKey(cfg.Cache.KeyPrefix),
		cache.WithAPITTL(cfg.Cache.APITTL),
		cache.WithDraftTTL(cfg.Cache.DraftTTL),
	)
	loader := films.NewLoader(films.NewNavState(), store, films.NewKinopoisk(cfg.Films))

	svc := service.New(mongoStore, *cfg)
	log.Info("service_initialized")

	// Служебный HTTP: readiness/liveness/metrics.
	var ready int32 // 0 — not ready; 1 — ready
	probesAddr := cfg.Probes.Addr()

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})
	mux.Handle("/metrics", promhttp.Handler())

	probesSrv := &http.Server{
		Addr:              probesAddr,
		Handler:           middleware.Chain(mux, middleware.Recover(), middleware.RequestID()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("probes_listen_start", "addr", probesAddr)
		if err := probesSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("probes_serve_failed", slog.String("err", err.Error()))
		}
	}()

	// Основной API.
	apiAddr := cfg.HTTP.Addr()
	apiSrv := &http.Server{
		Addr: apiAddr,
		Handler: enhttp.NewRouter(svc, enhttp.Options{
			Logger:  log,
			Timeout: cfg.Timeouts.Service,
			Films:   loader,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErrCh := make(chan error, 1)
	go func() {
		log.Info("api_listen_start", slog.String("addr", apiAddr))
		atomic.StoreInt32(&ready, 1)
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("api_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("api_force_stop", slog.String("err", err.Error()))
	}
	shutdownCancel()

	_ = probesSrv.Shutdown(context.Background())

	rootCancel()
	_ = kv.Close()
	_ = mongoStore.Close(context.Background())

	log.Info("service_stopped")
	os.Exit(0)
}

// setupLogger — текстовый хендлер в local, JSON в dev/prod.
func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
