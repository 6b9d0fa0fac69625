package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/LanskovSergei/bubble-proxy/internal/config"
	"github.com/LanskovSergei/bubble-proxy/internal/logging"
	"github.com/LanskovSergei/bubble-proxy/internal/monitor"
	"github.com/LanskovSergei/bubble-proxy/internal/notify"
	"github.com/LanskovSergei/bubble-proxy/internal/snapshot"
)

func main() {
	godotenv.Load(".env")

	cfg, err := config.Load(os.Getenv("MONITOR_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	client := monitor.NewHTTPClient(monitor.HTTPClientConfig{
		Timeout:         cfg.Monitor.Timeout,
		MaxIdleConns:    10,
		IdleConnTimeout: 90 * time.Second,
	})

	url := monitor.HealthURL(cfg.Domain)
	probe := monitor.NewProbe(url, client, cfg.Monitor.Timeout, cfg.Monitor.SlowThreshold, logger)
	state := monitor.NewStateMachine(cfg.Monitor.FailureThreshold, cfg.Monitor.RecoveryThreshold)

	var sender notify.Sender
	if cfg.Telegram.Enabled() {
		tg, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatIDNum, logger)
		if err != nil {
			logger.Error("telegram init failed, notifications disabled", zap.Error(err))
		} else {
			sender = tg
			logger.Info("telegram notifications enabled")
		}
	} else {
		logger.Warn("telegram notifications disabled")
	}
	notifier := notify.NewNotifier(sender, cfg.Domain, logger)

	runner := monitor.NewRunner(cfg.Domain, url, probe, state, notifier, cfg.Monitor.Interval, logger)

	snapshot.Publish(snapshot.Status{Target: cfg.Domain, URL: url, Up: true})

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	})
	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snapshot.Get()); err != nil {
			http.Error(w, "failed to encode status", http.StatusInternalServerError)
		}
	})
	srv := &http.Server{Addr: cfg.Addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier.NotifyStarted(ctx, cfg.Monitor.Interval)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runner.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("status server listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("monitor crashed", zap.Error(err))
		notifier.NotifyCrashed(context.Background(), err)
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("monitor stopped")
	notifier.NotifyStopped(context.Background())
}
