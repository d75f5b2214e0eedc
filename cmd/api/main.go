package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/guthdx/statuswatch/internal/config"
	"github.com/guthdx/statuswatch/internal/domain"
	"github.com/guthdx/statuswatch/internal/httpapi"
	"github.com/guthdx/statuswatch/internal/httpapi/middleware"
	"github.com/guthdx/statuswatch/internal/logging"
	"github.com/guthdx/statuswatch/internal/notify"
	"github.com/guthdx/statuswatch/internal/probe"
	"github.com/guthdx/statuswatch/internal/repo"
	"github.com/guthdx/statuswatch/internal/repo/memory"
	"github.com/guthdx/statuswatch/internal/repo/postgres"
	"github.com/guthdx/statuswatch/internal/scheduler"
	"github.com/guthdx/statuswatch/internal/status"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		services repo.ServiceStore
		checks   repo.CheckStore
	)
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Fatal("postgres_connect_failed", zap.Error(err))
		}
		defer pg.Close()
		services, checks = pg, pg
		logger.Info("using_postgres_store")
	} else {
		mem := memory.New(seedRegistry(logger, cfg.Services)...)
		services, checks = mem, mem
		logger.Info("using_memory_store", zap.Int("services", len(cfg.Services)))
	}

	var sink notify.Notifier
	if wh := notify.NewWebhook(cfg.Alert.WebhookURL); wh != nil {
		sink = wh
	} else {
		logger.Info("alert_webhook_disabled")
	}

	alerter := scheduler.NewAlerter(logger, checks, sink)
	recorder := scheduler.NewRecorder(logger, checks, alerter)
	checker := probe.NewMultiChecker(cfg.Check.Timeout)
	sched := scheduler.New(logger, services, checker, recorder,
		cfg.Check.Interval, cfg.Check.Timeout, cfg.Check.Concurrency, nil)
	go sched.Run(ctx)

	agg := status.NewAggregator(services, checks, cfg.UptimeWindow)
	api := httpapi.NewServer(logger, agg, sched,
		middleware.Keys{Admin: cfg.API.AdminKeys}, cfg.API.RateRPM, cfg.API.RateBurst)

	srv := &http.Server{Addr: cfg.API.Addr, Handler: api.Router()}
	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	logger.Info("api_listen", zap.String("addr", cfg.API.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("api_serve_failed", zap.Error(err))
	}
	logger.Info("api_stopped")
}

// seedRegistry normalizes the static registry entries; rows with an
// unrecognized type or a missing id are skipped, not fatal.
func seedRegistry(logger *zap.Logger, entries []config.Service) []domain.Service {
	out := make([]domain.Service, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			logger.Warn("skipping service without id", zap.String("url", e.URL))
			continue
		}
		typ, err := domain.ParseServiceType(e.Type)
		if err != nil {
			logger.Warn("skipping service with unrecognized type",
				zap.String("service_id", e.ID), zap.String("type", e.Type))
			continue
		}
		out = append(out, domain.Service{
			ID:    domain.ServiceID(e.ID),
			Name:  e.Name,
			Type:  typ,
			URL:   e.URL,
			Group: e.Group,
		})
	}
	return out
}
