package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"shareholder/internal/holdings/handler"
	holdingsmetrics "shareholder/internal/holdings/metrics"
	"shareholder/internal/holdings/service"
	"shareholder/internal/meeting"
	meetinghandler "shareholder/internal/meeting/handler"
	"shareholder/internal/platform/config"
	"shareholder/internal/platform/httpserver"
	"shareholder/internal/platform/logger"
	"shareholder/internal/platform/metrics"
	httptransport "shareholder/internal/transport/http"
	"shareholder/pkg/platform/audit"
	"shareholder/pkg/platform/circuit"
	"shareholder/pkg/platform/locale"
	"shareholder/pkg/platform/middleware/admin"
	"shareholder/pkg/platform/middleware/ratelimit"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal service packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	platformMetrics := metrics.New()
	holdingsMetrics := holdingsmetrics.New()
	localizer := locale.New(locale.Default.Parse(cfg.Locale.Default))

	auditor, closeAudit, err := buildAudit(ctx, cfg, log, platformMetrics)
	if err != nil {
		return err
	}
	defer closeAudit()

	src, closeSource, err := buildSource(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSource()

	cache, closeCache, err := buildCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()

	hasher, err := audit.NewSubjectHasher([]byte(cfg.Audit.HashKey))
	if err != nil {
		return err
	}
	if cfg.Audit.HashKey == "" {
		log.Warn("AUDIT_HASH_KEY is empty; national ID hashes in activity events are unkeyed")
	}

	holdings, err := service.New(src,
		service.WithCache(cache),
		service.WithAuditPublisher(auditor),
		service.WithSubjectHasher(hasher),
		service.WithBreaker(circuit.New(src.Name(),
			circuit.WithFailureThreshold(cfg.Breaker.FailureThreshold),
			circuit.WithSuccessThreshold(cfg.Breaker.SuccessThreshold),
		)),
		service.WithFetchTimeout(cfg.Source.FetchTimeout),
		service.WithLocalizer(localizer),
		service.WithLogger(log),
		service.WithMetrics(holdingsMetrics),
	)
	if err != nil {
		return err
	}

	catalog, err := meeting.Load(cfg.Meeting.ConfigPath)
	if err != nil {
		return err
	}

	if cfg.Server.AdminToken == "" {
		log.Warn("ADMIN_TOKEN is empty; the holdings list endpoint is disabled")
	}
	limiter := ratelimit.New(cfg.Server.SearchPerMinute, cfg.Server.SearchBurst,
		ratelimit.WithEmitter(auditor),
		ratelimit.WithLogger(log),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:    log,
		Observer:  platformMetrics,
		Localizer: localizer,
		Metrics:   httptransport.MetricsHandler(),
		Handlers: []httptransport.Registrar{
			handler.New(holdings, log,
				handler.WithLocalizer(localizer),
				handler.WithSearchMiddleware(limiter.Middleware),
				handler.WithAdminMiddleware(admin.RequireAdminToken(cfg.Server.AdminToken, auditor, log)),
			),
			meetinghandler.New(catalog, auditor, log),
		},
	})
	srv := httpserver.New(cfg.Server, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting shareholder service",
			"addr", cfg.Server.Addr,
			"source", src.Name(),
			"cache", cfg.Cache.Backend,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		holdings.StartHealthMonitor(gctx, cfg.Source.HealthInterval)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// logCloser logs errors from cleanup functions run at shutdown.
func logCloser(log *slog.Logger, what string, fn func() error) func() {
	return func() {
		if err := fn(); err != nil {
			log.Warn("close failed", "resource", what, "error", err)
		}
	}
}
