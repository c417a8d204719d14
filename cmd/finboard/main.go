package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"finboard/internal/amqp"
	"finboard/internal/backend"
	"finboard/internal/cache"
	"finboard/internal/chart/echarts"
	"finboard/internal/chart/snapshot"
	"finboard/internal/cli"
	"finboard/internal/config"
	apphttp "finboard/internal/http"
	"finboard/internal/log"
	"finboard/internal/notify"
	"finboard/internal/prefs"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("finboard stopped with error", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, stop := cli.SignalContext()
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err.Error())
		}
	}()

	caches := cache.NewManager(logger)
	var snapshotOpts []snapshot.Option
	if !cfg.SnapshotEnabled {
		snapshotOpts = append(snapshotOpts, snapshot.Disabled())
	} else if err := snapshot.EnsureHeadlessAvailable(ctx); err != nil {
		logger.Warn("Headless Chrome unavailable, PNG snapshots disabled", log.FieldError, err.Error())
		snapshotOpts = append(snapshotOpts, snapshot.Disabled())
	}
	pngCache := cache.NewLRU[[]byte](cfg.SnapshotCacheSize, cfg.SnapshotCacheTTL)
	caches.Register(pngCache)
	snapshots := snapshot.New(echarts.New(false), pngCache, logger, snapshotOpts...)
	caches.Start(cfg.SnapshotCacheTTL)
	defer caches.Stop()

	timer := notify.NewTimer(notify.NewScheduler(), &notify.AlertCloser{Scheduler: notify.NewScheduler()}, notify.Timings{
		DefaultDelay: cfg.BannerDefaultDelay,
		RemoveAfter:  cfg.BannerRemoveAfter,
	}, logger)
	board := notify.NewBoard(timer, logger)

	checks := make([]apphttp.HealthChecker, 0, len(res.Checks))
	for _, c := range res.Checks {
		checks = append(checks, c)
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Options{
		Reader:             res.Reader,
		Writer:             res.Writer,
		Board:              board,
		Mirror:             prefs.NewMirror(res.Prefs, logger),
		Snapshots:          snapshots,
		Checks:             checks,
		Logger:             logger,
		PageRenderer:       cfg.ChartRenderer,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting finboard server",
			"port", cfg.Port,
			log.FieldBackend, cfg.DataBackend,
			"prefs_backend", cfg.PrefsBackend,
			"renderer", cfg.ChartRenderer,
			"snapshots", snapshots.Enabled(),
			log.FieldOperation, log.OpStartup,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			// Banners over AMQP are optional; the dashboard keeps serving.
			logger.Warn("AMQP unavailable, banner feed disabled", log.FieldError, err.Error())
		} else {
			defer client.Close()
			g.Go(func() error {
				err := client.ConsumeBanners(gctx, func(ctx context.Context, msg *amqp.BannerMessage) error {
					srv.PostBanner(ctx, msg.Message)
					return nil
				})
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		}
	}

	return g.Wait()
}
