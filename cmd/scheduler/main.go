package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"crm_console_backend/internal/bootstrap"
	"crm_console_backend/internal/events"
	"crm_console_backend/internal/quotes"
	"crm_console_backend/internal/scheduler"
	"crm_console_backend/platform/config"
	"crm_console_backend/platform/logger"
	"crm_console_backend/platform/validator"

	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "sweep", cfg.GetQuoteExpirySweep())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := bootstrap.ConnectPool(ctx, log, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	redisClient, err := scheduler.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to initialize redis client", "error", err)
		panic("failed to initialize redis client: " + err.Error())
	}
	defer func() { _ = redisClient.Close() }()

	// Worker-side quote wiring: only the expiry sweep runs here, no HTTP handlers.
	quotesModule, err := quotes.NewModule(pool, eventBus, validator.New(), cfg, redisClient, log)
	if err != nil {
		log.Error("failed to initialize quotes module", "error", err)
		panic("failed to initialize quotes module: " + err.Error())
	}

	schedule, err := scheduler.NewExpirySchedule(cfg, log)
	if err != nil {
		log.Error("failed to register expiry schedule", "error", err)
		panic("failed to register expiry schedule: " + err.Error())
	}
	if err := schedule.Start(); err != nil {
		log.Error("failed to start expiry schedule", "error", err)
		panic("failed to start expiry schedule: " + err.Error())
	}
	defer schedule.Shutdown()

	worker, err := scheduler.NewWorker(cfg, quotesModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	// Catch up on anything that lapsed while the scheduler was down.
	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = client.Close() }()
	if err := client.EnqueueQuoteExpiry(ctx, cfg.GetQuoteExpiryBatch()); err != nil {
		log.Warn("initial quote expiry sweep not enqueued", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		worker.Run(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error("scheduler stopped with error", "error", err)
	}
	eventBus.Wait()
	log.Info("scheduler stopped")
}
