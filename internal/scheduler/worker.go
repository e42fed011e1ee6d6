package scheduler

import (
	"context"
	"time"

	"crm_console_backend/platform/config"
	"crm_console_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// QuoteExpirer moves sent quotes past their validity date to expired.
type QuoteExpirer interface {
	ExpireDue(ctx context.Context, now time.Time, limit int) (int, error)
}

type Worker struct {
	server       *asynq.Server
	mux          *asynq.ServeMux
	expirer      QuoteExpirer
	defaultLimit int
	now          func() time.Time
	log          *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, expirer QuoteExpirer, log *logger.Logger) (*Worker, error) {
	opt, queue, err := connOpt(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	w := newWorker(expirer, cfg.GetQuoteExpiryBatch(), log)
	w.server = server
	return w, nil
}

func newWorker(expirer QuoteExpirer, defaultLimit int, log *logger.Logger) *Worker {
	if defaultLimit < 1 {
		defaultLimit = DefaultExpiryBatch
	}
	if log == nil {
		log = logger.Discard()
	}

	w := &Worker{
		mux:          asynq.NewServeMux(),
		expirer:      expirer,
		defaultLimit: defaultLimit,
		now:          func() time.Time { return time.Now().UTC() },
		log:          log,
	}
	w.mux.HandleFunc(TaskQuoteExpireDue, w.handleQuoteExpireDue)
	return w
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleQuoteExpireDue(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseQuoteExpireDuePayload(task)
	if err != nil {
		return err
	}

	limit := payload.Limit
	if limit < 1 {
		limit = w.defaultLimit
	}

	expired, err := w.expirer.ExpireDue(ctx, w.now(), limit)
	if err != nil {
		w.log.Error("quote expiry sweep failed", "error", err)
		return err
	}
	if expired > 0 {
		w.log.Info("quote expiry sweep finished", "expired", expired, "limit", limit)
	}
	return nil
}
