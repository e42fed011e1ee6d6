package scheduler

import (
	"fmt"
	"time"

	"crm_console_backend/platform/config"
	"crm_console_backend/platform/logger"

	"github.com/hibiken/asynq"
)

const (
	expiryMaxRetry = 3
	expiryTimeout  = 5 * time.Minute
)

// ExpirySchedule registers the periodic quote expiry sweep with asynq.
type ExpirySchedule struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

func NewExpirySchedule(cfg config.SchedulerConfig, log *logger.Logger) (*ExpirySchedule, error) {
	opt, queue, err := connOpt(cfg)
	if err != nil {
		return nil, err
	}

	spec := cfg.GetQuoteExpirySweep()
	if spec == "" {
		return nil, fmt.Errorf("quote expiry sweep schedule not configured")
	}

	task, err := NewQuoteExpireDueTask(QuoteExpireDuePayload{Limit: cfg.GetQuoteExpiryBatch()})
	if err != nil {
		return nil, err
	}

	s := asynq.NewScheduler(opt, &asynq.SchedulerOpts{Location: time.UTC})
	entryID, err := s.Register(spec, task,
		asynq.Queue(queue),
		asynq.MaxRetry(expiryMaxRetry),
		asynq.Timeout(expiryTimeout),
		asynq.Unique(expiryTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("register quote expiry sweep %q: %w", spec, err)
	}
	log.Info("quote expiry sweep registered", "schedule", spec, "entryId", entryID)

	return &ExpirySchedule{scheduler: s, log: log}, nil
}

// Start runs the scheduler in the background until Shutdown.
func (e *ExpirySchedule) Start() error {
	if e == nil || e.scheduler == nil {
		return nil
	}
	return e.scheduler.Start()
}

func (e *ExpirySchedule) Shutdown() {
	if e == nil || e.scheduler == nil {
		return
	}
	e.scheduler.Shutdown()
}
