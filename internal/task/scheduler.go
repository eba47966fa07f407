package task

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/medias-pipeline-go/internal/logger"
	"github.com/hibiken/asynq"
)

type asynqScheduler interface {
	Register(cronspec string, task *asynq.Task, opts ...asynq.Option) (string, error)
	Start() error
	Shutdown()
}

// SweepScheduler periodically enqueues the cleanup task. The process entry
// point owns its lifecycle through Start and Stop.
type SweepScheduler struct {
	scheduler asynqScheduler
	interval  time.Duration
	entryID   string
}

func NewSweepScheduler(addr, password string, interval time.Duration) *SweepScheduler {
	s := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: addr, Password: password},
		&asynq.SchedulerOpts{Location: time.UTC},
	)
	return &SweepScheduler{scheduler: s, interval: interval}
}

func (s *SweepScheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", s.interval)
	}
	spec := fmt.Sprintf("@every %s", s.interval)
	id, err := s.scheduler.Register(spec, NewSweepJobsTask(),
		asynq.Queue(QueueMaintenance),
		asynq.MaxRetry(0),
		asynq.Timeout(s.interval),
	)
	if err != nil {
		return fmt.Errorf("could not register sweep task: %w", err)
	}
	s.entryID = id

	if err := s.scheduler.Start(); err != nil {
		return fmt.Errorf("could not start scheduler: %w", err)
	}
	logger.Infof(ctx, "sweep scheduled %s (entry %s)", spec, id)
	return nil
}

func (s *SweepScheduler) Stop() {
	s.scheduler.Shutdown()
}
