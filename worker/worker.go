package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// Worker long running job. Run blocks until ctx is done.
type Worker interface {
	Run(ctx context.Context) error
}

// BaseJob cron backed job
type BaseJob struct {
	Cron      *cron.Cron
	IsRunning bool
	OnWork    func() error
}

func (job *BaseJob) Start() error {
	job.Cron.Start()
	return nil
}

func (job *BaseJob) Stop() error {
	job.Cron.Stop()
	return nil
}

func (job *BaseJob) Run() {
	if job.IsRunning {
		return
	}

	job.IsRunning = true
	job.OnWork()
	job.IsRunning = false
}

// TickWorker polls onTick on a fixed interval until ctx is done.
type TickWorker struct {
	Delay    time.Duration
	ErrDelay time.Duration
}

// StartTick run onTick repeatedly. A failing tick retries after ErrDelay.
func (w *TickWorker) StartTick(ctx context.Context, onTick func(ctx context.Context) error) error {
	delay := w.Delay
	if delay <= 0 {
		delay = time.Second
	}

	errDelay := w.ErrDelay
	if errDelay <= 0 {
		errDelay = delay
	}

	timer := time.NewTimer(time.Millisecond)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			if err := onTick(ctx); err != nil {
				timer.Reset(errDelay)
			} else {
				timer.Reset(delay)
			}
		}
	}
}
