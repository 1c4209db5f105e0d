package accrual

import (
	"context"
	"time"

	"pledge/core"
	"pledge/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Worker keeps the global accrual index moving even when no user
// operation arrives.
type Worker struct {
	worker.BaseJob
	engine core.Engine
}

// New new accrual worker
func New(location string, engine core.Engine) *Worker {
	job := Worker{
		engine: engine,
	}

	l, _ := time.LoadLocation(location)
	job.Cron = cron.New(cron.WithLocation(l))
	job.Cron.AddFunc("@every 1s", job.BaseJob.Run)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

// Run starts the cron schedule and blocks until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	w.Start()
	defer w.Stop()

	<-ctx.Done()
	return ctx.Err()
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "accrual")

	if err := w.engine.Accrue(ctx); err != nil {
		// a paused protocol stops accruing on purpose
		if err == core.ErrProtocolPaused {
			return nil
		}

		log.Errorln("accrue error:", err)
		return err
	}

	return nil
}
