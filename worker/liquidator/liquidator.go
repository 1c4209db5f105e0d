package liquidator

import (
	"context"
	"time"

	"pledge/core"
	"pledge/internal/lending"
	"pledge/worker"

	"github.com/fox-one/pkg/logger"
)

// Worker keeper that scans stored positions and liquidates the unsafe
// ones from the configured keeper account. The keeper account must hold
// enough loan asset on the external ledger to clear the debts it bids on.
type Worker struct {
	worker.TickWorker
	keeperID      string
	engine        core.Engine
	positionStore core.PositionStore
}

// New new liquidator worker
func New(interval time.Duration, keeperID string, engine core.Engine, positionStr core.PositionStore) *Worker {
	job := Worker{
		keeperID:      keeperID,
		engine:        engine,
		positionStore: positionStr,
	}
	job.Delay = interval

	return &job
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "liquidator")

	positions, err := w.positionStore.All(ctx)
	if err != nil {
		log.Errorln("fetch all positions error:", err)
		return err
	}

	for _, position := range positions {
		if !position.Principal.IsPositive() {
			continue
		}

		score, err := w.engine.HealthScore(ctx, position.UserID)
		if err != nil {
			log.WithField("user", position.UserID).Errorln("health score error:", err)
			continue
		}

		if !lending.Liquidatable(score) {
			continue
		}

		seized, err := w.engine.Liquidate(ctx, w.keeperID, position.UserID)
		if err != nil {
			// the borrower may have been rescued between scan and bid
			if err == core.ErrPositionHealthy {
				continue
			}

			log.WithField("user", position.UserID).Errorln("liquidate error:", err)
			continue
		}

		log.WithField("user", position.UserID).
			WithField("score", score).
			WithField("seized", seized).
			Infoln("position liquidated")
	}

	return nil
}
