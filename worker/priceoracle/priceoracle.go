package priceoracle

import (
	"context"
	"time"

	"pledge/core"
	"pledge/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// Worker pulls the collateral price from the upstream ticker endpoint and
// persists the latest tick for the engine-side oracle adapter.
type Worker struct {
	worker.TickWorker
	oracleService core.OracleService
	priceStore    core.PriceStore
}

// New new price oracle worker
func New(interval time.Duration, oracleSrv core.OracleService, priceStr core.PriceStore) *Worker {
	job := Worker{
		oracleService: oracleSrv,
		priceStore:    priceStr,
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
	log := logger.FromContext(ctx).WithField("worker", "priceoracle")

	price, err := w.oracleService.PullPrice(ctx, time.Now())
	if err != nil {
		log.Errorln("pull price ticker error:", err)
		return err
	}

	if price.Price.LessThanOrEqual(decimal.Zero) {
		log.Errorln("invalid ticker price:", price.Symbol, ":", price.Price)
		return nil
	}

	if err := w.priceStore.Save(ctx, price); err != nil {
		log.Errorln("save price error:", err)
		return err
	}

	return nil
}
