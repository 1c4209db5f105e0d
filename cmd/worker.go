package cmd

import (
	"sync"
	"time"

	"pledge/service/lending"
	"pledge/worker"
	"pledge/worker/accrual"
	"pledge/worker/liquidator"
	"pledge/worker/priceoracle"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "pledge job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		positionStore := providePositionStore(database)
		priceStore := providePriceStore(database)
		oracleService := provideOracleService(database)
		engine := provideEngine(database, lending.WithMetrics(provideMetrics()))

		pullInterval := time.Duration(cfg.Oracle.PullInterval) * time.Second
		scanInterval := time.Duration(cfg.Keeper.ScanInterval) * time.Second

		workers := []worker.Worker{
			accrual.New(cfg.App.Location, engine),
			priceoracle.New(pullInterval, oracleService, priceStore),
			liquidator.New(scanInterval, cfg.Keeper.UserID, engine, positionStore),
		}

		wg := sync.WaitGroup{}
		for _, w := range workers {
			wg.Add(1)

			go func(worker worker.Worker) {
				defer wg.Done()
				worker.Run(ctx)
			}(w)
		}

		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
