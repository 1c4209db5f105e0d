package cmd

import (
	"time"

	"pledge/core"
	"pledge/pkg/metrics"
	"pledge/service/lending"
	"pledge/service/oracle"
	"pledge/store/asset"
	"pledge/store/position"
	"pledge/store/price"
	"pledge/store/state"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

// ---------------store-----------------------------------------

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func provideStateStore(db *db.DB) *state.Store {
	return state.New(providePropertyStore(db))
}

func providePositionStore(db *db.DB) core.PositionStore {
	return position.Cache(position.New(db), time.Second)
}

func providePriceStore(db *db.DB) core.PriceStore {
	return price.New(db)
}

func provideLoanLedger(db *db.DB) core.AssetLedger {
	return asset.New(db, cfg.App.LoanSymbol)
}

func provideCollateralLedger(db *db.DB) core.AssetLedger {
	return asset.New(db, cfg.App.CollateralSymbol)
}

// ------------------service------------------------------------

func provideOracleService(db *db.DB) core.OracleService {
	return oracle.New(oracle.Config{
		EndPoint:   cfg.Oracle.EndPoint,
		Symbol:     cfg.App.CollateralSymbol,
		StaleAfter: time.Duration(cfg.Oracle.StaleAfter) * time.Second,
	}, providePriceStore(db))
}

func provideEngine(db *db.DB, opts ...lending.Option) core.Engine {
	stateStr := provideStateStore(db)

	return lending.New(
		providePositionStore(db),
		stateStr,
		stateStr,
		stateStr,
		provideOracleService(db),
		provideLoanLedger(db),
		provideCollateralLedger(db),
		opts...,
	)
}

func provideMetrics() *metrics.Metrics {
	return metrics.New()
}
