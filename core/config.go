package core

import (
	"github.com/fox-one/pkg/store/db"
)

// Config pledge config
type Config struct {
	App    App       `json:"app"`
	DB     db.Config `json:"db"`
	Oracle Oracle    `json:"oracle"`
	Keeper Keeper    `json:"keeper"`
}

// App app config
type App struct {
	// loan asset symbol, e.g. USDT
	LoanSymbol string `json:"loan_symbol"`
	// collateral asset symbol, e.g. BTC
	CollateralSymbol string `json:"collateral_symbol"`
	Location         string `json:"location"`
}

// Oracle price oracle config
type Oracle struct {
	EndPoint string `json:"end_point"`
	// seconds after which a stored tick no longer counts as a price
	StaleAfter int64 `json:"stale_after"`
	// poll interval in seconds
	PullInterval int64 `json:"pull_interval"`
}

// Keeper liquidation keeper config
type Keeper struct {
	UserID string `json:"user_id"`
	// scan interval in seconds
	ScanInterval int64 `json:"scan_interval"`
}
