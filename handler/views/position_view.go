package views

import (
	"pledge/core"

	"github.com/shopspring/decimal"
)

// Position position view
type Position struct {
	core.Position
	Debt        decimal.Decimal `json:"debt"`
	HealthScore decimal.Decimal `json:"health_score"`
}

// Params protocol parameters view
type Params struct {
	core.Params
	Paused bool `json:"paused"`
}
