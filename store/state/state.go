package state

import (
	"context"
	"time"

	"pledge/core"
	"pledge/pkg/number"

	"github.com/fox-one/pkg/property"
	"github.com/shopspring/decimal"
)

const (
	accrualIndexKey     = "accrual_index"
	accrualUpdatedAtKey = "accrual_updated_at"
	ratioBpsKey         = "collateralization_ratio_bps"
	ratePerSecondKey    = "rate_per_second"
	bonusBpsKey         = "liquidation_bonus_bps"
	pausedKey           = "protocol_paused"
)

// defaults applied until the admin sets explicit values
const (
	DefaultRatioBps = 7500
	DefaultBonusBps = 500
)

// Store persists the protocol singletons (accrual state, parameters,
// pause flag) through the property table. Implements core.AccrualStore,
// core.ParameterStore and core.PauseSwitch; the setters back the admin
// command.
type Store struct {
	property property.Store
}

// New new state store
func New(property property.Store) *Store {
	return &Store{property: property}
}

func (s *Store) Load(ctx context.Context) (*core.AccrualState, error) {
	state := &core.AccrualState{
		Index: decimal.New(1, 0),
	}

	v, err := s.property.Get(ctx, accrualIndexKey)
	if err != nil {
		return nil, err
	}

	if raw := v.String(); raw != "" {
		state.Index = number.Decimal(raw)
	}

	v, err = s.property.Get(ctx, accrualUpdatedAtKey)
	if err != nil {
		return nil, err
	}

	if ts := v.Int64(); ts > 0 {
		state.LastUpdateTime = time.Unix(ts, 0)
	}

	return state, nil
}

func (s *Store) Save(ctx context.Context, state *core.AccrualState) error {
	if err := s.property.Save(ctx, accrualIndexKey, state.Index.String()); err != nil {
		return err
	}

	return s.property.Save(ctx, accrualUpdatedAtKey, state.LastUpdateTime.Unix())
}

func (s *Store) Read(ctx context.Context) (*core.Params, error) {
	params := &core.Params{
		CollateralizationRatioBps: DefaultRatioBps,
		LiquidationBonusBps:       DefaultBonusBps,
		RatePerSecond:             decimal.Zero,
	}

	v, err := s.property.Get(ctx, ratioBpsKey)
	if err != nil {
		return nil, err
	}

	if bps := v.Int64(); bps > 0 {
		params.CollateralizationRatioBps = bps
	}

	v, err = s.property.Get(ctx, bonusBpsKey)
	if err != nil {
		return nil, err
	}

	if bps := v.Int64(); bps > 0 {
		params.LiquidationBonusBps = bps
	}

	v, err = s.property.Get(ctx, ratePerSecondKey)
	if err != nil {
		return nil, err
	}

	if raw := v.String(); raw != "" {
		params.RatePerSecond = number.Decimal(raw)
	}

	return params, nil
}

func (s *Store) Paused(ctx context.Context) (bool, error) {
	v, err := s.property.Get(ctx, pausedKey)
	if err != nil {
		return false, err
	}

	return v.Int64() != 0, nil
}

// SetRatioBps admin setter
func (s *Store) SetRatioBps(ctx context.Context, bps int64) error {
	return s.property.Save(ctx, ratioBpsKey, bps)
}

// SetBonusBps admin setter
func (s *Store) SetBonusBps(ctx context.Context, bps int64) error {
	return s.property.Save(ctx, bonusBpsKey, bps)
}

// SetRatePerSecond admin setter
func (s *Store) SetRatePerSecond(ctx context.Context, rate decimal.Decimal) error {
	return s.property.Save(ctx, ratePerSecondKey, rate.String())
}

// SetPaused admin setter
func (s *Store) SetPaused(ctx context.Context, paused bool) error {
	flag := int64(0)
	if paused {
		flag = 1
	}

	return s.property.Save(ctx, pausedKey, flag)
}
