package oracle

import (
	"context"
	"fmt"
	"time"

	"pledge/core"
	"pledge/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// Config oracle adapter config
type Config struct {
	EndPoint string
	Symbol   string
	// a stored tick older than this no longer counts as a price
	StaleAfter time.Duration
}

// PriceService serves GetPrice from the price store and pulls fresh ticks
// from the upstream feed. Freshness policy lives here, not in the engine:
// the engine only ever sees a price or ErrOracleUnavailable.
type PriceService struct {
	config Config
	prices core.PriceStore

	now func() time.Time
}

// New new oracle price service
func New(config Config, prices core.PriceStore) *PriceService {
	return &PriceService{
		config: config,
		prices: prices,
		now:    time.Now,
	}
}

func (s *PriceService) GetPrice(ctx context.Context) (*core.Price, error) {
	price, err := s.prices.Latest(ctx, s.config.Symbol)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("prices.Latest")
		return nil, core.ErrOracleUnavailable
	}

	if price == nil || !price.Price.IsPositive() {
		return nil, core.ErrOracleUnavailable
	}

	if s.config.StaleAfter > 0 && s.now().Sub(price.Time) > s.config.StaleAfter {
		return nil, core.ErrOracleUnavailable
	}

	return price, nil
}

type ticker struct {
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	Timestamp int64           `json:"timestamp"`
}

// PullPrice pull the latest tick from the upstream feed.
func (s *PriceService) PullPrice(ctx context.Context, at time.Time) (*core.Price, error) {
	url := fmt.Sprintf("%s/api/tickers/%s?ts=%d", s.config.EndPoint, s.config.Symbol, at.UTC().Unix())
	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	var t ticker
	if err := resthttp.ParseResponse(resp, &t); err != nil {
		return nil, err
	}

	if !t.Price.IsPositive() {
		return nil, core.ErrOracleUnavailable
	}

	return &core.Price{
		Symbol: s.config.Symbol,
		Price:  t.Price,
		Time:   time.Unix(t.Timestamp, 0),
	}, nil
}
