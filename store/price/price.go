package price

import (
	"context"

	"pledge/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type priceStore struct {
	db *db.DB
}

// New new price store
func New(db *db.DB) core.PriceStore {
	return &priceStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Price{})
		if err := tx.AutoMigrate(core.Price{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *priceStore) Save(ctx context.Context, price *core.Price) error {
	var existing core.Price
	err := s.db.Update().
		Where("symbol = ?", price.Symbol).
		First(&existing).Error
	if store.IsErrNotFound(err) {
		return s.db.Update().Create(price).Error
	}

	if err != nil {
		return err
	}

	return s.db.Update().Model(core.Price{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"price": price.Price,
			"time":  price.Time,
		}).Error
}

func (s *priceStore) Latest(ctx context.Context, symbol string) (*core.Price, error) {
	var price core.Price
	err := s.db.View().Where("symbol = ?", symbol).First(&price).Error
	if store.IsErrNotFound(err) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &price, nil
}
