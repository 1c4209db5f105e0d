package position

import (
	"context"

	"pledge/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type positionStore struct {
	db *db.DB
}

// New new position store
func New(db *db.DB) core.PositionStore {
	return &positionStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Position{})
		if err := tx.AutoMigrate(core.Position{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *positionStore) Find(ctx context.Context, userID string) (*core.Position, error) {
	var position core.Position
	err := s.db.View().Where("user_id = ?", userID).First(&position).Error
	if store.IsErrNotFound(err) {
		return &core.Position{UserID: userID}, nil
	}

	if err != nil {
		return nil, err
	}

	return &position, nil
}

func (s *positionStore) Save(ctx context.Context, position *core.Position) error {
	if position.ID == 0 {
		return s.db.Update().Create(position).Error
	}

	version := position.Version
	position.Version++

	// map form so balances that drop to zero still write through
	tx := s.db.Update().Model(core.Position{}).
		Where("id = ? AND version = ?", position.ID, version).
		Updates(map[string]interface{}{
			"loan_balance":       position.LoanBalance,
			"collateral_balance": position.CollateralBalance,
			"principal":          position.Principal,
			"accrual_checkpoint": position.AccrualCheckpoint,
			"version":            position.Version,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *positionStore) All(ctx context.Context) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}
