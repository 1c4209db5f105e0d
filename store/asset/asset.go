package asset

import (
	"context"

	"pledge/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

type assetLedger struct {
	db     *db.DB
	symbol string
}

// New db-backed asset ledger for one symbol. Stands in for the external
// fungible-asset transfer mechanism: per-user balance rows plus a journal
// row per movement through the pool account.
func New(db *db.DB, symbol string) core.AssetLedger {
	return &assetLedger{db: db, symbol: symbol}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update()
		if err := tx.AutoMigrate(core.AssetAccount{}).Error; err != nil {
			return err
		}

		if err := tx.AutoMigrate(core.Transfer{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (l *assetLedger) TransferIn(ctx context.Context, from string, amount decimal.Decimal) error {
	return l.db.Tx(func(tx *db.DB) error {
		if err := l.move(tx, from, core.PoolUserID, amount); err != nil {
			return err
		}

		return l.journal(tx, from, core.TransferDirectionIn, amount)
	})
}

func (l *assetLedger) TransferOut(ctx context.Context, to string, amount decimal.Decimal) error {
	return l.db.Tx(func(tx *db.DB) error {
		if err := l.move(tx, core.PoolUserID, to, amount); err != nil {
			return err
		}

		return l.journal(tx, to, core.TransferDirectionOut, amount)
	})
}

func (l *assetLedger) move(tx *db.DB, from, to string, amount decimal.Decimal) error {
	src, err := l.account(tx, from)
	if err != nil {
		return err
	}

	if src.Balance.LessThan(amount) {
		return core.ErrInsufficientBalance
	}

	dst, err := l.account(tx, to)
	if err != nil {
		return err
	}

	src.Balance = src.Balance.Sub(amount)
	dst.Balance = dst.Balance.Add(amount)

	if err := l.update(tx, src); err != nil {
		return err
	}

	return l.update(tx, dst)
}

func (l *assetLedger) account(tx *db.DB, userID string) (*core.AssetAccount, error) {
	var account core.AssetAccount
	err := tx.View().
		Where("symbol = ? AND user_id = ?", l.symbol, userID).
		First(&account).Error
	if store.IsErrNotFound(err) {
		account = core.AssetAccount{Symbol: l.symbol, UserID: userID}
		if err := tx.Update().Create(&account).Error; err != nil {
			return nil, err
		}

		return &account, nil
	}

	if err != nil {
		return nil, err
	}

	return &account, nil
}

func (l *assetLedger) update(tx *db.DB, account *core.AssetAccount) error {
	version := account.Version
	account.Version++

	updated := tx.Update().Model(core.AssetAccount{}).
		Where("id = ? AND version = ?", account.ID, version).
		Updates(map[string]interface{}{
			"balance": account.Balance,
			"version": account.Version,
		})
	if updated.Error != nil {
		return updated.Error
	}

	if updated.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (l *assetLedger) journal(tx *db.DB, userID, direction string, amount decimal.Decimal) error {
	trace, err := uuid.NewV4()
	if err != nil {
		return err
	}

	transfer := &core.Transfer{
		TraceID:   trace.String(),
		Symbol:    l.symbol,
		UserID:    userID,
		Direction: direction,
		Amount:    amount,
	}

	return tx.Update().Create(transfer).Error
}
