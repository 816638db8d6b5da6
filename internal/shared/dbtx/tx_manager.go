package dbtx

import (
	"context"

	"gorm.io/gorm"
)

type contextKey string

const txKey contextKey = "gorm_tx"

// Manager runs a unit of work in one database transaction. Repositories joined
// through GetDB see the same tx, so either every write commits or none does.
//
//go:generate mockgen -source=tx_manager.go -destination=mock/tx_manager_mock.go -package=mock
type Manager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type manager struct {
	db *gorm.DB
}

func NewManager(db *gorm.DB) Manager {
	return &manager{db: db}
}

func (m *manager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if _, ok := ctx.Value(txKey).(*gorm.DB); ok {
		// already inside a unit of work
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey, tx))
	})
}

// GetDB returns the tx bound to ctx, or root when there is none.
func GetDB(ctx context.Context, root *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return root.WithContext(ctx)
}

// InTx reports whether ctx carries a transaction.
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey).(*gorm.DB)
	return ok
}
