package service

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner runs units of work inside a database transaction.
type TxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) *TxRunner {
	return &TxRunner{db: db}
}

// InTx commits when fn returns nil and rolls back otherwise. The error
// returned by fn is passed through untouched.
func (r *TxRunner) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// conn picks the caller's transaction when there is one.
func conn(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
