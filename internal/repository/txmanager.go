package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNoRowsAffected reports a guarded update whose WHERE precondition did not
// hold; callers translate it to the failing precondition.
var ErrNoRowsAffected = errors.New("NO_ROWS_AFFECTED")

// TxManager scopes a function to one database transaction. Repositories
// called with the returned context join that transaction, so a ledger write
// and its balance mutation commit or roll back as one unit.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type TransactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) TxManager {
	return &TransactionManager{db: db}
}

func (tm *TransactionManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return tm.db.Transaction(func(tx *gorm.DB) error {
		ctx = context.WithValue(ctx, "tx", tx)
		return fn(ctx)
	})
}

func GetTx(ctx context.Context, db *gorm.DB) *gorm.DB {
	tx, ok := ctx.Value("tx").(*gorm.DB)
	if !ok {
		return db
	}
	return tx
}
