package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workshopd/internal/errs"
	"workshopd/internal/ports"
)

// conn resolves the handle repositories run on: the transaction carried by ctx
// when present, the root pool otherwise.
type conn struct {
	db *gorm.DB
}

func (c conn) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return c.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

// inTx runs fn inside the caller's transaction, or opens one when ctx has none.
func (c conn) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ports.InTx(ctx) {
		return fn(ctx)
	}
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ports.WithTxContext(ctx, tx))
	})
}

// forUpdate adds a row lock on dialects that support SELECT ... FOR UPDATE.
// SQLite serializes writers at the database level instead.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector == nil || db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// dbError records where a driver error surfaced and adds the operation name.
func dbError(err error, msg string) error {
	return errs.Wrap(errs.WithStack(err), msg)
}
