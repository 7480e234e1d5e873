package sqlstore

import (
	"context"

	"github.com/authkit-go/sqlstore/dialect"
)

// Transaction runs fn inside a transactional scope. The callback receives
// an adapter bound to that scope: the same operations, executed on the
// transaction's connection. On success the transaction commits; on any
// failure it rolls back and the original error is returned unchanged, so
// callers can still distinguish the failure kind with the usual errors.As
// checks.
//
// Calling Transaction on an already-scoped adapter re-invokes fn against
// the same scope. Transactions do not nest a second physical transaction.
func (a *Adapter) Transaction(ctx context.Context, fn func(tx *Adapter) error) error {
	if a.inTx {
		return fn(a)
	}
	tx, err := a.drv.Tx(ctx)
	if err != nil {
		return err
	}
	scoped := a.scope(tx)
	if err := fn(scoped); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			a.log.WarnContext(ctx, "rollback failed", "error", rerr)
		}
		return err
	}
	return tx.Commit()
}

// scope returns a copy of the adapter bound to the transaction's
// connection.
func (a *Adapter) scope(tx dialect.Tx) *Adapter {
	scoped := *a
	scoped.conn = tx
	scoped.inTx = true
	return &scoped
}
