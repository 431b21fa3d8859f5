package xcontext

import (
	"context"

	"gorm.io/gorm"
)

type dbTransaction struct {
	tx     *gorm.DB
	parent *dbTransaction
	done   bool
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the running transaction of ctx if there is one, otherwise the
// shared connection pool.
func DB(ctx context.Context) *gorm.DB {
	for t := transaction(ctx); t != nil; t = t.parent {
		if !t.done {
			return t.tx.WithContext(ctx)
		}
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		return nil
	}

	return db.WithContext(ctx)
}

// WithDBTransaction begins a transaction. If ctx is already inside a
// transaction, the returned context joins it and only the outermost owner
// commits or rolls back.
func WithDBTransaction(ctx context.Context) context.Context {
	if t := transaction(ctx); t != nil && !t.done {
		return context.WithValue(ctx, dbTransactionKey{}, &dbTransaction{tx: t.tx, parent: t})
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		return ctx
	}

	return context.WithValue(ctx, dbTransactionKey{}, &dbTransaction{tx: db.WithContext(ctx).Begin()})
}

func WithCommitDBTransaction(ctx context.Context) context.Context {
	if err := CommitDBTransaction(ctx); err != nil {
		Logger(ctx).Errorf("Cannot commit transaction: %v", err)
	}

	return ctx
}

func CommitDBTransaction(ctx context.Context) error {
	t := transaction(ctx)
	if t == nil || t.done {
		return nil
	}

	t.done = true
	if t.parent != nil {
		return nil
	}

	return t.tx.Commit().Error
}

func WithRollbackDBTransaction(ctx context.Context) context.Context {
	t := transaction(ctx)
	if t == nil || t.done {
		return ctx
	}

	t.done = true
	if t.parent == nil {
		t.tx.Rollback()
	}

	return ctx
}

func transaction(ctx context.Context) *dbTransaction {
	t, _ := ctx.Value(dbTransactionKey{}).(*dbTransaction)
	return t
}
