// Package dbtx runs units of work inside SERIALIZABLE transactions.
//
// Postgres aborts one side of a read-then-write race under SERIALIZABLE with
// SQLSTATE 40001. Those aborts are retried a bounded number of times; anything
// still conflicting is surfaced to the caller as a 409.
package dbtx

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/metrics"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const DefaultMaxAttempts = 3

var ErrTxConflict = apperror.New(
	apperror.CodeConflict,
	"the request conflicted with a concurrent update, please retry",
	http.StatusConflict,
)

type Runner struct {
	db          *sql.DB
	maxAttempts int
	logger      *zap.Logger
}

func NewRunner(db *sql.DB, logger ...*zap.Logger) *Runner {
	l := zap.L().Named("dbtx")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dbtx")
	}
	return &Runner{db: db, maxAttempts: DefaultMaxAttempts, logger: l}
}

// RunSerializable executes fn in a serializable transaction and commits it.
// fn must not keep tx after returning and must be safe to run more than once.
func (r *Runner) RunSerializable(ctx context.Context, operation string, fn func(tx *sql.Tx) error) error {
	var err error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err = r.runOnce(ctx, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		metrics.RecordTxRetry(operation)
		r.logger.Warn("serializable tx conflict, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	return ErrTxConflict.WithCause(err)
}

func (r *Runner) runOnce(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// IsRetryable reports serialization failures and deadlocks.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
