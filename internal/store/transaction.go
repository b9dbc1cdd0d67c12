package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasktrack/internal/platform/logger"
)

// TxFn does the work of one transaction. Returning an error rolls it back.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction runs fn in a transaction on db and commits when fn
// succeeds. Errors and panics from fn roll back; a panic is re-raised after
// rollback. A failed rollback is joined to fn's error. Begin and commit
// failures wrap ErrTransactionFailed.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("begin transaction failed", slog.String("error", err.Error()))
		return fmt.Errorf("%w: begin: %w", ErrTransactionFailed, err)
	}

	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if rbErr := rollback(tx); rbErr != nil {
			log.Error("rollback after panic failed", slog.String("error", rbErr.Error()), slog.Any("panic", p))
		} else {
			log.Error("rolled back after panic", slog.Any("panic", p))
		}
		panic(p)
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := rollback(tx); rbErr != nil {
			log.Error("rollback failed",
				slog.String("error", err.Error()),
				slog.String("rollback_error", rbErr.Error()))
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		log.Debug("transaction rolled back", slog.String("error", err.Error()))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("commit failed", slog.String("error", err.Error()))
		return fmt.Errorf("%w: commit: %w", ErrTransactionFailed, err)
	}
	log.Debug("transaction committed")
	return nil
}

// rollback ignores sql.ErrTxDone so a transaction already finished by the
// driver is not reported twice.
func rollback(tx *sql.Tx) error {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}
