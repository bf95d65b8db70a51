package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type TxManagerInterface interface {
	RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error, opts ...TxOption) error
}

// TxOption tunes a single transaction.
type TxOption func(*txSettings)

type txSettings struct {
	pgx.TxOptions
	label       string
	lockTimeout time.Duration
}

// WithLabel names the transaction in logs and wrapped errors.
func WithLabel(label string) TxOption {
	return func(s *txSettings) { s.label = label }
}

// WithLockTimeout bounds how long any statement of the transaction waits for
// a table or row lock. The setting is transaction-local.
func WithLockTimeout(d time.Duration) TxOption {
	return func(s *txSettings) { s.lockTimeout = d }
}

func newTxSettings(opts []TxOption) txSettings {
	s := txSettings{label: "tx"}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// lockTimeoutValue renders d the way postgres accepts it for lock_timeout.
func lockTimeoutValue(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}

type TxManager struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewTxManager(pool *pgxpool.Pool, logger *zap.Logger) TxManagerInterface {
	return &TxManager{pool: pool, logger: logger}
}

// RunInTransaction commits when fn returns nil and rolls back on error or panic.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error, opts ...TxOption) (err error) {
	settings := newTxSettings(opts)

	tx, err := m.pool.BeginTx(ctx, settings.TxOptions)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", settings.label, err)
	}

	defer func() {
		if p := recover(); p != nil {
			m.rollback(ctx, tx, settings.label)
			panic(p)
		} else if err != nil {
			m.rollback(ctx, tx, settings.label)
		} else if err = tx.Commit(ctx); err != nil {
			err = fmt.Errorf("%s: commit transaction: %w", settings.label, err)
		}
	}()

	if settings.lockTimeout > 0 {
		if _, err = tx.Exec(ctx, "SELECT set_config('lock_timeout', $1, true)", lockTimeoutValue(settings.lockTimeout)); err != nil {
			return fmt.Errorf("%s: set lock timeout: %w", settings.label, err)
		}
	}

	err = fn(tx)
	return err
}

func (m *TxManager) rollback(ctx context.Context, tx pgx.Tx, label string) {
	// the caller's context may already be cancelled, the rollback must still reach the server
	rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := tx.Rollback(rbCtx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		m.logger.Warn("transaction rollback failed", zap.String("tx", label), zap.Error(err))
	}
}
