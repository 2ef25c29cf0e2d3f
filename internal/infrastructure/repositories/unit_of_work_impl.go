package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainrepos "bpi.backend/internal/domain/repositories"
	"bpi.backend/pkg/logger"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type contextKey string

const (
	txKey   contextKey = "tx_db"
	lockKey contextKey = "tx_lock"
)

const (
	maxTxAttempts = 3

	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
)

var (
	commitTx     = func(tx *gorm.DB) error { return tx.Commit().Error }
	retryBackoff = func(attempt int) time.Duration { return time.Duration(attempt) * 25 * time.Millisecond }
)

// UnitOfWorkImpl implements UnitOfWork using GORM
type UnitOfWorkImpl struct {
	db *gorm.DB
}

// NewUnitOfWork creates a new UnitOfWork
func NewUnitOfWork(db *gorm.DB) domainrepos.UnitOfWork {
	return &UnitOfWorkImpl{db: db}
}

// Do executes fn inside a database transaction stored in the context.
// Serialization failures and deadlocks restart fn from scratch.
func (u *UnitOfWorkImpl) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return fn(ctx)
	}

	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = u.run(ctx, fn)
		if err == nil || !isRetryableTxError(err) || attempt == maxTxAttempts {
			return err
		}
		logger.Warn(ctx, "Retrying transaction after conflict",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryBackoff(attempt)):
		}
	}
	return err
}

func (u *UnitOfWorkImpl) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	txCtx := context.WithValue(ctx, txKey, tx)
	if err := fn(txCtx); err != nil {
		tx.Rollback()
		return err
	}

	if err := commitTx(tx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// WithLock marks ctx so that reads through lockForUpdate take row locks.
func (u *UnitOfWorkImpl) WithLock(ctx context.Context) context.Context {
	return context.WithValue(ctx, lockKey, true)
}

// GetDB returns the transaction from ctx or the base connection.
func (u *UnitOfWorkImpl) GetDB(ctx context.Context) *gorm.DB {
	return GetDB(ctx, u.db)
}

// GetDB returns the transaction stored in ctx, falling back to the given connection.
func GetDB(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx
	}
	return fallback
}

// lockForUpdate adds SELECT ... FOR UPDATE when the context asked for it.
// The sqlite dialect drops the clause.
func lockForUpdate(ctx context.Context, db *gorm.DB) *gorm.DB {
	if locked, _ := ctx.Value(lockKey).(bool); locked {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	return false
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
