package repositories

import (
	"context"
)

// UnitOfWork defines the interface for atomic operations
type UnitOfWork interface {
	// Do executes the given function within a transaction scope.
	// A Do nested inside another joins the outer transaction.
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	// WithLock marks ctx so repository reads inside Do take row locks.
	WithLock(ctx context.Context) context.Context
}
