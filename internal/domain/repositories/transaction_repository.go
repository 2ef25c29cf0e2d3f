package repositories

import (
	"context"
	"time"

	"bpi.backend/internal/domain/entities"
	"github.com/google/uuid"
)

// TransactionRepository defines wallet ledger operations
type TransactionRepository interface {
	Create(ctx context.Context, tx *entities.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error)
	GetByReference(ctx context.Context, reference string) (*entities.Transaction, error)
	// FindPending returns the pending row of the given type with reference, or ErrNotFound.
	FindPending(ctx context.Context, reference string, txType entities.TransactionType) (*entities.Transaction, error)
	// TransitionStatus moves a row from one status to another and fails with
	// ErrInvalidTransition when the row is no longer in the expected status.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.TransactionStatus) error
	ListByUser(ctx context.Context, userID uuid.UUID, filter entities.TimelineFilter, limit, offset int) ([]*entities.Transaction, int64, error)
	ListByTypeAndStatus(ctx context.Context, txType entities.TransactionType, status entities.TransactionStatus, limit, offset int) ([]*entities.Transaction, int64, error)
	// ExpirePending fails pending rows of txType created before cutoff and returns how many were changed.
	ExpirePending(ctx context.Context, txType entities.TransactionType, cutoff time.Time) (int64, error)
}
