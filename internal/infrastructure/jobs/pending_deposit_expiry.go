package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"bpi.backend/internal/domain/entities"
	"bpi.backend/pkg/logger"
)

type pendingExpirer interface {
	ExpirePending(ctx context.Context, txType entities.TransactionType, cutoff time.Time) (int64, error)
}

// PendingDepositExpiryJob fails deposits whose checkout was never completed
type PendingDepositExpiryJob struct {
	repo     pendingExpirer
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	stop     chan struct{}
}

// Fallbacks for non-positive settings; time.NewTicker panics on zero.
const (
	DefaultDepositTTL    = 24 * time.Hour
	DefaultSweepInterval = 10 * time.Minute
)

func NewPendingDepositExpiryJob(repo pendingExpirer, ttl, interval time.Duration) *PendingDepositExpiryJob {
	if ttl <= 0 {
		ttl = DefaultDepositTTL
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &PendingDepositExpiryJob{
		repo:     repo,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

func (j *PendingDepositExpiryJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting pending deposit expiry job",
		zap.Duration("ttl", j.ttl),
		zap.Duration("interval", j.interval),
	)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Pending deposit expiry job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Pending deposit expiry job stopped")
			return
		case <-ticker.C:
			j.expireStaleDeposits(ctx)
		}
	}
}

func (j *PendingDepositExpiryJob) Stop() {
	close(j.stop)
}

func (j *PendingDepositExpiryJob) expireStaleDeposits(ctx context.Context) {
	cutoff := j.now().Add(-j.ttl)
	n, err := j.repo.ExpirePending(ctx, entities.TransactionTypeDeposit, cutoff)
	if err != nil {
		logger.Error(ctx, "Error expiring pending deposits", zap.Error(err))
		return
	}
	if n == 0 {
		return
	}

	logger.Info(ctx, "Expired pending deposits", zap.Int64("count", n), zap.Time("cutoff", cutoff))
}
