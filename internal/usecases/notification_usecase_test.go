package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bpi.backend/internal/domain/entities"
	"bpi.backend/internal/infrastructure/models"
	"bpi.backend/internal/usecases"
)

func TestNotify_StoresAndEmails(t *testing.T) {
	h := newHarness(t)
	user := h.seedUser(t, "notify@bpi.io", "0")

	h.notify.Notify(context.Background(), user.ID, "Deposit successful", "Your wallet was credited.", "https://app.bpi.test/receipts/1")

	assert.Equal(t, int64(1), h.count(t, &models.Notification{}, "user_id = ? AND title = ?", user.ID, "Deposit successful"))
	sent := h.sentMail()
	require.Len(t, sent, 1)
	assert.Equal(t, "notify@bpi.io", sent[0].to)
	assert.Equal(t, "Your wallet was credited.\n\nhttps://app.bpi.test/receipts/1", sent[0].body)
}

type blockingMailer struct {
	release chan struct{}
	done    chan error
}

func (m *blockingMailer) Send(ctx context.Context, _, _, _ string) error {
	<-m.release
	m.done <- ctx.Err()
	return nil
}

func TestNotify_EmailDoesNotBlockCaller(t *testing.T) {
	h := newHarness(t)
	user := h.seedUser(t, "slowrelay@bpi.io", "0")
	slow := &blockingMailer{release: make(chan struct{}), done: make(chan error, 1)}
	uc := usecases.NewNotificationUsecase(h.notifications, h.users, slow)

	ctx, cancel := context.WithCancel(context.Background())
	returned := make(chan struct{})
	go func() {
		uc.Notify(ctx, user.ID, "Deposit successful", "credited", "")
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify waited for the mail relay")
	}
	assert.Equal(t, int64(1), h.count(t, &models.Notification{}, "user_id = ?", user.ID))

	// the request finishing must not cancel the delivery
	cancel()
	close(slow.release)
	uc.Wait()
	assert.NoError(t, <-slow.done)
}

func TestNotify_FailuresAreSwallowed(t *testing.T) {
	h := newHarness(t)
	user := h.seedUser(t, "mailfail@bpi.io", "0")
	h.mailer.err = errors.New("smtp unavailable")

	assert.NotPanics(t, func() {
		h.notify.Notify(context.Background(), user.ID, "Hello", "body", "")
		h.notify.Notify(context.Background(), uuid.New(), "Ghost", "body", "")
	})
	assert.Empty(t, h.sentMail())
	assert.Equal(t, int64(1), h.count(t, &models.Notification{}, "user_id = ?", user.ID))

	repo := new(MockNotificationRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
	uc := usecases.NewNotificationUsecase(repo, nil, nil)
	assert.NotPanics(t, func() { uc.Notify(context.Background(), uuid.New(), "t", "m", "") })
	repo.AssertExpectations(t)

	var nilUC *usecases.NotificationUsecase
	assert.NotPanics(t, func() { nilUC.Notify(context.Background(), uuid.New(), "t", "m", "") })
}

func TestAuditList_FiltersAndPages(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	actor := uuid.Must(uuid.NewV7())

	for i := 0; i < 3; i++ {
		require.NoError(t, h.audit.Record(ctx, usecases.AuditEntry{
			ActorID:    &actor,
			Action:     entities.AuditActionRefund,
			EntityType: "transaction",
			EntityID:   uuid.NewString(),
		}))
	}
	require.NoError(t, h.audit.Record(ctx, usecases.AuditEntry{Action: entities.AuditActionDepositCredited, EntityType: "transaction", EntityID: "x"}))

	logs, meta, err := h.audit.List(ctx, entities.AuditFilter{Action: entities.AuditActionRefund, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, logs, 2)
	assert.Equal(t, int64(3), meta.TotalCount)

	logs, _, err = h.audit.List(ctx, entities.AuditFilter{EntityID: "x"})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Nil(t, logs[0].ActorID)
}
