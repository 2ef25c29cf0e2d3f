package usecases_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bpi.backend/internal/config"
	"bpi.backend/internal/domain/entities"
	domainrepos "bpi.backend/internal/domain/repositories"
	"bpi.backend/internal/infrastructure/models"
	"bpi.backend/internal/infrastructure/repositories"
	"bpi.backend/internal/testutil"
	"bpi.backend/internal/usecases"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type harness struct {
	db            *gorm.DB
	users         *repositories.UserRepository
	transactions  *repositories.TransactionRepository
	revenueRepo   *repositories.RevenueRepository
	pools         *repositories.PoolRepository
	banks         *repositories.BankAccountRepository
	packages      *repositories.MembershipPackageRepository
	notifications *repositories.NotificationRepository
	audits        *repositories.AuditLogRepository

	mailer   *fakeMailer
	audit    *usecases.AuditUsecase
	notify   *usecases.NotificationUsecase
	revenue  *usecases.RevenueUsecase
	payments *usecases.PaymentUsecase
	uow      domainrepos.UnitOfWork
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessOn(t, testutil.NewSQLiteDB(t))
}

func newHarnessOn(t *testing.T, db *gorm.DB) *harness {
	t.Helper()
	h := &harness{
		db:            db,
		users:         repositories.NewUserRepository(db),
		transactions:  repositories.NewTransactionRepository(db),
		revenueRepo:   repositories.NewRevenueRepository(db),
		pools:         repositories.NewPoolRepository(db),
		banks:         repositories.NewBankAccountRepository(db),
		packages:      repositories.NewMembershipPackageRepository(db),
		notifications: repositories.NewNotificationRepository(db),
		audits:        repositories.NewAuditLogRepository(db),
		mailer:        &fakeMailer{},
		uow:           repositories.NewUnitOfWork(db),
	}
	h.audit = usecases.NewAuditUsecase(h.audits)
	h.notify = usecases.NewNotificationUsecase(h.notifications, h.users, h.mailer)
	h.revenue = usecases.NewRevenueUsecase(h.revenueRepo, h.pools, h.audit, h.uow)
	h.payments = usecases.NewPaymentUsecase(h.users, h.transactions, h.audit, h.uow, config.FlutterwaveConfig{
		PublicKey: "FLWPUBK_TEST",
		SecretKey: "FLWSECK_TEST",
		Env:       "sandbox",
	})
	return h
}

func (h *harness) seedUser(t *testing.T, email, wallet string) *entities.User {
	t.Helper()
	u := &entities.User{
		Email:  email,
		Name:   "User " + email,
		Role:   entities.UserRoleUser,
		Wallet: decimal.RequireFromString(wallet),
	}
	require.NoError(t, h.users.Create(context.Background(), u))
	return u
}

// sentMail waits for background deliveries and returns what the mailer saw.
func (h *harness) sentMail() []sentMail {
	h.notify.Wait()
	h.mailer.mu.Lock()
	defer h.mailer.mu.Unlock()
	return append([]sentMail(nil), h.mailer.sent...)
}

func (h *harness) balance(t *testing.T, user *entities.User, w entities.WalletType) decimal.Decimal {
	t.Helper()
	fresh, err := h.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	return fresh.Balance(w)
}

func (h *harness) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := h.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func (h *harness) revenueRows(t *testing.T) int64 {
	return h.count(t, &models.RevenueTransaction{}, "")
}

func (h *harness) allocationRows(t *testing.T) int64 {
	return h.count(t, &models.RevenueAllocation{}, "")
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	want := decimal.RequireFromString(expected)
	assert.Truef(t, want.Equal(actual), "expected %s, got %s %v", want.String(), actual.String(), msgAndArgs)
}
