package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"bpi.backend/internal/domain/entities"
	"bpi.backend/internal/infrastructure/gateway/flutterwave"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

func (m *MockUnitOfWork) WithLock(ctx context.Context) context.Context {
	args := m.Called(ctx)
	return args.Get(0).(context.Context)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) DebitWallet(ctx context.Context, id uuid.UUID, wallet entities.WalletType, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, id, wallet, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockUserRepository) CreditWallet(ctx context.Context, id uuid.UUID, wallet entities.WalletType, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, id, wallet, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockUserRepository) UpdateMembership(ctx context.Context, id uuid.UUID, packageID uuid.UUID, activatedAt, expiresAt time.Time) error {
	args := m.Called(ctx, id, packageID, activatedAt, expiresAt)
	return args.Error(0)
}

func (m *MockUserRepository) SetTransactionPin(ctx context.Context, id uuid.UUID, pinHash string) error {
	args := m.Called(ctx, id, pinHash)
	return args.Error(0)
}

// Mock TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *entities.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByReference(ctx context.Context, reference string) (*entities.Transaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindPending(ctx context.Context, reference string, txType entities.TransactionType) (*entities.Transaction, error) {
	args := m.Called(ctx, reference, txType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.TransactionStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter entities.TimelineFilter, limit, offset int) ([]*entities.Transaction, int64, error) {
	args := m.Called(ctx, userID, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) ListByTypeAndStatus(ctx context.Context, txType entities.TransactionType, status entities.TransactionStatus, limit, offset int) ([]*entities.Transaction, int64, error) {
	args := m.Called(ctx, txType, status, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) ExpirePending(ctx context.Context, txType entities.TransactionType, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, txType, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// Mock AuditLogRepository
type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Create(ctx context.Context, entry *entities.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditLogRepository) List(ctx context.Context, filter entities.AuditFilter, limit, offset int) ([]*entities.AuditLog, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.AuditLog), args.Get(1).(int64), args.Error(2)
}

// Mock NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *entities.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Notification, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Notification), args.Get(1).(int64), args.Error(2)
}

// Mock DepositGateway
type MockDepositGateway struct {
	mock.Mock
}

func (m *MockDepositGateway) InitializePayment(ctx context.Context, req flutterwave.PaymentLinkRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// Mock WebhookVerifier
type MockWebhookVerifier struct {
	mock.Mock
}

func (m *MockWebhookVerifier) SignatureConfigured() bool {
	return m.Called().Bool(0)
}

func (m *MockWebhookVerifier) ValidateWebhook(hash string) bool {
	return m.Called(hash).Bool(0)
}
