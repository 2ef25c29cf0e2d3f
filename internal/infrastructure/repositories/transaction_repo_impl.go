package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"bpi.backend/internal/domain/entities"
	domainerrors "bpi.backend/internal/domain/errors"
	"bpi.backend/internal/infrastructure/models"
	"bpi.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TransactionRepository implements wallet ledger operations
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create appends a ledger row
func (r *TransactionRepository) Create(ctx context.Context, tx *entities.Transaction) error {
	now := time.Now()
	if tx.ID == uuid.Nil {
		tx.ID = utils.GenerateUUIDv7()
	}
	if tx.WalletType == "" {
		tx.WalletType = entities.WalletMain
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	tx.UpdatedAt = now

	m := &models.Transaction{
		ID:                 tx.ID,
		UserID:             tx.UserID,
		TransactionType:    string(tx.TransactionType),
		WalletType:         string(tx.WalletType),
		Amount:             tx.Amount,
		Fee:                tx.Fee,
		Status:             string(tx.Status),
		Reference:          tx.Reference,
		Description:        tx.Description,
		Gateway:            tx.Gateway.Ptr(),
		CounterpartyUserID: tx.CounterpartyUserID,
		BankAccountID:      tx.BankAccountID,
		CreatedAt:          tx.CreatedAt,
		UpdatedAt:          tx.UpdatedAt,
	}
	if len(tx.Metadata) > 0 {
		m.Metadata = datatypes.JSONMap(tx.Metadata)
	}

	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKeyError(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID gets a ledger row by ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Transaction, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByReference gets a ledger row by its unique reference
func (r *TransactionRepository) GetByReference(ctx context.Context, reference string) (*entities.Transaction, error) {
	return r.first(ctx, "reference = ?", reference)
}

// FindPending looks up a pending row of the given type by reference
func (r *TransactionRepository) FindPending(ctx context.Context, reference string, txType entities.TransactionType) (*entities.Transaction, error) {
	return r.first(ctx, "reference = ? AND status = ? AND transaction_type = ?",
		reference, string(entities.TransactionStatusPending), string(txType))
}

func (r *TransactionRepository) first(ctx context.Context, query string, args ...interface{}) (*entities.Transaction, error) {
	var m models.Transaction
	db := lockForUpdate(ctx, GetDB(ctx, r.db).WithContext(ctx))
	if err := db.Where(query, args...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toTransactionEntity(&m), nil
}

// TransitionStatus performs a compare-and-set on the status column
func (r *TransactionRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.TransactionStatus) error {
	res := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrInvalidTransition
	}
	return nil
}

// ListByUser returns a user's ledger newest first
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter entities.TimelineFilter, limit, offset int) ([]*entities.Transaction, int64, error) {
	query := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)
	query = applyTimelineFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Transaction
	q := query.Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	return toTransactionEntities(ms), total, nil
}

func applyTimelineFilter(query *gorm.DB, f entities.TimelineFilter) *gorm.DB {
	if f.From != nil {
		query = query.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		// the end date is inclusive
		query = query.Where("created_at < ?", f.To.Add(24*time.Hour))
	}
	if f.Type != "" {
		query = query.Where("transaction_type = ?", strings.ToUpper(f.Type))
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.MinAmount != nil {
		query = query.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		query = query.Where("amount <= ?", *f.MaxAmount)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + escapeLike(strings.ToLower(s)) + "%"
		query = query.Where(`(LOWER(description) LIKE ? ESCAPE '\' OR LOWER(reference) LIKE ? ESCAPE '\')`, like, like)
	}
	return query
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes a search term match literally inside a LIKE pattern.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// ListByTypeAndStatus lists rows across all users, oldest first
func (r *TransactionRepository) ListByTypeAndStatus(ctx context.Context, txType entities.TransactionType, status entities.TransactionStatus, limit, offset int) ([]*entities.Transaction, int64, error) {
	query := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Transaction{}).
		Where("transaction_type = ? AND status = ?", string(txType), string(status))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Transaction
	q := query.Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	return toTransactionEntities(ms), total, nil
}

// ExpirePending fails stale pending rows; rows already settled are untouched
func (r *TransactionRepository) ExpirePending(ctx context.Context, txType entities.TransactionType, cutoff time.Time) (int64, error) {
	res := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Transaction{}).
		Where("transaction_type = ? AND status = ? AND created_at < ?",
			string(txType), string(entities.TransactionStatusPending), cutoff).
		Updates(map[string]interface{}{
			"status":     string(entities.TransactionStatusFailed),
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

func toTransactionEntities(ms []models.Transaction) []*entities.Transaction {
	out := make([]*entities.Transaction, 0, len(ms))
	for i := range ms {
		out = append(out, toTransactionEntity(&ms[i]))
	}
	return out
}

func toTransactionEntity(m *models.Transaction) *entities.Transaction {
	tx := &entities.Transaction{
		ID:                 m.ID,
		UserID:             m.UserID,
		TransactionType:    entities.TransactionType(m.TransactionType),
		WalletType:         entities.WalletType(m.WalletType),
		Amount:             m.Amount,
		Fee:                m.Fee,
		Status:             entities.TransactionStatus(m.Status),
		Reference:          m.Reference,
		Description:        m.Description,
		Gateway:            null.StringFromPtr(m.Gateway),
		CounterpartyUserID: m.CounterpartyUserID,
		BankAccountID:      m.BankAccountID,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
	if len(m.Metadata) > 0 {
		tx.Metadata = map[string]interface{}(m.Metadata)
	}
	return tx
}
