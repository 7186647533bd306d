package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"payportal.backend/internal/domain/entities"
	domainerrors "payportal.backend/internal/domain/errors"
	"payportal.backend/internal/infrastructure/models"
	"payportal.backend/pkg/utils"
)

// NotificationRepository implements notification data operations
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification. A repeat of a payment's outcome for the
// same revision is a no-op.
func (r *NotificationRepository) Create(ctx context.Context, n *entities.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = utils.GenerateUUIDv7()
	}
	if !n.Read.Valid {
		n.Read = null.BoolFrom(false)
	}
	n.CreatedAt = time.Now().UTC()

	m := &models.Notification{
		ID:            n.ID,
		PaymentID:     n.PaymentID.Ptr(),
		Username:      n.Username,
		RecipientName: n.RecipientName,
		Amount:        n.Amount,
		Currency:      n.Currency,
		Status:        string(n.Status),
		Date:          n.Date,
		Read:          n.Read.Ptr(),
		Revision:      n.Revision,
		CreatedAt:     n.CreatedAt,
	}
	return translateError(insertRecord(GetDB(ctx, r.db), m, n.PaymentID.Valid))
}

// ListByUsername lists a user's notifications in insertion order
func (r *NotificationRepository) ListByUsername(ctx context.Context, username string) ([]*entities.Notification, error) {
	var rows []models.Notification
	err := GetDB(ctx, r.db).
		Where("username = ?", username).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}

	out := make([]*entities.Notification, 0, len(rows))
	for _, m := range rows {
		out = append(out, &entities.Notification{
			ID:            m.ID,
			PaymentID:     null.StringFromPtr(m.PaymentID),
			Username:      m.Username,
			RecipientName: m.RecipientName,
			Amount:        m.Amount,
			Currency:      m.Currency,
			Status:        entities.PaymentStatus(m.Status),
			Date:          m.Date,
			Read:          null.BoolFromPtr(m.Read),
			Revision:      m.Revision,
			CreatedAt:     m.CreatedAt,
		})
	}
	return out, nil
}

// MarkRead flags a notification owned by username as read
func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID, username string) error {
	result := GetDB(ctx, r.db).Model(&models.Notification{}).
		Where("id = ? AND username = ?", id, username).
		Update("read", true)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// HistoryRepository implements transaction history storage
type HistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create appends a history entry, deduplicated like NotificationRepository.Create
func (r *HistoryRepository) Create(ctx context.Context, h *entities.TransactionHistory) error {
	if h.ID == uuid.Nil {
		h.ID = utils.GenerateUUIDv7()
	}
	h.CreatedAt = time.Now().UTC()

	m := &models.TransactionHistory{
		ID:            h.ID,
		PaymentID:     h.PaymentID.Ptr(),
		Username:      h.Username,
		RecipientName: h.RecipientName,
		Amount:        h.Amount,
		Currency:      h.Currency,
		Status:        string(h.Status),
		Date:          h.Date,
		Revision:      h.Revision,
		CreatedAt:     h.CreatedAt,
	}
	return translateError(insertRecord(GetDB(ctx, r.db), m, h.PaymentID.Valid))
}

// insertRecord only tolerates conflicts for payment-linked records; an
// unlinked record never collides and must not report a phantom insert.
func insertRecord(db *gorm.DB, value interface{}, linked bool) error {
	if linked {
		db = db.Clauses(clause.OnConflict{DoNothing: true})
	}
	return db.Create(value).Error
}

// List returns history entries oldest first, optionally for one user
func (r *HistoryRepository) List(ctx context.Context, username string, page utils.PaginationParams) ([]*entities.TransactionHistory, int64, error) {
	query := GetDB(ctx, r.db).Model(&models.TransactionHistory{})
	if username != "" {
		query = query.Where("username = ?", username)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	query = query.Order("created_at ASC").Order("id ASC")
	if !page.Unbounded() {
		query = query.Limit(page.Limit).Offset(page.CalculateOffset())
	}

	var rows []models.TransactionHistory
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, translateError(err)
	}

	out := make([]*entities.TransactionHistory, 0, len(rows))
	for _, m := range rows {
		out = append(out, &entities.TransactionHistory{
			ID:            m.ID,
			PaymentID:     null.StringFromPtr(m.PaymentID),
			Username:      m.Username,
			RecipientName: m.RecipientName,
			Amount:        m.Amount,
			Currency:      m.Currency,
			Status:        entities.PaymentStatus(m.Status),
			Date:          m.Date,
			Revision:      m.Revision,
			CreatedAt:     m.CreatedAt,
		})
	}
	return out, total, nil
}
