package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"payportal.backend/internal/domain/entities"
	domainerrors "payportal.backend/internal/domain/errors"
	domainRepos "payportal.backend/internal/domain/repositories"
	"payportal.backend/internal/infrastructure/models"
	"payportal.backend/pkg/utils"
)

// PaymentRepository implements payment data operations
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment
func (r *PaymentRepository) Create(ctx context.Context, payment *entities.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = utils.GenerateUUIDv7()
	}
	if payment.Status == "" {
		payment.Status = entities.PaymentStatusPending
	}
	now := time.Now().UTC()
	payment.CreatedAt, payment.UpdatedAt = now, now

	m := toPaymentModel(payment)
	return translateError(GetDB(ctx, r.db).Create(m).Error)
}

// GetByID gets a payment by ID
func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	var m models.Payment
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return toPaymentEntity(&m), nil
}

// ListByStatus lists payments with status, oldest first
func (r *PaymentRepository) ListByStatus(ctx context.Context, status entities.PaymentStatus) ([]*entities.Payment, error) {
	var rows []models.Payment
	err := GetDB(ctx, r.db).
		Where("status = ?", string(status)).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	return toPaymentEntities(rows), nil
}

// ListByUsername lists a user's payments newest first, optionally filtered by status
func (r *PaymentRepository) ListByUsername(ctx context.Context, username string, statuses []entities.PaymentStatus, page utils.PaginationParams) ([]*entities.Payment, int64, error) {
	query := GetDB(ctx, r.db).Model(&models.Payment{}).Where("username = ?", username)
	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		query = query.Where("status IN ?", values)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	query = query.Order("created_at DESC").Order("id DESC")
	if !page.Unbounded() {
		query = query.Limit(page.Limit).Offset(page.CalculateOffset())
	}

	var rows []models.Payment
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, translateError(err)
	}
	return toPaymentEntities(rows), total, nil
}

// Transition applies one conditional status update and marks the payment's
// notification as pending in the same statement.
func (r *PaymentRepository) Transition(ctx context.Context, req domainRepos.TransitionRequest) (*entities.Payment, error) {
	query := GetDB(ctx, r.db).Model(&models.Payment{}).Where("id = ?", req.ID)
	if req.FromPendingOnly {
		query = query.Where("status = ?", string(entities.PaymentStatusPending))
	}

	result := query.Updates(map[string]interface{}{
		"status":               string(req.To),
		"reviewed_by":          req.ReviewedBy,
		"notification_pending": true,
		"revision":             gorm.Expr("revision + 1"),
		"updated_at":           time.Now().UTC(),
	})
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, req.ID); err != nil {
			return nil, err
		}
		return nil, domainerrors.ErrAlreadyResolved
	}
	return r.GetByID(ctx, req.ID)
}

// ListNotificationPending returns payments whose outcome record was not yet written
func (r *PaymentRepository) ListNotificationPending(ctx context.Context, limit int) ([]*entities.Payment, error) {
	var rows []models.Payment
	query := GetDB(ctx, r.db).Where("notification_pending = ?", true).Order("updated_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	return toPaymentEntities(rows), nil
}

// ClearNotificationPending resets the marker once the outcome of revision
// is recorded. A payment that has moved on to a later revision keeps its
// marker for the newer outcome.
func (r *PaymentRepository) ClearNotificationPending(ctx context.Context, id uuid.UUID, revision int) error {
	result := GetDB(ctx, r.db).Model(&models.Payment{}).
		Where("id = ? AND revision = ?", id, revision).
		Update("notification_pending", false)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		_, err := r.GetByID(ctx, id)
		return err
	}
	return nil
}

func toPaymentModel(p *entities.Payment) *models.Payment {
	return &models.Payment{
		ID:                  p.ID,
		RecipientName:       p.RecipientName,
		RecipientBank:       p.RecipientBank,
		RecipientAccountNo:  p.RecipientAccountNo,
		Amount:              p.Amount,
		SwiftCode:           p.SwiftCode,
		Username:            p.Username,
		Date:                p.Date,
		Currency:            p.Currency,
		Status:              string(p.Status),
		ReviewedBy:          p.ReviewedBy.Ptr(),
		NotificationPending: p.NotificationPending,
		Revision:            p.Revision,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func toPaymentEntity(m *models.Payment) *entities.Payment {
	return &entities.Payment{
		ID:                  m.ID,
		RecipientName:       m.RecipientName,
		RecipientBank:       m.RecipientBank,
		RecipientAccountNo:  m.RecipientAccountNo,
		Amount:              m.Amount,
		SwiftCode:           m.SwiftCode,
		Username:            m.Username,
		Date:                m.Date,
		Currency:            m.Currency,
		Status:              entities.PaymentStatus(m.Status),
		ReviewedBy:          null.StringFromPtr(m.ReviewedBy),
		NotificationPending: m.NotificationPending,
		Revision:            m.Revision,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func toPaymentEntities(rows []models.Payment) []*entities.Payment {
	out := make([]*entities.Payment, 0, len(rows))
	for i := range rows {
		out = append(out, toPaymentEntity(&rows[i]))
	}
	return out
}
