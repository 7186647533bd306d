package repositories

import (
	"context"

	"github.com/google/uuid"
	"payportal.backend/internal/domain/entities"
	"payportal.backend/pkg/utils"
)

// TransitionRequest describes one conditional status change
type TransitionRequest struct {
	ID         uuid.UUID
	To         entities.PaymentStatus
	ReviewedBy string
	// FromPendingOnly restricts the update to payments still pending
	FromPendingOnly bool
}

// PaymentRepository defines payment data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entities.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error)
	ListByStatus(ctx context.Context, status entities.PaymentStatus) ([]*entities.Payment, error)
	ListByUsername(ctx context.Context, username string, statuses []entities.PaymentStatus, page utils.PaginationParams) ([]*entities.Payment, int64, error)

	// Transition applies req as a single conditional update that also sets
	// the notification marker. It returns ErrNotFound when the payment does
	// not exist and ErrAlreadyResolved when FromPendingOnly filtered it out.
	Transition(ctx context.Context, req TransitionRequest) (*entities.Payment, error)

	ListNotificationPending(ctx context.Context, limit int) ([]*entities.Payment, error)
	// ClearNotificationPending clears the marker only while the payment is
	// still at revision.
	ClearNotificationPending(ctx context.Context, id uuid.UUID, revision int) error
}

// NotificationRepository defines notification data operations
type NotificationRepository interface {
	// Create is idempotent for records linked to a payment: a second
	// notification for the same payment and revision is ignored.
	Create(ctx context.Context, notification *entities.Notification) error
	ListByUsername(ctx context.Context, username string) ([]*entities.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, username string) error
}

// HistoryRepository defines transaction history operations
type HistoryRepository interface {
	// Create is idempotent per payment and revision, like NotificationRepository.Create
	Create(ctx context.Context, entry *entities.TransactionHistory) error
	// List returns entries oldest first. An empty username lists everyone.
	List(ctx context.Context, username string, page utils.PaginationParams) ([]*entities.TransactionHistory, int64, error)
}
