package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"payportal.backend/internal/domain/entities"
	domainerrors "payportal.backend/internal/domain/errors"
	"payportal.backend/internal/domain/repositories"
	"payportal.backend/pkg/logger"
	"payportal.backend/pkg/metrics"
	"payportal.backend/pkg/utils"
	"payportal.backend/pkg/validator"
)

const (
	MsgPaymentStatusUpdated = "Payment status updated successfully"

	msgInvalidPaymentID   = "Invalid payment ID"
	msgPaymentNotFound    = "Payment not found"
	msgPaymentResolved    = "Payment has already been resolved"
	msgOwnPaymentsOnly    = "You can only access your own payments"
	msgPendingNotAllowed  = "A resolved payment cannot return to pending"
	codeInvalidTransition = "invalid_transition"
)

// PaymentOptions tunes the payment workflow
type PaymentOptions struct {
	// AllowRetransition lets reviewers change an already resolved payment
	AllowRetransition bool
	RetryAttempts     int
	RetryBackoff      time.Duration
}

// PaymentUsecase handles payment submission and review
type PaymentUsecase struct {
	paymentRepo      repositories.PaymentRepository
	notificationRepo repositories.NotificationRepository
	historyRepo      repositories.HistoryRepository
	uow              repositories.UnitOfWork
	validate         *validator.Validator
	metrics          *metrics.Registry
	opts             PaymentOptions
}

// NewPaymentUsecase creates a new payment usecase
func NewPaymentUsecase(
	paymentRepo repositories.PaymentRepository,
	notificationRepo repositories.NotificationRepository,
	historyRepo repositories.HistoryRepository,
	uow repositories.UnitOfWork,
	validate *validator.Validator,
	metricsRegistry *metrics.Registry,
	opts PaymentOptions,
) *PaymentUsecase {
	if opts.RetryAttempts < 0 {
		opts.RetryAttempts = 0
	}
	return &PaymentUsecase{
		paymentRepo:      paymentRepo,
		notificationRepo: notificationRepo,
		historyRepo:      historyRepo,
		uow:              uow,
		validate:         validate,
		metrics:          metricsRegistry,
		opts:             opts,
	}
}

// CreatePayment stores a new pending payment for the calling customer
func (u *PaymentUsecase) CreatePayment(ctx context.Context, actor entities.Actor, input *entities.CreatePaymentInput) (*entities.CreatePaymentResponse, error) {
	input.RecipientName = utils.StripAngleBrackets(input.RecipientName)
	input.RecipientBank = utils.StripAngleBrackets(input.RecipientBank)
	input.RecipientAccountNo = strings.TrimSpace(input.RecipientAccountNo)
	input.SwiftCode = strings.TrimSpace(input.SwiftCode)
	input.Username = strings.TrimSpace(input.Username)
	input.Date = strings.TrimSpace(input.Date)
	input.Currency = strings.TrimSpace(input.Currency)

	if fields := u.validate.Struct(input); len(fields) > 0 {
		return nil, domainerrors.Validation(fields...)
	}
	if input.Username != actor.Username {
		return nil, domainerrors.Forbidden("You can only create payments for your own account")
	}

	// the id is fixed before the first attempt so a retried insert that
	// already landed can be recognised
	payment := &entities.Payment{
		ID:                 utils.GenerateUUIDv7(),
		RecipientName:      input.RecipientName,
		RecipientBank:      input.RecipientBank,
		RecipientAccountNo: input.RecipientAccountNo,
		Amount:             input.Amount,
		SwiftCode:          input.SwiftCode,
		Username:           input.Username,
		Date:               input.Date,
		Currency:           input.Currency,
		Status:             entities.PaymentStatusPending,
	}

	err := u.withRetry(ctx, func(ctx context.Context) error {
		return u.paymentRepo.Create(ctx, payment)
	})
	if errors.Is(err, domainerrors.ErrAlreadyExists) {
		existing, getErr := u.paymentRepo.GetByID(ctx, payment.ID)
		if getErr != nil {
			return nil, err
		}
		payment, err = existing, nil
	}
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Payment created",
		zap.String("payment_id", payment.ID.String()),
		zap.String("currency", payment.Currency),
	)
	return &entities.CreatePaymentResponse{
		InsertResult: entities.InsertResult{InsertedID: payment.ID},
		Payment:      payment,
	}, nil
}

// ListPending returns every payment awaiting review, oldest first
func (u *PaymentUsecase) ListPending(ctx context.Context) ([]*entities.Payment, error) {
	payments, err := u.paymentRepo.ListByStatus(ctx, entities.PaymentStatusPending)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []*entities.Payment{}
	}
	return payments, nil
}

// UpdateStatus records a reviewer's decision. In the default one-way mode
// only pending payments can be resolved and a second decision is a conflict.
func (u *PaymentUsecase) UpdateStatus(ctx context.Context, reviewer entities.Actor, rawID string, input *entities.UpdatePaymentStatusInput) (*entities.PaymentStatusResponse, error) {
	id, ok := utils.ParseID(rawID)
	if !ok {
		return nil, domainerrors.BadRequest(msgInvalidPaymentID)
	}
	input.Status = entities.PaymentStatus(strings.TrimSpace(string(input.Status)))
	if fields := u.validate.Struct(input); len(fields) > 0 {
		return nil, domainerrors.Validation(fields...)
	}
	if !u.opts.AllowRetransition && input.Status == entities.PaymentStatusPending {
		return nil, domainerrors.FieldInvalid("status", codeInvalidTransition, msgPendingNotAllowed)
	}

	req := repositories.TransitionRequest{
		ID:              id,
		To:              input.Status,
		ReviewedBy:      reviewer.Username,
		FromPendingOnly: !u.opts.AllowRetransition,
	}

	var (
		updated  *entities.Payment
		attempts int
	)
	err := u.withRetry(ctx, func(ctx context.Context) error {
		attempts++
		p, err := u.paymentRepo.Transition(ctx, req)
		if err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil && attempts > 1 && errors.Is(err, domainerrors.ErrAlreadyResolved) {
		// an earlier attempt may have committed before its error surfaced
		if p, getErr := u.paymentRepo.GetByID(ctx, id); getErr == nil && p.Status == req.To && p.ReviewedBy.String == req.ReviewedBy {
			updated, err = p, nil
		}
	}
	if err != nil {
		switch {
		case errors.Is(err, domainerrors.ErrNotFound):
			return nil, domainerrors.NotFound(msgPaymentNotFound)
		case errors.Is(err, domainerrors.ErrAlreadyResolved):
			return nil, domainerrors.Conflict(msgPaymentResolved)
		}
		return nil, err
	}

	u.metrics.PaymentTransitioned(string(updated.Status))
	logger.Info(ctx, "Payment status updated",
		zap.String("payment_id", updated.ID.String()),
		zap.String("status", string(updated.Status)),
		zap.String("reviewed_by", reviewer.Username),
	)

	// the status change is already committed; a failure here leaves the
	// marker set for the outbox worker
	if err := u.recordOutcome(ctx, updated); err != nil {
		logger.Error(ctx, "Failed to record payment outcome",
			zap.String("payment_id", updated.ID.String()),
			zap.Error(err),
		)
	} else {
		updated.NotificationPending = false
	}

	return &entities.PaymentStatusResponse{
		Message: MsgPaymentStatusUpdated,
		Payment: updated,
	}, nil
}

// ListResolved returns the approved and disapproved payments of username
func (u *PaymentUsecase) ListResolved(ctx context.Context, actor entities.Actor, username string) ([]*entities.Payment, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		if actor.IsEmployee() {
			return nil, domainerrors.FieldInvalid("username", "required", "Username is required")
		}
		username = actor.Username
	}
	if !actor.CanAccess(username) {
		return nil, domainerrors.Forbidden(msgOwnPaymentsOnly)
	}

	payments, _, err := u.paymentRepo.ListByUsername(ctx, username, entities.ResolvedStatuses, utils.PaginationParams{Page: 1})
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []*entities.Payment{}
	}
	return payments, nil
}

// GetPayment returns one payment. Customers asking for somebody else's
// payment get the same answer as for a missing one.
func (u *PaymentUsecase) GetPayment(ctx context.Context, actor entities.Actor, rawID string) (*entities.Payment, error) {
	id, ok := utils.ParseID(rawID)
	if !ok {
		return nil, domainerrors.BadRequest(msgInvalidPaymentID)
	}
	payment, err := u.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound(msgPaymentNotFound)
		}
		return nil, err
	}
	if !actor.CanAccess(payment.Username) {
		return nil, domainerrors.NotFound(msgPaymentNotFound)
	}
	return payment, nil
}

// ListMine pages through the caller's own payments, newest first
func (u *PaymentUsecase) ListMine(ctx context.Context, actor entities.Actor, page utils.PaginationParams) ([]*entities.Payment, utils.PaginationMeta, error) {
	payments, total, err := u.paymentRepo.ListByUsername(ctx, actor.Username, nil, page)
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	if payments == nil {
		payments = []*entities.Payment{}
	}
	return payments, utils.CalculateMeta(total, page.Page, page.Limit), nil
}

// ReplayPendingNotifications writes outcome records for payments whose
// transition committed without them. It returns how many were replayed.
func (u *PaymentUsecase) ReplayPendingNotifications(ctx context.Context, limit int) (int, error) {
	payments, err := u.paymentRepo.ListNotificationPending(ctx, limit)
	if err != nil {
		return 0, err
	}

	replayed := 0
	for _, p := range payments {
		if err := ctx.Err(); err != nil {
			return replayed, err
		}
		if err := u.recordOutcome(ctx, p); err != nil {
			u.metrics.OutboxReplayed(false)
			logger.Warn(ctx, "Outbox replay failed",
				zap.String("payment_id", p.ID.String()),
				zap.Error(err),
			)
			continue
		}
		u.metrics.OutboxReplayed(true)
		replayed++
	}
	return replayed, nil
}

// recordOutcome writes the notification and history entry for p's current
// revision and clears the marker if no later transition has set it again.
// Both writes ignore duplicates so a replay is safe.
func (u *PaymentUsecase) recordOutcome(ctx context.Context, p *entities.Payment) error {
	return u.uow.Do(ctx, func(ctx context.Context) error {
		if err := u.notificationRepo.Create(ctx, entities.NotificationFromPayment(p)); err != nil {
			return err
		}
		if err := u.historyRepo.Create(ctx, entities.HistoryFromPayment(p)); err != nil {
			return err
		}
		return u.paymentRepo.ClearNotificationPending(ctx, p.ID, p.Revision)
	})
}

// withRetry retries op with exponential backoff on infrastructure errors
func (u *PaymentUsecase) withRetry(ctx context.Context, op func(ctx context.Context) error) error {
	base := u.opts.RetryBackoff
	if base <= 0 {
		base = time.Millisecond
	}
	backoff := retry.WithMaxRetries(uint64(u.opts.RetryAttempts), retry.NewExponential(base))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := op(ctx)
		if err == nil || domainerrors.IsDomain(err) {
			return err
		}
		logger.Warn(ctx, "Store operation failed, retrying", zap.Error(err))
		return retry.RetryableError(err)
	})
}
