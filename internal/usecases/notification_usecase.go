package usecases

import (
	"context"
	"errors"
	"strings"

	"github.com/volatiletech/null/v8"
	"payportal.backend/internal/domain/entities"
	domainerrors "payportal.backend/internal/domain/errors"
	"payportal.backend/internal/domain/repositories"
	"payportal.backend/pkg/utils"
	"payportal.backend/pkg/validator"
)

const msgOwnRecordsOnly = "You can only access your own records"

// NotificationUsecase handles payment outcome notifications
type NotificationUsecase struct {
	notificationRepo repositories.NotificationRepository
	validate         *validator.Validator
}

// NewNotificationUsecase creates a new notification usecase
func NewNotificationUsecase(notificationRepo repositories.NotificationRepository, validate *validator.Validator) *NotificationUsecase {
	return &NotificationUsecase{
		notificationRepo: notificationRepo,
		validate:         validate,
	}
}

// Create logs a notification. Customers may only log their own.
func (u *NotificationUsecase) Create(ctx context.Context, actor entities.Actor, input *entities.PaymentRecordInput) (*entities.Notification, error) {
	if err := checkRecordInput(u.validate, actor, input); err != nil {
		return nil, err
	}

	n := &entities.Notification{
		Username:      input.Username,
		RecipientName: input.RecipientName,
		Amount:        input.Amount,
		Currency:      input.Currency,
		Status:        input.Status,
		Date:          input.Date,
		Read:          null.BoolFrom(false),
	}

	if err := u.notificationRepo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// ListForUser returns username's notifications in insertion order
func (u *NotificationUsecase) ListForUser(ctx context.Context, actor entities.Actor, username string) ([]*entities.Notification, error) {
	username = strings.TrimSpace(username)
	if !validator.IsUsername(username) {
		return nil, domainerrors.FieldInvalid("username", "invalid_format", "Invalid username")
	}
	if !actor.CanAccess(username) {
		return nil, domainerrors.Forbidden(msgOwnRecordsOnly)
	}

	list, err := u.notificationRepo.ListByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entities.Notification{}
	}
	return list, nil
}

// MarkRead flags one of the caller's notifications as read
func (u *NotificationUsecase) MarkRead(ctx context.Context, actor entities.Actor, rawID string) error {
	id, ok := utils.ParseID(rawID)
	if !ok {
		return domainerrors.BadRequest("Invalid notification ID")
	}
	if err := u.notificationRepo.MarkRead(ctx, id, actor.Username); err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NotFound("Notification not found")
		}
		return err
	}
	return nil
}

// checkRecordInput normalizes and validates a notification or history body
func checkRecordInput(v *validator.Validator, actor entities.Actor, input *entities.PaymentRecordInput) error {
	input.Username = strings.TrimSpace(input.Username)
	input.RecipientName = utils.StripAngleBrackets(input.RecipientName)
	input.Currency = strings.TrimSpace(input.Currency)
	input.Date = strings.TrimSpace(input.Date)

	if fields := v.Struct(input); len(fields) > 0 {
		return domainerrors.Validation(fields...)
	}
	if !actor.CanAccess(input.Username) {
		return domainerrors.Forbidden(msgOwnRecordsOnly)
	}
	return nil
}
