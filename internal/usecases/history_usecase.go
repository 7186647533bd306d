package usecases

import (
	"context"
	"strings"

	"payportal.backend/internal/domain/entities"
	domainerrors "payportal.backend/internal/domain/errors"
	"payportal.backend/internal/domain/repositories"
	"payportal.backend/pkg/utils"
	"payportal.backend/pkg/validator"
)

// HistoryUsecase handles the transaction history log
type HistoryUsecase struct {
	historyRepo repositories.HistoryRepository
	validate    *validator.Validator
}

// NewHistoryUsecase creates a new history usecase
func NewHistoryUsecase(historyRepo repositories.HistoryRepository, validate *validator.Validator) *HistoryUsecase {
	return &HistoryUsecase{
		historyRepo: historyRepo,
		validate:    validate,
	}
}

// Create appends a history entry
func (u *HistoryUsecase) Create(ctx context.Context, actor entities.Actor, input *entities.PaymentRecordInput) (*entities.TransactionHistory, error) {
	if err := checkRecordInput(u.validate, actor, input); err != nil {
		return nil, err
	}

	entry := &entities.TransactionHistory{
		Username:      input.Username,
		RecipientName: input.RecipientName,
		Amount:        input.Amount,
		Currency:      input.Currency,
		Status:        input.Status,
		Date:          input.Date,
	}

	if err := u.historyRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns history oldest first. Employees may list everyone or filter
// by username; customers always get their own records.
func (u *HistoryUsecase) List(ctx context.Context, actor entities.Actor, username string, page utils.PaginationParams) ([]*entities.TransactionHistory, utils.PaginationMeta, error) {
	username = strings.TrimSpace(username)
	if !actor.IsEmployee() {
		if username != "" && username != actor.Username {
			return nil, utils.PaginationMeta{}, domainerrors.Forbidden(msgOwnRecordsOnly)
		}
		username = actor.Username
	}

	entries, total, err := u.historyRepo.List(ctx, username, page)
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	if entries == nil {
		entries = []*entities.TransactionHistory{}
	}
	return entries, utils.CalculateMeta(total, page.Page, page.Limit), nil
}
