package usecases_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"payportal.backend/internal/domain/entities"
	domainerrors "payportal.backend/internal/domain/errors"
	"payportal.backend/internal/usecases"
	"payportal.backend/pkg/utils"
)

func validRecordInput() *entities.PaymentRecordInput {
	return &entities.PaymentRecordInput{
		Username:      "alice1",
		RecipientName: "Bob Jones",
		Amount:        decimal.RequireFromString("99.5"),
		Currency:      "EUR",
		Status:        entities.PaymentStatusApproved,
		Date:          "2024-05-02",
	}
}

func TestNotificationUsecase_Create(t *testing.T) {
	ctx := context.Background()
	repo := new(MockNotificationRepository)
	uc := usecases.NewNotificationUsecase(repo, newTestValidator())

	repo.On("Create", ctx, mock.AnythingOfType("*entities.Notification")).Return(nil).Twice()

	n, err := uc.Create(ctx, reviewer, validRecordInput())
	require.NoError(t, err)
	assert.Equal(t, "alice1", n.Username)
	assert.False(t, n.PaymentID.Valid)
	assert.True(t, n.Read.Valid)
	assert.False(t, n.Read.Bool)

	var planted entities.PaymentRecordInput
	body := `{"paymentId":"` + uuid.NewString() + `","username":"alice1","recipientName":"Jane Smith",` +
		`"amount":10,"currency":"EUR","status":"approved","date":"2024-05-02"}`
	require.NoError(t, json.Unmarshal([]byte(body), &planted))
	n, err = uc.Create(ctx, customer, &planted)
	require.NoError(t, err)
	assert.False(t, n.PaymentID.Valid, "payment links are never taken from the request")
}

func TestNotificationUsecase_Create_Rejections(t *testing.T) {
	ctx := context.Background()
	repo := new(MockNotificationRepository)
	uc := usecases.NewNotificationUsecase(repo, newTestValidator())

	_, err := uc.Create(ctx, entities.Actor{Username: "mallory", Role: entities.RoleCustomer}, validRecordInput())
	requireAppError(t, err, http.StatusForbidden)

	_, err = uc.Create(ctx, reviewer, &entities.PaymentRecordInput{Amount: decimal.NewFromInt(-5)})
	appErr := requireAppError(t, err, http.StatusBadRequest)
	assert.ElementsMatch(t, []string{"username", "recipientName", "amount", "currency", "status", "date"}, fieldNames(appErr))

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestNotificationUsecase_AmountAcceptsNumericString(t *testing.T) {
	var input entities.PaymentRecordInput
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"12.30"}`), &input))
	assert.True(t, input.Amount.Equal(decimal.RequireFromString("12.3")))

	require.NoError(t, json.Unmarshal([]byte(`{"amount":12.3}`), &input))
	assert.True(t, input.Amount.Equal(decimal.RequireFromString("12.3")))
}

func TestNotificationUsecase_ListForUser(t *testing.T) {
	ctx := context.Background()
	repo := new(MockNotificationRepository)
	uc := usecases.NewNotificationUsecase(repo, newTestValidator())

	repo.On("ListByUsername", ctx, "alice1").Return(nil, nil)

	list, err := uc.ListForUser(ctx, customer, "alice1")
	require.NoError(t, err)
	assert.NotNil(t, list)

	_, err = uc.ListForUser(ctx, reviewer, "alice1")
	require.NoError(t, err)

	_, err = uc.ListForUser(ctx, customer, "bob")
	requireAppError(t, err, http.StatusForbidden)

	_, err = uc.ListForUser(ctx, customer, "a")
	requireAppError(t, err, http.StatusBadRequest)
}

func TestNotificationUsecase_MarkRead(t *testing.T) {
	ctx := context.Background()
	repo := new(MockNotificationRepository)
	uc := usecases.NewNotificationUsecase(repo, newTestValidator())
	id, missing := uuid.New(), uuid.New()

	repo.On("MarkRead", ctx, id, "alice1").Return(nil).Once()
	repo.On("MarkRead", ctx, missing, "alice1").Return(domainerrors.ErrNotFound).Once()

	assert.NoError(t, uc.MarkRead(ctx, customer, id.String()))
	requireAppError(t, uc.MarkRead(ctx, customer, missing.String()), http.StatusNotFound)
	requireAppError(t, uc.MarkRead(ctx, customer, "nope"), http.StatusBadRequest)
}

func TestHistoryUsecase_CreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := new(MockHistoryRepository)
	uc := usecases.NewHistoryUsecase(repo, newTestValidator())

	repo.On("Create", ctx, mock.AnythingOfType("*entities.TransactionHistory")).Return(nil).Once()
	entry, err := uc.Create(ctx, customer, validRecordInput())
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentStatusApproved, entry.Status)

	all := utils.GetPaginationParams(1, 0)
	repo.On("List", ctx, "", all).Return([]*entities.TransactionHistory{entry, entry}, int64(2), nil).Once()
	list, meta, err := uc.List(ctx, reviewer, "", all)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 1, meta.TotalPages)

	// customers are pinned to their own records
	repo.On("List", ctx, "alice1", all).Return([]*entities.TransactionHistory{entry}, int64(1), nil).Once()
	list, _, err = uc.List(ctx, customer, "", all)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, _, err = uc.List(ctx, customer, "bob", all)
	requireAppError(t, err, http.StatusForbidden)
	repo.AssertExpectations(t)
}
