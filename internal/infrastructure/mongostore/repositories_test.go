package mongostore

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"payportal.backend/internal/domain/entities"
	domainerrors "payportal.backend/internal/domain/errors"
	domainRepos "payportal.backend/internal/domain/repositories"
	"payportal.backend/pkg/utils"
)

const mockNS = "payportal.mock"

func newMockT(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func updated(matched int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: matched}, bson.E{Key: "nModified", Value: matched})
}

func found(docs ...bson.D) bson.D {
	return mtest.CreateCursorResponse(0, mockNS, mtest.FirstBatch, docs...)
}

func paymentBSON(t *testing.T, p *entities.Payment) bson.D {
	t.Helper()
	doc, err := newPaymentDoc(p)
	require.NoError(t, err)
	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var out bson.D
	require.NoError(t, bson.Unmarshal(raw, &out))
	return out
}

func samplePayment(status entities.PaymentStatus, revision int) *entities.Payment {
	return &entities.Payment{
		ID:                 uuid.New(),
		RecipientName:      "Jane Smith",
		RecipientBank:      "First Bank",
		RecipientAccountNo: "123456789",
		Amount:             decimal.RequireFromString("10.50"),
		SwiftCode:          "ABCD12",
		Username:           "alice1",
		Date:               "2024-10-01",
		Currency:           "USD",
		Status:             status,
		Revision:           revision,
		CreatedAt:          time.Now().UTC().Truncate(time.Millisecond),
		UpdatedAt:          time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestPaymentRepository_TransitionMock(t *testing.T) {
	mt := newMockT(t)
	ctx := context.Background()

	mt.Run("applies and reloads", func(mt *mtest.T) {
		repo := &PaymentRepository{coll: mt.Coll}
		p := samplePayment(entities.PaymentStatusApproved, 1)
		p.ReviewedBy = null.StringFrom("emp1")
		p.NotificationPending = true
		mt.AddMockResponses(updated(1), found(paymentBSON(t, p)))

		got, err := repo.Transition(ctx, domainRepos.TransitionRequest{ID: p.ID, To: entities.PaymentStatusApproved, ReviewedBy: "emp1", FromPendingOnly: true})
		require.NoError(t, err)
		assert.Equal(t, entities.PaymentStatusApproved, got.Status)
		assert.Equal(t, 1, got.Revision)
		assert.True(t, got.NotificationPending)

		cmd := mt.GetStartedEvent().Command
		assert.Equal(t, p.ID.String(), cmd.Lookup("updates", "0", "q", "_id").StringValue())
		assert.Equal(t, "pending", cmd.Lookup("updates", "0", "q", "status").StringValue())
		assert.EqualValues(t, 1, cmd.Lookup("updates", "0", "u", "$inc", "revision").AsInt64())
	})

	mt.Run("already resolved", func(mt *mtest.T) {
		repo := &PaymentRepository{coll: mt.Coll}
		p := samplePayment(entities.PaymentStatusApproved, 1)
		mt.AddMockResponses(updated(0), found(paymentBSON(t, p)))

		_, err := repo.Transition(ctx, domainRepos.TransitionRequest{ID: p.ID, To: entities.PaymentStatusDisapproved, ReviewedBy: "emp2", FromPendingOnly: true})
		assert.ErrorIs(t, err, domainerrors.ErrAlreadyResolved)
	})

	mt.Run("missing payment", func(mt *mtest.T) {
		repo := &PaymentRepository{coll: mt.Coll}
		mt.AddMockResponses(updated(0), found())

		_, err := repo.Transition(ctx, domainRepos.TransitionRequest{ID: uuid.New(), To: entities.PaymentStatusApproved})
		assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	})

	mt.Run("retransition has no status filter", func(mt *mtest.T) {
		repo := &PaymentRepository{coll: mt.Coll}
		p := samplePayment(entities.PaymentStatusDisapproved, 2)
		mt.AddMockResponses(updated(1), found(paymentBSON(t, p)))

		_, err := repo.Transition(ctx, domainRepos.TransitionRequest{ID: p.ID, To: entities.PaymentStatusDisapproved, ReviewedBy: "emp2"})
		require.NoError(t, err)
		_, lookupErr := mt.GetStartedEvent().Command.LookupErr("updates", "0", "q", "status")
		assert.Error(t, lookupErr)
	})
}

func TestPaymentRepository_ClearNotificationPendingMock(t *testing.T) {
	mt := newMockT(t)
	ctx := context.Background()

	mt.Run("matching revision", func(mt *mtest.T) {
		repo := &PaymentRepository{coll: mt.Coll}
		id := uuid.New()
		mt.AddMockResponses(updated(1))

		require.NoError(t, repo.ClearNotificationPending(ctx, id, 3))
		cmd := mt.GetStartedEvent().Command
		assert.EqualValues(t, 3, cmd.Lookup("updates", "0", "q", "revision").AsInt64())
	})

	mt.Run("stale revision keeps the marker", func(mt *mtest.T) {
		repo := &PaymentRepository{coll: mt.Coll}
		p := samplePayment(entities.PaymentStatusDisapproved, 2)
		p.NotificationPending = true
		mt.AddMockResponses(updated(0), found(paymentBSON(t, p)))

		assert.NoError(t, repo.ClearNotificationPending(ctx, p.ID, 1))
	})

	mt.Run("missing payment", func(mt *mtest.T) {
		repo := &PaymentRepository{coll: mt.Coll}
		mt.AddMockResponses(updated(0), found())

		assert.ErrorIs(t, repo.ClearNotificationPending(ctx, uuid.New(), 1), domainerrors.ErrNotFound)
	})
}

func TestRecordRepositories_DuplicatesMock(t *testing.T) {
	mt := newMockT(t)
	ctx := context.Background()
	dupKey := mtest.CreateWriteErrorsResponse(mtest.WriteError{
		Index:   0,
		Code:    11000,
		Message: "E11000 duplicate key error collection: payportal.notifications index: idx_notifications_payment_revision",
	})

	mt.Run("linked notification replay is ignored", func(mt *mtest.T) {
		repo := &NotificationRepository{coll: mt.Coll}
		mt.AddMockResponses(dupKey)

		n := entities.NotificationFromPayment(samplePayment(entities.PaymentStatusApproved, 1))
		assert.NoError(t, repo.Create(ctx, n))
	})

	mt.Run("linked history replay is ignored", func(mt *mtest.T) {
		repo := &HistoryRepository{coll: mt.Coll}
		mt.AddMockResponses(dupKey)

		h := entities.HistoryFromPayment(samplePayment(entities.PaymentStatusApproved, 1))
		assert.NoError(t, repo.Create(ctx, h))
	})

	mt.Run("unlinked duplicate is reported", func(mt *mtest.T) {
		repo := &NotificationRepository{coll: mt.Coll}
		mt.AddMockResponses(dupKey)

		n := &entities.Notification{Username: "alice1", RecipientName: "Jane Smith", Amount: decimal.NewFromInt(1), Currency: "USD", Status: entities.PaymentStatusApproved, Date: "2024-10-01"}
		var dup *domainerrors.DuplicateError
		assert.ErrorAs(t, repo.Create(ctx, n), &dup)
	})

	mt.Run("mark read on someone else's notification", func(mt *mtest.T) {
		repo := &NotificationRepository{coll: mt.Coll}
		mt.AddMockResponses(updated(0))

		assert.ErrorIs(t, repo.MarkRead(ctx, uuid.New(), "mallory"), domainerrors.ErrNotFound)
	})
}

func TestHistoryRepository_PageBeyondEndMock(t *testing.T) {
	mt := newMockT(t)

	mt.Run("saturated skip", func(mt *mtest.T) {
		repo := &HistoryRepository{coll: mt.Coll}
		mt.AddMockResponses(found(bson.D{{Key: "n", Value: int32(3)}}), found())

		entries, total, err := repo.List(context.Background(), "", utils.GetPaginationParams(4611686018427387905, 2))
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Empty(t, entries)

		var skip int64
		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName == "find" {
				skip = evt.Command.Lookup("skip").AsInt64()
			}
		}
		assert.Equal(t, int64(math.MaxInt64), skip)
	})
}
