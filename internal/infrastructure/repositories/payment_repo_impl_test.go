package repositories

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"payportal.backend/internal/domain/entities"
	domainerrors "payportal.backend/internal/domain/errors"
	domainRepos "payportal.backend/internal/domain/repositories"
	"payportal.backend/pkg/utils"
)

func TestPaymentRepository_CreateAndGet(t *testing.T) {
	repo := NewPaymentRepository(newMigratedDB(t))
	ctx := context.Background()

	p := seedPayment(t, repo, "alice1")
	assert.Equal(t, entities.PaymentStatusPending, p.Status)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", got.RecipientName)
	assert.True(t, got.Amount.Equal(p.Amount), "amount %s", got.Amount)
	assert.Equal(t, entities.PaymentStatusPending, got.Status)
	assert.False(t, got.ReviewedBy.Valid)
	assert.False(t, got.NotificationPending)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestPaymentRepository_ListByStatus(t *testing.T) {
	repo := NewPaymentRepository(newMigratedDB(t))
	ctx := context.Background()

	first := seedPayment(t, repo, "alice1")
	second := seedPayment(t, repo, "bob_2")
	resolved := seedPayment(t, repo, "alice1")
	_, err := repo.Transition(ctx, domainRepos.TransitionRequest{ID: resolved.ID, To: entities.PaymentStatusApproved, ReviewedBy: "emp1", FromPendingOnly: true})
	require.NoError(t, err)

	pending, err := repo.ListByStatus(ctx, entities.PaymentStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, second.ID, pending[1].ID)
}

func TestPaymentRepository_ListByUsername(t *testing.T) {
	repo := NewPaymentRepository(newMigratedDB(t))
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		ids = append(ids, seedPayment(t, repo, "alice1").ID)
	}
	seedPayment(t, repo, "bob_2")
	_, err := repo.Transition(ctx, domainRepos.TransitionRequest{ID: ids[0], To: entities.PaymentStatusDisapproved, ReviewedBy: "emp1", FromPendingOnly: true})
	require.NoError(t, err)

	all, total, err := repo.ListByUsername(ctx, "alice1", nil, utils.GetPaginationParams(1, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID, "newest first")

	page, total, err := repo.ListByUsername(ctx, "alice1", nil, utils.GetPaginationParams(2, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, ids[0], page[0].ID)

	resolved, total, err := repo.ListByUsername(ctx, "alice1", entities.ResolvedStatuses, utils.GetPaginationParams(1, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, resolved, 1)
	assert.Equal(t, entities.PaymentStatusDisapproved, resolved[0].Status)
}

func TestPaymentRepository_TransitionOneWay(t *testing.T) {
	repo := NewPaymentRepository(newMigratedDB(t))
	ctx := context.Background()
	p := seedPayment(t, repo, "alice1")

	updated, err := repo.Transition(ctx, domainRepos.TransitionRequest{ID: p.ID, To: entities.PaymentStatusApproved, ReviewedBy: "emp1", FromPendingOnly: true})
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentStatusApproved, updated.Status)
	assert.Equal(t, "emp1", updated.ReviewedBy.String)
	assert.True(t, updated.NotificationPending)

	_, err = repo.Transition(ctx, domainRepos.TransitionRequest{ID: p.ID, To: entities.PaymentStatusDisapproved, ReviewedBy: "emp2", FromPendingOnly: true})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyResolved)

	_, err = repo.Transition(ctx, domainRepos.TransitionRequest{ID: uuid.New(), To: entities.PaymentStatusApproved, FromPendingOnly: true})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentStatusApproved, got.Status, "second transition must not apply")
}

func TestPaymentRepository_TransitionRetransition(t *testing.T) {
	repo := NewPaymentRepository(newMigratedDB(t))
	ctx := context.Background()
	p := seedPayment(t, repo, "alice1")

	first, err := repo.Transition(ctx, domainRepos.TransitionRequest{ID: p.ID, To: entities.PaymentStatusApproved, ReviewedBy: "emp1"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Revision)
	updated, err := repo.Transition(ctx, domainRepos.TransitionRequest{ID: p.ID, To: entities.PaymentStatusDisapproved, ReviewedBy: "emp2"})
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentStatusDisapproved, updated.Status)
	assert.Equal(t, "emp2", updated.ReviewedBy.String)
	assert.Equal(t, 2, updated.Revision)

	_, err = repo.Transition(ctx, domainRepos.TransitionRequest{ID: uuid.New(), To: entities.PaymentStatusApproved})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestPaymentRepository_ConcurrentTransitionsOneWins(t *testing.T) {
	db := newMigratedDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repo := NewPaymentRepository(db)
	p := seedPayment(t, repo, "alice1")

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, status := range []entities.PaymentStatus{entities.PaymentStatusApproved, entities.PaymentStatusDisapproved} {
		wg.Add(1)
		go func(s entities.PaymentStatus) {
			defer wg.Done()
			_, err := repo.Transition(context.Background(), domainRepos.TransitionRequest{ID: p.ID, To: s, ReviewedBy: "emp1", FromPendingOnly: true})
			results <- err
		}(status)
	}
	wg.Wait()
	close(results)

	var ok, resolved int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, domainerrors.ErrAlreadyResolved):
			resolved++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, resolved)
}

func TestPaymentRepository_NotificationMarker(t *testing.T) {
	repo := NewPaymentRepository(newMigratedDB(t))
	ctx := context.Background()
	a := seedPayment(t, repo, "alice1")
	b := seedPayment(t, repo, "alice1")
	seedPayment(t, repo, "alice1")

	for _, p := range []*entities.Payment{a, b} {
		_, err := repo.Transition(ctx, domainRepos.TransitionRequest{ID: p.ID, To: entities.PaymentStatusApproved, ReviewedBy: "emp1", FromPendingOnly: true})
		require.NoError(t, err)
	}

	marked, err := repo.ListNotificationPending(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, marked, 2)

	limited, err := repo.ListNotificationPending(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	// a stale revision leaves the marker for the newer outcome
	require.NoError(t, repo.ClearNotificationPending(ctx, a.ID, 0))
	marked, err = repo.ListNotificationPending(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, marked, 2)

	require.NoError(t, repo.ClearNotificationPending(ctx, a.ID, 1))
	marked, err = repo.ListNotificationPending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, marked, 1)
	assert.Equal(t, b.ID, marked[0].ID)

	assert.ErrorIs(t, repo.ClearNotificationPending(ctx, uuid.New(), 1), domainerrors.ErrNotFound)
}
