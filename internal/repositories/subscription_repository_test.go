package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"reelcraft/internal/infra"
	"reelcraft/internal/models/db_models"
	"reelcraft/internal/testutil"
)

func TestConditionalDebit(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()
	resetAt := time.Now().Add(time.Hour)

	t.Run("within limit", func(t *testing.T) {
		acc := testutil.SeedAccount(t, db, db_models.PlanPro, 45, 40, resetAt)
		ok, err := repo.ConditionalDebit(ctx, acc.ID, 3)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.EqualValues(t, 43, testutil.LoadSubscription(t, db, acc.ID).UnitsUsed)
	})

	t.Run("exactly at limit", func(t *testing.T) {
		acc := testutil.SeedAccount(t, db, db_models.PlanFree, 3, 2, resetAt)
		ok, err := repo.ConditionalDebit(ctx, acc.ID, 1)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.EqualValues(t, 3, testutil.LoadSubscription(t, db, acc.ID).UnitsUsed)
	})

	t.Run("over limit leaves row untouched", func(t *testing.T) {
		acc := testutil.SeedAccount(t, db, db_models.PlanPro, 45, 44, resetAt)
		ok, err := repo.ConditionalDebit(ctx, acc.ID, 2)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.EqualValues(t, 44, testutil.LoadSubscription(t, db, acc.ID).UnitsUsed)
	})

	t.Run("unlimited", func(t *testing.T) {
		acc := testutil.SeedAccount(t, db, db_models.PlanElite, db_models.UnlimitedUnits, 1000, resetAt)
		ok, err := repo.ConditionalDebit(ctx, acc.ID, 3)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.EqualValues(t, 1003, testutil.LoadSubscription(t, db, acc.ID).UnitsUsed)
	})

	t.Run("missing subscription", func(t *testing.T) {
		ok, err := repo.ConditionalDebit(ctx, uuid.New(), 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestAdvanceCycle_OnlyOncePerBoundary(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()
	resetAt := time.Now().Add(-time.Minute)
	acc := testutil.SeedAccount(t, db, db_models.PlanFree, 3, 3, resetAt)

	next := resetAt.Add(30 * 24 * time.Hour).Unix()
	ok, err := repo.AdvanceCycle(ctx, acc.ID, resetAt.Unix(), resetAt.Unix(), next)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.AdvanceCycle(ctx, acc.ID, resetAt.Unix(), resetAt.Unix(), next)
	require.NoError(t, err)
	assert.False(t, ok)

	sub := testutil.LoadSubscription(t, db, acc.ID)
	assert.EqualValues(t, 0, sub.UnitsUsed)
	assert.Equal(t, next, sub.ResetAt)
}

func TestAdvanceCycle_IgnoresPaidPlans(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubscriptionRepository(db)
	resetAt := time.Now().Add(-time.Minute)
	acc := testutil.SeedAccount(t, db, db_models.PlanPro, 45, 10, resetAt)

	ok, err := repo.AdvanceCycle(context.Background(), acc.ID, resetAt.Unix(), resetAt.Unix(), resetAt.Add(time.Hour).Unix())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.EqualValues(t, 10, testutil.LoadSubscription(t, db, acc.ID).UnitsUsed)
}

func TestReplacePlan(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubscriptionRepository(db)
	acc := testutil.SeedAccount(t, db, db_models.PlanFree, 3, 2, time.Now().Add(time.Hour))

	ok, err := repo.ReplacePlan(context.Background(), acc.ID, PlanChange{
		Plan:          db_models.PlanPro,
		UnitsLimit:    45,
		PaymentStatus: db_models.PaymentActive,
		CycleStart:    100,
		ResetAt:       200,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	sub := testutil.LoadSubscription(t, db, acc.ID)
	assert.Equal(t, db_models.PlanPro, sub.Plan)
	assert.EqualValues(t, 0, sub.UnitsUsed)
	assert.EqualValues(t, 45, sub.UnitsLimit)
	assert.Equal(t, db_models.PaymentActive, sub.PaymentStatus)
	assert.EqualValues(t, 200, sub.ResetAt)
}

func TestListDueFree(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubscriptionRepository(db)
	now := time.Now()

	due := testutil.SeedAccount(t, db, db_models.PlanFree, 3, 3, now.Add(-time.Hour))
	testutil.SeedAccount(t, db, db_models.PlanFree, 3, 1, now.Add(time.Hour))
	testutil.SeedAccount(t, db, db_models.PlanPro, 45, 1, now.Add(-time.Hour))

	ids, err := repo.ListDueFree(context.Background(), now.Unix(), 10)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{due.ID}, ids)
}

func TestTransactor_RollsBackRepositoryWrites(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubscriptionRepository(db)
	tx := infra.NewTransactor(db)
	acc := testutil.SeedAccount(t, db, db_models.PlanPro, 45, 0, time.Now().Add(time.Hour))

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		ok, err := repo.ConditionalDebit(ctx, acc.ID, 3)
		require.NoError(t, err)
		require.True(t, ok)
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.EqualValues(t, 0, testutil.LoadSubscription(t, db, acc.ID).UnitsUsed)
}
