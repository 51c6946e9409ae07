package infra_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"reelcraft/internal/infra"
	"reelcraft/internal/models/db_models"
	"reelcraft/internal/testutil"
)

func TestWithinTransaction_CommitAndRollback(t *testing.T) {
	db := testutil.NewDB(t)
	tx := infra.NewTransactor(db)
	ctx := context.Background()

	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return infra.Conn(ctx, db).Create(&db_models.Account{Email: "kept@example.com"}).Error
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := infra.Conn(ctx, db).Create(&db_models.Account{Email: "dropped@example.com"}).Error; err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var emails []string
	require.NoError(t, db.Model(&db_models.Account{}).Order("email").Pluck("email", &emails).Error)
	assert.Equal(t, []string{"kept@example.com"}, emails)
}

func TestWithinTransaction_NestedJoinsOuter(t *testing.T) {
	db := testutil.NewDB(t)
	tx := infra.NewTransactor(db)

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		inner := tx.WithinTransaction(ctx, func(ctx context.Context) error {
			return infra.Conn(ctx, db).Create(&db_models.Account{Email: "inner@example.com"}).Error
		})
		if inner != nil {
			return inner
		}
		return errors.New("outer fails")
	})
	require.Error(t, err)

	var n int64
	require.NoError(t, db.Model(&db_models.Account{}).Count(&n).Error)
	assert.Zero(t, n, "inner work rolls back with the outer transaction")
}

func TestInitRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	client, err := infra.InitRedis(ctx, "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Set(ctx, "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	_, err = infra.InitRedis(ctx, "not a url")
	assert.Error(t, err)
}
