// Package testutil holds fixtures shared by package tests. It is never
// imported by production code.
package testutil

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"reelcraft/internal/infra"
	"reelcraft/internal/models/db_models"
)

// NewDB opens a private in-memory SQLite database with the full schema. One
// connection means transactions serialize the same way row locks do.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	require.NoError(t, infra.Migrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// NewLogger returns a silent logger and a hook that captures its entries.
func NewLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

// SeedAccount inserts an account with a subscription on plan, usage set to used.
func SeedAccount(t testing.TB, db *gorm.DB, plan db_models.PlanCode, limit, used int64, resetAt time.Time) *db_models.Account {
	t.Helper()

	account := &db_models.Account{Email: uuid.NewString() + "@example.com", Name: "seed"}
	require.NoError(t, db.WithContext(context.Background()).Create(account).Error)

	status := db_models.PaymentActive
	if plan == db_models.PlanFree {
		status = db_models.PaymentInactive
	}
	sub := &db_models.Subscription{
		AccountID:     account.ID,
		Plan:          plan,
		UnitsUsed:     used,
		UnitsLimit:    limit,
		CycleStart:    resetAt.Add(-30 * 24 * time.Hour).Unix(),
		ResetAt:       resetAt.Unix(),
		PaymentStatus: status,
	}
	require.NoError(t, db.Create(sub).Error)
	return account
}

// MakeAdmin flips the admin flag directly in storage.
func MakeAdmin(t testing.TB, db *gorm.DB, id uuid.UUID) {
	t.Helper()
	require.NoError(t, db.Model(&db_models.Account{}).Where("id = ?", id).Update("is_admin", true).Error)
}

func LoadSubscription(t testing.TB, db *gorm.DB, accountID uuid.UUID) *db_models.Subscription {
	t.Helper()
	var sub db_models.Subscription
	require.NoError(t, db.First(&sub, "account_id = ?", accountID).Error)
	return &sub
}
