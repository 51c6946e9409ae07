package services

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"
	"reelcraft/internal/infra"
	"reelcraft/internal/models/db_models"
	"reelcraft/internal/repositories"
	"reelcraft/internal/testutil"
	mem "reelcraft/pkg/memcache"
	"reelcraft/pkg/metrics"
	"reelcraft/pkg/utils"
)

var testEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// fixture wires the real services against a private SQLite database.
type fixture struct {
	db         *gorm.DB
	clock      *utils.FixedClock
	hook       *test.Hook
	metrics    *metrics.Metrics
	signer     *utils.TokenSigner
	revoked    *mem.RevokedTokens
	ledger     LedgerServiceInterface
	quota      QuotaServiceInterface
	settlement SettlementServiceInterface
	identity   IdentityServiceInterface
	accounts   AccountServiceInterface
	admin      AdminServiceInterface
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	logger, hook := testutil.NewLogger()
	clock := &utils.FixedClock{T: testEpoch}
	m := metrics.NewNopMetrics()
	tx := infra.NewTransactor(db)

	accountRepo := repositories.NewAccountRepository(db)
	history := repositories.NewGenerationRepository(db)
	conflicts := repositories.NewSettlementConflictRepository(db)
	signer := utils.NewTokenSigner([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	revoked := mem.NewRevokedTokens()

	ledger := NewLedgerService(repositories.NewSubscriptionRepository(db), tx, clock, logger)
	settlement := NewSettlementService(tx, ledger, history, conflicts, clock, m, logger)

	return &fixture{
		db:         db,
		clock:      clock,
		hook:       hook,
		metrics:    m,
		signer:     signer,
		revoked:    revoked,
		ledger:     ledger,
		quota:      NewQuotaService(ledger, m, logger),
		settlement: settlement,
		identity:   NewIdentityService(accountRepo, signer, revoked, time.Minute, logger),
		accounts:   NewAccountService(tx, accountRepo, history, ledger, logger),
		admin:      NewAdminService(tx, accountRepo, repositories.NewAuditRepository(db), ledger, settlement, logger),
	}
}

// seed creates an account whose cycle resets one day after the fixture clock.
func (f *fixture) seed(t *testing.T, plan db_models.PlanCode, used int64) *db_models.Account {
	t.Helper()
	limit, err := PlanLimit(plan)
	if err != nil {
		t.Fatal(err)
	}
	return testutil.SeedAccount(t, f.db, plan, limit, used, f.clock.Now().Add(24*time.Hour))
}

func (f *fixture) historyCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&db_models.GenerationRecord{}).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

func (f *fixture) conflictCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&db_models.SettlementConflict{}).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}
