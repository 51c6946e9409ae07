package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"reelcraft/internal/config"
	"reelcraft/internal/infra"
	"reelcraft/internal/repositories"
	"reelcraft/internal/services"
	mem "reelcraft/pkg/memcache"
	"reelcraft/pkg/metrics"
	"reelcraft/pkg/utils"
)

type app struct {
	accounts   services.AccountServiceInterface
	identity   services.IdentityServiceInterface
	ledger     services.LedgerServiceInterface
	settlement services.SettlementServiceInterface
	close      func()
}

func wireApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := cfg.NewLogger()

	db, err := infra.InitPostgresql(cfg, logger)
	if err != nil {
		return nil, err
	}
	signer := utils.NewTokenSigner([]byte(cfg.Session.Secret), cfg.Session.TTL)
	a := newApp(db, signer, utils.SystemClock{}, logger)
	a.close = func() { infra.ClosePostgresql(db, logger) }
	return a, nil
}

// newApp builds the services the CLI needs. Session issuing never consults
// the revocation store, so an in-memory one is enough here.
func newApp(db *gorm.DB, signer *utils.TokenSigner, clock utils.Clock, logger *logrus.Logger) *app {
	tx := infra.NewTransactor(db)
	accountRepo := repositories.NewAccountRepository(db)
	history := repositories.NewGenerationRepository(db)
	ledger := services.NewLedgerService(repositories.NewSubscriptionRepository(db), tx, clock, logger)
	m := metrics.NewNopMetrics()

	return &app{
		accounts: services.NewAccountService(tx, accountRepo, history, ledger, logger),
		identity: services.NewIdentityService(accountRepo, signer, mem.NewRevokedTokens(), 0, logger),
		ledger:   ledger,
		settlement: services.NewSettlementService(tx, ledger, history,
			repositories.NewSettlementConflictRepository(db), clock, m, logger),
		close: func() {},
	}
}
