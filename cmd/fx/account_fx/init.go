package account_fx

import (
	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"gorm.io/gorm"
	"reelcraft/internal/config"
	"reelcraft/internal/repositories"
	"reelcraft/internal/services"
	"reelcraft/pkg/utils"
)

var Module = fx.Provide(
	provideAccountRepo,
	provideTokenSigner,
	provideIdentityService,
	services.NewAccountService,
)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideTokenSigner(cfg *config.Config) *utils.TokenSigner {
	return utils.NewTokenSigner([]byte(cfg.Session.Secret), cfg.Session.TTL)
}

func provideIdentityService(
	accountRepo repositories.AccountRepository,
	signer *utils.TokenSigner,
	revocations repositories.RevocationStore,
	cfg *config.Config,
	logger *logrus.Logger,
) services.IdentityServiceInterface {
	return services.NewIdentityService(accountRepo, signer, revocations, cfg.Session.APIKeyCacheTTL, logger)
}
