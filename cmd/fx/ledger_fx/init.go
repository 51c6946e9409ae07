package ledger_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"reelcraft/internal/repositories"
	"reelcraft/internal/services"
)

var Module = fx.Provide(
	provideSubscriptionRepo,
	services.NewLedgerService,
	services.NewQuotaService,
	services.NewPlanService,
)

func provideSubscriptionRepo(db *gorm.DB) repositories.SubscriptionRepository {
	return repositories.NewSubscriptionRepository(db)
}
