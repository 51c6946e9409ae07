package admin_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"reelcraft/internal/repositories"
	"reelcraft/internal/services"
)

var Module = fx.Provide(
	provideAuditRepo,
	services.NewAdminService,
)

func provideAuditRepo(db *gorm.DB) repositories.AuditRepository {
	return repositories.NewAuditRepository(db)
}
