package generation_fx

import (
	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"gorm.io/gorm"
	"reelcraft/internal/config"
	"reelcraft/internal/repositories"
	"reelcraft/internal/services"
	"reelcraft/pkg/metrics"
)

var Module = fx.Provide(
	provideGenerationRepo,
	provideConflictRepo,
	provideDispatchService,
	services.NewSettlementService,
	provideGenerationService,
)

func provideGenerationRepo(db *gorm.DB) repositories.GenerationRepository {
	return repositories.NewGenerationRepository(db)
}

func provideConflictRepo(db *gorm.DB) repositories.SettlementConflictRepository {
	return repositories.NewSettlementConflictRepository(db)
}

func provideDispatchService(cfg *config.Config, m *metrics.Metrics, logger *logrus.Logger) services.DispatchServiceInterface {
	return services.NewDispatchService(
		cfg.RenderBackend.URL,
		cfg.RenderBackend.Timeout,
		m,
		logger,
		services.WithBearerToken(cfg.RenderBackend.Token),
	)
}

func provideGenerationService(
	quota services.QuotaServiceInterface,
	dispatcher services.DispatchServiceInterface,
	settlement services.SettlementServiceInterface,
	cfg *config.Config,
	m *metrics.Metrics,
	logger *logrus.Logger,
) services.GenerationServiceInterface {
	return services.NewGenerationService(quota, dispatcher, settlement, services.GenerationConfig{
		UnrestrictedAccounts: cfg.Generation.UnrestrictedAccounts,
		MusicLibraryURL:      cfg.Generation.MusicLibraryURL,
		SettlementTimeout:    cfg.Generation.SettlementTimeout,
	}, m, logger)
}
