package db_fx

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"gorm.io/gorm"
	"reelcraft/internal/config"
	"reelcraft/internal/infra"
)

var Module = fx.Provide(
	provideDB,
	infra.NewTransactor,
)

func provideDB(lc fx.Lifecycle, cfg *config.Config, logger *logrus.Logger) (*gorm.DB, error) {
	db, err := infra.InitPostgresql(cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.ClosePostgresql(db, logger)
			return nil
		},
	})
	return db, nil
}
