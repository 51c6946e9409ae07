package memcache_fx

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"reelcraft/internal/config"
	"reelcraft/internal/infra"
	"reelcraft/internal/repositories"
	mem "reelcraft/pkg/memcache"
)

var Module = fx.Provide(provideRevocationStore)

// Without REDIS_URL revocations live in process memory and do not survive a
// restart or reach other replicas.
func provideRevocationStore(lc fx.Lifecycle, cfg *config.Config, logger *logrus.Logger) (repositories.RevocationStore, error) {
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set, using in-memory session revocation store")
		return mem.NewRevokedTokens(), nil
	}

	client, err := infra.InitRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return repositories.NewRedisRevocationStore(client), nil
}
