package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	mem "reelcraft/pkg/memcache"
)

// RevocationStore is the trust store consulted for every session token.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

var (
	_ RevocationStore = (*redisRevocationStore)(nil)
	_ RevocationStore = (*mem.RevokedTokens)(nil)
)

type RevocationOption func(*redisRevocationStore)

func WithKeyPrefix(prefix string) RevocationOption {
	return func(s *redisRevocationStore) {
		s.prefix = prefix
	}
}

type redisRevocationStore struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time
}

// NewRedisRevocationStore keeps one key per revoked jti, expiring with the
// token itself.
func NewRedisRevocationStore(client redis.Cmdable, opts ...RevocationOption) RevocationStore {
	s := &redisRevocationStore{
		client: client,
		prefix: "reelcraft:revoked:",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *redisRevocationStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, s.prefix+jti, "1", ttl).Err()
}

func (s *redisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
