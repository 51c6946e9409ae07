package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
	"reelcraft/internal/repositories"
	"reelcraft/pkg/utils"
)

const apiKeyPrefix = "sk_"

type CredentialKind string

const (
	CredentialSession CredentialKind = "session"
	CredentialAPIKey  CredentialKind = "api_key"
)

// Principal is the resolved caller, whatever credential was presented.
type Principal struct {
	ID               uuid.UUID
	IsAdmin          bool
	Credential       CredentialKind
	SessionID        string
	SessionExpiresAt time.Time
}

type Capability string

const CapabilityAdmin Capability = "admin"

// RequireCapability is the single gate for privileged operations.
func RequireCapability(p *Principal, capability Capability) error {
	if p == nil {
		return utils.ErrUnauthenticated
	}
	switch capability {
	case CapabilityAdmin:
		if p.Credential == CredentialSession && p.IsAdmin {
			return nil
		}
	}
	return fmt.Errorf("%w: missing %s capability", utils.ErrForbidden, capability)
}

type IdentityServiceInterface interface {
	Resolve(ctx context.Context, token string) (*Principal, error)
	IssueSession(ctx context.Context, accountID uuid.UUID) (string, time.Time, error)
	RevokeSession(ctx context.Context, p *Principal) error
}

type IdentityService struct {
	accounts    repositories.AccountRepository
	signer      *utils.TokenSigner
	revocations repositories.RevocationStore
	knownKeys   *expirable.LRU[uuid.UUID, struct{}]
	logger      *logrus.Logger
}

// NewIdentityService caches positive sk_ lookups for cacheTTL. Accounts are
// never deleted here, so a cached hit cannot go stale.
func NewIdentityService(
	accounts repositories.AccountRepository,
	signer *utils.TokenSigner,
	revocations repositories.RevocationStore,
	cacheTTL time.Duration,
	logger *logrus.Logger,
) IdentityServiceInterface {
	return &IdentityService{
		accounts:    accounts,
		signer:      signer,
		revocations: revocations,
		knownKeys:   expirable.NewLRU[uuid.UUID, struct{}](4096, nil, cacheTTL),
		logger:      logger,
	}
}

func (s *IdentityService) Resolve(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty credential", utils.ErrUnauthenticated)
	}
	if strings.HasPrefix(token, apiKeyPrefix) {
		return s.resolveAPIKey(ctx, strings.TrimPrefix(token, apiKeyPrefix))
	}
	return s.resolveSession(ctx, token)
}

// resolveAPIKey only checks that the account exists. API-key principals never
// carry the admin capability.
func (s *IdentityService) resolveAPIKey(ctx context.Context, raw string) (*Principal, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed api key", utils.ErrUnauthenticated)
	}

	if _, ok := s.knownKeys.Get(id); !ok {
		exists, err := s.accounts.Exists(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: unknown api key", utils.ErrUnauthenticated)
		}
		s.knownKeys.Add(id, struct{}{})
	}

	return &Principal{ID: id, Credential: CredentialAPIKey}, nil
}

// resolveSession grants admin only when both the token claim and the stored
// account flag say so, so a demotion takes effect before the token expires.
func (s *IdentityService) resolveSession(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.signer.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUnauthenticated, err)
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.WithError(err).Error("revocation store lookup failed")
		return nil, fmt.Errorf("%w: revocation store unavailable", utils.ErrUnauthenticated)
	}
	if revoked {
		return nil, fmt.Errorf("%w: session revoked", utils.ErrUnauthenticated)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed subject", utils.ErrUnauthenticated)
	}
	account, err := s.accounts.FindById(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account no longer exists", utils.ErrUnauthenticated)
	}

	return &Principal{
		ID:               account.ID,
		IsAdmin:          claims.IsAdmin && account.IsAdmin,
		Credential:       CredentialSession,
		SessionID:        claims.ID,
		SessionExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// IssueSession signs a session for an existing account. Used by operator
// tooling; interactive sign-in lives outside this service.
func (s *IdentityService) IssueSession(ctx context.Context, accountID uuid.UUID) (string, time.Time, error) {
	account, err := s.accounts.FindById(ctx, accountID)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if account == nil {
		return "", time.Time{}, utils.ErrAccountNotFound
	}

	token, claims, err := s.signer.CreateToken(account.ID, account.IsAdmin)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, claims.ExpiresAt.Time, nil
}

func (s *IdentityService) RevokeSession(ctx context.Context, p *Principal) error {
	if p == nil {
		return utils.ErrUnauthenticated
	}
	if p.Credential != CredentialSession {
		return fmt.Errorf("%w: only session tokens can be revoked", utils.ErrValidationFailed)
	}
	if err := s.revocations.Revoke(ctx, p.SessionID, p.SessionExpiresAt); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"account_id": p.ID,
		"session_id": p.SessionID,
	}).Info("session revoked")
	return nil
}
