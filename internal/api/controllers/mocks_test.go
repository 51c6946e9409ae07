package controllers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"reelcraft/internal/models/db_models"
	"reelcraft/internal/models/request_models"
	"reelcraft/internal/models/response_models"
	"reelcraft/internal/services"
)

type mockIdentity struct{ mock.Mock }

func (m *mockIdentity) Resolve(ctx context.Context, token string) (*services.Principal, error) {
	args := m.Called(ctx, token)
	p, _ := args.Get(0).(*services.Principal)
	return p, args.Error(1)
}

func (m *mockIdentity) IssueSession(ctx context.Context, accountID uuid.UUID) (string, time.Time, error) {
	args := m.Called(ctx, accountID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockIdentity) RevokeSession(ctx context.Context, p *services.Principal) error {
	return m.Called(ctx, p).Error(0)
}

type mockGeneration struct{ mock.Mock }

func (m *mockGeneration) Generate(ctx context.Context, p *services.Principal, req request_models.GenerationRequest) (*response_models.GenerationResponse, error) {
	args := m.Called(ctx, p, req)
	resp, _ := args.Get(0).(*response_models.GenerationResponse)
	return resp, args.Error(1)
}

type mockAccounts struct{ mock.Mock }

func (m *mockAccounts) EnsureAccount(ctx context.Context, email, name string) (*response_models.AccountResponse, bool, error) {
	args := m.Called(ctx, email, name)
	resp, _ := args.Get(0).(*response_models.AccountResponse)
	return resp, args.Bool(1), args.Error(2)
}

func (m *mockAccounts) FindByEmail(ctx context.Context, email string) (*response_models.AccountResponse, error) {
	args := m.Called(ctx, email)
	resp, _ := args.Get(0).(*response_models.AccountResponse)
	return resp, args.Error(1)
}

func (m *mockAccounts) GetSubscription(ctx context.Context, accountID uuid.UUID) (*response_models.SubscriptionResponse, error) {
	args := m.Called(ctx, accountID)
	resp, _ := args.Get(0).(*response_models.SubscriptionResponse)
	return resp, args.Error(1)
}

func (m *mockAccounts) ListGenerations(ctx context.Context, accountID uuid.UUID, page, pageSize int) (*response_models.Page[response_models.GenerationHistoryItem], error) {
	args := m.Called(ctx, accountID, page, pageSize)
	resp, _ := args.Get(0).(*response_models.Page[response_models.GenerationHistoryItem])
	return resp, args.Error(1)
}

func (m *mockAccounts) Overview(ctx context.Context, accountID uuid.UUID, recent int) (*response_models.AccountOverviewResponse, error) {
	args := m.Called(ctx, accountID, recent)
	resp, _ := args.Get(0).(*response_models.AccountOverviewResponse)
	return resp, args.Error(1)
}

type mockAdmin struct{ mock.Mock }

func (m *mockAdmin) SetAdminFlag(ctx context.Context, actor *services.Principal, targetID uuid.UUID, value bool) (*response_models.AccountResponse, error) {
	args := m.Called(ctx, actor, targetID, value)
	resp, _ := args.Get(0).(*response_models.AccountResponse)
	return resp, args.Error(1)
}

func (m *mockAdmin) SetPlan(ctx context.Context, actor *services.Principal, targetID uuid.UUID, newPlan string) (*response_models.SubscriptionResponse, error) {
	args := m.Called(ctx, actor, targetID, newPlan)
	resp, _ := args.Get(0).(*response_models.SubscriptionResponse)
	return resp, args.Error(1)
}

func (m *mockAdmin) ListAudit(ctx context.Context, actor *services.Principal, targetID *uuid.UUID, page, pageSize int) (*response_models.Page[db_models.AuditEntry], error) {
	args := m.Called(ctx, actor, targetID, page, pageSize)
	resp, _ := args.Get(0).(*response_models.Page[db_models.AuditEntry])
	return resp, args.Error(1)
}

func (m *mockAdmin) ListSettlementConflicts(ctx context.Context, actor *services.Principal, limit int) ([]db_models.SettlementConflict, error) {
	args := m.Called(ctx, actor, limit)
	resp, _ := args.Get(0).([]db_models.SettlementConflict)
	return resp, args.Error(1)
}
