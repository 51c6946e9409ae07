package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"reelcraft/internal/infra"
	"reelcraft/internal/models/db_models"
	"reelcraft/internal/models/response_models"
	"reelcraft/internal/repositories"
	"reelcraft/pkg/utils"
)

type AdminServiceInterface interface {
	SetAdminFlag(ctx context.Context, actor *Principal, targetID uuid.UUID, value bool) (*response_models.AccountResponse, error)
	SetPlan(ctx context.Context, actor *Principal, targetID uuid.UUID, newPlan string) (*response_models.SubscriptionResponse, error)
	ListAudit(ctx context.Context, actor *Principal, targetID *uuid.UUID, page, pageSize int) (*response_models.Page[db_models.AuditEntry], error)
	ListSettlementConflicts(ctx context.Context, actor *Principal, limit int) ([]db_models.SettlementConflict, error)
}

type AdminService struct {
	tx         infra.Transactor
	accounts   repositories.AccountRepository
	audit      repositories.AuditRepository
	ledger     LedgerServiceInterface
	settlement SettlementServiceInterface
	logger     *logrus.Logger
}

func NewAdminService(
	tx infra.Transactor,
	accounts repositories.AccountRepository,
	audit repositories.AuditRepository,
	ledger LedgerServiceInterface,
	settlement SettlementServiceInterface,
	logger *logrus.Logger,
) AdminServiceInterface {
	return &AdminService{
		tx:         tx,
		accounts:   accounts,
		audit:      audit,
		ledger:     ledger,
		settlement: settlement,
		logger:     logger,
	}
}

// SetAdminFlag is the only path that changes Account.IsAdmin. An admin may
// not clear their own flag here.
func (a *AdminService) SetAdminFlag(ctx context.Context, actor *Principal, targetID uuid.UUID, value bool) (*response_models.AccountResponse, error) {
	if err := RequireCapability(actor, CapabilityAdmin); err != nil {
		return nil, err
	}
	if actor.ID == targetID && !value {
		return nil, utils.ErrSelfDemotionBlocked
	}

	var target *db_models.Account
	err := a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		target, err = a.accounts.FindById(ctx, targetID)
		if err != nil {
			return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		if target == nil {
			return utils.ErrAccountNotFound
		}
		before := target.IsAdmin

		if _, err := a.accounts.UpdateAdminFlag(ctx, targetID, value); err != nil {
			return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		target.IsAdmin = value

		return a.writeAudit(ctx, actor, targetID, db_models.AuditSetAdminFlag,
			map[string]any{"is_admin": before},
			map[string]any{"is_admin": value})
	})
	if err != nil {
		return nil, err
	}

	a.logger.WithFields(logrus.Fields{
		"actor_id":  actor.ID,
		"target_id": targetID,
		"is_admin":  value,
	}).Info("admin flag changed")
	return toAccountResponse(target), nil
}

// SetPlan moves the target onto newPlan with a fresh cycle.
func (a *AdminService) SetPlan(ctx context.Context, actor *Principal, targetID uuid.UUID, newPlan string) (*response_models.SubscriptionResponse, error) {
	if err := RequireCapability(actor, CapabilityAdmin); err != nil {
		return nil, err
	}
	plan, err := ParsePlan(newPlan)
	if err != nil {
		return nil, err
	}

	var sub *db_models.Subscription
	err = a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		before, err := a.ledger.GetSubscription(ctx, targetID)
		if err != nil {
			return err
		}
		sub, err = a.ledger.ApplyPlanChange(ctx, targetID, plan)
		if err != nil {
			return err
		}
		return a.writeAudit(ctx, actor, targetID, db_models.AuditSetPlan, planSnapshot(before), planSnapshot(sub))
	})
	if err != nil {
		return nil, err
	}

	a.logger.WithFields(logrus.Fields{
		"actor_id":  actor.ID,
		"target_id": targetID,
		"plan":      plan,
	}).Info("plan overridden by admin")
	resp := ToSubscriptionResponse(sub)
	return &resp, nil
}

func (a *AdminService) ListAudit(ctx context.Context, actor *Principal, targetID *uuid.UUID, page, pageSize int) (*response_models.Page[db_models.AuditEntry], error) {
	if err := RequireCapability(actor, CapabilityAdmin); err != nil {
		return nil, err
	}
	offset, err := pageOffset(page, pageSize)
	if err != nil {
		return nil, err
	}
	entries, total, err := a.audit.List(ctx, targetID, offset, pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return &response_models.Page[db_models.AuditEntry]{Items: entries, Page: page, PageSize: pageSize, Total: total}, nil
}

func (a *AdminService) ListSettlementConflicts(ctx context.Context, actor *Principal, limit int) ([]db_models.SettlementConflict, error) {
	if err := RequireCapability(actor, CapabilityAdmin); err != nil {
		return nil, err
	}
	return a.settlement.ListConflicts(ctx, limit)
}

func (a *AdminService) writeAudit(ctx context.Context, actor *Principal, targetID uuid.UUID, action db_models.AuditAction, before, after any) error {
	beforeJSON, err := jsonRaw(before)
	if err != nil {
		return err
	}
	afterJSON, err := jsonRaw(after)
	if err != nil {
		return err
	}
	entry := &db_models.AuditEntry{
		ActorID:  actor.ID,
		TargetID: targetID,
		Action:   action,
		Before:   beforeJSON,
		After:    afterJSON,
		TraceID:  utils.TraceIDFromContext(ctx),
	}
	if err := a.audit.Create(ctx, entry); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func planSnapshot(sub *db_models.Subscription) map[string]any {
	return map[string]any{
		"plan":           sub.Plan,
		"units_used":     sub.UnitsUsed,
		"units_limit":    sub.UnitsLimit,
		"payment_status": sub.PaymentStatus,
		"reset_at":       sub.ResetAt,
	}
}
