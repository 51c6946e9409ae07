package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"reelcraft/internal/infra"
	"reelcraft/internal/models/db_models"
	"reelcraft/internal/repositories"
	"reelcraft/pkg/utils"
)

type CyclePhase string

const (
	PhaseWithinCycle    CyclePhase = "within_cycle"
	PhaseDueForRollover CyclePhase = "due_for_rollover"
)

// PhaseOf derives the cycle phase from the clock. Only free subscriptions
// roll over on their own.
func PhaseOf(sub *db_models.Subscription, now time.Time) CyclePhase {
	if sub.Plan == db_models.PlanFree && now.Unix() >= sub.ResetAt {
		return PhaseDueForRollover
	}
	return PhaseWithinCycle
}

// LedgerServiceInterface is the only code path that mutates subscriptions.
type LedgerServiceInterface interface {
	GetSubscription(ctx context.Context, accountID uuid.UUID) (*db_models.Subscription, error)
	OpenSubscription(ctx context.Context, accountID uuid.UUID) (*db_models.Subscription, error)
	ApplyPlanChange(ctx context.Context, accountID uuid.UUID, plan db_models.PlanCode) (*db_models.Subscription, error)
	Debit(ctx context.Context, accountID uuid.UUID, cost int64) (*db_models.Subscription, error)
	RolloverIfDue(ctx context.Context, accountID uuid.UUID) (*db_models.Subscription, error)
	SweepRollovers(ctx context.Context, batchSize int) (int, error)
}

type LedgerService struct {
	subs   repositories.SubscriptionRepository
	tx     infra.Transactor
	clock  utils.Clock
	logger *logrus.Logger
}

func NewLedgerService(
	subs repositories.SubscriptionRepository,
	tx infra.Transactor,
	clock utils.Clock,
	logger *logrus.Logger,
) LedgerServiceInterface {
	return &LedgerService{subs: subs, tx: tx, clock: clock, logger: logger}
}

func (l *LedgerService) GetSubscription(ctx context.Context, accountID uuid.UUID) (*db_models.Subscription, error) {
	sub, err := l.subs.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if sub == nil {
		return nil, utils.ErrSubscriptionNotFound
	}
	return sub, nil
}

// OpenSubscription creates the free-plan record for a new account.
func (l *LedgerService) OpenSubscription(ctx context.Context, accountID uuid.UUID) (*db_models.Subscription, error) {
	limit, err := PlanLimit(db_models.PlanFree)
	if err != nil {
		return nil, err
	}
	now := l.clock.Now()
	sub := &db_models.Subscription{
		AccountID:     accountID,
		Plan:          db_models.PlanFree,
		UnitsLimit:    limit,
		CycleStart:    now.Unix(),
		ResetAt:       now.Add(CycleLength).Unix(),
		PaymentStatus: PaymentStatusFor(db_models.PlanFree),
	}
	if err := l.subs.Insert(ctx, sub); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	return sub, nil
}

// ApplyPlanChange replaces plan, limit, counters and cycle window in one
// statement and reads the result back inside the same transaction.
func (l *LedgerService) ApplyPlanChange(ctx context.Context, accountID uuid.UUID, plan db_models.PlanCode) (*db_models.Subscription, error) {
	limit, err := PlanLimit(plan)
	if err != nil {
		return nil, err
	}
	now := l.clock.Now()
	change := repositories.PlanChange{
		Plan:          plan,
		UnitsLimit:    limit,
		PaymentStatus: PaymentStatusFor(plan),
		CycleStart:    now.Unix(),
		ResetAt:       now.Add(CycleLength).Unix(),
	}

	var sub *db_models.Subscription
	err = l.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ok, err := l.subs.ReplacePlan(ctx, accountID, change)
		if err != nil {
			return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		if !ok {
			return utils.ErrSubscriptionNotFound
		}
		sub, err = l.GetSubscription(ctx, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"account_id": accountID,
		"plan":       plan,
		"limit":      limit,
	}).Info("plan changed")
	return sub, nil
}

// Debit is the authoritative quota check: the increment and its guard are one
// conditional UPDATE, so concurrent debits for an account serialize on the row.
func (l *LedgerService) Debit(ctx context.Context, accountID uuid.UUID, cost int64) (*db_models.Subscription, error) {
	if cost <= 0 {
		return nil, fmt.Errorf("%w: debit cost must be positive, got %d", utils.ErrValidationFailed, cost)
	}

	var sub *db_models.Subscription
	err := l.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ok, err := l.subs.ConditionalDebit(ctx, accountID, cost)
		if err != nil {
			return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		current, err := l.GetSubscription(ctx, accountID)
		if err != nil {
			return err
		}
		if !ok {
			return &utils.QuotaDeniedError{
				Reason: utils.DenyInsufficientUnits,
				Plan:   string(current.Plan),
				Used:   current.UnitsUsed,
				Limit:  current.UnitsLimit,
				Cost:   cost,
			}
		}
		sub = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// RolloverIfDue starts a new cycle for a free subscription whose reset time
// has passed. The new reset time is the first cycle boundary after now, and
// the update is conditioned on the old reset time, so repeated or concurrent
// calls advance the cycle at most once.
func (l *LedgerService) RolloverIfDue(ctx context.Context, accountID uuid.UUID) (*db_models.Subscription, error) {
	sub, err := l.GetSubscription(ctx, accountID)
	if err != nil {
		return nil, err
	}
	now := l.clock.Now()
	if PhaseOf(sub, now) != PhaseDueForRollover {
		return sub, nil
	}

	cycle := int64(CycleLength / time.Second)
	elapsed := now.Unix() - sub.ResetAt
	resetAt := sub.ResetAt + (elapsed/cycle+1)*cycle
	cycleStart := resetAt - cycle

	advanced, err := l.subs.AdvanceCycle(ctx, accountID, sub.ResetAt, cycleStart, resetAt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if advanced {
		l.logger.WithFields(logrus.Fields{
			"account_id": accountID,
			"units_used": sub.UnitsUsed,
			"next_reset": utils.FormatUnixRFC3339(resetAt),
			"prev_reset": utils.FormatUnixRFC3339(sub.ResetAt),
		}).Info("free cycle rolled over")
	}
	return l.GetSubscription(ctx, accountID)
}

// SweepRollovers rolls over every due free subscription, batchSize at a time,
// and returns how many were processed.
func (l *LedgerService) SweepRollovers(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	processed := 0
	for {
		ids, err := l.subs.ListDueFree(ctx, l.clock.Now().Unix(), batchSize)
		if err != nil {
			return processed, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		for _, id := range ids {
			if _, err := l.RolloverIfDue(ctx, id); err != nil {
				return processed, fmt.Errorf("rollover %s: %w", id, err)
			}
			processed++
		}
		if len(ids) < batchSize {
			return processed, nil
		}
	}
}
