package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"reelcraft/internal/infra"
	"reelcraft/internal/models/db_models"
)

// SubscriptionRepository is only used by the ledger. Every mutating method is
// a single conditional UPDATE so concurrent callers cannot interleave a read
// and a write.
type SubscriptionRepository interface {
	Insert(ctx context.Context, sub *db_models.Subscription) error
	FindByAccountID(ctx context.Context, accountID uuid.UUID) (*db_models.Subscription, error)
	ConditionalDebit(ctx context.Context, accountID uuid.UUID, cost int64) (bool, error)
	ReplacePlan(ctx context.Context, accountID uuid.UUID, change PlanChange) (bool, error)
	AdvanceCycle(ctx context.Context, accountID uuid.UUID, expectedResetAt, cycleStart, resetAt int64) (bool, error)
	ListDueFree(ctx context.Context, now int64, limit int) ([]uuid.UUID, error)
}

type PlanChange struct {
	Plan          db_models.PlanCode
	UnitsLimit    int64
	PaymentStatus db_models.PaymentStatus
	CycleStart    int64
	ResetAt       int64
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Insert(ctx context.Context, sub *db_models.Subscription) error {
	return infra.Conn(ctx, r.db).Create(sub).Error
}

func (r *subscriptionRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := infra.Conn(ctx, r.db).First(&sub, "account_id = ?", accountID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// ConditionalDebit adds cost to units_used only if the result stays within
// units_limit. It reports false when the guard rejected the update or no
// subscription exists.
func (r *subscriptionRepository) ConditionalDebit(ctx context.Context, accountID uuid.UUID, cost int64) (bool, error) {
	res := infra.Conn(ctx, r.db).Model(&db_models.Subscription{}).
		Where("account_id = ? AND (units_limit < 0 OR units_used + ? <= units_limit)", accountID, cost).
		Update("units_used", gorm.Expr("units_used + ?", cost))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ReplacePlan sets the plan, limit and a fresh cycle in one statement.
func (r *subscriptionRepository) ReplacePlan(ctx context.Context, accountID uuid.UUID, change PlanChange) (bool, error) {
	res := infra.Conn(ctx, r.db).Model(&db_models.Subscription{}).
		Where("account_id = ?", accountID).
		Updates(map[string]interface{}{
			"plan":           change.Plan,
			"units_limit":    change.UnitsLimit,
			"units_used":     0,
			"payment_status": change.PaymentStatus,
			"cycle_start":    change.CycleStart,
			"reset_at":       change.ResetAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// AdvanceCycle zeroes usage and moves the cycle forward, but only for a free
// subscription whose reset_at still equals expectedResetAt. A second caller
// racing on the same boundary matches no row.
func (r *subscriptionRepository) AdvanceCycle(ctx context.Context, accountID uuid.UUID, expectedResetAt, cycleStart, resetAt int64) (bool, error) {
	res := infra.Conn(ctx, r.db).Model(&db_models.Subscription{}).
		Where("account_id = ? AND plan = ? AND reset_at = ?", accountID, db_models.PlanFree, expectedResetAt).
		Updates(map[string]interface{}{
			"units_used":  0,
			"cycle_start": cycleStart,
			"reset_at":    resetAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *subscriptionRepository) ListDueFree(ctx context.Context, now int64, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := infra.Conn(ctx, r.db).Model(&db_models.Subscription{}).
		Where("plan = ? AND reset_at <= ?", db_models.PlanFree, now).
		Order("reset_at ASC").
		Limit(limit).
		Pluck("account_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
