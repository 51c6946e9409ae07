package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"reelcraft/internal/models/db_models"
	"reelcraft/pkg/metrics"
	"reelcraft/pkg/utils"
)

// Decision is advisory. The ledger debit re-checks the balance.
type Decision struct {
	Allowed      bool
	Reason       utils.DenyReason
	Tier         db_models.LengthTier
	Cost         int64
	Unrestricted bool
	Subscription *db_models.Subscription
}

func (d *Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &utils.QuotaDeniedError{
		Reason: d.Reason,
		Plan:   string(d.Subscription.Plan),
		Tier:   string(d.Tier),
		Used:   d.Subscription.UnitsUsed,
		Limit:  d.Subscription.UnitsLimit,
		Cost:   d.Cost,
	}
}

type QuotaServiceInterface interface {
	Authorize(ctx context.Context, accountID uuid.UUID, tier db_models.LengthTier, unrestricted bool) (*Decision, error)
}

type QuotaService struct {
	ledger  LedgerServiceInterface
	metrics *metrics.Metrics
	logger  *logrus.Logger
}

func NewQuotaService(ledger LedgerServiceInterface, m *metrics.Metrics, logger *logrus.Logger) QuotaServiceInterface {
	return &QuotaService{ledger: ledger, metrics: m, logger: logger}
}

// Authorize refreshes the cycle first, then applies the tier gate and the
// balance check. Unrestricted accounts are always allowed.
func (q *QuotaService) Authorize(ctx context.Context, accountID uuid.UUID, tier db_models.LengthTier, unrestricted bool) (*Decision, error) {
	sub, err := q.ledger.RolloverIfDue(ctx, accountID)
	if err != nil {
		return nil, err
	}

	d := &Decision{
		Allowed:      true,
		Tier:         tier,
		Cost:         UnitCost(tier),
		Unrestricted: unrestricted,
		Subscription: sub,
	}
	if unrestricted {
		return d, nil
	}

	switch {
	case !TierAllowed(sub.Plan, tier):
		d.Allowed = false
		d.Reason = utils.DenyPlanNotEligible
	case !sub.Unlimited() && sub.UnitsUsed+d.Cost > sub.UnitsLimit:
		d.Allowed = false
		d.Reason = utils.DenyInsufficientUnits
	}

	if !d.Allowed {
		q.metrics.QuotaDenialsTotal.WithLabelValues(string(d.Reason)).Inc()
		q.logger.WithFields(logrus.Fields{
			"account_id": accountID,
			"plan":       sub.Plan,
			"tier":       tier,
			"units_used": sub.UnitsUsed,
			"limit":      sub.UnitsLimit,
			"reason":     d.Reason,
		}).Warn("generation denied")
	}
	return d, nil
}
