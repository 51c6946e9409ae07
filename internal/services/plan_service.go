package services

import (
	"fmt"
	"time"

	"reelcraft/internal/models/db_models"
	"reelcraft/internal/models/response_models"
	"reelcraft/pkg/utils"
)

// CycleLength is the usage window for every plan.
const CycleLength = 30 * 24 * time.Hour

type planSpec struct {
	limit int64
	tiers []db_models.LengthTier
}

// The catalog is the only place plan limits and tier gates are defined.
var catalog = map[db_models.PlanCode]planSpec{
	db_models.PlanFree: {
		limit: 3,
		tiers: []db_models.LengthTier{db_models.TierDefault},
	},
	db_models.PlanPro: {
		limit: 45,
		tiers: []db_models.LengthTier{db_models.TierDefault, db_models.TierMedium, db_models.TierLong},
	},
	db_models.PlanElite: {
		limit: db_models.UnlimitedUnits,
		tiers: []db_models.LengthTier{db_models.TierDefault, db_models.TierMedium, db_models.TierLong},
	},
}

var planOrder = []db_models.PlanCode{db_models.PlanFree, db_models.PlanPro, db_models.PlanElite}

var tierCosts = map[db_models.LengthTier]int64{
	db_models.TierDefault: 1,
	db_models.TierMedium:  2,
	db_models.TierLong:    3,
}

func ParsePlan(s string) (db_models.PlanCode, error) {
	p := db_models.PlanCode(s)
	if _, ok := catalog[p]; !ok {
		return "", fmt.Errorf("%w: %q", utils.ErrUnknownPlan, s)
	}
	return p, nil
}

// ParseLengthTier treats an empty value as the default tier.
func ParseLengthTier(s string) (db_models.LengthTier, error) {
	if s == "" {
		return db_models.TierDefault, nil
	}
	t := db_models.LengthTier(s)
	if _, ok := tierCosts[t]; !ok {
		return "", fmt.Errorf("%w: unknown length tier %q", utils.ErrValidationFailed, s)
	}
	return t, nil
}

// PlanLimit returns units per cycle, or db_models.UnlimitedUnits.
func PlanLimit(plan db_models.PlanCode) (int64, error) {
	spec, ok := catalog[plan]
	if !ok {
		return 0, fmt.Errorf("%w: %q", utils.ErrUnknownPlan, plan)
	}
	return spec.limit, nil
}

// UnitCost is used both when authorizing and when settling.
func UnitCost(tier db_models.LengthTier) int64 {
	if cost, ok := tierCosts[tier]; ok {
		return cost
	}
	return tierCosts[db_models.TierDefault]
}

func TierAllowed(plan db_models.PlanCode, tier db_models.LengthTier) bool {
	for _, t := range catalog[plan].tiers {
		if t == tier {
			return true
		}
	}
	return false
}

func PaymentStatusFor(plan db_models.PlanCode) db_models.PaymentStatus {
	if plan == db_models.PlanFree {
		return db_models.PaymentInactive
	}
	return db_models.PaymentActive
}

type PlanServiceInterface interface {
	GetPlans() []response_models.PlanResponse
}

type PlanService struct{}

func NewPlanService() PlanServiceInterface {
	return &PlanService{}
}

func (p *PlanService) GetPlans() []response_models.PlanResponse {
	plans := make([]response_models.PlanResponse, 0, len(planOrder))
	for _, code := range planOrder {
		spec := catalog[code]
		tiers := make([]string, 0, len(spec.tiers))
		for _, t := range spec.tiers {
			tiers = append(tiers, string(t))
		}
		plans = append(plans, response_models.PlanResponse{
			Code:            string(code),
			UnitsPerCycle:   spec.limit,
			Unlimited:       spec.limit < 0,
			CycleDays:       int(CycleLength / (24 * time.Hour)),
			LengthTiers:     tiers,
			AutoRenewsCycle: code == db_models.PlanFree,
		})
	}
	return plans
}
