package db_models

import "github.com/google/uuid"

type PlanCode string

const (
	PlanFree  PlanCode = "free"
	PlanPro   PlanCode = "pro"
	PlanElite PlanCode = "elite"
)

type PaymentStatus string

const (
	PaymentActive   PaymentStatus = "active"
	PaymentInactive PaymentStatus = "inactive"
)

type LengthTier string

const (
	TierDefault LengthTier = "default"
	TierMedium  LengthTier = "medium"
	TierLong    LengthTier = "long"
)

// UnlimitedUnits is stored in UnitsLimit for plans without a cap.
const UnlimitedUnits int64 = -1

// Subscription holds one account's usage counters for the current cycle.
// Mutated only through the ledger.
type Subscription struct {
	BaseModel
	AccountID     uuid.UUID     `gorm:"type:uuid;uniqueIndex;not null" json:"account_id"`
	Plan          PlanCode      `gorm:"type:varchar(16);not null;index" json:"plan"`
	UnitsUsed     int64         `gorm:"not null" json:"units_used"`
	UnitsLimit    int64         `gorm:"not null" json:"units_limit"`
	CycleStart    int64         `gorm:"not null" json:"cycle_start"`
	ResetAt       int64         `gorm:"not null;index" json:"reset_at"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(16);not null" json:"payment_status"`
}

func (s *Subscription) Unlimited() bool {
	return s.UnitsLimit < 0
}

// UnitsRemaining is -1 for unlimited plans.
func (s *Subscription) UnitsRemaining() int64 {
	if s.Unlimited() {
		return UnlimitedUnits
	}
	if r := s.UnitsLimit - s.UnitsUsed; r > 0 {
		return r
	}
	return 0
}
