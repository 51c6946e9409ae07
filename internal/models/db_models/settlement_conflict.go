package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SettlementConflict records a render that succeeded but could not be
// debited. Resolved by an operator.
type SettlementConflict struct {
	BaseModel
	AccountID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"account_id"`
	TraceID        string         `gorm:"type:varchar(64)" json:"trace_id"`
	UnitCost       int64          `gorm:"not null" json:"unit_cost"`
	Reason         string         `json:"reason"`
	Request        datatypes.JSON `json:"request"`
	Artifacts      datatypes.JSON `json:"artifacts"`
	ResolvedAt     *int64         `gorm:"index" json:"resolved_at,omitempty"`
	ResolutionNote string         `json:"resolution_note,omitempty"`
}
