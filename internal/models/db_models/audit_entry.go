package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditSetAdminFlag AuditAction = "set_admin_flag"
	AuditSetPlan      AuditAction = "set_plan"
)

type AuditEntry struct {
	BaseModel
	ActorID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"actor_id"`
	TargetID uuid.UUID      `gorm:"type:uuid;not null;index" json:"target_id"`
	Action   AuditAction    `gorm:"type:varchar(32);not null" json:"action"`
	Before   datatypes.JSON `json:"before"`
	After    datatypes.JSON `json:"after"`
	TraceID  string         `gorm:"type:varchar(64)" json:"trace_id"`
}
