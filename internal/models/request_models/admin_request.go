package request_models

import "github.com/google/uuid"

type SetAdminFlagRequest struct {
	TargetID uuid.UUID `json:"target_id" binding:"required"`
	Value    *bool     `json:"value" binding:"required"`
}

type SetPlanRequest struct {
	TargetID uuid.UUID `json:"target_id" binding:"required"`
	NewPlan  string    `json:"new_plan" binding:"required,oneof=free pro elite"`
}

type AuditQuery struct {
	TargetID string `form:"target_id" binding:"omitempty,uuid"`
	PageQuery
}

type ConflictQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}
