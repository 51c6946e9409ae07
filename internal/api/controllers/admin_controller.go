package controllers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"reelcraft/internal/models/request_models"
	"reelcraft/internal/services"
	"reelcraft/pkg/utils"
)

const defaultConflictLimit = 100

type AdminController struct {
	adminService services.AdminServiceInterface
}

func NewAdminController(adminService services.AdminServiceInterface) *AdminController {
	return &AdminController{adminService: adminService}
}

// SetAdminFlag godoc
// @Summary Grant or remove the admin flag
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.SetAdminFlagRequest true "Target and flag value"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /admin/accounts/admin-flag [post]
func (a *AdminController) SetAdminFlag(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req request_models.SetAdminFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleServiceError(c, fmt.Errorf("%w: %v", utils.ErrValidationFailed, err))
		return
	}

	account, err := a.adminService.SetAdminFlag(c.Request.Context(), principal, req.TargetID, *req.Value)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, account, "Admin flag updated")
}

// SetPlan godoc
// @Summary Move an account to another plan
// @Description Resets usage and starts a new cycle
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.SetPlanRequest true "Target and plan"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /admin/accounts/plan [post]
func (a *AdminController) SetPlan(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req request_models.SetPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleServiceError(c, fmt.Errorf("%w: %v", utils.ErrValidationFailed, err))
		return
	}

	sub, err := a.adminService.SetPlan(c.Request.Context(), principal, req.TargetID, req.NewPlan)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, sub, "Plan updated")
}

// ListAudit godoc
// @Summary List audit entries
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param target_id query string false "Filter by target account"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse
// @Router /admin/audit [get]
func (a *AdminController) ListAudit(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var q request_models.AuditQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.HandleServiceError(c, fmt.Errorf("%w: %v", utils.ErrValidationFailed, err))
		return
	}
	if q.Page == 0 {
		q.Page = defaultPage
	}
	if q.PageSize == 0 {
		q.PageSize = defaultPageSize
	}
	var target *uuid.UUID
	if q.TargetID != "" {
		id, err := uuid.Parse(q.TargetID)
		if err != nil {
			utils.HandleServiceError(c, fmt.Errorf("%w: target_id", utils.ErrValidationFailed))
			return
		}
		target = &id
	}

	entries, err := a.adminService.ListAudit(c.Request.Context(), principal, target, q.Page, q.PageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, entries, "Audit entries retrieved successfully")
}

// ListSettlementConflicts godoc
// @Summary List unresolved settlement conflicts
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max rows (1-500)" default(100)
// @Success 200 {object} utils.APIResponse
// @Router /admin/settlement-conflicts [get]
func (a *AdminController) ListSettlementConflicts(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var q request_models.ConflictQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.HandleServiceError(c, fmt.Errorf("%w: %v", utils.ErrValidationFailed, err))
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultConflictLimit
	}

	conflicts, err := a.adminService.ListSettlementConflicts(c.Request.Context(), principal, q.Limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, conflicts, "Settlement conflicts retrieved successfully")
}
