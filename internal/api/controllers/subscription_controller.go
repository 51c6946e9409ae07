package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"reelcraft/internal/services"
	"reelcraft/pkg/utils"
)

type SubscriptionController struct {
	accountService services.AccountServiceInterface
	planService    services.PlanServiceInterface
}

func NewSubscriptionController(accountService services.AccountServiceInterface, planService services.PlanServiceInterface) *SubscriptionController {
	return &SubscriptionController{
		accountService: accountService,
		planService:    planService,
	}
}

// ListPlans godoc
// @Summary List plans
// @Tags Plans
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /plans [get]
func (s *SubscriptionController) ListPlans(c *gin.Context) {
	utils.RespondSuccess(c, s.planService.GetPlans(), "Plans retrieved successfully")
}

// GetMySubscription godoc
// @Summary Get my subscription
// @Description units_limit and units_remaining are -1 on unlimited plans
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /me/subscription [get]
func (s *SubscriptionController) GetMySubscription(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	sub, err := s.accountService.GetSubscription(c.Request.Context(), principal.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, sub, "Subscription retrieved successfully")
}

// GetMyOverview godoc
// @Summary Subscription plus recent generations
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Param recent query int false "Number of recent generations" default(5)
// @Success 200 {object} utils.APIResponse
// @Router /me/overview [get]
func (s *SubscriptionController) GetMyOverview(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	recent, _ := strconv.Atoi(c.DefaultQuery("recent", "5"))

	overview, err := s.accountService.Overview(c.Request.Context(), principal.ID, recent)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, overview, "Overview retrieved successfully")
}
