package controllers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"reelcraft/internal/models/request_models"
	"reelcraft/internal/services"
	"reelcraft/pkg/utils"
)

type GenerationController struct {
	generationService services.GenerationServiceInterface
	accountService    services.AccountServiceInterface
}

func NewGenerationController(generationService services.GenerationServiceInterface, accountService services.AccountServiceInterface) *GenerationController {
	return &GenerationController{
		generationService: generationService,
		accountService:    accountService,
	}
}

// CreateGeneration godoc
// @Summary Request a video generation
// @Description Checks the caller's quota, hands the job to the Render Backend and records the charge
// @Tags Generations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.GenerationRequest true "Generation request"
// @Success 202 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /generations [post]
func (g *GenerationController) CreateGeneration(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req request_models.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleServiceError(c, fmt.Errorf("%w: %v", utils.ErrValidationFailed, err))
		return
	}

	result, err := g.generationService.Generate(c.Request.Context(), principal, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondAccepted(c, result, "Generation accepted")
}

// ListMyGenerations godoc
// @Summary List my generations
// @Tags Generations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse
// @Router /me/generations [get]
func (g *GenerationController) ListMyGenerations(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	page, pageSize, ok := bindPage(c)
	if !ok {
		return
	}

	result, err := g.accountService.ListGenerations(c.Request.Context(), principal.ID, page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Generations retrieved successfully")
}
