package controllers

import (
	"github.com/gin-gonic/gin"
	"reelcraft/internal/services"
	"reelcraft/pkg/utils"
)

type SessionController struct {
	identityService services.IdentityServiceInterface
}

func NewSessionController(identityService services.IdentityServiceInterface) *SessionController {
	return &SessionController{identityService: identityService}
}

// RevokeSession godoc
// @Summary Revoke the current session token
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /sessions/revoke [post]
func (s *SessionController) RevokeSession(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	if err := s.identityService.RevokeSession(c.Request.Context(), principal); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Session revoked")
}
