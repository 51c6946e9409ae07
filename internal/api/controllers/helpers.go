package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"reelcraft/internal/models/request_models"
	"reelcraft/internal/services"
	"reelcraft/pkg/middleware"
	"reelcraft/pkg/utils"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
)

func principalOrAbort(c *gin.Context) (*services.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	return p, true
}

func bindPage(c *gin.Context) (int, int, bool) {
	var q request_models.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.HandleServiceError(c, fmt.Errorf("%w: %v", utils.ErrValidationFailed, err))
		return 0, 0, false
	}
	if q.Page == 0 {
		q.Page = defaultPage
	}
	if q.PageSize == 0 {
		q.PageSize = defaultPageSize
	}
	return q.Page, q.PageSize, true
}
