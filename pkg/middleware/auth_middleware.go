package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"reelcraft/internal/services"
	"reelcraft/pkg/utils"
)

const principalKey = "principal"

// AuthMiddleware resolves the bearer credential (session token or sk_ key)
// into a Principal and stores it on the context.
func AuthMiddleware(identity services.IdentityServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		principal, err := identity.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, utils.ErrUnauthenticated) {
				utils.RespondError(c, http.StatusUnauthorized, "Invalid, expired or revoked credential")
			} else {
				utils.HandleServiceError(c, err)
			}
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Set("user_id", principal.ID.String())
		c.Next()
	}
}

// AdminMiddleware lets the request through only for principals holding the
// admin capability.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}
		if err := services.RequireCapability(principal, services.CapabilityAdmin); err != nil {
			utils.HandleServiceError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

func CurrentPrincipal(c *gin.Context) (*services.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*services.Principal)
	return p, ok && p != nil
}
