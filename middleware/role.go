package middleware

import (
	"net/http"

	"staybook/models"
	"staybook/utils"
	"staybook/utils/apperror"

	"github.com/gin-gonic/gin"
)

// RequireRoles lets the request through only when the authenticated actor
// holds one of the given roles. It must run after JWTAuthMiddleware.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, apperror.CodeForbidden, "Authentication required", "")
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		utils.JSONError(c, http.StatusForbidden, apperror.CodeForbidden, "Insufficient role for this resource", "")
	}
}
