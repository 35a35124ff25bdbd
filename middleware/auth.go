package middleware

import (
	"net/http"
	"strings"

	"staybook/models"
	"staybook/utils"
	"staybook/utils/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWTAuthMiddleware validates the bearer token and stores the caller's
// models.Actor in the context. Tokens are minted by the identity service.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, apperror.CodeForbidden, "Missing or invalid Authorization header", "")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		actor, err := utils.ExtractActorFromToken(tokenString)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, apperror.CodeForbidden, "Invalid token", "")
			return
		}

		c.Set(utils.ActorContextKey, actor)
		if l, ok := c.Get("logger"); ok {
			if logger, ok := l.(*zap.Logger); ok {
				c.Set("logger", logger.With(zap.String("actorID", actor.UserID), zap.String("role", string(actor.Role))))
			}
		}
		c.Next()
	}
}

// ActorFrom returns the caller set by JWTAuthMiddleware.
func ActorFrom(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(utils.ActorContextKey)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}
