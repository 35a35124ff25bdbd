package handlers

import (
	"net/http"

	"staybook/middleware"
	"staybook/models"
	"staybook/utils"
	"staybook/utils/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request-scoped logger or falls back to the global one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

// requireActor returns the authenticated caller or aborts the request.
func requireActor(c *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, apperror.CodeForbidden, "Authentication required", "")
		return models.Actor{}, false
	}
	return actor, true
}

// bindJSON decodes the body into req and writes a 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid request body", err.Error())
		return false
	}
	return true
}
