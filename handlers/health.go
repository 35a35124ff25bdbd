package handlers

import (
	"net/http"

	"staybook/utils"

	"github.com/gin-gonic/gin"
)

// Health reports the last dependency snapshot taken by the health monitor.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"message":      "staybook booking engine",
		"dependencies": utils.GetHealthStatus(),
	})
}
