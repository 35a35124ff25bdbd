package utils

import (
	"errors"
	"net/http"

	"staybook/utils/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Code:    string(apperror.CodeInternal),
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, code apperror.Code, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("code", string(code)), zap.String("details", details))
	c.AbortWithStatusJSON(status, ErrorResponse{Code: string(code), Message: message, Details: details})
}

// RespondError maps err onto the error taxonomy and writes it. Errors outside
// the taxonomy are logged in full and reported as a generic internal failure.
func RespondError(c *gin.Context, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.Code != apperror.CodeInternal {
		JSONError(c, apperror.HTTPStatus(appErr.Code), appErr.Code, appErr.Message, "")
		return
	}

	GetLogger().Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Code:    string(apperror.CodeInternal),
		Message: "Internal Server Error",
	})
}
