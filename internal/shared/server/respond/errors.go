package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/apperr"
	"jobboard-backend/internal/shared/telemetry"
)

// ErrorResponse is the standardized failure envelope.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	logError(c, status, code, message, nil)
	c.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Code:    code,
		Message: message,
		Details: details,
	})
}

// Failure maps a service error onto the envelope. Unclassified errors become
// a 500 with a generic message; the cause is logged, never returned.
func Failure(c *gin.Context, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		logError(c, status, code, "Server error", err)
		c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: "Server error"})
		return
	}

	var details interface{}
	if issues := apperr.Issues(err); len(issues) > 0 {
		details = issues
	}
	Error(c, status, code, err.Error(), details)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, apperr.ErrAlreadyExists):
		return http.StatusConflict, "already_exists"
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func logError(c *gin.Context, status int, code, message string, cause error) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if cause != nil {
		fields["error"] = cause.Error()
	}
	telemetry.Error("http.error", fields)
}
