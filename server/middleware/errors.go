package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "bostoninfo/server/errors"
)

// Глобальный сборщик метрик ошибок
var globalErrorMetrics = apperrors.NewErrorMetricsCollector()

// GetErrorMetrics возвращает глобальный сборщик метрик ошибок
func GetErrorMetrics() *apperrors.ErrorMetricsCollector {
	return globalErrorMetrics
}

// ErrorResponse структура ответа об ошибке
type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id,omitempty"`
}

func newErrorResponse(message, requestID string) ErrorResponse {
	return ErrorResponse{
		Error:     message,
		Timestamp: time.Now().Format(time.RFC3339),
		RequestID: requestID,
	}
}

// HandleGinError пишет JSON ошибку со статусом из AppError.
// Прочие ошибки отдаются как 500 без деталей.
func HandleGinError(c *gin.Context, err error) {
	reqID := GetRequestIDFromGin(c)
	endpoint := c.FullPath()
	if endpoint == "" {
		endpoint = c.Request.URL.Path
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewInternalError("unhandled error", err)
	}

	GetErrorMetrics().RecordError(appErr, endpoint, reqID)

	slog.Error("HTTP error",
		"error", appErr.Unwrap(),
		"user_message", appErr.UserMessage(),
		"context", appErr.GetContext(),
		"status_code", appErr.StatusCode(),
		"request_id", reqID,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)

	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.StatusCode(), newErrorResponse(appErr.UserMessage(), reqID))
}

// WriteJSONError пишет JSON ошибку с произвольным статусом
func WriteJSONError(c *gin.Context, message string, statusCode int) {
	reqID := GetRequestIDFromGin(c)
	if statusCode >= http.StatusInternalServerError {
		slog.Error("HTTP error", "error", message, "status_code", statusCode, "request_id", reqID)
	}
	c.AbortWithStatusJSON(statusCode, newErrorResponse(message, reqID))
}
