package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bostoninfo/server/middleware"
)

// ErrorMetricsHandler обработчик для получения метрик ошибок
type ErrorMetricsHandler struct{}

// NewErrorMetricsHandler создает новый обработчик метрик ошибок
func NewErrorMetricsHandler() *ErrorMetricsHandler {
	return &ErrorMetricsHandler{}
}

// GetErrorMetrics возвращает метрики ошибок
// @Summary Метрики ошибок API
// @Tags monitoring
// @Produce json
// @Success 200 {object} JSONResponse
// @Router /api/errors/metrics [get]
func (h *ErrorMetricsHandler) GetErrorMetrics(c *gin.Context) {
	WriteJSONResponse(c, middleware.GetErrorMetrics().Snapshot(), http.StatusOK)
}

// ResetErrorMetrics сбрасывает метрики ошибок
// @Summary Сброс метрик ошибок
// @Tags monitoring
// @Success 204
// @Router /api/errors/metrics [delete]
func (h *ErrorMetricsHandler) ResetErrorMetrics(c *gin.Context) {
	middleware.GetErrorMetrics().Reset()
	c.Status(http.StatusNoContent)
}
