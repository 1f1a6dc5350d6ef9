package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bostoninfo/recollect"
)

// Pinger проверка доступности базы
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse состояние сервиса
type HealthResponse struct {
	Status    string                `json:"status"`
	Database  string                `json:"database"`
	Cache     *recollect.CacheStats `json:"cache,omitempty"`
	Uptime    string                `json:"uptime"`
	Timestamp string                `json:"timestamp"`
}

// HealthHandler проверка здоровья
type HealthHandler struct {
	db        Pinger
	cache     *recollect.Cache
	startTime time.Time
}

// NewHealthHandler создает обработчик здоровья. cache может быть nil.
func NewHealthHandler(db Pinger, cache *recollect.Cache) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, startTime: time.Now()}
}

// HandleHealth отвечает 200, если база доступна, иначе 503
// @Summary Проверка здоровья
// @Tags monitoring
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) HandleHealth(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Database:  "ok",
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK

	if h.db == nil {
		resp.Database = "disabled"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	if h.cache != nil {
		resp.Cache = h.cache.GetStats()
	}

	c.JSON(status, resp)
}
