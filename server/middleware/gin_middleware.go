package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"bostoninfo/notify"
)

// GinCORSMiddleware добавляет CORS заголовки
func GinCORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// GinGzipMiddleware включает сжатие ответов. XLSX уже сжат, его не трогаем.
func GinGzipMiddleware() gin.HandlerFunc {
	return gzip.Gzip(gzip.BestSpeed, gzip.WithExcludedExtensions([]string{".xlsx"}),
		gzip.WithExcludedPaths([]string{"/api/lookups/export"}))
}

// GinLoggerMiddleware пишет по одной структурированной записи на запрос
func GinLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status_code", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"body_size", c.Writer.Size(),
			"request_id", GetRequestIDFromGin(c),
		}
		if err := c.Errors.Last(); err != nil {
			attrs = append(attrs, "error", err.Error())
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("HTTP request", attrs...)
		case status >= http.StatusBadRequest:
			logger.Warn("HTTP request", attrs...)
		default:
			logger.Info("HTTP request", attrs...)
		}
	}
}

// GinRecoveryMiddleware перехватывает панику, логирует ее и сообщает в Slack
func GinRecoveryMiddleware(notifier notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			reqID := GetRequestIDFromGin(c)
			stackTrace := string(debug.Stack())

			slog.Error("Panic recovered",
				"panic", recovered,
				"stack", stackTrace,
				"request_id", reqID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)

			if notifier != nil {
				// Запрос мог быть уже отменен клиентом, уведомление шлем в своем контексте
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := notifier.Notify(ctx, fmt.Errorf("panic: %v", recovered), stackTrace); err != nil {
					slog.Warn("Failed to report panic", "error", err, "request_id", reqID)
				}
				cancel()
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, newErrorResponse("Internal server error", reqID))
		}()

		c.Next()
	}
}
