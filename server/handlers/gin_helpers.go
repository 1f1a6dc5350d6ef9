package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "bostoninfo/server/errors"
	"bostoninfo/server/middleware"
)

// SendJSONResponse отправляет JSON ответ через Gin context
func SendJSONResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// SendError отправляет ошибку через общий обработчик middleware
func SendError(c *gin.Context, err error) {
	middleware.HandleGinError(c, err)
}

// queryInt читает целый query-параметр. Пустое значение дает defaultValue.
func queryInt(c *gin.Context, name string, defaultValue int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, apperrors.NewValidationError("query parameter "+name+" must be a non-negative integer", err)
	}
	return value, nil
}
