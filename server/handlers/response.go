package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// JSONResponse стандартная структура JSON ответа
type JSONResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// PaginatedResponse страница списка
type PaginatedResponse struct {
	Items  interface{} `json:"items"`
	Count  int         `json:"count"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// WriteJSONResponse записывает ответ в стандартной обертке
func WriteJSONResponse(c *gin.Context, data interface{}, statusCode int) {
	c.JSON(statusCode, JSONResponse{
		Success:   statusCode >= 200 && statusCode < 300,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// WriteJSONPaginatedResponse записывает страницу списка
func WriteJSONPaginatedResponse(c *gin.Context, items interface{}, count, limit, offset int) {
	WriteJSONResponse(c, PaginatedResponse{
		Items:  items,
		Count:  count,
		Limit:  limit,
		Offset: offset,
	}, http.StatusOK)
}
