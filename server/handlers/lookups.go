package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bostoninfo/database"
	apperrors "bostoninfo/server/errors"
)

// LookupStore журнал разрешения адресов
type LookupStore interface {
	ListLookups(ctx context.Context, filter database.LookupFilter) ([]*database.LookupRecord, error)
	GetLookupStats(ctx context.Context) (*database.LookupStats, error)
	ExportLookupsToExcel(ctx context.Context, w io.Writer, filter database.LookupFilter) (int, error)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// LookupHandler чтение журнала разрешения адресов
type LookupHandler struct {
	store LookupStore
}

// NewLookupHandler создает обработчик журнала
func NewLookupHandler(store LookupStore) *LookupHandler {
	return &LookupHandler{store: store}
}

// HandleList возвращает записи журнала, новые первыми
// @Summary Журнал разрешения адресов
// @Tags lookups
// @Produce json
// @Param outcome query string false "single, ambiguous, not_found или error"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} JSONResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /api/lookups [get]
func (h *LookupHandler) HandleList(c *gin.Context) {
	filter, err := lookupFilterFromQuery(c)
	if err != nil {
		SendError(c, err)
		return
	}

	records, err := h.store.ListLookups(c.Request.Context(), filter)
	if err != nil {
		SendError(c, storeError(err, "failed to list lookups"))
		return
	}
	if records == nil {
		records = []*database.LookupRecord{}
	}

	WriteJSONPaginatedResponse(c, records, len(records), filter.Limit, filter.Offset)
}

// HandleStats возвращает агрегаты журнала
// @Summary Статистика журнала
// @Tags lookups
// @Produce json
// @Success 200 {object} JSONResponse
// @Router /api/lookups/stats [get]
func (h *LookupHandler) HandleStats(c *gin.Context) {
	stats, err := h.store.GetLookupStats(c.Request.Context())
	if err != nil {
		SendError(c, apperrors.NewInternalError("failed to compute lookup stats", err))
		return
	}
	WriteJSONResponse(c, stats, http.StatusOK)
}

// HandleExport выгружает журнал в XLSX
// @Summary Выгрузка журнала в Excel
// @Tags lookups
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param outcome query string false "Фильтр по итогу"
// @Success 200 {file} file
// @Router /api/lookups/export [get]
func (h *LookupHandler) HandleExport(c *gin.Context) {
	filter, err := lookupFilterFromQuery(c)
	if err != nil {
		SendError(c, err)
		return
	}

	var buf bytes.Buffer
	count, err := h.store.ExportLookupsToExcel(c.Request.Context(), &buf, filter)
	if err != nil {
		SendError(c, storeError(err, "failed to export lookups"))
		return
	}

	filename := fmt.Sprintf("address_lookups_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("X-Total-Count", strconv.Itoa(count))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func lookupFilterFromQuery(c *gin.Context) (database.LookupFilter, error) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return database.LookupFilter{}, err
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return database.LookupFilter{}, err
	}
	return database.LookupFilter{
		Outcome: c.Query("outcome"),
		Limit:   limit,
		Offset:  offset,
	}, nil
}

func storeError(err error, message string) error {
	if errors.Is(err, database.ErrInvalidLookup) {
		return apperrors.NewValidationError(err.Error(), err)
	}
	return apperrors.NewInternalError(message, err)
}
