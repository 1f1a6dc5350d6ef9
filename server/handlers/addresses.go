package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"bostoninfo/database"
	"bostoninfo/intents"
	"bostoninfo/normalization"
	apperrors "bostoninfo/server/errors"
)

// AddressResolveResponse результат разрешения адреса
type AddressResolveResponse struct {
	Query          string   `json:"query"`
	Outcome        string   `json:"outcome"`
	Addresses      []string `json:"addresses"`
	CandidateCount int      `json:"candidate_count"`
}

// PickupDaysResponse дни вывоза для единственного адреса
type PickupDaysResponse struct {
	Address string   `json:"address"`
	PlaceID string   `json:"place_id,omitempty"`
	Days    []string `json:"days"`
}

// AddressHandler отладочный API разрешения адресов
type AddressHandler struct {
	lookup   intents.AddressLookup
	resolver *normalization.AddressResolver
	recorder intents.LookupRecorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewAddressHandler создает обработчик адресов. recorder может быть nil.
func NewAddressHandler(lookup intents.AddressLookup, resolver *normalization.AddressResolver, recorder intents.LookupRecorder, logger *slog.Logger) *AddressHandler {
	if resolver == nil {
		resolver = normalization.NewAddressResolver(normalization.ResolverConfig{})
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AddressHandler{
		lookup:   lookup,
		resolver: resolver,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// HandleResolve разрешает адрес через ReCollect и возвращает уникальные варианты
// @Summary Разрешение адреса
// @Tags addresses
// @Produce json
// @Param q query string true "Адрес"
// @Success 200 {object} JSONResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /api/addresses/resolve [get]
func (h *AddressHandler) HandleResolve(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		SendError(c, apperrors.NewValidationError("query parameter q is required", nil))
		return
	}

	resolution, count, err := h.resolve(c.Request.Context(), query)
	if err != nil {
		SendError(c, err)
		return
	}

	WriteJSONResponse(c, AddressResolveResponse{
		Query:          query,
		Outcome:        string(resolution.Outcome),
		Addresses:      resolution.Addresses(),
		CandidateCount: count,
	}, http.StatusOK)
}

// HandlePickupDays возвращает дни вывоза для адреса, если он однозначен
// @Summary Дни вывоза мусора
// @Tags addresses
// @Produce json
// @Param q query string true "Адрес"
// @Success 200 {object} JSONResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /api/addresses/pickup-days [get]
func (h *AddressHandler) HandlePickupDays(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		SendError(c, apperrors.NewValidationError("query parameter q is required", nil))
		return
	}

	resolution, _, err := h.resolve(c.Request.Context(), query)
	if err != nil {
		SendError(c, err)
		return
	}
	if resolution.IsAmbiguous() {
		SendError(c, apperrors.NewConflictError(
			"address is ambiguous: "+strings.Join(resolution.Addresses(), "; "), nil))
		return
	}

	match := resolution.Matches[0]
	days, err := h.lookup.UpcomingPickupDays(c.Request.Context(), match.Candidate)
	if err != nil {
		SendError(c, apperrors.NewBadGatewayError("pickup schedule is unavailable", err))
		return
	}
	if days == nil {
		days = []string{}
	}

	WriteJSONResponse(c, PickupDaysResponse{
		Address: match.Name,
		PlaceID: match.Candidate.PlaceID(),
		Days:    days,
	}, http.StatusOK)
}

// resolve запрашивает кандидатов и сворачивает их в уникальные адреса.
// Каждая попытка попадает в журнал с источником api.
func (h *AddressHandler) resolve(ctx context.Context, query string) (*normalization.Resolution, int, error) {
	if h.lookup == nil {
		return nil, 0, apperrors.NewServiceUnavailableError("address lookup is not configured", nil)
	}

	start := h.now()
	record := &database.LookupRecord{Source: database.LookupSourceAPI, Query: query}
	defer func() {
		record.DurationMs = h.now().Sub(start).Milliseconds()
		h.record(ctx, record)
	}()

	candidates, err := h.lookup.SuggestAddresses(ctx, query)
	if err != nil {
		record.Outcome = database.LookupOutcomeError
		record.ErrorMessage = err.Error()
		return nil, 0, apperrors.NewBadGatewayError("address lookup failed", err)
	}
	record.CandidateCount = len(candidates)

	resolution, err := h.resolver.Resolve(candidates)
	if errors.Is(err, normalization.ErrNoCandidates) {
		record.Outcome = database.LookupOutcomeNotFound
		return nil, len(candidates), apperrors.NewNotFoundError("no address matches the query", err)
	}
	if err != nil {
		record.Outcome = database.LookupOutcomeError
		record.ErrorMessage = err.Error()
		return nil, len(candidates), apperrors.NewBadGatewayError("address lookup returned malformed data", err)
	}

	record.Addresses = resolution.Addresses()
	if resolution.IsAmbiguous() {
		record.Outcome = database.LookupOutcomeAmbiguous
	} else {
		record.Outcome = database.LookupOutcomeSingle
		record.PlaceID = resolution.Matches[0].Candidate.PlaceID()
	}
	return resolution, len(candidates), nil
}

func (h *AddressHandler) record(ctx context.Context, record *database.LookupRecord) {
	if h.recorder == nil {
		return
	}
	if err := h.recorder.RecordLookup(ctx, record); err != nil {
		h.logger.Warn("Failed to record address lookup", "query", record.Query, "error", err)
	}
}
