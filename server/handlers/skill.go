package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	"bostoninfo/intents"
	"bostoninfo/notify"
	apperrors "bostoninfo/server/errors"
	"bostoninfo/server/middleware"
	"bostoninfo/skill"
)

// SkillExecutor выполняет запрос к навыку
type SkillExecutor interface {
	Execute(ctx context.Context, req *skill.SkillRequest) (*skill.SkillResponse, error)
}

// SkillHandler вебхук голосовой платформы
type SkillHandler struct {
	executor SkillExecutor
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewSkillHandler создает обработчик вебхука навыка
func NewSkillHandler(executor SkillExecutor, notifier notify.Notifier, logger *slog.Logger) *SkillHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SkillHandler{executor: executor, notifier: notifier, logger: logger}
}

// HandleSkillRequest принимает событие платформы и возвращает ответ навыка
// @Summary Вебхук навыка
// @Description Принимает событие голосовой платформы и возвращает ответ навыка
// @Tags skill
// @Accept json
// @Produce json
// @Param event body skill.PlatformEvent true "Событие платформы"
// @Success 200 {object} skill.PlatformResponse "Ответ навыка"
// @Failure 400 {object} middleware.ErrorResponse "Некорректное событие"
// @Failure 403 {object} middleware.ErrorResponse "Чужое приложение"
// @Failure 500 {object} middleware.ErrorResponse "Ошибка навыка"
// @Router /alexa [post]
func (h *SkillHandler) HandleSkillRequest(c *gin.Context) {
	var event skill.PlatformEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		SendError(c, apperrors.NewValidationError("invalid platform event body", err))
		return
	}

	req, err := skill.PlatformToSkillRequest(&event)
	if err != nil {
		SendError(c, apperrors.NewValidationError("invalid platform event", err))
		return
	}

	resp, err := h.executor.Execute(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, intents.ErrInvalidApplication) {
			SendError(c, apperrors.NewForbiddenError("request is not for this skill", err))
			return
		}
		if errors.Is(err, intents.ErrUnknownIntent) || errors.Is(err, intents.ErrUnknownRequestType) {
			SendError(c, apperrors.NewValidationError("unsupported request", err))
			return
		}

		h.reportError(c, req, err)
		SendError(c, apperrors.NewInternalError("skill execution failed", err).
			WithContext(req.String()))
		return
	}

	SendJSONResponse(c, http.StatusOK, skill.SkillResponseToPlatform(resp))
}

// reportError отправляет необработанную ошибку навыка в Slack
func (h *SkillHandler) reportError(c *gin.Context, req *skill.SkillRequest, err error) {
	if h.notifier == nil {
		return
	}

	trace := fmt.Sprintf("request_id=%s %s\n%s", middleware.GetRequestIDFromGin(c), req.String(), debug.Stack())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if notifyErr := h.notifier.Notify(ctx, err, trace); notifyErr != nil {
		h.logger.Warn("Failed to report skill error", "error", notifyErr)
	}
}
