package intents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bostoninfo/database"
	"bostoninfo/normalization"
	"bostoninfo/scraper"
	"bostoninfo/skill"
)

var (
	// ErrUnknownIntent запрос к интенту, который навык не поддерживает
	ErrUnknownIntent = errors.New("unknown intent")

	// ErrUnknownRequestType тип запроса платформы не поддерживается
	ErrUnknownRequestType = errors.New("unknown request type")

	// ErrInvalidApplication запрос пришел от чужого приложения
	ErrInvalidApplication = errors.New("invalid application id")
)

// AddressLookup поиск адресов и расписания вывоза мусора
type AddressLookup interface {
	SuggestAddresses(ctx context.Context, query string) ([]normalization.AddressCandidate, error)
	UpcomingPickupDays(ctx context.Context, candidate normalization.AddressCandidate) ([]string, error)
}

// DeviceAddressProvider источник адреса, сохраненного в настройках устройства
type DeviceAddressProvider interface {
	GetDeviceAddress(ctx context.Context, req *skill.SkillRequest) (string, error)
}

// CoronavirusSource источник новостей о коронавирусе
type CoronavirusSource interface {
	CoronavirusUpdate(ctx context.Context) (*scraper.CoronavirusUpdate, error)
}

// LookupRecorder журнал попыток разрешить адрес
type LookupRecorder interface {
	RecordLookup(ctx context.Context, record *database.LookupRecord) error
}

// ControllerConfig зависимости контроллера навыка
type ControllerConfig struct {
	ApplicationID string
	Lookup        AddressLookup
	Devices       DeviceAddressProvider
	Updates       CoronavirusSource
	Resolver      *normalization.AddressResolver
	Recorder      LookupRecorder
	Logger        *slog.Logger
}

// Controller направляет запросы платформы в обработчики интентов
type Controller struct {
	applicationID string
	lookup        AddressLookup
	devices       DeviceAddressProvider
	updates       CoronavirusSource
	resolver      *normalization.AddressResolver
	recorder      LookupRecorder
	logger        *slog.Logger
	now           func() time.Time
}

// NewController создает контроллер навыка
func NewController(config ControllerConfig) *Controller {
	if config.Resolver == nil {
		config.Resolver = normalization.NewAddressResolver(normalization.ResolverConfig{})
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Controller{
		applicationID: config.ApplicationID,
		lookup:        config.Lookup,
		devices:       config.Devices,
		updates:       config.Updates,
		resolver:      config.Resolver,
		recorder:      config.Recorder,
		logger:        config.Logger,
		now:           time.Now,
	}
}

// Execute обрабатывает один запрос платформы.
// Ошибка возвращается только когда навык не может сформировать ответ.
func (c *Controller) Execute(ctx context.Context, req *skill.SkillRequest) (*skill.SkillResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", ErrUnknownRequestType)
	}

	if c.applicationID != "" && req.ApplicationID != c.applicationID {
		return nil, fmt.Errorf("%w: %s", ErrInvalidApplication, req.ApplicationID)
	}

	c.logger.Info("Skill request received",
		"request_type", req.RequestType,
		"intent", req.IntentName,
		"request_id", req.RequestID,
		"new_session", req.IsNewSession)

	switch req.RequestType {
	case skill.RequestTypeLaunch:
		return c.welcome(req), nil
	case skill.RequestTypeSessionEnded:
		return c.sessionEnded(req), nil
	case skill.RequestTypeIntent:
		return c.dispatchIntent(ctx, req)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownRequestType, req.RequestType)
	}
}

func (c *Controller) dispatchIntent(ctx context.Context, req *skill.SkillRequest) (*skill.SkillResponse, error) {
	switch req.IntentName {
	case IntentTrashDay:
		return c.trashDay(ctx, req)
	case IntentSetAddress:
		return c.setAddress(ctx, req)
	case IntentCoronavirusUpdate:
		return c.coronavirusUpdate(ctx, req), nil
	case IntentHelp, IntentFallback:
		return c.help(req), nil
	case IntentStop, IntentCancel:
		return c.goodbye(req), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownIntent, req.IntentName)
	}
}

func (c *Controller) welcome(req *skill.SkillRequest) *skill.SkillResponse {
	resp := skill.NewSkillResponse(req)
	resp.CardTitle = SkillCardTitle
	resp.OutputSpeech = WelcomeMessage
	resp.RepromptText = HelpMessage
	return resp
}

func (c *Controller) help(req *skill.SkillRequest) *skill.SkillResponse {
	resp := skill.NewSkillResponse(req)
	resp.CardTitle = SkillCardTitle
	resp.OutputSpeech = HelpMessage
	resp.RepromptText = HelpMessage
	return resp
}

func (c *Controller) goodbye(req *skill.SkillRequest) *skill.SkillResponse {
	resp := skill.NewSkillResponse(req)
	resp.CardTitle = SkillCardTitle
	resp.OutputSpeech = GoodbyeMessage
	resp.ShouldEndSession = true
	return resp
}

func (c *Controller) sessionEnded(req *skill.SkillRequest) *skill.SkillResponse {
	c.logger.Info("Session ended", "session_id", req.SessionID)
	resp := skill.NewSkillResponse(req)
	resp.ShouldEndSession = true
	return resp
}
