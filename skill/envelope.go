package skill

import (
	"errors"
	"fmt"
)

// ErrInvalidEvent событие платформы не содержит обязательных полей
var ErrInvalidEvent = errors.New("invalid platform event")

// PlatformEvent JSON-событие, которое голосовая платформа присылает в webhook
type PlatformEvent struct {
	Version string           `json:"version"`
	Session *PlatformSession `json:"session"`
	Context *PlatformContext `json:"context"`
	Request *PlatformRequest `json:"request"`
}

// PlatformSession блок session события
type PlatformSession struct {
	New         bool   `json:"new"`
	SessionID   string `json:"sessionId"`
	Application struct {
		ApplicationID string `json:"applicationId"`
	} `json:"application"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// PlatformContext блок context события
type PlatformContext struct {
	System struct {
		Device *struct {
			DeviceID            string                 `json:"deviceId"`
			SupportedInterfaces map[string]interface{} `json:"supportedInterfaces"`
		} `json:"device,omitempty"`
		APIEndpoint    string `json:"apiEndpoint"`
		APIAccessToken string `json:"apiAccessToken"`
	} `json:"System"`
	Geolocation *struct {
		Coordinate *Coordinate `json:"coordinate,omitempty"`
	} `json:"Geolocation,omitempty"`
}

// PlatformRequest блок request события
type PlatformRequest struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId"`
	Intent    *struct {
		Name  string          `json:"name"`
		Slots map[string]Slot `json:"slots,omitempty"`
	} `json:"intent,omitempty"`
}

// OutputSpeech речь ответа
type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	SSML string `json:"ssml,omitempty"`
}

// Card карточка в приложении платформы
type Card struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Permissions []string `json:"permissions,omitempty"`
}

// Reprompt повторный вопрос
type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}

// Directive директива диалога
type Directive struct {
	Type         string `json:"type"`
	SlotToElicit string `json:"slotToElicit,omitempty"`
}

// PlatformResponseBody блок response ответа платформе
type PlatformResponseBody struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Card             *Card         `json:"card,omitempty"`
	Reprompt         *Reprompt     `json:"reprompt,omitempty"`
	ShouldEndSession *bool         `json:"shouldEndSession,omitempty"`
	Directives       []Directive   `json:"directives,omitempty"`
}

// PlatformResponse JSON-ответ голосовой платформе
type PlatformResponse struct {
	Version           string                 `json:"version"`
	SessionAttributes map[string]interface{} `json:"sessionAttributes"`
	Response          PlatformResponseBody   `json:"response"`
}

// PlatformToSkillRequest переводит событие платформы в SkillRequest
func PlatformToSkillRequest(event *PlatformEvent) (*SkillRequest, error) {
	if event == nil || event.Request == nil {
		return nil, fmt.Errorf("%w: missing request", ErrInvalidEvent)
	}
	if event.Request.Type == "" {
		return nil, fmt.Errorf("%w: missing request type", ErrInvalidEvent)
	}

	req := NewSkillRequest()
	req.RequestType = event.Request.Type
	req.RequestID = event.Request.RequestID

	if event.Session != nil {
		req.IsNewSession = event.Session.New
		req.SessionID = event.Session.SessionID
		req.ApplicationID = event.Session.Application.ApplicationID
		for key, value := range event.Session.Attributes {
			req.SessionAttributes[key] = value
		}
	}

	if event.Context != nil {
		system := event.Context.System
		if system.Device != nil && system.Device.DeviceID != "" {
			req.DeviceID = system.Device.DeviceID
		}
		if system.APIAccessToken != "" {
			req.APIAccessToken = system.APIAccessToken
		}
		req.APIEndpoint = system.APIEndpoint

		// Геолокация: поддержка устройством, затем разрешение пользователя
		if system.Device != nil {
			_, req.DeviceHasGeolocation = system.Device.SupportedInterfaces["Geolocation"]
		}
		if req.DeviceHasGeolocation {
			req.GeolocationPermission = event.Context.Geolocation != nil
		}
		if req.GeolocationPermission {
			req.GeolocationCoordinates = event.Context.Geolocation.Coordinate
		}
	}

	if event.Request.Intent != nil {
		req.IntentName = event.Request.Intent.Name
		for name, slot := range event.Request.Intent.Slots {
			req.IntentVariables[name] = slot
		}
	}

	return req, nil
}

// SkillResponseToPlatform переводит SkillResponse в формат платформы
func SkillResponseToPlatform(resp *SkillResponse) *PlatformResponse {
	card := &Card{
		Type:        resp.CardType,
		Title:       resp.CardTitle,
		Content:     resp.OutputSpeech,
		Permissions: resp.CardPermissions,
	}
	if card.Type == "" {
		card.Type = "Simple"
	}

	var body PlatformResponseBody
	if resp.DialogDirective == DirectiveDialogDelegate {
		// Delegate: платформа сама продолжает диалог, речь не нужна
		card.Type = "Simple"
		body = PlatformResponseBody{
			Card:       card,
			Directives: []Directive{{Type: resp.DialogDirective}},
		}
	} else {
		endSession := resp.ShouldEndSession
		body = PlatformResponseBody{
			OutputSpeech:     buildOutputSpeech(resp),
			Card:             card,
			ShouldEndSession: &endSession,
		}
		if resp.RepromptText != "" {
			body.Reprompt = &Reprompt{OutputSpeech: OutputSpeech{Type: SpeechTypePlainText, Text: resp.RepromptText}}
		}
		if resp.DialogDirective != "" {
			directive := Directive{Type: resp.DialogDirective}
			if resp.DialogDirective == DirectiveDialogElicitSlot {
				directive.SlotToElicit = resp.SlotToElicit
			}
			body.Directives = []Directive{directive}
		}
	}

	attributes := resp.SessionAttributes
	if attributes == nil {
		attributes = make(map[string]interface{})
	}

	return &PlatformResponse{
		Version:           "1.0",
		SessionAttributes: attributes,
		Response:          body,
	}
}

func buildOutputSpeech(resp *SkillResponse) *OutputSpeech {
	if resp.OutputSpeechType == SpeechTypeSSML {
		return &OutputSpeech{Type: SpeechTypeSSML, SSML: resp.OutputSpeech}
	}
	return &OutputSpeech{Type: SpeechTypePlainText, Text: resp.OutputSpeech}
}
