package skill

import (
	"fmt"
	"strings"
)

// Типы ответа речи
const (
	SpeechTypePlainText = "PlainText"
	SpeechTypeSSML      = "SSML"
)

// Типы запросов платформы
const (
	RequestTypeLaunch       = "LaunchRequest"
	RequestTypeIntent       = "IntentRequest"
	RequestTypeSessionEnded = "SessionEndedRequest"
)

// Директивы диалога
const (
	DirectiveDialogDelegate   = "Dialog.Delegate"
	DirectiveDialogElicitSlot = "Dialog.ElicitSlot"
)

// Coordinate координаты устройства
type Coordinate struct {
	LatitudeInDegrees  float64 `json:"latitudeInDegrees"`
	LongitudeInDegrees float64 `json:"longitudeInDegrees"`
	AccuracyInMeters   float64 `json:"accuracyInMeters"`
}

// Slot значение слота, уже распознанное платформой
type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// SkillRequest запрос к навыку в независимом от платформы виде
type SkillRequest struct {
	RequestType string
	RequestID   string

	IsNewSession  bool
	SessionID     string
	ApplicationID string

	DeviceID       string
	APIEndpoint    string
	APIAccessToken string

	DeviceHasGeolocation   bool
	GeolocationPermission  bool
	GeolocationCoordinates *Coordinate

	SessionAttributes map[string]interface{}

	IntentName      string
	IntentVariables map[string]Slot
}

// NewSkillRequest создает пустой запрос с инициализированными картами
func NewSkillRequest() *SkillRequest {
	return &SkillRequest{
		DeviceID:          "unknown",
		APIAccessToken:    "none",
		SessionAttributes: make(map[string]interface{}),
		IntentVariables:   make(map[string]Slot),
	}
}

// SlotValue возвращает значение слота или пустую строку
func (r *SkillRequest) SlotValue(name string) string {
	if r.IntentVariables == nil {
		return ""
	}
	return strings.TrimSpace(r.IntentVariables[name].Value)
}

// SessionString возвращает строковый атрибут сессии
func (r *SkillRequest) SessionString(key string) string {
	if r.SessionAttributes == nil {
		return ""
	}
	value, _ := r.SessionAttributes[key].(string)
	return value
}

// SetSessionAttribute устанавливает атрибут сессии
func (r *SkillRequest) SetSessionAttribute(key string, value interface{}) {
	if r.SessionAttributes == nil {
		r.SessionAttributes = make(map[string]interface{})
	}
	r.SessionAttributes[key] = value
}

// String краткое описание запроса для логов
func (r *SkillRequest) String() string {
	return fmt.Sprintf("request_type=%s request_id=%s intent=%s session=%s",
		r.RequestType, r.RequestID, r.IntentName, r.SessionID)
}

// SkillResponse ответ навыка в независимом от платформы виде
type SkillResponse struct {
	SessionAttributes map[string]interface{}

	CardTitle       string
	CardType        string
	CardPermissions []string

	OutputSpeech     string
	OutputSpeechType string
	RepromptText     string
	ShouldEndSession bool

	DialogDirective string
	SlotToElicit    string
}

// NewSkillResponse создает ответ с текстовой речью по умолчанию
func NewSkillResponse(request *SkillRequest) *SkillResponse {
	resp := &SkillResponse{
		CardType:         "Simple",
		OutputSpeechType: SpeechTypePlainText,
	}
	if request != nil {
		resp.SessionAttributes = request.SessionAttributes
	}
	if resp.SessionAttributes == nil {
		resp.SessionAttributes = make(map[string]interface{})
	}
	return resp
}

// String краткое описание ответа для логов
func (r *SkillResponse) String() string {
	return fmt.Sprintf("card_title=%q speech_type=%s end_session=%t directive=%s",
		r.CardTitle, r.OutputSpeechType, r.ShouldEndSession, r.DialogDirective)
}
