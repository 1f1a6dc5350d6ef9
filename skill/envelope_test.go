package skill

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trashIntentEvent = `{
  "version": "1.0",
  "session": {
    "new": false,
    "sessionId": "amzn1.echo-api.session.1",
    "application": {"applicationId": "amzn1.ask.skill.boston"},
    "attributes": {"currentAddress": "46 Everdean St"}
  },
  "context": {
    "System": {
      "device": {"deviceId": "device-1", "supportedInterfaces": {"Geolocation": {}}},
      "apiEndpoint": "https://api.amazonalexa.com",
      "apiAccessToken": "token-1"
    },
    "Geolocation": {"coordinate": {"latitudeInDegrees": 42.36, "longitudeInDegrees": -71.05, "accuracyInMeters": 10}}
  },
  "request": {
    "type": "IntentRequest",
    "requestId": "req-1",
    "intent": {"name": "TrashDayIntent", "slots": {"Address": {"name": "Address", "value": " 30 Beach St "}}}
  }
}`

func TestPlatformToSkillRequest(t *testing.T) {
	var event PlatformEvent
	require.NoError(t, json.Unmarshal([]byte(trashIntentEvent), &event))

	req, err := PlatformToSkillRequest(&event)
	require.NoError(t, err)

	assert.Equal(t, RequestTypeIntent, req.RequestType)
	assert.Equal(t, "req-1", req.RequestID)
	assert.False(t, req.IsNewSession)
	assert.Equal(t, "amzn1.echo-api.session.1", req.SessionID)
	assert.Equal(t, "amzn1.ask.skill.boston", req.ApplicationID)
	assert.Equal(t, "device-1", req.DeviceID)
	assert.Equal(t, "token-1", req.APIAccessToken)
	assert.Equal(t, "https://api.amazonalexa.com", req.APIEndpoint)
	assert.True(t, req.DeviceHasGeolocation)
	assert.True(t, req.GeolocationPermission)
	require.NotNil(t, req.GeolocationCoordinates)
	assert.InDelta(t, 42.36, req.GeolocationCoordinates.LatitudeInDegrees, 0.001)
	assert.Equal(t, "TrashDayIntent", req.IntentName)
	assert.Equal(t, "30 Beach St", req.SlotValue("Address"))
	assert.Equal(t, "46 Everdean St", req.SessionString("currentAddress"))
}

func TestPlatformToSkillRequest_Defaults(t *testing.T) {
	event := &PlatformEvent{
		Request: &PlatformRequest{Type: RequestTypeLaunch, RequestID: "req-2"},
		Context: &PlatformContext{},
	}

	req, err := PlatformToSkillRequest(event)
	require.NoError(t, err)
	assert.Equal(t, "unknown", req.DeviceID)
	assert.Equal(t, "none", req.APIAccessToken)
	assert.False(t, req.DeviceHasGeolocation)
	assert.False(t, req.GeolocationPermission)
	assert.Empty(t, req.IntentName)
	assert.NotNil(t, req.SessionAttributes)
}

func TestPlatformToSkillRequest_Invalid(t *testing.T) {
	_, err := PlatformToSkillRequest(nil)
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, err = PlatformToSkillRequest(&PlatformEvent{Request: &PlatformRequest{}})
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestSkillResponseToPlatform(t *testing.T) {
	t.Run("plain text", func(t *testing.T) {
		resp := NewSkillResponse(nil)
		resp.CardTitle = "Trash Day"
		resp.OutputSpeech = "Trash is picked up on Monday."
		resp.RepromptText = "Anything else?"
		resp.ShouldEndSession = true

		out := SkillResponseToPlatform(resp)
		assert.Equal(t, "1.0", out.Version)
		require.NotNil(t, out.Response.OutputSpeech)
		assert.Equal(t, SpeechTypePlainText, out.Response.OutputSpeech.Type)
		assert.Equal(t, "Trash is picked up on Monday.", out.Response.OutputSpeech.Text)
		assert.Equal(t, "Trash Day", out.Response.Card.Title)
		assert.Equal(t, "Trash is picked up on Monday.", out.Response.Card.Content)
		require.NotNil(t, out.Response.Reprompt)
		assert.Equal(t, "Anything else?", out.Response.Reprompt.OutputSpeech.Text)
		require.NotNil(t, out.Response.ShouldEndSession)
		assert.True(t, *out.Response.ShouldEndSession)
		assert.Empty(t, out.Response.Directives)
	})

	t.Run("ssml with card permissions", func(t *testing.T) {
		resp := NewSkillResponse(nil)
		resp.OutputSpeech = "<speak>hi</speak>"
		resp.OutputSpeechType = SpeechTypeSSML
		resp.CardType = "AskForPermissionsConsent"
		resp.CardPermissions = []string{"read::alexa:device:all:address"}

		out := SkillResponseToPlatform(resp)
		assert.Equal(t, "<speak>hi</speak>", out.Response.OutputSpeech.SSML)
		assert.Empty(t, out.Response.OutputSpeech.Text)
		assert.Equal(t, "AskForPermissionsConsent", out.Response.Card.Type)
		assert.Equal(t, []string{"read::alexa:device:all:address"}, out.Response.Card.Permissions)
	})

	t.Run("elicit slot", func(t *testing.T) {
		resp := NewSkillResponse(nil)
		resp.OutputSpeech = "What is your address?"
		resp.DialogDirective = DirectiveDialogElicitSlot
		resp.SlotToElicit = "Address"

		out := SkillResponseToPlatform(resp)
		require.Len(t, out.Response.Directives, 1)
		assert.Equal(t, Directive{Type: DirectiveDialogElicitSlot, SlotToElicit: "Address"}, out.Response.Directives[0])
		assert.NotNil(t, out.Response.OutputSpeech)
	})

	t.Run("delegate", func(t *testing.T) {
		resp := NewSkillResponse(nil)
		resp.DialogDirective = DirectiveDialogDelegate

		out := SkillResponseToPlatform(resp)
		assert.Nil(t, out.Response.OutputSpeech)
		assert.Nil(t, out.Response.ShouldEndSession)
		require.Len(t, out.Response.Directives, 1)
		assert.Equal(t, DirectiveDialogDelegate, out.Response.Directives[0].Type)
	})

	t.Run("session attributes carried", func(t *testing.T) {
		req := NewSkillRequest()
		req.SetSessionAttribute("currentAddress", "30 Beach St")
		out := SkillResponseToPlatform(NewSkillResponse(req))
		assert.Equal(t, "30 Beach St", out.SessionAttributes["currentAddress"])
	})
}
