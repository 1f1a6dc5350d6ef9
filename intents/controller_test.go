package intents

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bostoninfo/database"
	"bostoninfo/normalization"
	"bostoninfo/scraper"
	"bostoninfo/skill"
)

type fakeLookup struct {
	candidates []normalization.AddressCandidate
	suggestErr error
	days       []string
	daysErr    error

	queries   []string
	scheduled []normalization.AddressCandidate
}

func (f *fakeLookup) SuggestAddresses(ctx context.Context, query string) ([]normalization.AddressCandidate, error) {
	f.queries = append(f.queries, query)
	if f.suggestErr != nil {
		return nil, f.suggestErr
	}
	return f.candidates, nil
}

func (f *fakeLookup) UpcomingPickupDays(ctx context.Context, candidate normalization.AddressCandidate) ([]string, error) {
	f.scheduled = append(f.scheduled, candidate)
	if f.daysErr != nil {
		return nil, f.daysErr
	}
	return f.days, nil
}

type fakeDevices struct {
	address string
	err     error
	calls   int
}

func (f *fakeDevices) GetDeviceAddress(ctx context.Context, req *skill.SkillRequest) (string, error) {
	f.calls++
	return f.address, f.err
}

type fakeUpdates struct {
	update *scraper.CoronavirusUpdate
	err    error
}

func (f *fakeUpdates) CoronavirusUpdate(ctx context.Context) (*scraper.CoronavirusUpdate, error) {
	return f.update, f.err
}

type fakeRecorder struct {
	records []*database.LookupRecord
}

func (f *fakeRecorder) RecordLookup(ctx context.Context, record *database.LookupRecord) error {
	f.records = append(f.records, record)
	return nil
}

type testHarness struct {
	controller *Controller
	lookup     *fakeLookup
	devices    *fakeDevices
	updates    *fakeUpdates
	recorder   *fakeRecorder
}

func newHarness() *testHarness {
	h := &testHarness{
		lookup: &fakeLookup{
			candidates: []normalization.AddressCandidate{
				{"name": "46 Everdean St, Dorchester 02122", "place_id": "A1B2C3", "service_id": "310"},
			},
			days: []string{"Monday", "Thursday"},
		},
		devices:  &fakeDevices{address: "46 Everdean St Boston MA 02122"},
		updates:  &fakeUpdates{err: scraper.ErrFetch},
		recorder: &fakeRecorder{},
	}
	h.controller = NewController(ControllerConfig{
		ApplicationID: "amzn1.ask.skill.test",
		Lookup:        h.lookup,
		Devices:       h.devices,
		Updates:       h.updates,
		Recorder:      h.recorder,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return h
}

func intentRequest(intent string) *skill.SkillRequest {
	req := skill.NewSkillRequest()
	req.RequestType = skill.RequestTypeIntent
	req.RequestID = "req-1"
	req.SessionID = "session-1"
	req.ApplicationID = "amzn1.ask.skill.test"
	req.IntentName = intent
	return req
}

func TestExecute_Launch(t *testing.T) {
	h := newHarness()
	req := intentRequest("")
	req.RequestType = skill.RequestTypeLaunch

	resp, err := h.controller.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, WelcomeMessage, resp.OutputSpeech)
	assert.False(t, resp.ShouldEndSession)
}

func TestExecute_StopEndsSession(t *testing.T) {
	h := newHarness()

	for _, intent := range []string{IntentStop, IntentCancel} {
		resp, err := h.controller.Execute(context.Background(), intentRequest(intent))
		require.NoError(t, err)
		assert.True(t, resp.ShouldEndSession, intent)
		assert.Equal(t, GoodbyeMessage, resp.OutputSpeech)
	}
}

func TestExecute_SessionEnded(t *testing.T) {
	h := newHarness()
	req := intentRequest("")
	req.RequestType = skill.RequestTypeSessionEnded

	resp, err := h.controller.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.ShouldEndSession)
}

func TestExecute_Errors(t *testing.T) {
	h := newHarness()

	_, err := h.controller.Execute(context.Background(), intentRequest("PizzaIntent"))
	assert.ErrorIs(t, err, ErrUnknownIntent)

	req := intentRequest(IntentHelp)
	req.ApplicationID = "amzn1.ask.skill.other"
	_, err = h.controller.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidApplication)

	req = intentRequest(IntentHelp)
	req.RequestType = "CanFulfillIntentRequest"
	_, err = h.controller.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrUnknownRequestType)
}

func TestTrashDay_UsesSessionAddressWithoutDevice(t *testing.T) {
	h := newHarness()
	req := intentRequest(IntentTrashDay)
	req.SetSessionAttribute(CurrentAddressKey, "46 Everdean St")

	resp, err := h.controller.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 0, h.devices.calls)
	assert.Equal(t, []string{"46 Everdean St"}, h.lookup.queries)
	assert.Equal(t, "Trash and recycling is picked up on Monday and Thursday.", resp.OutputSpeech)
	assert.Equal(t, TrashDayCardTitle, resp.CardTitle)

	require.Len(t, h.recorder.records, 1)
	assert.Equal(t, database.LookupOutcomeSingle, h.recorder.records[0].Outcome)
	assert.Equal(t, database.LookupSourceSkill, h.recorder.records[0].Source)
	assert.Equal(t, "A1B2C3", h.recorder.records[0].PlaceID)
}

func TestTrashDay_UsesDeviceAddress(t *testing.T) {
	h := newHarness()

	resp, err := h.controller.Execute(context.Background(), intentRequest(IntentTrashDay))
	require.NoError(t, err)

	assert.Equal(t, 1, h.devices.calls)
	assert.Equal(t, []string{"46 Everdean St Boston MA 02122"}, h.lookup.queries)
	assert.Contains(t, resp.OutputSpeech, "Monday and Thursday")
	assert.Equal(t, "46 Everdean St, Dorchester 02122", resp.SessionAttributes[CurrentAddressKey])
}

func TestTrashDay_MissingPermission(t *testing.T) {
	h := newHarness()
	h.devices.err = ErrDeviceAddressPermission

	resp, err := h.controller.Execute(context.Background(), intentRequest(IntentTrashDay))
	require.NoError(t, err)

	assert.Equal(t, PermissionCardType, resp.CardType)
	assert.Equal(t, []string{"read::alexa:device:all:address"}, resp.CardPermissions)
	assert.Empty(t, h.lookup.queries)
}

func TestTrashDay_AsksUserWhenDeviceHasNoAddress(t *testing.T) {
	h := newHarness()
	h.devices.address = ""

	resp, err := h.controller.Execute(context.Background(), intentRequest(IntentTrashDay))
	require.NoError(t, err)

	assert.Equal(t, "Address", resp.CardTitle)
	assert.Equal(t, skill.DirectiveDialogElicitSlot, resp.DialogDirective)
	assert.Equal(t, AddressSlot, resp.SlotToElicit)
	assert.Equal(t, IntentTrashDay, resp.SessionAttributes[IntentToContinueKey])
	assert.Empty(t, h.lookup.queries)
}

func TestTrashDay_DeviceErrorAsksUser(t *testing.T) {
	h := newHarness()
	h.devices.err = ErrDeviceAddressUnavailable

	resp, err := h.controller.Execute(context.Background(), intentRequest(IntentTrashDay))
	require.NoError(t, err)
	assert.Equal(t, AddressCardTitle, resp.CardTitle)
}

func TestTrashDay_AddressNotInBoston(t *testing.T) {
	h := newHarness()
	req := intentRequest(IntentTrashDay)
	req.SetSessionAttribute(CurrentAddressKey, "10 Main Street New York, NY")

	resp, err := h.controller.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, AddressNotInCityMessage, resp.OutputSpeech)
	assert.Empty(t, h.lookup.queries)
	assert.Empty(t, h.lookup.scheduled)
}

func TestTrashDay_SessionAddressWinsOverDeviceOutsideBoston(t *testing.T) {
	h := newHarness()
	h.devices.address = "10 Main Street New York NY"
	req := intentRequest(IntentTrashDay)
	req.SetSessionAttribute(CurrentAddressKey, "46 Everdean St Boston MA")

	resp, err := h.controller.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 0, h.devices.calls)
	assert.Contains(t, resp.OutputSpeech, "Monday and Thursday")
}

func TestTrashDay_SlotOverridesSession(t *testing.T) {
	h := newHarness()
	req := intentRequest(IntentTrashDay)
	req.SetSessionAttribute(CurrentAddressKey, "1 City Hall Sq")
	req.IntentVariables[AddressSlot] = skill.Slot{Name: AddressSlot, Value: " 46 Everdean St "}

	_, err := h.controller.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"46 Everdean St"}, h.lookup.queries)
}

func TestTrashDay_CollapsesUnitVariants(t *testing.T) {
	h := newHarness()
	h.lookup.candidates = []normalization.AddressCandidate{
		{"name": "30-1 - 30 Beach St, Boston 02111", "place_id": "unit"},
		{"name": "30 Beach St, Boston 02111", "place_id": "building"},
		{"name": "30-2 - 30 Beach St, Boston 02111", "place_id": "unit2"},
	}
	req := intentRequest(IntentTrashDay)
	req.SetSessionAttribute(CurrentAddressKey, "30 Beach St")

	resp, err := h.controller.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, h.lookup.scheduled, 1)
	assert.Equal(t, "building", h.lookup.scheduled[0].PlaceID())
	assert.Contains(t, resp.OutputSpeech, "Monday and Thursday")
	assert.Equal(t, 3, h.recorder.records[0].CandidateCount)
}

func TestTrashDay_AmbiguousAddressAsksUser(t *testing.T) {
	h := newHarness()
	h.lookup.candidates = []normalization.AddressCandidate{
		{"name": "10 Main St, Charlestown 02129", "place_id": "charlestown"},
		{"name": "10 Main St, Boston 02215", "place_id": "fenway"},
	}
	req := intentRequest(IntentTrashDay)
	req.SetSessionAttribute(CurrentAddressKey, "10 Main St")

	resp, err := h.controller.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t,
		"I found more than one address that matches. Did you mean 10 Main St, Charlestown 02129 or 10 Main St, Boston 02215?",
		resp.OutputSpeech)
	assert.Equal(t, skill.DirectiveDialogElicitSlot, resp.DialogDirective)
	assert.Equal(t, []interface{}{"10 Main St, Charlestown 02129", "10 Main St, Boston 02215"},
		resp.SessionAttributes[AddressOptionsKey])
	assert.NotContains(t, resp.SessionAttributes, CurrentAddressKey)
	assert.Empty(t, h.lookup.scheduled)

	require.Len(t, h.recorder.records, 1)
	assert.Equal(t, database.LookupOutcomeAmbiguous, h.recorder.records[0].Outcome)

	// Пользователь выбирает один из вариантов
	followUp := intentRequest(IntentTrashDay)
	followUp.SessionAttributes = resp.SessionAttributes
	followUp.IntentVariables[AddressSlot] = skill.Slot{Name: AddressSlot, Value: "10 Main St, Charlestown 02129"}

	resp, err = h.controller.Execute(context.Background(), followUp)
	require.NoError(t, err)

	require.Len(t, h.lookup.scheduled, 1)
	assert.Equal(t, "charlestown", h.lookup.scheduled[0].PlaceID())
	assert.Contains(t, resp.OutputSpeech, "Monday and Thursday")
	assert.NotContains(t, resp.SessionAttributes, AddressOptionsKey)
}

func TestTrashDay_PartialReplyPicksOption(t *testing.T) {
	h := newHarness()
	h.lookup.candidates = []normalization.AddressCandidate{
		{"name": "10 Main St, Charlestown 02129", "place_id": "charlestown"},
		{"name": "10 Main St, Boston 02215", "place_id": "fenway"},
	}

	req := intentRequest(IntentTrashDay)
	req.SetSessionAttribute(AddressOptionsKey, []interface{}{
		"10 Main St, Charlestown 02129",
		"10 Main St, Boston 02215",
	})
	req.IntentVariables[AddressSlot] = skill.Slot{Name: AddressSlot, Value: "the one in Charleston"}

	resp, err := h.controller.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{"10 Main St, Charlestown 02129"}, h.lookup.queries)
	require.Len(t, h.lookup.scheduled, 1)
	assert.Equal(t, "charlestown", h.lookup.scheduled[0].PlaceID())
	assert.Equal(t, "10 Main St, Charlestown 02129", resp.SessionAttributes[CurrentAddressKey])
}

func TestTrashDay_NoCandidates(t *testing.T) {
	h := newHarness()
	h.lookup.candidates = []normalization.AddressCandidate{}
	req := intentRequest(IntentTrashDay)
	req.SetSessionAttribute(CurrentAddressKey, "999 Nowhere Rd")

	resp, err := h.controller.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, AddressNotFoundMessage, resp.OutputSpeech)
	assert.Equal(t, AddressSlot, resp.SlotToElicit)
	assert.NotContains(t, resp.SessionAttributes, CurrentAddressKey)
	require.Len(t, h.recorder.records, 1)
	assert.Equal(t, database.LookupOutcomeNotFound, h.recorder.records[0].Outcome)
}

func TestTrashDay_MalformedCandidateIsAnError(t *testing.T) {
	h := newHarness()
	h.lookup.candidates = []normalization.AddressCandidate{
		{"name": "30 Beach St, Boston 02111"},
		{"place_id": "no-name"},
	}
	req := intentRequest(IntentTrashDay)
	req.SetSessionAttribute(CurrentAddressKey, "30 Beach St")

	_, err := h.controller.Execute(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, normalization.ErrMalformedCandidate)

	var malformed *normalization.MalformedCandidateError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 1, malformed.Index)

	require.Len(t, h.recorder.records, 1)
	assert.Equal(t, database.LookupOutcomeError, h.recorder.records[0].Outcome)
}

func TestTrashDay_UpstreamFailures(t *testing.T) {
	h := newHarness()
	h.lookup.suggestErr = errors.New("connection refused")
	req := intentRequest(IntentTrashDay)
	req.SetSessionAttribute(CurrentAddressKey, "46 Everdean St")

	resp, err := h.controller.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, LookupUnavailableMessage, resp.OutputSpeech)
	assert.Equal(t, "connection refused", h.recorder.records[0].ErrorMessage)

	h = newHarness()
	h.lookup.daysErr = errors.New("timeout")
	req = intentRequest(IntentTrashDay)
	req.SetSessionAttribute(CurrentAddressKey, "46 Everdean St")

	resp, err = h.controller.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, LookupUnavailableMessage, resp.OutputSpeech)
}

func TestTrashDay_NoPickupScheduled(t *testing.T) {
	h := newHarness()
	h.lookup.days = nil
	req := intentRequest(IntentTrashDay)
	req.SetSessionAttribute(CurrentAddressKey, "46 Everdean St")

	resp, err := h.controller.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, NoPickupScheduledMessage, resp.OutputSpeech)
}

func TestSetAddress_ContinuesTrashDay(t *testing.T) {
	h := newHarness()
	req := intentRequest(IntentSetAddress)
	req.SetSessionAttribute(IntentToContinueKey, IntentTrashDay)
	req.IntentVariables[AddressSlot] = skill.Slot{Name: AddressSlot, Value: "46 Everdean St"}

	resp, err := h.controller.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 0, h.devices.calls)
	assert.Contains(t, resp.OutputSpeech, "Monday and Thursday")
	assert.NotContains(t, resp.SessionAttributes, IntentToContinueKey)
}

func TestSetAddress_Confirms(t *testing.T) {
	h := newHarness()
	req := intentRequest(IntentSetAddress)
	req.IntentVariables[AddressSlot] = skill.Slot{Name: AddressSlot, Value: "46 Everdean St"}

	resp, err := h.controller.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Okay, I've set your address to 46 Everdean St.", resp.OutputSpeech)
	assert.Equal(t, "46 Everdean St", resp.SessionAttributes[CurrentAddressKey])
	assert.Empty(t, h.lookup.queries)

	empty := intentRequest(IntentSetAddress)
	resp, err = h.controller.Execute(context.Background(), empty)
	require.NoError(t, err)
	assert.Equal(t, AddressSlot, resp.SlotToElicit)
}

func TestCoronavirusUpdate(t *testing.T) {
	h := newHarness()
	h.updates.err = nil
	h.updates.update = &scraper.CoronavirusUpdate{
		HomepageText: "Phase 3 begins Monday.",
		DetailText:   "Testing sites are open.",
	}

	resp, err := h.controller.Execute(context.Background(), intentRequest(IntentCoronavirusUpdate))
	require.NoError(t, err)

	assert.Equal(t, skill.SpeechTypeSSML, resp.OutputSpeechType)
	assert.Equal(t, CoronavirusCardTitle, resp.CardTitle)
	assert.True(t, len(resp.OutputSpeech) > 0)
	assert.Contains(t, resp.OutputSpeech, "<speak>Here are the latest updates: Phase 3 begins Monday.")
	assert.Contains(t, resp.OutputSpeech, NewsSound)
	assert.Contains(t, resp.OutputSpeech, "Testing sites are open.</speak>")
}

func TestCoronavirusUpdate_Unavailable(t *testing.T) {
	h := newHarness()

	resp, err := h.controller.Execute(context.Background(), intentRequest(IntentCoronavirusUpdate))
	require.NoError(t, err)

	assert.Equal(t, NoCoronavirusUpdateMessage, resp.OutputSpeech)
	assert.Equal(t, skill.SpeechTypePlainText, resp.OutputSpeechType)
	assert.True(t, resp.ShouldEndSession)
}

func TestJoinSpoken(t *testing.T) {
	tests := []struct {
		items []string
		want  string
	}{
		{nil, ""},
		{[]string{"Monday"}, "Monday"},
		{[]string{"Monday", "Thursday"}, "Monday and Thursday"},
		{[]string{"Monday", "Wednesday", "Friday"}, "Monday, Wednesday, and Friday"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, joinSpoken(tt.items, "and"))
	}
}
