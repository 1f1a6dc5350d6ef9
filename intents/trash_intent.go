package intents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bostoninfo/database"
	"bostoninfo/normalization"
	"bostoninfo/skill"
)

// trashDay сообщает дни вывоза мусора для адреса пользователя.
// Адрес берется из слота, затем из сессии, затем из настроек устройства.
func (c *Controller) trashDay(ctx context.Context, req *skill.SkillRequest) (*skill.SkillResponse, error) {
	if slot := req.SlotValue(AddressSlot); slot != "" {
		req.SetSessionAttribute(CurrentAddressKey, resolveOptionReply(req, slot))
	}

	address := req.SessionString(CurrentAddressKey)
	if address == "" {
		if c.devices == nil {
			return c.askForAddress(req), nil
		}

		deviceAddress, err := c.devices.GetDeviceAddress(ctx, req)
		switch {
		case errors.Is(err, ErrDeviceAddressPermission):
			return c.requestAddressPermission(req), nil
		case err != nil:
			c.logger.Warn("Failed to get device address", "device_id", req.DeviceID, "error", err)
			return c.askForAddress(req), nil
		case deviceAddress == "":
			return c.askForAddress(req), nil
		}

		address = deviceAddress
		req.SetSessionAttribute(CurrentAddressKey, address)
	}

	if !IsAddressInCity(address) {
		c.logger.Info("Address is outside the city", "address", address)
		delete(req.SessionAttributes, CurrentAddressKey)
		resp := skill.NewSkillResponse(req)
		resp.CardTitle = TrashDayCardTitle
		resp.OutputSpeech = AddressNotInCityMessage
		return resp, nil
	}

	return c.trashDayForAddress(ctx, req, address)
}

func (c *Controller) trashDayForAddress(ctx context.Context, req *skill.SkillRequest, address string) (*skill.SkillResponse, error) {
	resp := skill.NewSkillResponse(req)
	resp.CardTitle = TrashDayCardTitle

	if c.lookup == nil {
		resp.OutputSpeech = LookupUnavailableMessage
		return resp, nil
	}

	start := c.now()
	record := &database.LookupRecord{Source: database.LookupSourceSkill, Query: address}
	defer func() {
		record.DurationMs = c.now().Sub(start).Milliseconds()
		c.recordLookup(ctx, record)
	}()

	candidates, err := c.lookup.SuggestAddresses(ctx, address)
	if err != nil {
		c.logger.Error("Address suggestion failed", "address", address, "error", err)
		record.Outcome = database.LookupOutcomeError
		record.ErrorMessage = err.Error()
		resp.OutputSpeech = LookupUnavailableMessage
		return resp, nil
	}
	record.CandidateCount = len(candidates)

	resolution, err := c.resolver.Resolve(candidates)
	if errors.Is(err, normalization.ErrNoCandidates) {
		record.Outcome = database.LookupOutcomeNotFound
		delete(req.SessionAttributes, CurrentAddressKey)
		resp.OutputSpeech = AddressNotFoundMessage
		resp.RepromptText = AskAddressMessage
		resp.DialogDirective = skill.DirectiveDialogElicitSlot
		resp.SlotToElicit = AddressSlot
		return resp, nil
	}
	if err != nil {
		record.Outcome = database.LookupOutcomeError
		record.ErrorMessage = err.Error()
		return nil, fmt.Errorf("failed to resolve address %q: %w", address, err)
	}
	record.Addresses = resolution.Addresses()

	match, ok := selectMatch(resolution, address)
	if !ok {
		record.Outcome = database.LookupOutcomeAmbiguous
		return c.askToDisambiguate(req, resolution), nil
	}
	record.Outcome = database.LookupOutcomeSingle
	record.PlaceID = match.Candidate.PlaceID()

	delete(req.SessionAttributes, AddressOptionsKey)
	req.SetSessionAttribute(CurrentAddressKey, match.Name)

	days, err := c.lookup.UpcomingPickupDays(ctx, match.Candidate)
	if err != nil {
		c.logger.Error("Pickup schedule lookup failed", "address", match.Name, "error", err)
		resp.OutputSpeech = LookupUnavailableMessage
		return resp, nil
	}

	if len(days) == 0 {
		resp.OutputSpeech = NoPickupScheduledMessage
		return resp, nil
	}

	resp.OutputSpeech = fmt.Sprintf("Trash and recycling is picked up on %s.", joinSpoken(days, "and"))
	return resp, nil
}

// selectMatch выбирает единственный адрес. При неоднозначности адрес,
// совпадающий с запросом с точностью до полного ZIP, снимает вопрос.
func selectMatch(resolution *normalization.Resolution, query string) (normalization.AddressMatch, bool) {
	if !resolution.IsAmbiguous() {
		return resolution.Matches[0], true
	}

	queryKey := normalization.BaseAddressKey(query, 5)
	var (
		found normalization.AddressMatch
		hits  int
	)
	for _, match := range resolution.Matches {
		if normalization.BaseAddressKey(match.Name, 5) == queryKey {
			found = match
			hits++
		}
	}
	return found, hits == 1
}

// resolveOptionReply заменяет ответ на уточняющий вопрос полным адресом
// из предложенных вариантов, если ответ указывает ровно на один из них
func resolveOptionReply(req *skill.SkillRequest, reply string) string {
	options := sessionStrings(req, AddressOptionsKey)
	if len(options) == 0 {
		return reply
	}
	if option, ok := normalization.MatchAddressOption(reply, options); ok {
		return option
	}
	return reply
}

// sessionStrings читает список строк из атрибутов сессии.
// После JSON атрибуты приходят как []interface{}.
func sessionStrings(req *skill.SkillRequest, key string) []string {
	switch v := req.SessionAttributes[key].(type) {
	case []string:
		return v
	case []interface{}:
		values := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				values = append(values, s)
			}
		}
		return values
	default:
		return nil
	}
}

func (c *Controller) askToDisambiguate(req *skill.SkillRequest, resolution *normalization.Resolution) *skill.SkillResponse {
	addresses := resolution.Addresses()

	options := make([]interface{}, 0, len(addresses))
	for _, address := range addresses {
		options = append(options, address)
	}
	req.SetSessionAttribute(AddressOptionsKey, options)
	delete(req.SessionAttributes, CurrentAddressKey)

	resp := skill.NewSkillResponse(req)
	resp.CardTitle = AddressCardTitle
	resp.OutputSpeech = fmt.Sprintf("I found more than one address that matches. Did you mean %s?",
		joinSpoken(addresses, "or"))
	resp.RepromptText = "Which address did you mean?"
	resp.DialogDirective = skill.DirectiveDialogElicitSlot
	resp.SlotToElicit = AddressSlot
	return resp
}

func (c *Controller) askForAddress(req *skill.SkillRequest) *skill.SkillResponse {
	req.SetSessionAttribute(IntentToContinueKey, IntentTrashDay)

	resp := skill.NewSkillResponse(req)
	resp.CardTitle = AddressCardTitle
	resp.OutputSpeech = AskAddressMessage
	resp.RepromptText = AskAddressMessage
	resp.DialogDirective = skill.DirectiveDialogElicitSlot
	resp.SlotToElicit = AddressSlot
	return resp
}

func (c *Controller) requestAddressPermission(req *skill.SkillRequest) *skill.SkillResponse {
	resp := skill.NewSkillResponse(req)
	resp.CardType = PermissionCardType
	resp.CardPermissions = []string{DeviceAddressPermission}
	resp.OutputSpeech = AddressPermissionMessage
	resp.ShouldEndSession = true
	return resp
}

// setAddress запоминает адрес пользователя и продолжает прерванный интент
func (c *Controller) setAddress(ctx context.Context, req *skill.SkillRequest) (*skill.SkillResponse, error) {
	address := req.SlotValue(AddressSlot)
	if address == "" {
		return c.askForAddress(req), nil
	}
	address = resolveOptionReply(req, address)
	req.SetSessionAttribute(CurrentAddressKey, address)

	if req.SessionString(IntentToContinueKey) == IntentTrashDay {
		delete(req.SessionAttributes, IntentToContinueKey)
		return c.trashDay(ctx, req)
	}

	resp := skill.NewSkillResponse(req)
	resp.CardTitle = AddressCardTitle
	resp.OutputSpeech = fmt.Sprintf("Okay, I've set your address to %s.", address)
	return resp, nil
}

func (c *Controller) recordLookup(ctx context.Context, record *database.LookupRecord) {
	if c.recorder == nil || record.Outcome == "" {
		return
	}
	if err := c.recorder.RecordLookup(ctx, record); err != nil {
		c.logger.Warn("Failed to record address lookup", "query", record.Query, "error", err)
	}
}

// joinSpoken соединяет элементы для речи: "A", "A and B", "A, B, and C"
func joinSpoken(items []string, conjunction string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " " + conjunction + " " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", " + conjunction + " " + items[len(items)-1]
	}
}
