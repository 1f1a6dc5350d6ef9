package recollect

import "strings"

// EventsResponse ответ /events
type EventsResponse struct {
	Events []Event `json:"events"`
}

// Event одно событие календаря вывоза
type Event struct {
	Day   string      `json:"day"`
	Flags []EventFlag `json:"flags"`
}

// EventFlag флаг события (тип вывоза)
type EventFlag struct {
	Name        string `json:"name"`
	ServiceName string `json:"service_name"`
	Subject     string `json:"subject"`
	EventType   string `json:"event_type"`
}

func (e Event) isPickup() bool {
	for _, flag := range e.Flags {
		if pickupServices[strings.ToLower(flag.ServiceName)] || pickupServices[strings.ToLower(flag.Name)] {
			return true
		}
	}
	return false
}
