package sse

import (
	"encoding/json"
	"fmt"
)

// EventNotification is the type tag of notification frames.
const EventNotification = "notification"

// Envelope is the JSON body carried in a frame's data field.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Frame encodes one text/event-stream event: `data: <json>` followed by a
// blank line.
func Frame(eventType string, payload any) ([]byte, error) {
	body, err := json.Marshal(Envelope{Type: eventType, Data: payload})
	if err != nil {
		return nil, err
	}

	return fmt.Appendf(nil, "data: %s\n\n", body), nil
}

// Comment encodes an SSE comment line, ignored by EventSource clients.
func Comment(text string) []byte {
	return fmt.Appendf(nil, ": %s\n\n", text)
}
