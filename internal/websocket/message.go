package websocket

import (
	"encoding/json"
	"time"
)

// Message is the envelope exchanged with dashboard clients.
type Message struct {
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
}

// Well-known message types.
const (
	MessageTypeConnection      = "connection"
	MessageTypeHeartbeat       = "heartbeat"
	MessageTypeAnalyticsUpdate = "analytics_update"
	MessageTypeSamplesIngested = "samples_ingested"
)

// NewMessage creates a message stamped with the current time.
func NewMessage(msgType string, data map[string]interface{}) Message {
	return Message{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the message, falling back to an empty object on error.
func (m Message) ToJSON() []byte {
	data, err := json.Marshal(m)
	if err != nil {
		return []byte("{}")
	}
	return data
}

// UnmarshalJSON accepts a missing timestamp by stamping the current time, so
// clients may omit it.
func (m *Message) UnmarshalJSON(data []byte) error {
	type alias Message
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*m = Message(raw)
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	return nil
}
