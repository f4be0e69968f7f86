package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// EntrySyncMessage asks the export worker to sync one entry. It carries
// only the ID and version; the worker fetches the full entry from the
// store when it processes the message.
type EntrySyncMessage struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntrySyncMessage creates a new sync message for an entry.
func NewEntrySyncMessage(id, version int64) *EntrySyncMessage {
	return &EntrySyncMessage{
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntrySyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntrySyncMessageFromJSON creates a message from JSON bytes
func EntrySyncMessageFromJSON(data []byte) (*EntrySyncMessage, error) {
	var msg EntrySyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal entry sync message: %w", err)
	}
	if msg.ID <= 0 {
		return nil, fmt.Errorf("entry sync message has invalid id %d", msg.ID)
	}
	return &msg, nil
}
