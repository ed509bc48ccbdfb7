package broker

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message represents a single published message. It is immutable once
// constructed: the broker never modifies a message after NewMessage returns,
// and the headers map is copied on construction so later mutation of the
// caller's map has no effect.
type Message struct {
	ID        string            `json:"id"`         // Unique identifier, assigned on construction
	Topic     string            `json:"topic"`      // Topic the message was published to
	Payload   []byte            `json:"payload"`    // Message body
	Headers   map[string]string `json:"headers"`    // Application-defined metadata
	CreatedAt time.Time         `json:"created_at"` // When the message was constructed
}

// NewMessage creates a new message with an auto-generated UUID and timestamp.
// A nil headers map is treated as empty.
func NewMessage(topic string, payload []byte, headers map[string]string) Message {
	h := make(map[string]string, len(headers))
	for k, v := range headers {
		h[k] = v
	}

	return Message{
		ID:        uuid.New().String(),
		Topic:     topic,
		Payload:   payload,
		Headers:   h,
		CreatedAt: time.Now(),
	}
}

// Header returns the header value for key and whether it was present.
func (m Message) Header(key string) (string, bool) {
	v, ok := m.Headers[key]
	return v, ok
}

// String returns a short human-readable representation for logs.
func (m Message) String() string {
	return fmt.Sprintf("Message{id=%s, topic=%s, payload=%d bytes}", m.ID, m.Topic, len(m.Payload))
}
