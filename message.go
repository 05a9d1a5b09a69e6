package smp

import (
	"time"
)

// Message is the envelope passed between messaging components: a payload
// plus the frozen header map built through an Accessor.
//
// Messages are immutable. To add or change headers, wrap the message with
// Wrap, mutate the new accessor, and build a fresh envelope.
type Message struct {
	ID        string
	Payload   []byte
	CreatedAt time.Time

	headers Headers
}

// Headers returns the frozen header map. The map is shared, not copied;
// callers must not mutate it.
func (m *Message) Headers() Headers {
	return m.headers
}

// Header returns the value stored under key, or nil when absent.
func (m *Message) Header(key string) any {
	return m.headers.Get(key)
}
