package smp

import (
	"time"
)

// Accessor builds and edits the header map of a Message.
//
// An accessor starts mutable, owned by the one goroutine assembling the
// message. BuildMessage (or Freeze) ends the editing phase: from then on
// every setter returns ErrHeadersImmutable and the map is safe to share
// with any number of readers. There is no internal locking; the
// write-once-then-read-many transition is the whole concurrency contract.
type Accessor struct {
	headers Headers
	mutable bool
}

// Factory creates accessors. Protocol variants can substitute their own
// factory through SetFactory so Create and Wrap hand out accessors
// pre-configured for that protocol.
type Factory interface {
	Create(messageType MessageType) (*Accessor, error)
	Wrap(msg *Message) (*Accessor, error)
}

// StandardFactory is the default Factory.
type StandardFactory struct{}

func (StandardFactory) Create(messageType MessageType) (*Accessor, error) {
	if messageType == "" {
		return nil, ErrMessageTypeRequired
	}

	a := &Accessor{
		headers: make(Headers),
		mutable: true,
	}
	a.headers[MessageTypeHeader] = messageType

	return a, nil
}

func (StandardFactory) Wrap(msg *Message) (*Accessor, error) {
	if msg == nil {
		return nil, ErrNilMessage
	}

	headers := msg.headers.clone()

	// The native layer belongs to the accessor, so detach it from the
	// frozen envelope before allowing writes. Everything else stays
	// shared by reference.
	if native, ok := headers[NativeHeadersHeader].(map[string][]string); ok {
		headers[NativeHeadersHeader] = cloneNativeHeaders(native)
	}

	return &Accessor{
		headers: headers,
		mutable: true,
	}, nil
}

var accessorFactory Factory = StandardFactory{}

// SetFactory replaces the factory used by Create, CreateWithType,
// CreateFromWire and Wrap. Intended for protocol variants; call it once
// during setup, before any accessor is created.
func SetFactory(factory Factory) {
	if factory != nil {
		accessorFactory = factory
	}
}

// Create returns a mutable accessor with the message type defaulted to
// MessageTypeMessage.
func Create() *Accessor {
	a, _ := accessorFactory.Create(MessageTypeMessage)
	return a
}

// CreateWithType returns a mutable accessor tagged with the given message
// type. An empty type fails with ErrMessageTypeRequired.
func CreateWithType(messageType MessageType) (*Accessor, error) {
	return accessorFactory.Create(messageType)
}

// CreateFromWire returns a mutable accessor tagged with the given message
// type and carrying the externally-sourced wire headers under the
// nativeHeaders key.
func CreateFromWire(messageType MessageType, wire map[string][]string) (*Accessor, error) {
	a, err := accessorFactory.Create(messageType)
	if err != nil {
		return nil, err
	}
	if wire != nil {
		a.headers[NativeHeadersHeader] = cloneNativeHeaders(wire)
	}
	return a, nil
}

// Wrap returns a mutable accessor seeded with the headers of an existing
// message. The message itself is never mutated; prior values are all
// preserved. A nil message fails with ErrNilMessage.
func Wrap(msg *Message) (*Accessor, error) {
	return accessorFactory.Wrap(msg)
}

// SetHeader stores value under key. A nil value removes the header.
func (a *Accessor) SetHeader(key string, value any) error {
	if !a.mutable {
		return ErrHeadersImmutable
	}
	if value == nil {
		delete(a.headers, key)
		return nil
	}
	a.headers[key] = value
	return nil
}

// SetHeaderIfAbsent stores value under key only when the key has no value
// yet. A no-op otherwise.
func (a *Accessor) SetHeaderIfAbsent(key string, value any) error {
	if !a.mutable {
		return ErrHeadersImmutable
	}
	if _, ok := a.headers[key]; ok {
		return nil
	}
	return a.SetHeader(key, value)
}

// RemoveHeader deletes the header stored under key.
func (a *Accessor) RemoveHeader(key string) error {
	if !a.mutable {
		return ErrHeadersImmutable
	}
	delete(a.headers, key)
	return nil
}

// Header returns the value stored under key, or nil when absent.
func (a *Accessor) Header(key string) any {
	return a.headers.Get(key)
}

// Headers returns the underlying header map. While the accessor is
// mutable the map is live: later setters are visible through it.
func (a *Accessor) Headers() Headers {
	return a.headers
}

// IsMutable reports whether the accessor still accepts writes.
func (a *Accessor) IsMutable() bool {
	return a.mutable
}

// Freeze ends the editing phase. Idempotent.
func (a *Accessor) Freeze() {
	a.mutable = false
}

// BuildMessage freezes the headers and attaches them to a new envelope
// carrying payload. The returned message owns the header map; the
// accessor rejects all further writes.
func (a *Accessor) BuildMessage(payload []byte) *Message {
	a.Freeze()

	return &Message{
		ID:        NewUUID(),
		Payload:   payload,
		CreatedAt: time.Now(),
		headers:   a.headers,
	}
}
