package smp

import (
	"sort"

	"golang.org/x/exp/maps"
)

// AccessorCarrier adapts a mutable Accessor's native headers to the
// OpenTelemetry TextMapCarrier interface, so trace context rides the
// wire headers of an outgoing message.
type AccessorCarrier struct {
	accessor *Accessor
}

func NewAccessorCarrier(accessor *Accessor) AccessorCarrier {
	return AccessorCarrier{accessor: accessor}
}

func (c AccessorCarrier) Get(key string) string {
	return c.accessor.FirstNativeHeader(key)
}

func (c AccessorCarrier) Set(key, value string) {
	// Injection into a frozen accessor is silently dropped; the
	// propagator interface has no error path.
	_ = c.accessor.SetNativeHeader(key, value)
}

func (c AccessorCarrier) Keys() []string {
	keys := maps.Keys(c.accessor.NativeHeaders())
	sort.Strings(keys)
	return keys
}

// MessageCarrier is the read side: it exposes the native headers of a
// frozen envelope for trace extraction. Set is a no-op.
type MessageCarrier struct {
	msg *Message
}

func NewMessageCarrier(msg *Message) MessageCarrier {
	return MessageCarrier{msg: msg}
}

func (c MessageCarrier) Get(key string) string {
	return GetFirstNativeHeader(c.msg.Headers(), key)
}

func (c MessageCarrier) Set(key, value string) {}

func (c MessageCarrier) Keys() []string {
	keys := maps.Keys(GetNativeHeaders(c.msg.Headers()))
	sort.Strings(keys)
	return keys
}
