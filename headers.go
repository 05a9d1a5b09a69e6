package smp

import (
	"sort"

	"golang.org/x/exp/maps"
)

// Header names shared across simple messaging protocols. Other components
// read the raw map directly, so these exact strings are a wire contract.
const (
	// MessageTypeHeader holds the MessageType tag. Exactly one value is
	// present on every message built through an Accessor.
	MessageTypeHeader = "simpMessageType"

	// DestinationHeader is the routing destination supplied by producers.
	DestinationHeader = "simpDestination"

	// SessionIDHeader identifies the transport session a message belongs to.
	SessionIDHeader = "simpSessionId"

	// SessionAttributesHeader holds the map of attributes associated with
	// the session. Stored by reference, never copied.
	SessionAttributesHeader = "simpSessionAttributes"

	// SubscriptionIDHeader identifies the subscription a MESSAGE frame
	// is delivered on.
	SubscriptionIDHeader = "simpSubscriptionId"

	// UserHeader holds the authenticated Principal, if any.
	UserHeader = "simpUser"

	// ConnectMessageHeader carries the original CONNECT message on a
	// CONNECT_ACK so handlers can inspect the client's connect headers.
	ConnectMessageHeader = "simpConnectMessage"

	// OrigDestinationHeader preserves the destination a client used when
	// subscribing, in case the server rewrote it before delivery.
	OrigDestinationHeader = "simpOrigDestination"

	// NativeHeadersHeader is the reserved key the wire-level header map
	// (name to ordered values) is stored under.
	NativeHeadersHeader = "nativeHeaders"
)

// MessageType tags the protocol-level kind of a message.
type MessageType string

const (
	MessageTypeConnect       MessageType = "connect"
	MessageTypeConnectAck    MessageType = "connect_ack"
	MessageTypeSubscribe     MessageType = "subscribe"
	MessageTypeUnsubscribe   MessageType = "unsubscribe"
	MessageTypeMessage       MessageType = "message"
	MessageTypeDisconnect    MessageType = "disconnect"
	MessageTypeDisconnectAck MessageType = "disconnect_ack"
	MessageTypeHeartbeat     MessageType = "heartbeat"
	MessageTypeOther         MessageType = "other"
)

// Headers is the name-to-value metadata map attached to a Message.
// Values are arbitrarily typed; keys are case-sensitive.
//
// A Headers map is mutable only while owned by an Accessor. Once the
// accessor freezes it onto a Message it must be treated as read-only;
// frozen maps are safe for unsynchronized concurrent reads.
type Headers map[string]any

// Get returns the value for key, or nil when absent.
func (h Headers) Get(key string) any {
	return h[key]
}

// Lookup returns the value for key and whether it is present.
func (h Headers) Lookup(key string) (any, bool) {
	v, ok := h[key]
	return v, ok
}

// Keys returns the header names in sorted order.
func (h Headers) Keys() []string {
	keys := maps.Keys(h)
	sort.Strings(keys)
	return keys
}

// clone copies the top level of the map. Values are shared: a stored
// session-attributes map stays the same map in the clone.
func (h Headers) clone() Headers {
	if h == nil {
		return make(Headers)
	}
	return maps.Clone(h)
}
