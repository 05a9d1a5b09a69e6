package smp

// Principal is the opaque identity attached by the auth layer. The
// handle is stored by reference and never inspected here.
type Principal interface {
	Name() string
}

// SetMessageTypeIfNotSet tags the message with messageType only when no
// type is present yet. A no-op otherwise, so wrapped foreign envelopes
// keep whatever type they carried.
func (a *Accessor) SetMessageTypeIfNotSet(messageType MessageType) error {
	if a.MessageType() != "" {
		return nil
	}
	return a.SetHeader(MessageTypeHeader, messageType)
}

// MessageType returns the stored type tag, or the zero value when the
// accessor wraps an envelope that never had one.
func (a *Accessor) MessageType() MessageType {
	return GetMessageType(a.headers)
}

// SetDestination stores the routing destination verbatim. No syntax
// validation happens here; matching destinations is a routing concern.
// An empty destination fails and leaves any prior value unchanged.
func (a *Accessor) SetDestination(destination string) error {
	if !a.mutable {
		return ErrHeadersImmutable
	}
	if destination == "" {
		return ErrDestinationRequired
	}
	return a.SetHeader(DestinationHeader, destination)
}

// Destination returns the stored destination, or the empty string.
func (a *Accessor) Destination() string {
	return GetDestination(a.headers)
}

// SetSubscriptionID stores the subscription id. Unlike SetDestination,
// an empty id is accepted and clears the header.
func (a *Accessor) SetSubscriptionID(subscriptionID string) error {
	if subscriptionID == "" {
		return a.RemoveHeader(SubscriptionIDHeader)
	}
	return a.SetHeader(SubscriptionIDHeader, subscriptionID)
}

// SubscriptionID returns the stored subscription id, or the empty string.
func (a *Accessor) SubscriptionID() string {
	return GetSubscriptionID(a.headers)
}

// SetSessionID stores the transport session id. An empty id is accepted
// and clears the header.
func (a *Accessor) SetSessionID(sessionID string) error {
	if sessionID == "" {
		return a.RemoveHeader(SessionIDHeader)
	}
	return a.SetHeader(SessionIDHeader, sessionID)
}

// SessionID returns the stored session id, or the empty string.
func (a *Accessor) SessionID() string {
	return GetSessionID(a.headers)
}

// SetSessionAttributes stores the session attribute map by reference.
// The map is co-owned: mutations of the original stay visible through
// SessionAttributes, and concurrent mutation needs external locking.
func (a *Accessor) SetSessionAttributes(attributes map[string]any) error {
	if attributes == nil {
		return a.RemoveHeader(SessionAttributesHeader)
	}
	return a.SetHeader(SessionAttributesHeader, attributes)
}

// SessionAttributes returns the stored attribute map, or nil.
func (a *Accessor) SessionAttributes() map[string]any {
	return GetSessionAttributes(a.headers)
}

// SetUser stores the authenticated principal by reference.
func (a *Accessor) SetUser(user Principal) error {
	if user == nil {
		return a.RemoveHeader(UserHeader)
	}
	return a.SetHeader(UserHeader, user)
}

// User returns the stored principal, or nil.
func (a *Accessor) User() Principal {
	return GetUser(a.headers)
}

// Map-based twins of the getters above, for callers holding only the raw
// header map of an envelope rather than an accessor.

func GetMessageType(headers Headers) MessageType {
	messageType, _ := headers[MessageTypeHeader].(MessageType)
	return messageType
}

func GetDestination(headers Headers) string {
	destination, _ := headers[DestinationHeader].(string)
	return destination
}

func GetSubscriptionID(headers Headers) string {
	subscriptionID, _ := headers[SubscriptionIDHeader].(string)
	return subscriptionID
}

func GetSessionID(headers Headers) string {
	sessionID, _ := headers[SessionIDHeader].(string)
	return sessionID
}

func GetSessionAttributes(headers Headers) map[string]any {
	attributes, _ := headers[SessionAttributesHeader].(map[string]any)
	return attributes
}

func GetUser(headers Headers) Principal {
	user, _ := headers[UserHeader].(Principal)
	return user
}
