package smp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testPrincipal struct {
	name string
}

func (p *testPrincipal) Name() string {
	return p.name
}

func TestSetMessageTypeIfNotSet(t *testing.T) {
	t.Run("no-op when a type is present", func(t *testing.T) {
		accessor, err := CreateWithType(MessageTypeConnect)
		require.NoError(t, err)

		require.NoError(t, accessor.SetMessageTypeIfNotSet(MessageTypeSubscribe))
		require.Equal(t, MessageTypeConnect, accessor.MessageType())
	})

	t.Run("sets when absent", func(t *testing.T) {
		accessor := Create()
		require.NoError(t, accessor.RemoveHeader(MessageTypeHeader))
		require.Equal(t, MessageType(""), accessor.MessageType())

		require.NoError(t, accessor.SetMessageTypeIfNotSet(MessageTypeHeartbeat))
		require.Equal(t, MessageTypeHeartbeat, accessor.MessageType())
	})
}

func TestDestination(t *testing.T) {
	accessor := Create()

	t.Run("absent", func(t *testing.T) {
		require.Equal(t, "", accessor.Destination())
	})

	t.Run("set and get verbatim", func(t *testing.T) {
		require.NoError(t, accessor.SetDestination("/queue/orders.eu-west"))
		require.Equal(t, "/queue/orders.eu-west", accessor.Destination())
	})

	t.Run("empty destination rejected, prior value kept", func(t *testing.T) {
		err := accessor.SetDestination("")
		require.ErrorIs(t, err, ErrDestinationRequired)
		require.ErrorIs(t, err, ErrInvalidArgument)
		require.Equal(t, "/queue/orders.eu-west", accessor.Destination())
	})
}

func TestSubscriptionID(t *testing.T) {
	accessor := Create()

	require.Equal(t, "", accessor.SubscriptionID())

	require.NoError(t, accessor.SetSubscriptionID("sub-7"))
	require.Equal(t, "sub-7", accessor.SubscriptionID())

	// empty clears, no validation on this field
	require.NoError(t, accessor.SetSubscriptionID(""))
	require.Equal(t, "", accessor.SubscriptionID())
	_, ok := accessor.Headers().Lookup(SubscriptionIDHeader)
	require.False(t, ok)
}

func TestSessionID(t *testing.T) {
	accessor := Create()

	require.Equal(t, "", accessor.SessionID())

	require.NoError(t, accessor.SetSessionID("session-42"))
	require.Equal(t, "session-42", accessor.SessionID())

	require.NoError(t, accessor.SetSessionID(""))
	require.Equal(t, "", accessor.SessionID())
}

func TestSessionAttributes(t *testing.T) {
	accessor := Create()

	t.Run("absent", func(t *testing.T) {
		require.Nil(t, accessor.SessionAttributes())
	})

	t.Run("stored by reference, not copied", func(t *testing.T) {
		attributes := map[string]any{"locale": "en"}
		require.NoError(t, accessor.SetSessionAttributes(attributes))

		attributes["currency"] = "EUR"

		stored := accessor.SessionAttributes()
		require.Equal(t, "EUR", stored["currency"])
		require.Equal(t, "en", stored["locale"])
	})

	t.Run("sharing survives freeze and wrap", func(t *testing.T) {
		attributes := accessor.SessionAttributes()
		msg := accessor.BuildMessage(nil)

		wrapped, err := Wrap(msg)
		require.NoError(t, err)

		attributes["plan"] = "pro"
		require.Equal(t, "pro", wrapped.SessionAttributes()["plan"])
		require.Equal(t, "pro", GetSessionAttributes(msg.Headers())["plan"])
	})
}

func TestUser(t *testing.T) {
	accessor := Create()

	require.Nil(t, accessor.User())

	principal := &testPrincipal{name: "alice"}
	require.NoError(t, accessor.SetUser(principal))

	// same handle, shared by reference
	require.Same(t, principal, accessor.User())
	require.Equal(t, "alice", accessor.User().Name())
}

func TestFrozenSetters(t *testing.T) {
	accessor := Create()
	require.NoError(t, accessor.SetDestination("/queue/a"))
	require.NoError(t, accessor.SetSessionID("s1"))
	accessor.BuildMessage(nil)

	require.ErrorIs(t, accessor.SetDestination("/queue/b"), ErrHeadersImmutable)
	require.ErrorIs(t, accessor.SetSubscriptionID("sub"), ErrHeadersImmutable)
	require.ErrorIs(t, accessor.SetSessionID("s2"), ErrHeadersImmutable)
	require.ErrorIs(t, accessor.SetSessionAttributes(map[string]any{}), ErrHeadersImmutable)
	require.ErrorIs(t, accessor.SetUser(&testPrincipal{name: "bob"}), ErrHeadersImmutable)

	// clearing forms fail the same way
	require.ErrorIs(t, accessor.SetSessionID(""), ErrHeadersImmutable)
	require.ErrorIs(t, accessor.SetSessionAttributes(nil), ErrHeadersImmutable)
	require.ErrorIs(t, accessor.SetUser(nil), ErrHeadersImmutable)
}

func TestFrozenSetMessageTypeIfNotSetIsNoOp(t *testing.T) {
	// a frozen accessor that already has a type stays a silent no-op,
	// matching the idempotence contract
	accessor := Create()
	accessor.Freeze()
	require.NoError(t, accessor.SetMessageTypeIfNotSet(MessageTypeOther))
	require.Equal(t, MessageTypeMessage, accessor.MessageType())

	// without a type the write is attempted and rejected
	untyped := Create()
	require.NoError(t, untyped.RemoveHeader(MessageTypeHeader))
	untyped.Freeze()
	require.ErrorIs(t, untyped.SetMessageTypeIfNotSet(MessageTypeOther), ErrHeadersImmutable)
}

func TestRoundTripThroughWrap(t *testing.T) {
	accessor, err := CreateWithType(MessageTypeSubscribe)
	require.NoError(t, err)

	principal := &testPrincipal{name: "carol"}
	attributes := map[string]any{"ip": "10.0.0.1"}

	require.NoError(t, accessor.SetDestination("/topic/prices"))
	require.NoError(t, accessor.SetSubscriptionID("sub-1"))
	require.NoError(t, accessor.SetSessionID("sess-9"))
	require.NoError(t, accessor.SetSessionAttributes(attributes))
	require.NoError(t, accessor.SetUser(principal))

	msg := accessor.BuildMessage([]byte("SUBSCRIBE"))

	wrapped, err := Wrap(msg)
	require.NoError(t, err)

	require.Equal(t, MessageTypeSubscribe, wrapped.MessageType())
	require.Equal(t, "/topic/prices", wrapped.Destination())
	require.Equal(t, "sub-1", wrapped.SubscriptionID())
	require.Equal(t, "sess-9", wrapped.SessionID())
	require.Same(t, principal, wrapped.User())
	require.Equal(t, attributes, wrapped.SessionAttributes())
}

func TestStaticGettersMatchInstanceGetters(t *testing.T) {
	accessor, err := CreateWithType(MessageTypeMessage)
	require.NoError(t, err)

	require.NoError(t, accessor.SetDestination("/queue/x"))
	require.NoError(t, accessor.SetSubscriptionID("sub-x"))
	require.NoError(t, accessor.SetSessionID("sess-x"))
	require.NoError(t, accessor.SetSessionAttributes(map[string]any{"a": 1}))
	require.NoError(t, accessor.SetUser(&testPrincipal{name: "dave"}))

	headers := accessor.Headers()

	require.Equal(t, accessor.MessageType(), GetMessageType(headers))
	require.Equal(t, accessor.Destination(), GetDestination(headers))
	require.Equal(t, accessor.SubscriptionID(), GetSubscriptionID(headers))
	require.Equal(t, accessor.SessionID(), GetSessionID(headers))
	require.Equal(t, accessor.SessionAttributes(), GetSessionAttributes(headers))
	require.Equal(t, accessor.User(), GetUser(headers))
}

func TestStaticGettersOnForeignMap(t *testing.T) {
	// headers assembled by hand, the way a co-deployed component that
	// skips the accessor would build them
	headers := Headers{
		MessageTypeHeader: MessageTypeHeartbeat,
		SessionIDHeader:   "sess-raw",
	}

	require.Equal(t, MessageTypeHeartbeat, GetMessageType(headers))
	require.Equal(t, "sess-raw", GetSessionID(headers))
	require.Equal(t, "", GetDestination(headers))
	require.Nil(t, GetSessionAttributes(headers))
	require.Nil(t, GetUser(headers))
}
