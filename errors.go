package smp

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the root of all argument validation failures.
// Check with errors.Is.
var ErrInvalidArgument = errors.New("smp: invalid argument")

var (
	// ErrMessageTypeRequired is returned when an accessor is created
	// without a message type.
	ErrMessageTypeRequired = fmt.Errorf("%w: message type must not be empty", ErrInvalidArgument)

	// ErrDestinationRequired is returned when an empty destination is set.
	ErrDestinationRequired = fmt.Errorf("%w: destination must not be empty", ErrInvalidArgument)

	// ErrNilMessage is returned when wrapping a nil message.
	ErrNilMessage = fmt.Errorf("%w: message must not be nil", ErrInvalidArgument)
)

// ErrHeadersImmutable is returned by every setter once the accessor has
// been frozen. Frozen headers are shared with readers and never change.
var ErrHeadersImmutable = errors.New("smp: headers are immutable")

var (
	ErrChannelNotFound       = errors.New("smp: channel not found")
	ErrChannelAlreadyCreated = errors.New("smp: channel already created")
	ErrSubscriberNotFound    = errors.New("smp: subscriber not found")
	ErrPublishTimeout        = errors.New("smp: publish timeout")
	ErrBrokerClosed          = errors.New("smp: broker closed")
)
