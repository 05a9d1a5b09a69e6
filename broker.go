package smp

import (
	"context"
	"sync"
)

// Broker is the registry of named channels. Publishing through the
// broker builds the envelope: destination and message-type headers are
// stamped through an Accessor and the current trace context is injected
// into the native headers.
type Broker struct {
	mu       sync.RWMutex
	channels map[string]*Channel
	logger   Logger
	tracer   Tracer
	closed   bool
}

func NewBroker(config *Config) *Broker {
	if config == nil {
		config = &Config{}
	}
	if config.Logger == nil {
		config.Logger = &DefaultLogger{}
	}
	if config.Tracer == nil {
		config.Tracer = &DefaultTracer{}
	}

	setDefaultLogger(config.Logger)

	return &Broker{
		channels: make(map[string]*Channel),
		logger:   config.Logger,
		tracer:   config.Tracer,
	}
}

// CreateChannel registers a channel under name and starts its workers.
func (b *Broker) CreateChannel(name string, options ...Option) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBrokerClosed
	}
	if _, ok := b.channels[name]; ok {
		return ErrChannelAlreadyCreated
	}

	opts := append([]Option{WithLogger(b.logger), WithTracer(b.tracer)}, options...)
	b.channels[name] = newChannel(name, opts...)

	return nil
}

// Subscribe registers a handler on the named channel and returns the
// subscriber id. Delivered envelopes carry that id in their
// subscription-id header.
func (b *Broker) Subscribe(name string, handler HandleFunc) (string, error) {
	channel, err := b.channel(name)
	if err != nil {
		return "", err
	}
	return channel.subscribe(handler), nil
}

// Unsubscribe removes a subscriber from the named channel.
func (b *Broker) Unsubscribe(name string, id string) error {
	channel, err := b.channel(name)
	if err != nil {
		return err
	}
	return channel.unsubscribe(id)
}

// Publish builds an envelope for payload and queues it on the named
// channel. The destination header is set to the channel name, the
// message type defaults to MessageTypeMessage, and the trace context of
// ctx is injected into the native headers.
func (b *Broker) Publish(ctx context.Context, name string, payload []byte) error {
	channel, err := b.channel(name)
	if err != nil {
		return err
	}

	accessor := Create()
	if err := accessor.SetDestination(name); err != nil {
		return err
	}
	b.tracer.Inject(ctx, NewAccessorCarrier(accessor))

	return channel.publish(accessor.BuildMessage(payload))
}

// PublishMessage queues a pre-built envelope on the named channel. The
// envelope is delivered as-is; its headers are not restamped.
func (b *Broker) PublishMessage(name string, msg *Message) error {
	if msg == nil {
		return ErrNilMessage
	}

	channel, err := b.channel(name)
	if err != nil {
		return err
	}
	return channel.publish(msg)
}

// CloseChannel shuts down the named channel and removes it.
func (b *Broker) CloseChannel(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	channel, ok := b.channels[name]
	if !ok {
		return ErrChannelNotFound
	}

	channel.close()
	delete(b.channels, name)
	return nil
}

// Close shuts down every channel. The broker accepts no new channels
// afterwards.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, channel := range b.channels {
		channel.close()
	}
	b.channels = make(map[string]*Channel)
	b.closed = true
	return nil
}

// ChannelMetrics is a point-in-time snapshot of a channel's worker pool.
type ChannelMetrics struct {
	ChannelName   string
	ActiveWorkers int32
	BusyWorkers   int32
	OnGoingJobs   int32
}

// GetMetrics snapshots the worker-pool counters of every channel.
func (b *Broker) GetMetrics() []ChannelMetrics {
	b.mu.RLock()
	defer b.mu.RUnlock()

	metrics := make([]ChannelMetrics, 0, len(b.channels))
	for _, channel := range b.channels {
		metrics = append(metrics, ChannelMetrics{
			ChannelName:   channel.Name,
			ActiveWorkers: channel.GetActiveWorkers(),
			BusyWorkers:   channel.GetBusyWorkers(),
			OnGoingJobs:   channel.GetOnGoingJobs(),
		})
	}
	return metrics
}

func (b *Broker) channel(name string) (*Channel, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	channel, ok := b.channels[name]
	if !ok {
		return nil, ErrChannelNotFound
	}
	return channel, nil
}
