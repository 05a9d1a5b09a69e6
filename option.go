package smp

import (
	"time"
)

// Option configures a Channel, following the functional options pattern.
type Option func(*Channel)

// WithMaxWorkers sets the number of delivery workers for the channel.
func WithMaxWorkers(maxWorkers int) Option {
	return func(c *Channel) {
		c.maxWorkers = maxWorkers
	}
}

// WithBufferSize sets the buffer size of the channel's message queue.
func WithBufferSize(bufferSize int) Option {
	return func(c *Channel) {
		c.bufferSize = bufferSize
	}
}

// WithMaxRetries sets how many times a failed delivery is retried.
func WithMaxRetries(maxRetries int) Option {
	return func(c *Channel) {
		c.maxRetries = maxRetries
	}
}

// WithRetryDelay sets the base delay before a delivery retry.
func WithRetryDelay(retryDelay time.Duration) Option {
	return func(c *Channel) {
		c.retryDelay = retryDelay
	}
}

// WithProcessTimeout sets the handler timeout for each delivery.
func WithProcessTimeout(processTimeout time.Duration) Option {
	return func(c *Channel) {
		c.processTimeout = processTimeout
	}
}

// WithPublishTimeout sets how long publish waits on a full queue.
func WithPublishTimeout(publishTimeout time.Duration) Option {
	return func(c *Channel) {
		c.publishTimeout = publishTimeout
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger Logger) Option {
	return func(c *Channel) {
		c.logger = logger
	}
}

// WithTracer sets a custom tracer.
func WithTracer(tracer Tracer) Option {
	return func(c *Channel) {
		c.tracer = tracer
	}
}
