package smp

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// HandleFunc is a user-defined message processing function type.
//
// Parameters:
//   - ctx: A context with timeout control, carrying any trace context
//     extracted from the message's native headers. Users should check
//     this context during long-running operations to respond to timeout
//     or cancellation signals.
//   - msg: The delivered envelope. Its headers are frozen; wrap it to
//     derive a new message.
//
// Returns:
//   - error: nil on success. Returning an error triggers the retry
//     mechanism (if configured).
type HandleFunc func(ctx context.Context, msg *Message) error

// delivery is the retry-tracking wrapper around a frozen envelope.
// Attempt state lives here so the envelope itself never mutates.
type delivery struct {
	msg          *Message
	attemptsLeft int
}

type subscriber struct {
	id      string
	handler HandleFunc
}

// Channel delivers published envelopes to its subscribers through a
// worker pool. It does no destination matching of its own; a Channel is
// looked up by name through the Broker.
type Channel struct {
	Name string

	subscribers  []*subscriber
	workers      []*Worker
	workerPool   chan chan *delivery // Pool of available worker job channels
	messageQueue chan *delivery      // Central buffer queue for deliveries

	maxWorkers     int
	bufferSize     int
	maxRetries     int
	retryDelay     time.Duration
	processTimeout time.Duration
	publishTimeout time.Duration

	quit chan struct{}

	logger Logger
	tracer Tracer

	// --- metrics ---
	activeWorkers int32 // Number of currently idle (waiting for tasks) workers
	busyWorkers   int32 // Number of workers currently processing tasks
	onGoingJobs   int32 // Total number of deliveries being processed

	mu           sync.RWMutex
	dispatcherWg sync.WaitGroup
	stopOnce     sync.Once
}

// newChannel creates a Channel, applies the options and starts the
// worker pool and dispatcher.
func newChannel(name string, options ...Option) *Channel {
	c := &Channel{
		Name:           name,
		bufferSize:     24,
		maxRetries:     3,
		maxWorkers:     20,
		retryDelay:     5 * time.Second,
		processTimeout: 10 * time.Second,
		publishTimeout: 2 * time.Second,
		logger:         getDefaultLogger(),
		tracer:         &DefaultTracer{},
		quit:           make(chan struct{}),
	}

	for _, opt := range options {
		opt(c)
	}

	c.workerPool = make(chan chan *delivery, c.maxWorkers)
	c.messageQueue = make(chan *delivery, c.bufferSize)

	c.start()

	return c
}

// start spins up the workers and the dispatcher. Called once from
// newChannel; not safe to call concurrently with anything else.
func (c *Channel) start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.workers != nil {
		return
	}

	c.workers = make([]*Worker, 0, c.maxWorkers)
	for i := 0; i < c.maxWorkers; i++ {
		worker := NewWorker(c)
		c.workers = append(c.workers, worker)
		worker.Start()
	}

	c.dispatcherWg.Add(1)
	go c.dispatch()
}

// subscribe registers a handler and returns its subscriber id.
func (c *Channel) subscribe(handler HandleFunc) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	sub := &subscriber{
		id:      NewUUID(),
		handler: handler,
	}
	c.subscribers = append(c.subscribers, sub)

	c.logger.Info(&LogMessage{
		ChannelName: c.Name,
		Action:      ActionSubscribe,
		Status:      StatusSuccess,
		Subscriber:  sub.id,
		CreatedAt:   time.Now(),
	})

	return sub.id
}

// unsubscribe removes the subscriber with the given id.
func (c *Channel) unsubscribe(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, sub := range c.subscribers {
		if sub.id == id {
			c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)

			c.logger.Info(&LogMessage{
				ChannelName: c.Name,
				Action:      ActionUnsubscribe,
				Status:      StatusSuccess,
				Subscriber:  id,
				CreatedAt:   time.Now(),
			})
			return nil
		}
	}

	return ErrSubscriberNotFound
}

// activeSubscribers snapshots the subscriber list for a delivery round.
func (c *Channel) activeSubscribers() []*subscriber {
	c.mu.RLock()
	defer c.mu.RUnlock()

	subs := make([]*subscriber, len(c.subscribers))
	copy(subs, c.subscribers)
	return subs
}

// publish queues a frozen envelope for delivery. If the queue stays full
// past publishTimeout, ErrPublishTimeout is returned.
func (c *Channel) publish(msg *Message) error {
	d := &delivery{
		msg:          msg,
		attemptsLeft: c.maxRetries,
	}

	select {
	case c.messageQueue <- d:
		c.logger.Info(&LogMessage{
			ChannelName: c.Name,
			Action:      ActionPublish,
			MessageID:   msg.ID,
			MessageType: GetMessageType(msg.Headers()),
			Destination: GetDestination(msg.Headers()),
			Message:     string(msg.Payload),
			Status:      StatusSuccess,
			CreatedAt:   time.Now(),
		})
		return nil
	case <-time.After(c.publishTimeout):
		return ErrPublishTimeout
	}
}

// requeue puts a delivery back on the queue, e.g. during shutdown or
// after a retry backoff. Returns false when the queue is full.
func (c *Channel) requeue(d *delivery) bool {
	select {
	case c.messageQueue <- d:
		return true
	default:
		c.logger.Error(&LogMessage{
			ChannelName: c.Name,
			Action:      ActionPublish,
			MessageID:   d.msg.ID,
			Message:     "queue full, delivery dropped",
			Status:      StatusError,
			CreatedAt:   time.Now(),
		})
		return false
	}
}

func (c *Channel) dispatch() {
	defer c.dispatcherWg.Done()

	for {
		select {
		case d := <-c.messageQueue:
			var jobChannel chan *delivery
			select {
			case jobChannel = <-c.workerPool:
			case <-c.quit:
				return
			}

			select {
			case jobChannel <- d:
			case <-c.quit:
				c.requeue(d)
				return
			}
		case <-c.quit:
			return
		}
	}
}

// close gracefully shuts down the channel: stop dispatching, then stop
// every worker and wait for in-flight deliveries to finish.
func (c *Channel) close() {
	c.stopOnce.Do(func() {
		close(c.quit)

		c.dispatcherWg.Wait()

		c.mu.RLock()
		workers := make([]*Worker, len(c.workers))
		copy(workers, c.workers)
		c.mu.RUnlock()

		var wg sync.WaitGroup
		wg.Add(len(workers))
		for _, worker := range workers {
			go func(w *Worker) {
				defer wg.Done()
				w.Stop()
			}(worker)
		}
		wg.Wait()

		c.mu.Lock()
		c.workers = nil
		c.subscribers = nil
		c.mu.Unlock()
	})
}

func (c *Channel) workerJoin() {
	atomic.AddInt32(&c.activeWorkers, 1)
}

func (c *Channel) workerLeave() {
	atomic.AddInt32(&c.activeWorkers, -1)
}

func (c *Channel) workerStartWork() {
	atomic.AddInt32(&c.activeWorkers, -1)
	atomic.AddInt32(&c.busyWorkers, 1)
}

func (c *Channel) workerFinishWork() {
	atomic.AddInt32(&c.activeWorkers, 1)
	atomic.AddInt32(&c.busyWorkers, -1)
}

func (c *Channel) jobStart() {
	atomic.AddInt32(&c.onGoingJobs, 1)
}

func (c *Channel) jobFinish() {
	atomic.AddInt32(&c.onGoingJobs, -1)
}

// GetActiveWorkers returns the number of idle workers.
func (c *Channel) GetActiveWorkers() int32 {
	return atomic.LoadInt32(&c.activeWorkers)
}

// GetBusyWorkers returns the number of workers processing a delivery.
func (c *Channel) GetBusyWorkers() int32 {
	return atomic.LoadInt32(&c.busyWorkers)
}

// GetOnGoingJobs returns the number of deliveries currently in flight.
func (c *Channel) GetOnGoingJobs() int32 {
	return atomic.LoadInt32(&c.onGoingJobs)
}
