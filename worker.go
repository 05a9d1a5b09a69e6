package smp

import (
	"context"
	"math"
	"time"
)

type Worker struct {
	id         string
	jobChannel chan *delivery
	quit       chan struct{}
	channel    *Channel
}

func NewWorker(channel *Channel) *Worker {
	return &Worker{
		id:         NewUUID(),
		jobChannel: make(chan *delivery),
		quit:       make(chan struct{}),
		channel:    channel,
	}
}

func (w *Worker) Start() {
	w.channel.workerJoin()

	go func() {
		w.channel.workerPool <- w.jobChannel

		for {
			select {
			case d := <-w.jobChannel:
				w.channel.workerStartWork()
				w.process(d)
				w.channel.workerPool <- w.jobChannel
				w.channel.workerFinishWork()

			case <-w.quit:
				w.channel.workerLeave()
				return
			}
		}
	}()
}

func (w *Worker) Stop() {
	close(w.quit)
}

// process runs one delivery round: every active subscriber gets its own
// view of the envelope with the subscription id stamped in. Any handler
// error or timeout fails the whole round and triggers a retry.
func (w *Worker) process(d *delivery) {
	w.channel.jobStart()
	defer w.channel.jobFinish()

	now := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), w.channel.processTimeout)
	defer cancel()

	ctx = w.channel.tracer.Extract(ctx, NewMessageCarrier(d.msg))

	done := make(chan error, 1)
	go func() {
		for _, sub := range w.channel.activeSubscribers() {
			msg, err := w.subscriberView(d.msg, sub.id)
			if err != nil {
				done <- err
				return
			}
			if err := sub.handler(ctx, msg); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()

	select {
	case err := <-done:
		duration := time.Since(now)
		if err != nil {
			w.handleError(d, duration)
		} else {
			w.handleSuccess(d, duration)
		}
	case <-ctx.Done():
		w.handleError(d, time.Since(now))
	}
}

// subscriberView derives a delivered envelope for one subscriber. The
// published message stays frozen; the copy carries the subscription id
// and keeps the original message id.
func (w *Worker) subscriberView(msg *Message, subscriptionID string) (*Message, error) {
	accessor, err := Wrap(msg)
	if err != nil {
		return nil, err
	}
	if err := accessor.SetSubscriptionID(subscriptionID); err != nil {
		return nil, err
	}

	view := accessor.BuildMessage(msg.Payload)
	view.ID = msg.ID
	view.CreatedAt = msg.CreatedAt
	return view, nil
}

func (w *Worker) handleError(d *delivery, duration time.Duration) {
	d.attemptsLeft--

	if d.attemptsLeft < 0 {
		w.log(d, StatusError, duration)
		return
	}

	w.log(d, StatusRetry, duration)

	attempt := w.channel.maxRetries - d.attemptsLeft
	backoff := w.channel.retryDelay * time.Duration(math.Pow(2, float64(attempt-1)))

	time.Sleep(backoff)

	w.channel.requeue(d)
}

func (w *Worker) handleSuccess(d *delivery, duration time.Duration) {
	w.log(d, StatusSuccess, duration)
}

func (w *Worker) log(d *delivery, status DeliveryStatus, duration time.Duration) {
	logMsg := &LogMessage{
		ChannelName: w.channel.Name,
		Action:      ActionConsume,
		MessageID:   d.msg.ID,
		MessageType: GetMessageType(d.msg.Headers()),
		Destination: GetDestination(d.msg.Headers()),
		Message:     string(d.msg.Payload),
		Status:      status,
		Subscriber:  w.id,
		SpendTime:   duration.Milliseconds(),
		CreatedAt:   time.Now(),
	}

	if status == StatusSuccess {
		w.channel.logger.Info(logMsg)
	} else {
		w.channel.logger.Error(logMsg)
	}
}
