package smp

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewChannel(t *testing.T) {
	channel := newChannel("test-new-channel",
		WithBufferSize(24),
		WithMaxRetries(3),
		WithMaxWorkers(4),
		WithRetryDelay(5*time.Second),
		WithProcessTimeout(10*time.Second),
		WithLogger(&MockLogger{}),
	)
	defer channel.close()

	require.NotNil(t, channel)
	require.Equal(t, "test-new-channel", channel.Name)
	require.Equal(t, 24, channel.bufferSize)
	require.Equal(t, 3, channel.maxRetries)
	require.Equal(t, 4, channel.maxWorkers)
	require.Equal(t, 5*time.Second, channel.retryDelay)
	require.Equal(t, 10*time.Second, channel.processTimeout)
}

func TestConsumeSuccess(t *testing.T) {
	channel := newChannel("test-consume-success",
		WithMaxWorkers(2),
		WithLogger(&MockLogger{}),
	)
	defer channel.close()

	var consumed atomic.Int32
	var delivered atomic.Value

	subID := channel.subscribe(func(ctx context.Context, msg *Message) error {
		delivered.Store(msg)
		consumed.Add(1)
		return nil
	})
	require.NotEmpty(t, subID)

	accessor := Create()
	require.NoError(t, accessor.SetDestination("test-consume-success"))
	msg := accessor.BuildMessage([]byte("payload"))

	require.NoError(t, channel.publish(msg))

	require.Eventually(t, func() bool {
		return consumed.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	view := delivered.Load().(*Message)
	require.Equal(t, msg.ID, view.ID)
	require.Equal(t, subID, GetSubscriptionID(view.Headers()))
	require.Equal(t, "test-consume-success", GetDestination(view.Headers()))

	// the published envelope never gained a subscription id
	require.Equal(t, "", GetSubscriptionID(msg.Headers()))
}

func TestConsumeErrorRetries(t *testing.T) {
	channel := newChannel("test-consume-error",
		WithMaxWorkers(1),
		WithMaxRetries(2),
		WithRetryDelay(10*time.Millisecond),
		WithLogger(&MockLogger{}),
	)
	defer channel.close()

	var attempts atomic.Int32
	channel.subscribe(func(ctx context.Context, msg *Message) error {
		attempts.Add(1)
		return errors.New("handler failed")
	})

	require.NoError(t, channel.publish(Create().BuildMessage([]byte("x"))))

	// initial attempt plus two retries
	require.Eventually(t, func() bool {
		return attempts.Load() == 3
	}, 3*time.Second, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(3), attempts.Load())
}

func TestConsumeTimeout(t *testing.T) {
	channel := newChannel("test-consume-timeout",
		WithMaxWorkers(1),
		WithMaxRetries(1),
		WithRetryDelay(10*time.Millisecond),
		WithProcessTimeout(50*time.Millisecond),
		WithLogger(&MockLogger{}),
	)
	defer channel.close()

	var attempts atomic.Int32
	channel.subscribe(func(ctx context.Context, msg *Message) error {
		attempts.Add(1)
		<-ctx.Done()
		return ctx.Err()
	})

	require.NoError(t, channel.publish(Create().BuildMessage([]byte("slow"))))

	require.Eventually(t, func() bool {
		return attempts.Load() == 2
	}, 3*time.Second, 10*time.Millisecond)
}

func TestPublishTimeout(t *testing.T) {
	channel := newChannel("test-publish-timeout",
		WithMaxWorkers(1),
		WithBufferSize(1),
		WithPublishTimeout(50*time.Millisecond),
		WithProcessTimeout(5*time.Second),
		WithLogger(&MockLogger{}),
	)
	defer channel.close()

	block := make(chan struct{})
	defer close(block)
	channel.subscribe(func(ctx context.Context, msg *Message) error {
		<-block
		return nil
	})

	var timeouts int
	for i := 0; i < 6; i++ {
		if err := channel.publish(Create().BuildMessage(nil)); err != nil {
			require.ErrorIs(t, err, ErrPublishTimeout)
			timeouts++
		}
	}
	require.Greater(t, timeouts, 0)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	channel := newChannel("test-unsubscribe", WithLogger(&MockLogger{}))
	defer channel.close()

	var consumed atomic.Int32
	subID := channel.subscribe(func(ctx context.Context, msg *Message) error {
		consumed.Add(1)
		return nil
	})

	require.NoError(t, channel.unsubscribe(subID))
	require.ErrorIs(t, channel.unsubscribe(subID), ErrSubscriberNotFound)

	require.NoError(t, channel.publish(Create().BuildMessage(nil)))

	time.Sleep(200 * time.Millisecond)
	require.Equal(t, int32(0), consumed.Load())
}

func TestChannelMetricsCounters(t *testing.T) {
	channel := newChannel("test-metrics",
		WithMaxWorkers(2),
		WithLogger(&MockLogger{}),
	)
	defer channel.close()

	require.Eventually(t, func() bool {
		return channel.GetActiveWorkers() == 2
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, int32(0), channel.GetBusyWorkers())
	require.Equal(t, int32(0), channel.GetOnGoingJobs())
}
