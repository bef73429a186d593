package kafka

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// queueReader serves its queued messages, then blocks until ctx ends.
type queueReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []kafka.Message
	closed    bool
}

func newQueueReader(n int) *queueReader {
	r := &queueReader{}
	for i := 0; i < n; i++ {
		r.queue = append(r.queue, kafka.Message{Topic: "campus.order.status", Offset: int64(i)})
	}
	return r
}

func (r *queueReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		m := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *queueReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *queueReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func runConsumer(t *testing.T, c *Consumer, ctx context.Context, h Handler) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx, h) }()
	return done
}

func TestConsumerCommitsHandledMessages(t *testing.T) {
	r := newQueueReader(5)
	c := NewConsumerWithReader(r, 2, nil)
	ctx, cancel := context.WithCancel(context.Background())

	var handled atomic.Int32
	done := runConsumer(t, c, ctx, func(context.Context, kafka.Message) error {
		handled.Add(1)
		return nil
	})

	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return len(r.committed) == 5
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
	assert.Equal(t, int32(5), handled.Load())
	assert.True(t, r.closed)
}

func TestConsumerStopsWhenQueuedMessagesFailAfterCancel(t *testing.T) {
	const queued = 10
	r := newQueueReader(queued)
	c := NewConsumerWithReader(r, 2, nil)
	ctx, cancel := context.WithCancel(context.Background())

	var started, failed atomic.Int32
	done := runConsumer(t, c, ctx, func(ctx context.Context, _ kafka.Message) error {
		started.Add(1)
		<-ctx.Done()
		failed.Add(1)
		return ctx.Err()
	})

	// both workers are busy and the rest sits in the job queue
	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return started.Load() == 2 && len(r.queue) == 0
	}, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer hung while workers reported errors")
	}
	assert.Equal(t, int32(queued), failed.Load())
	assert.Empty(t, r.committed)
}
