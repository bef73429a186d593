package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	closed bool
	err    error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func TestProducerFlushesQueuedMessagesOnClose(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, 8, nil)
	ctx := context.Background()

	for _, key := range []string{"A1", "B2", "C3"} {
		require.NoError(t, p.Publish(ctx, "campus.order.placed", []byte(key), []byte(`{}`), EventHeaders("OrderPlaced", 1)...))
	}
	p.Start(ctx)
	p.Close()
	p.WaitClosed()

	require.Len(t, w.msgs, 3)
	assert.Equal(t, "campus.order.placed", w.msgs[0].Topic)
	assert.Equal(t, "A1", string(w.msgs[0].Key))
	assert.Equal(t, "OrderPlaced", Header(w.msgs[2], HeaderEventType))
	assert.Equal(t, "1", Header(w.msgs[2], HeaderEventVersion))
	assert.True(t, w.closed)
}

func TestProducerRejectsPublishAfterClose(t *testing.T) {
	p := NewProducerWithWriter(&recordingWriter{}, 1, nil)
	p.Start(context.Background())
	p.Close()
	p.Close()
	p.WaitClosed()

	err := p.Publish(context.Background(), "t", nil, nil)
	assert.ErrorIs(t, err, ErrProducerClosed)
}

func TestProducerKeepsRunningAfterWriteError(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker down")}
	p := NewProducerWithWriter(w, 2, nil)
	ctx := context.Background()

	require.NoError(t, p.Publish(ctx, "t", []byte("k"), []byte("v")))
	p.Start(ctx)
	p.Close()
	p.WaitClosed()

	assert.Empty(t, w.msgs)
	assert.True(t, w.closed)
}

func TestPublishHonoursContextWhenBufferFull(t *testing.T) {
	p := NewProducerWithWriter(&recordingWriter{}, 1, nil)
	require.NoError(t, p.Publish(context.Background(), "t", nil, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Publish(ctx, "t", nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnmarshal(t *testing.T) {
	type payload struct {
		OrderID string `json:"order_id"`
	}
	b, err := Marshal(payload{OrderID: "AB12CD34"})
	require.NoError(t, err)

	got, err := Unmarshal[payload](b)
	require.NoError(t, err)
	assert.Equal(t, "AB12CD34", got.OrderID)

	_, err = Unmarshal[payload]([]byte("{"))
	assert.Error(t, err)
}
