package kafka

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ariefcatur/go-campus-orders/internal/logger"
	"github.com/segmentio/kafka-go"
)

var ErrProducerClosed = errors.New("producer closed")

// MessageWriter is the part of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	w       MessageWriter
	log     *logger.Logger
	timeout time.Duration

	mu      sync.RWMutex
	closed  bool
	inbox   chan kafka.Message
	closeCh chan struct{}
}

// NewProducer writes to any topic; each message names its own.
func NewProducer(brokers []string, buf int, log *logger.Logger) *Producer {
	if log == nil {
		log = logger.Nop()
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		Completion: func(msgs []kafka.Message, err error) {
			if err == nil {
				return
			}
			for _, m := range msgs {
				ctx := log.WithFields(context.Background(), map[string]any{
					"topic": m.Topic,
					"key":   string(m.Key),
				})
				log.Error(ctx, "kafka delivery failed", err)
			}
		},
	}
	return NewProducerWithWriter(w, buf, log)
}

func NewProducerWithWriter(w MessageWriter, buf int, log *logger.Logger) *Producer {
	if log == nil {
		log = logger.Nop()
	}
	if buf <= 0 {
		buf = 1
	}
	return &Producer{
		w:       w,
		log:     log,
		timeout: 10 * time.Second,
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

// Start runs the write loop until Close is called. Queued messages are
// flushed before the writer is closed.
func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		for m := range p.inbox {
			wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
			if err := p.w.WriteMessages(wctx, m); err != nil {
				p.log.Error(p.log.WithField(ctx, "topic", m.Topic), "kafka write failed", err)
			}
			cancel()
		}
		if err := p.w.Close(); err != nil {
			p.log.Error(ctx, "kafka writer close failed", err)
		}
	}()
}

// Publish queues a message. It blocks while the buffer is full.
func (p *Producer) Publish(ctx context.Context, topic string, key, value []byte, headers ...kafka.Header) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrProducerClosed
	}
	m := kafka.Message{
		Topic:   topic,
		Key:     key,
		Value:   value,
		Time:    time.Now(),
		Headers: headers,
	}
	select {
	case p.inbox <- m:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting messages; the loop flushes what is queued and exits.
func (p *Producer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.inbox)
}

// WaitClosed blocks until the write loop has exited.
func (p *Producer) WaitClosed() { <-p.closeCh }
