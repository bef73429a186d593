package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/ariefcatur/go-campus-orders/internal/logger"
	"github.com/segmentio/kafka-go"
)

// Handler must return nil only when processing succeeded and the offset may
// be committed.
type Handler func(ctx context.Context, m kafka.Message) error

// MessageReader is the subset of *kafka.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	r       MessageReader
	workers int
	log     *logger.Logger
}

func NewConsumer(brokers []string, group string, topics []string, workers int, log *logger.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		GroupTopics:    topics,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit
	})
	return NewConsumerWithReader(r, workers, log)
}

func NewConsumerWithReader(r MessageReader, workers int, log *logger.Logger) *Consumer {
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Consumer{r: r, workers: workers, log: log}
}

// Start fetches messages and hands them to workers until ctx is cancelled.
// Workers finish the messages already queued before Start returns.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	jobs := make(chan kafka.Message, 1024)
	errs := make(chan error, c.workers)

	// report never blocks a worker; overflow is logged directly
	report := func(m kafka.Message, err error) {
		select {
		case errs <- err:
		default:
			c.log.Error(c.log.WithField(ctx, "topic", m.Topic), "consumer worker failed", err)
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range jobs {
				if err := h(ctx, m); err != nil {
					report(m, err)
					continue
				}
				if err := c.r.CommitMessages(ctx, m); err != nil {
					report(m, err)
				}
			}
		}()
	}
	stop := func() {
		close(jobs)
		wg.Wait()
	}

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			stop()
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		select {
		case jobs <- m:
		case <-ctx.Done():
			stop()
			return nil
		}

		// drain without blocking so a slow worker cannot stall the fetch loop
		select {
		case e := <-errs:
			c.log.Error(c.log.WithField(ctx, "topic", m.Topic), "consumer worker failed", e)
			time.Sleep(200 * time.Millisecond)
		default:
		}
	}
}
