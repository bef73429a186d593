package orders

import (
	"context"

	kafkax "github.com/ariefcatur/go-campus-orders/internal/kafka"
)

// Publisher announces order events. Delivery is best effort: a publish
// failure never undoes a persisted order.
type Publisher interface {
	Publish(ctx context.Context, topic string, env Envelope) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, Envelope) error { return nil }

// NopPublisher discards events. Used when no broker is configured.
func NopPublisher() Publisher { return nopPublisher{} }

// KafkaPublisher encodes envelopes onto a kafka producer keyed by order id.
type KafkaPublisher struct {
	Producer *kafkax.Producer
}

func (k *KafkaPublisher) Publish(ctx context.Context, topic string, env Envelope) error {
	value, err := kafkax.Marshal(env)
	if err != nil {
		return err
	}
	return k.Producer.Publish(ctx, topic, PartitionKey(env.CorrelationID), value,
		kafkax.EventHeaders(env.EventType, env.EventVersion)...)
}
