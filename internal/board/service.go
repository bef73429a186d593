package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-campus-orders/internal/enums"
	kafkax "github.com/ariefcatur/go-campus-orders/internal/kafka"
	"github.com/ariefcatur/go-campus-orders/internal/logger"
	"github.com/ariefcatur/go-campus-orders/internal/orders"
	"github.com/ariefcatur/go-campus-orders/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

// Entry is what the pickup board shows for one order.
type Entry struct {
	OrderID   string            `json:"order_id"`
	Type      enums.OrderType   `json:"type"`
	Status    enums.OrderStatus `json:"status"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Service keeps the latest status of every order in Redis, fed from order
// events.
type Service struct {
	Redis       redis.Cmdable
	Log         *logger.Logger
	ServiceName string
}

func (s *Service) log() *logger.Logger {
	if s.Log == nil {
		return logger.Nop()
	}
	return s.Log
}

// HandleMessage is installed as the consumer handler.
func (s *Service) HandleMessage(ctx context.Context, m kafkago.Message) error {
	env, err := kafkax.Unmarshal[orders.Envelope](m.Value)
	if err != nil {
		// poison message: log and commit
		s.log().Error(s.log().WithField(ctx, "topic", m.Topic), "undecodable order event", err)
		return nil
	}
	return s.Apply(ctx, env)
}

// Apply records one event. Replays are ignored by event id, and a status
// never moves backwards when events arrive out of order.
func (s *Service) Apply(ctx context.Context, env orders.Envelope) error {
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if seen, err := redisx.Exists(ctx, s.Redis, dkey); err != nil {
		return err
	} else if seen {
		return nil
	}

	var next Entry
	switch env.EventType {
	case orders.EventOrderPlaced:
		p, err := orders.DecodePayload[orders.OrderPlacedPayload](env)
		if err != nil {
			return err
		}
		next = Entry{OrderID: p.OrderID, Type: p.Type, Status: p.Status}
	case orders.EventOrderStatusChanged:
		p, err := orders.DecodePayload[orders.OrderStatusChangedPayload](env)
		if err != nil {
			return err
		}
		next = Entry{OrderID: p.OrderID, Type: p.Type, Status: p.To}
	default:
		return nil
	}
	next.UpdatedAt = env.OccurredAt

	cur, found, err := s.Lookup(ctx, next.OrderID)
	if err != nil {
		return err
	}
	if !found || rank(next.Status) >= rank(cur.Status) {
		b, err := json.Marshal(next)
		if err != nil {
			return err
		}
		key := fmt.Sprintf(redisx.KeyOrderStatus, next.OrderID)
		if err := s.Redis.Set(ctx, key, b, redisx.TTLStatusBoard).Err(); err != nil {
			return err
		}
		s.log().Info(s.log().WithFields(ctx, map[string]any{
			"order_id": next.OrderID,
			"status":   next.Status,
		}), "board updated")
	}

	_, err = redisx.MarkOnce(ctx, s.Redis, dkey, redisx.TTLDedup)
	return err
}

// Lookup returns the cached board entry for an order.
func (s *Service) Lookup(ctx context.Context, orderID string) (Entry, bool, error) {
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	b, err := s.Redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return Entry{}, false, nil
	}
	return e, true, nil
}

func rank(s enums.OrderStatus) int {
	switch s {
	case enums.OrderStatusPending:
		return 0
	case enums.OrderStatusPreparing:
		return 1
	case enums.OrderStatusReady:
		return 2
	case enums.OrderStatusCompleted:
		return 3
	}
	return -1
}
