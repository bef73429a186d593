package orders

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ariefcatur/go-campus-orders/internal/enums"
	"github.com/ariefcatur/go-campus-orders/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderStatusChanged = "OrderStatusChanged"
)

const eventVersion = 1

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type OrderPlacedPayload struct {
	OrderID       string              `json:"order_id"`
	Type          enums.OrderType     `json:"type"`
	Items         []models.OrderLine  `json:"items"`
	Total         decimal.Decimal     `json:"total"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	DeliveryType  enums.DeliveryType  `json:"delivery_type"`
	Status        enums.OrderStatus   `json:"status"`
}

type OrderStatusChangedPayload struct {
	OrderID string            `json:"order_id"`
	Type    enums.OrderType   `json:"type"`
	From    enums.OrderStatus `json:"from"`
	To      enums.OrderStatus `json:"to"`
}

func newEnvelope(eventType, producer, orderID string, payload any) (Envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  eventVersion,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		CorrelationID: orderID,
		Payload:       body,
	}, nil
}

func orderPlacedEvent(producer string, o models.Order) (Envelope, error) {
	return newEnvelope(EventOrderPlaced, producer, o.ID, OrderPlacedPayload{
		OrderID:       o.ID,
		Type:          o.Type,
		Items:         o.Items,
		Total:         o.Total,
		PaymentMethod: o.PaymentMethod,
		DeliveryType:  o.DeliveryType,
		Status:        o.Status,
	})
}

func statusChangedEvent(producer string, o models.Order, from enums.OrderStatus) (Envelope, error) {
	return newEnvelope(EventOrderStatusChanged, producer, o.ID, OrderStatusChangedPayload{
		OrderID: o.ID,
		Type:    o.Type,
		From:    from,
		To:      o.Status,
	})
}

// DecodePayload unpacks an envelope payload into T.
func DecodePayload[T any](env Envelope) (T, error) {
	var t T
	if err := json.Unmarshal(env.Payload, &t); err != nil {
		return t, fmt.Errorf("decode %s payload: %w", env.EventType, err)
	}
	return t, nil
}
