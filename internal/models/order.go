package models

import (
	"github.com/ariefcatur/go-campus-orders/internal/enums"
	"github.com/shopspring/decimal"
)

// OrderLine is the denormalized snapshot of one ordered item.
type OrderLine struct {
	Name  string          `json:"name"`
	Qty   int             `json:"qty"`
	Price decimal.Decimal `json:"price"`
}

func (l OrderLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// DeliveryInfo locates the buyer on campus. Present only for delivery orders.
type DeliveryInfo struct {
	Class string `json:"class" validate:"required"`
	Roll  string `json:"roll" validate:"required"`
	Time  string `json:"time" validate:"required"`
}

// Order is immutable after placement except for Status.
type Order struct {
	ID            string              `json:"id"`
	Type          enums.OrderType     `json:"type"`
	Items         []OrderLine         `json:"items"`
	Total         decimal.Decimal     `json:"total"`
	PaymentMethod enums.PaymentMethod `json:"payment_method,omitempty"`
	DeliveryType  enums.DeliveryType  `json:"delivery_type"`
	DeliveryInfo  *DeliveryInfo       `json:"delivery_info"`
	DeliveryFee   decimal.Decimal     `json:"delivery_fee"`
	Status        enums.OrderStatus   `json:"status"`
	CreatedAt     Timestamp           `json:"time"`
}

// ItemNames lists line names in order, the summary shown on order cards.
func (o Order) ItemNames() []string {
	out := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		out = append(out, it.Name)
	}
	return out
}

// Clone returns a copy that shares no mutable state with o.
func (o Order) Clone() Order {
	c := o
	c.Items = append([]OrderLine(nil), o.Items...)
	if o.DeliveryInfo != nil {
		info := *o.DeliveryInfo
		c.DeliveryInfo = &info
	}
	return c
}
