package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ariefcatur/go-campus-orders/internal/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineTotal(t *testing.T) {
	line := OrderLine{Name: "Veg Burger", Qty: 2, Price: decimal.NewFromInt(40)}
	assert.True(t, line.LineTotal().Equal(decimal.NewFromInt(80)))
}

func TestCloneSharesNoState(t *testing.T) {
	doc := Seed()
	doc.Orders = append(doc.Orders, Order{
		ID:           "ABCD1234",
		Type:         enums.OrderTypeCanteen,
		Items:        []OrderLine{{Name: "Tea", Qty: 1, Price: decimal.NewFromInt(10)}},
		DeliveryType: enums.DeliveryTypeDelivery,
		DeliveryInfo: &DeliveryInfo{Class: "CSE-2", Roll: "42", Time: "12:30 PM"},
		Status:       enums.OrderStatusPending,
	})

	c := doc.Clone()
	c.SuvidhaItems[0].Stock = 0
	c.Orders[0].Status = enums.OrderStatusReady
	c.Orders[0].Items[0].Qty = 9
	c.Orders[0].DeliveryInfo.Class = "ME-1"

	assert.Equal(t, 12, doc.SuvidhaItems[0].Stock)
	assert.Equal(t, enums.OrderStatusPending, doc.Orders[0].Status)
	assert.Equal(t, 1, doc.Orders[0].Items[0].Qty)
	assert.Equal(t, "CSE-2", doc.Orders[0].DeliveryInfo.Class)
}

func TestPricesEncodeAsNumbers(t *testing.T) {
	b, err := json.Marshal(CanteenItem{Name: "Tea", Price: decimal.RequireFromString("10.5"), Available: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Tea","price":10.5,"available":true}`, string(b))
}

func TestDecimalEncodingIsProcessWide(t *testing.T) {
	assert.True(t, decimal.MarshalJSONWithoutQuotes)

	b, err := json.Marshal(map[string]decimal.Decimal{"fee": decimal.NewFromInt(5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"fee":5}`, string(b))
}

func TestTimestampRoundTrip(t *testing.T) {
	ts := NewTimestamp(time.Date(2025, 3, 14, 12, 30, 5, 999, time.Local))
	b, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-14 12:30:05"`, string(b))

	var back Timestamp
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Equal(ts.Time))
}

func TestParseTimestampFormats(t *testing.T) {
	got, err := ParseTimestamp("2024-11-02T08:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 2024, got.Year())

	zero, err := ParseTimestamp("")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestIndexLookups(t *testing.T) {
	doc := Seed()
	assert.Equal(t, 1, doc.CanteenIndex("Tea"))
	assert.Equal(t, -1, doc.CanteenIndex("tea"))
	assert.Equal(t, 0, doc.SuvidhaIndex("Notebook A4"))
	assert.Equal(t, -1, doc.OrderIndex("missing"))
}
