package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ariefcatur/go-campus-orders/internal/enums"
	"github.com/ariefcatur/go-campus-orders/internal/models"
	"github.com/shopspring/decimal"
)

// The raw* shapes accept every document layout the app has written:
//   - v2.5: order items as {name, qty, price}, status pending/completed,
//     "delivery" bool plus "delivery_fee", no payment method.
//   - v3.8: order items as a bare name list, payment_method, four-state status.
//   - current: structured lines, schema_version set.

type rawDocument struct {
	SchemaVersion int              `json:"schema_version"`
	CanteenItems  []rawCanteenItem `json:"canteen_items"`
	SuvidhaItems  []rawSuvidhaItem `json:"suvidha_items"`
	Orders        []rawOrder       `json:"orders"`
}

type rawCanteenItem struct {
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Available *bool           `json:"available"`
}

type rawSuvidhaItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    decimal.Decimal `json:"stock"`
	Category string          `json:"category"`
}

type rawOrder struct {
	ID            string               `json:"id"`
	Type          string               `json:"type"`
	Items         json.RawMessage      `json:"items"`
	Total         decimal.Decimal      `json:"total"`
	PaymentMethod string               `json:"payment_method"`
	DeliveryType  string               `json:"delivery_type"`
	Delivery      *bool                `json:"delivery"`
	DeliveryInfo  *models.DeliveryInfo `json:"delivery_info"`
	DeliveryFee   decimal.Decimal      `json:"delivery_fee"`
	Status        string               `json:"status"`
	Time          string               `json:"time"`
}

// Decode parses a stored document of any known layout into the current
// schema. Notes describe every value that had to be defaulted; migrated is
// true when the stored bytes differ in shape from what Encode would write.
func Decode(body []byte) (doc *models.Document, migrated bool, notes []string, err error) {
	var raw rawDocument
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&raw); err != nil {
		return nil, false, nil, fmt.Errorf("decode document: %w", err)
	}

	doc = models.NewDocument()
	note := func(format string, args ...any) {
		notes = append(notes, fmt.Sprintf(format, args...))
	}

	for _, it := range raw.CanteenItems {
		item := models.CanteenItem{Name: it.Name, Price: it.Price, Available: true}
		if it.Available != nil {
			item.Available = *it.Available
		}
		doc.CanteenItems = append(doc.CanteenItems, item)
	}

	for _, it := range raw.SuvidhaItems {
		item := models.SuvidhaItem{Name: it.Name, Price: it.Price, Stock: int(it.Stock.IntPart())}
		if !it.Stock.IsInteger() {
			note("suvidha item %q: fractional stock %s truncated to %d", it.Name, it.Stock, item.Stock)
		}
		if item.Stock < 0 {
			note("suvidha item %q: negative stock %d reset to 0", it.Name, item.Stock)
			item.Stock = 0
		}
		cat, err := enums.ParseCategory(it.Category)
		if err != nil {
			if it.Category != "" {
				note("suvidha item %q: unknown category %q filed under Others", it.Name, it.Category)
			}
			cat = enums.CategoryOthers
		}
		item.Category = cat
		doc.SuvidhaItems = append(doc.SuvidhaItems, item)
	}

	for _, ro := range raw.Orders {
		o, err := decodeOrder(ro, note)
		if err != nil {
			return nil, false, nil, err
		}
		doc.Orders = append(doc.Orders, o)
	}

	migrated = raw.SchemaVersion != models.SchemaVersion || len(notes) > 0
	return doc, migrated, notes, nil
}

func decodeOrder(ro rawOrder, note func(string, ...any)) (models.Order, error) {
	o := models.Order{
		ID:          ro.ID,
		Total:       ro.Total,
		DeliveryFee: ro.DeliveryFee,
	}

	typ, err := enums.ParseOrderType(ro.Type)
	if err != nil {
		note("order %s: unknown type %q recorded as canteen", ro.ID, ro.Type)
		typ = enums.OrderTypeCanteen
	}
	o.Type = typ

	lines, err := decodeLines(ro.Items)
	if err != nil {
		return models.Order{}, fmt.Errorf("order %s items: %w", ro.ID, err)
	}
	o.Items = lines

	if ro.PaymentMethod != "" {
		pm, err := enums.ParsePaymentMethod(ro.PaymentMethod)
		if err != nil {
			note("order %s: unknown payment method %q dropped", ro.ID, ro.PaymentMethod)
		} else {
			o.PaymentMethod = pm
		}
	}

	info := ro.DeliveryInfo
	if info != nil && *info == (models.DeliveryInfo{}) {
		info = nil
	}
	switch dt, err := enums.ParseDeliveryType(ro.DeliveryType); {
	case err == nil:
		o.DeliveryType = dt
	case ro.Delivery != nil && *ro.Delivery:
		o.DeliveryType = enums.DeliveryTypeDelivery
	case ro.Delivery == nil && info != nil:
		o.DeliveryType = enums.DeliveryTypeDelivery
	default:
		o.DeliveryType = enums.DeliveryTypePickup
	}
	if o.DeliveryType == enums.DeliveryTypeDelivery {
		o.DeliveryInfo = info
	}

	switch st, err := enums.ParseOrderStatus(ro.Status); {
	case err == nil:
		o.Status = st
	case ro.Status == "":
		o.Status = enums.OrderStatusPending
	default:
		note("order %s: unknown status %q reset to Pending", ro.ID, ro.Status)
		o.Status = enums.OrderStatusPending
	}

	ts, err := models.ParseTimestamp(ro.Time)
	if err != nil {
		note("order %s: %v", ro.ID, err)
	}
	o.CreatedAt = ts

	return o, nil
}

// decodeLines accepts structured lines or a bare list of item names. A name
// only line carries qty 1 and an unknown (zero) price.
func decodeLines(raw json.RawMessage) ([]models.OrderLine, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []models.OrderLine{}, nil
	}

	var names []string
	if err := json.Unmarshal(trimmed, &names); err == nil {
		lines := make([]models.OrderLine, 0, len(names))
		for _, n := range names {
			lines = append(lines, models.OrderLine{Name: n, Qty: 1, Price: decimal.Zero})
		}
		return lines, nil
	}

	var lines []models.OrderLine
	if err := json.Unmarshal(trimmed, &lines); err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i].Name = strings.TrimSpace(lines[i].Name)
		if lines[i].Qty <= 0 {
			lines[i].Qty = 1
		}
	}
	return lines, nil
}

// Encode serializes the document in the current schema.
func Encode(doc *models.Document) ([]byte, error) {
	out := *doc
	out.SchemaVersion = models.SchemaVersion
	return json.MarshalIndent(&out, "", "  ")
}
