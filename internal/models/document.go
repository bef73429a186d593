package models

import (
	"github.com/ariefcatur/go-campus-orders/internal/enums"
	"github.com/shopspring/decimal"
)

// SchemaVersion is written into every saved document. Files without it were
// produced by older builds and go through migration on load.
const SchemaVersion = 4

// Document is the unit of persistence: both catalogs and every order.
type Document struct {
	SchemaVersion int           `json:"schema_version"`
	CanteenItems  []CanteenItem `json:"canteen_items"`
	SuvidhaItems  []SuvidhaItem `json:"suvidha_items"`
	Orders        []Order       `json:"orders"`
}

// NewDocument returns an empty document with non-nil collections.
func NewDocument() *Document {
	return &Document{
		SchemaVersion: SchemaVersion,
		CanteenItems:  []CanteenItem{},
		SuvidhaItems:  []SuvidhaItem{},
		Orders:        []Order{},
	}
}

// Seed returns the first-run document.
func Seed() *Document {
	d := NewDocument()
	d.CanteenItems = []CanteenItem{
		{Name: "Veg Burger", Price: decimal.NewFromInt(40), Available: true},
		{Name: "Tea", Price: decimal.NewFromInt(10), Available: true},
		{Name: "Samosa", Price: decimal.NewFromInt(15), Available: true},
		{Name: "Coffee", Price: decimal.NewFromInt(12), Available: true},
	}
	d.SuvidhaItems = []SuvidhaItem{
		{Name: "Notebook A4", Price: decimal.NewFromInt(60), Stock: 12, Category: enums.CategoryStationery},
		{Name: "Blue Pen", Price: decimal.NewFromInt(8), Stock: 50, Category: enums.CategoryStationery},
		{Name: "Physics Manual", Price: decimal.NewFromInt(150), Stock: 8, Category: enums.CategoryManuals},
		{Name: "Graph Paper", Price: decimal.NewFromInt(30), Stock: 25, Category: enums.CategoryStationery},
	}
	return d
}

// Clone deep-copies the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := &Document{
		SchemaVersion: d.SchemaVersion,
		CanteenItems:  append([]CanteenItem{}, d.CanteenItems...),
		SuvidhaItems:  append([]SuvidhaItem{}, d.SuvidhaItems...),
		Orders:        make([]Order, len(d.Orders)),
	}
	for i, o := range d.Orders {
		c.Orders[i] = o.Clone()
	}
	return c
}

// CanteenIndex returns the position of the named canteen item or -1.
func (d *Document) CanteenIndex(name string) int {
	for i := range d.CanteenItems {
		if d.CanteenItems[i].Name == name {
			return i
		}
	}
	return -1
}

// SuvidhaIndex returns the position of the named suvidha item or -1.
func (d *Document) SuvidhaIndex(name string) int {
	for i := range d.SuvidhaItems {
		if d.SuvidhaItems[i].Name == name {
			return i
		}
	}
	return -1
}

// OrderIndex returns the position of the order with the given id or -1.
func (d *Document) OrderIndex(id string) int {
	for i := range d.Orders {
		if d.Orders[i].ID == id {
			return i
		}
	}
	return -1
}
