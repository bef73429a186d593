package cart

import (
	"sync"

	"github.com/ariefcatur/go-campus-orders/internal/catalog"
	"github.com/ariefcatur/go-campus-orders/internal/enums"
	"github.com/ariefcatur/go-campus-orders/internal/errs"
	"github.com/ariefcatur/go-campus-orders/internal/models"
	"github.com/shopspring/decimal"
)

// Catalog resolves live items by name.
type Catalog interface {
	CanteenItem(name string) (models.CanteenItem, error)
	SuvidhaItem(name string) (models.SuvidhaItem, error)
}

// Line is a cart entry. Name and Price are copied from the catalog when the
// line is first added; Name doubles as the key used to look the item up again
// at checkout.
type Line struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Qty   int             `json:"qty"`
}

func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// Cart holds one session's pending selection from a single catalog.
type Cart struct {
	kind    enums.OrderType
	catalog Catalog

	mu    sync.Mutex
	lines []Line
}

func New(kind enums.OrderType, cat Catalog) (*Cart, error) {
	if !kind.IsValid() {
		return nil, errs.Invalid("kind", "must be canteen or suvidha")
	}
	if cat == nil {
		return nil, errs.New(errs.CodeInternal, "cart requires a catalog")
	}
	return &Cart{kind: kind, catalog: cat}, nil
}

func (c *Cart) Kind() enums.OrderType { return c.kind }

// Add puts qty of the named item in the cart, merging with an existing line.
// For suvidha items the merged quantity is checked against current stock; the
// check is repeated at checkout.
func (c *Cart) Add(name string, qty int) (Line, error) {
	if qty <= 0 {
		return Line{}, errs.Invalid("qty", "must be a positive integer")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(name)
	merged := qty
	if i >= 0 {
		merged += c.lines[i].Qty
	}
	price, err := c.check(name, merged)
	if err != nil {
		return Line{}, err
	}
	if i >= 0 {
		c.lines[i].Qty = merged
		return c.lines[i], nil
	}
	line := Line{Name: name, Price: price, Qty: qty}
	c.lines = append(c.lines, line)
	return line, nil
}

// SetQuantity replaces the quantity of an existing line.
func (c *Cart) SetQuantity(name string, qty int) (Line, error) {
	if qty <= 0 {
		return Line{}, errs.Invalid("qty", "must be a positive integer")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(name)
	if i < 0 {
		return Line{}, errs.Newf(errs.CodeNotFound, "%q is not in the cart", name)
	}
	if _, err := c.check(name, qty); err != nil {
		return Line{}, err
	}
	c.lines[i].Qty = qty
	return c.lines[i], nil
}

func (c *Cart) Remove(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(name)
	if i < 0 {
		return errs.Newf(errs.CodeNotFound, "%q is not in the cart", name)
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return nil
}

// Lines returns a copy of the cart contents in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Line{}, c.lines...)
}

func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Total())
	}
	return total
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Checkout hands the current lines to place while holding the cart, so no
// other add, edit or checkout can interleave. The cart is emptied only when
// place returns nil.
func (c *Cart) Checkout(place func(lines []Line) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := place(append([]Line{}, c.lines...)); err != nil {
		return err
	}
	c.lines = nil
	return nil
}

func (c *Cart) index(name string) int {
	for i := range c.lines {
		if c.lines[i].Name == name {
			return i
		}
	}
	return -1
}

// check resolves the live item and returns its current price.
func (c *Cart) check(name string, qty int) (decimal.Decimal, error) {
	if c.kind == enums.OrderTypeSuvidha {
		item, err := c.catalog.SuvidhaItem(name)
		if err != nil {
			return decimal.Zero, err
		}
		if qty > item.Stock {
			return decimal.Zero, catalog.InsufficientStock(catalog.StockShortage{
				Name:      name,
				Required:  qty,
				Available: item.Stock,
			})
		}
		return item.Price, nil
	}

	item, err := c.catalog.CanteenItem(name)
	if err != nil {
		return decimal.Zero, err
	}
	if !item.Available {
		return decimal.Zero, errs.Invalid("name", "is currently unavailable")
	}
	return item.Price, nil
}
