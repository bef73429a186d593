package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ariefcatur/go-campus-orders/internal/cart"
	"github.com/ariefcatur/go-campus-orders/internal/catalog"
	"github.com/ariefcatur/go-campus-orders/internal/enums"
	"github.com/ariefcatur/go-campus-orders/internal/errs"
	"github.com/ariefcatur/go-campus-orders/internal/logger"
	"github.com/ariefcatur/go-campus-orders/internal/models"
	"github.com/ariefcatur/go-campus-orders/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultDeliveryFee is charged on delivery orders unless configured otherwise.
var DefaultDeliveryFee = decimal.NewFromInt(5)

const maxIDAttempts = 16

// Engine turns a cart and a completed checkout into a stored order.
type Engine struct {
	store     *store.Store
	log       *logger.Logger
	publisher Publisher
	producer  string
	fee       decimal.Decimal
	newID     func() string
	now       func() time.Time
}

type EngineOption func(*Engine)

func WithDeliveryFee(fee decimal.Decimal) EngineOption {
	return func(e *Engine) { e.fee = fee }
}

func WithPublisher(p Publisher, producer string) EngineOption {
	return func(e *Engine) {
		if p != nil {
			e.publisher = p
		}
		e.producer = producer
	}
}

func WithEngineLogger(l *logger.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func withIDSource(fn func() string) EngineOption {
	return func(e *Engine) { e.newID = fn }
}

func NewEngine(s *store.Store, opts ...EngineOption) (*Engine, error) {
	if s == nil {
		return nil, fmt.Errorf("document store required")
	}
	e := &Engine{
		store:     s,
		log:       logger.Nop(),
		publisher: NopPublisher(),
		fee:       DefaultDeliveryFee,
		newID:     newOrderID,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// newOrderID returns an 8 character uppercase token.
func newOrderID() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// PlaceOrder validates the cart and checkout, re-checks every line against
// the live catalog, and stores the order with stock decremented, all under
// one store update. If anything fails nothing changes and the cart is kept.
// On success the cart is cleared.
func (e *Engine) PlaceOrder(ctx context.Context, c *cart.Cart, co *Checkout) (models.Order, error) {
	if c == nil {
		return models.Order{}, errs.New(errs.CodeEmptyCart, "cart is empty")
	}
	if co == nil {
		co = NewCheckout()
	}
	kind := c.Kind()

	// The cart stays locked from the emptiness check until the order is
	// stored, so one cart yields at most one order.
	var order models.Order
	err := c.Checkout(func(lines []cart.Line) error {
		if len(lines) == 0 {
			return errs.New(errs.CodeEmptyCart, "cart is empty")
		}
		if err := co.Validate(); err != nil {
			return err
		}
		method, _ := co.paymentMethod()
		return e.store.Update(ctx, func(doc *models.Document) error {
			placed, err := e.place(doc, kind, lines, co, method)
			if err != nil {
				return err
			}
			order = placed
			return nil
		})
	})
	if err != nil {
		return models.Order{}, err
	}

	ctx = e.log.WithOrderID(ctx, order.ID)
	e.log.Info(e.log.WithFields(ctx, map[string]any{
		"type":  order.Type,
		"total": order.Total.StringFixed(2),
		"lines": len(order.Items),
	}), "order placed")

	env, err := orderPlacedEvent(e.producer, order)
	if err == nil {
		err = e.publisher.Publish(ctx, TopicOrderPlaced, env)
	}
	if err != nil {
		e.log.Error(ctx, "publish order placed failed", err)
	}
	return order.Clone(), nil
}

// place builds the order from revalidated lines and appends it to doc.
func (e *Engine) place(doc *models.Document, kind enums.OrderType, lines []cart.Line, co *Checkout, method enums.PaymentMethod) (models.Order, error) {
	if err := revalidate(doc, kind, lines); err != nil {
		return models.Order{}, err
	}

	items := make([]models.OrderLine, 0, len(lines))
	total := decimal.Zero
	for _, l := range lines {
		line := models.OrderLine{Name: l.Name, Qty: l.Qty, Price: l.Price}
		items = append(items, line)
		total = total.Add(line.LineTotal())
	}
	fee := decimal.Zero
	if co.fulfillment == enums.DeliveryTypeDelivery {
		fee = e.fee
		total = total.Add(fee)
	}

	if kind == enums.OrderTypeSuvidha {
		for _, l := range lines {
			if _, err := catalog.ApplyStockDelta(doc, l.Name, -l.Qty); err != nil {
				return models.Order{}, err
			}
		}
	}

	id, err := e.uniqueID(doc)
	if err != nil {
		return models.Order{}, err
	}
	order := models.Order{
		ID:            id,
		Type:          kind,
		Items:         items,
		Total:         total,
		PaymentMethod: method,
		DeliveryType:  co.fulfillment,
		DeliveryFee:   fee,
		Status:        enums.OrderStatusPending,
		CreatedAt:     models.NewTimestamp(e.now()),
	}
	if co.info != nil && co.fulfillment == enums.DeliveryTypeDelivery {
		info := *co.info
		order.DeliveryInfo = &info
	}
	doc.Orders = append(doc.Orders, order)
	return order, nil
}

// revalidate checks cart lines against the live catalog inside the update.
func revalidate(doc *models.Document, kind enums.OrderType, lines []cart.Line) error {
	var (
		shortages []catalog.StockShortage
		gone      []string
	)
	for _, l := range lines {
		switch kind {
		case enums.OrderTypeSuvidha:
			i := doc.SuvidhaIndex(l.Name)
			if i < 0 {
				gone = append(gone, l.Name)
				continue
			}
			if stock := doc.SuvidhaItems[i].Stock; l.Qty > stock {
				shortages = append(shortages, catalog.StockShortage{Name: l.Name, Required: l.Qty, Available: stock})
			}
		default:
			i := doc.CanteenIndex(l.Name)
			if i < 0 || !doc.CanteenItems[i].Available {
				gone = append(gone, l.Name)
			}
		}
	}
	if len(gone) > 0 {
		return errs.Invalid("items", "are no longer available: "+strings.Join(gone, ", ")).
			WithDetails(map[string][]string{"unavailable": gone})
	}
	if len(shortages) > 0 {
		return catalog.InsufficientStock(shortages...)
	}
	return nil
}

func (e *Engine) uniqueID(doc *models.Document) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := e.newID()
		if doc.OrderIndex(id) < 0 {
			return id, nil
		}
	}
	return "", errs.New(errs.CodeInternal, "could not allocate a unique order id")
}
