package orders

import (
	"context"
	"fmt"
	"sort"

	"github.com/ariefcatur/go-campus-orders/internal/enums"
	"github.com/ariefcatur/go-campus-orders/internal/errs"
	"github.com/ariefcatur/go-campus-orders/internal/logger"
	"github.com/ariefcatur/go-campus-orders/internal/models"
	"github.com/ariefcatur/go-campus-orders/internal/store"
)

// Filter narrows ListOrders. Zero values match everything.
type Filter struct {
	Type   enums.OrderType
	Status enums.OrderStatus
}

// Stats is the owner dashboard summary.
type Stats struct {
	Total    int                       `json:"total"`
	ByType   map[enums.OrderType]int   `json:"by_type"`
	ByStatus map[enums.OrderStatus]int `json:"by_status"`
}

// Service answers order queries and moves orders through their statuses.
// Orders are never deleted.
type Service struct {
	store     *store.Store
	log       *logger.Logger
	publisher Publisher
	producer  string
	mode      StatusMode
}

type ServiceOption func(*Service)

func WithStatusMode(mode StatusMode) ServiceOption {
	return func(s *Service) { s.mode = mode }
}

func WithStatusPublisher(p Publisher, producer string) ServiceOption {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
		s.producer = producer
	}
}

func WithServiceLogger(l *logger.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func NewService(st *store.Store, opts ...ServiceOption) (*Service, error) {
	if st == nil {
		return nil, fmt.Errorf("document store required")
	}
	s := &Service{
		store:     st,
		log:       logger.Nop(),
		publisher: NopPublisher(),
		mode:      StatusModeLinear,
	}
	for _, opt := range opts {
		opt(s)
	}
	if _, ok := validNext[s.mode]; !ok {
		return nil, fmt.Errorf("invalid status mode %q", s.mode)
	}
	return s, nil
}

// ListOrders returns matching orders, most recent first. Orders placed in the
// same second keep their reverse insertion order.
func (s *Service) ListOrders(f Filter) []models.Order {
	out := []models.Order{}
	s.store.View(func(doc *models.Document) {
		for i := len(doc.Orders) - 1; i >= 0; i-- {
			o := doc.Orders[i]
			if f.Type != "" && o.Type != f.Type {
				continue
			}
			if f.Status != "" && o.Status != f.Status {
				continue
			}
			out = append(out, o.Clone())
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt.Time)
	})
	return out
}

func (s *Service) GetOrder(id string) (models.Order, error) {
	var (
		out   models.Order
		found bool
	)
	s.store.View(func(doc *models.Document) {
		if i := doc.OrderIndex(id); i >= 0 {
			out, found = doc.Orders[i].Clone(), true
		}
	})
	if !found {
		return models.Order{}, errs.Newf(errs.CodeNotFound, "order %q not found", id)
	}
	return out, nil
}

// AdvanceStatus moves the order exactly one step forward. Completed orders and
// unknown ids fail with INVALID_TRANSITION; for an unknown id the cause is
// NOT_FOUND.
func (s *Service) AdvanceStatus(ctx context.Context, id string) (models.Order, error) {
	var (
		out  models.Order
		from enums.OrderStatus
	)
	err := s.store.Update(ctx, func(doc *models.Document) error {
		i := doc.OrderIndex(id)
		if i < 0 {
			return errs.Wrap(errs.CodeInvalidTransition,
				errs.Newf(errs.CodeNotFound, "order %q not found", id),
				"cannot advance unknown order")
		}
		from = doc.Orders[i].Status
		next, ok := NextStatus(s.mode, from)
		if !ok {
			return errs.Newf(errs.CodeInvalidTransition, "order %s is already %s", id, from).
				WithDetails(map[string]string{"order_id": id, "status": string(from)})
		}
		doc.Orders[i].Status = next
		out = doc.Orders[i].Clone()
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	ctx = s.log.WithOrderID(ctx, id)
	s.log.Info(s.log.WithFields(ctx, map[string]any{"from": from, "to": out.Status}), "order status advanced")

	env, err := statusChangedEvent(s.producer, out, from)
	if err == nil {
		err = s.publisher.Publish(ctx, TopicOrderStatus, env)
	}
	if err != nil {
		s.log.Error(ctx, "publish status change failed", err)
	}
	return out, nil
}

func (s *Service) Stats() Stats {
	st := Stats{
		ByType:   map[enums.OrderType]int{},
		ByStatus: map[enums.OrderStatus]int{},
	}
	s.store.View(func(doc *models.Document) {
		for _, o := range doc.Orders {
			st.Total++
			st.ByType[o.Type]++
			st.ByStatus[o.Status]++
		}
	})
	return st
}
