package cart

import (
	"sync"
	"time"

	"github.com/ariefcatur/go-campus-orders/internal/enums"
)

type sessionKey struct {
	id   string
	kind enums.OrderType
}

type session struct {
	cart    *Cart
	touched time.Time
}

// Sessions keeps one cart per browsing session and catalog kind. Carts live
// only in memory.
type Sessions struct {
	catalog Catalog
	idle    time.Duration
	now     func() time.Time

	mu    sync.Mutex
	carts map[sessionKey]*session
}

// NewSessions returns a registry that forgets carts untouched for idle. A zero
// idle keeps carts until they are dropped.
func NewSessions(cat Catalog, idle time.Duration) *Sessions {
	return &Sessions{
		catalog: cat,
		idle:    idle,
		now:     time.Now,
		carts:   map[sessionKey]*session{},
	}
}

// Get returns the session's cart for kind, creating an empty one on first use.
func (s *Sessions) Get(id string, kind enums.OrderType) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey{id: id, kind: kind}
	now := s.now()
	if sess, ok := s.carts[key]; ok {
		sess.touched = now
		return sess.cart, nil
	}
	c, err := New(kind, s.catalog)
	if err != nil {
		return nil, err
	}
	s.carts[key] = &session{cart: c, touched: now}
	return c, nil
}

// Drop forgets every cart held for the session.
func (s *Sessions) Drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.carts {
		if key.id == id {
			delete(s.carts, key)
		}
	}
}

// Sweep removes idle carts and reports how many were dropped.
func (s *Sessions) Sweep() int {
	if s.idle <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.idle)
	n := 0
	for key, sess := range s.carts {
		if sess.touched.Before(cutoff) {
			delete(s.carts, key)
			n++
		}
	}
	return n
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}
