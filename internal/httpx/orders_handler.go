package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/go-campus-orders/internal/board"
	"github.com/ariefcatur/go-campus-orders/internal/cart"
	"github.com/ariefcatur/go-campus-orders/internal/catalog"
	"github.com/ariefcatur/go-campus-orders/internal/enums"
	"github.com/ariefcatur/go-campus-orders/internal/errs"
	"github.com/ariefcatur/go-campus-orders/internal/logger"
	"github.com/ariefcatur/go-campus-orders/internal/orders"
	"github.com/go-chi/chi/v5"
)

// StatusBoard answers public status lookups from the board cache.
type StatusBoard interface {
	Lookup(ctx context.Context, orderID string) (board.Entry, bool, error)
}

// API wires the ordering core onto HTTP routes.
type API struct {
	Catalog *catalog.Manager
	Carts   *cart.Sessions
	Engine  *orders.Engine
	Orders  *orders.Service
	Board   StatusBoard // optional
	Log     *logger.Logger
}

func (a *API) Register(r chi.Router, ownerHash []byte) {
	if a.Log == nil {
		a.Log = logger.Nop()
	}
	r.Get("/catalog/canteen", a.listCanteen)
	r.Get("/catalog/suvidha", a.listSuvidha)

	r.Route("/cart/{kind}", func(r chi.Router) {
		r.Get("/", a.getCart)
		r.Delete("/", a.clearCart)
		r.Post("/items", a.addCartItem)
		r.Put("/items/{name}", a.setCartItem)
		r.Delete("/items/{name}", a.removeCartItem)
		r.Post("/checkout", a.checkout)
	})
	r.Get("/orders/{id}", a.orderStatus)

	r.Route("/owner", func(r chi.Router) {
		r.Use(RequireOwner(ownerHash, a.Log))

		r.Post("/canteen", a.addCanteenItem)
		r.Put("/canteen/{name}", a.editCanteenItem)
		r.Delete("/canteen/{name}", a.deleteCanteenItem)
		r.Post("/canteen/{name}/availability", a.setAvailability)

		r.Post("/suvidha", a.addSuvidhaItem)
		r.Put("/suvidha/{name}", a.editSuvidhaItem)
		r.Delete("/suvidha/{name}", a.deleteSuvidhaItem)
		r.Post("/suvidha/{name}/stock", a.changeStock)

		r.Get("/orders", a.listOrders)
		r.Get("/orders/{id}", a.getOrder)
		r.Post("/orders/{id}/advance", a.advanceOrder)
		r.Get("/stats", a.stats)
	})
}

type statusResp struct {
	OrderID   string            `json:"order_id"`
	Type      enums.OrderType   `json:"type"`
	Status    enums.OrderStatus `json:"status"`
	UpdatedAt time.Time         `json:"updated_at"`
	Source    string            `json:"source"`
}

// orderStatus serves the pickup board: cache first, then the store.
func (a *API) orderStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if a.Board != nil {
		entry, found, err := a.Board.Lookup(ctx, id)
		if err != nil {
			a.Log.Warn(a.Log.WithField(ctx, "error", err.Error()), "board lookup failed")
		} else if found {
			writeData(w, http.StatusOK, statusResp{
				OrderID:   entry.OrderID,
				Type:      entry.Type,
				Status:    entry.Status,
				UpdatedAt: entry.UpdatedAt,
				Source:    "board",
			})
			return
		}
	}

	o, err := a.Orders.GetOrder(id)
	if err != nil {
		writeError(ctx, a.Log, w, err)
		return
	}
	writeData(w, http.StatusOK, statusResp{
		OrderID:   o.ID,
		Type:      o.Type,
		Status:    o.Status,
		UpdatedAt: o.CreatedAt.Time,
		Source:    "store",
	})
}

func (a *API) listOrders(w http.ResponseWriter, r *http.Request) {
	var f orders.Filter
	if raw := r.URL.Query().Get("type"); raw != "" {
		t, err := enums.ParseOrderType(raw)
		if err != nil {
			writeError(r.Context(), a.Log, w, errs.Invalid("type", "must be canteen or suvidha"))
			return
		}
		f.Type = t
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		s, err := enums.ParseOrderStatus(raw)
		if err != nil {
			writeError(r.Context(), a.Log, w, errs.Invalid("status", "must be Pending, Preparing, Ready or Completed"))
			return
		}
		f.Status = s
	}
	writeData(w, http.StatusOK, a.Orders.ListOrders(f))
}

func (a *API) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := a.Orders.GetOrder(chi.URLParam(r, "id"))
	if err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	writeData(w, http.StatusOK, o)
}

func (a *API) advanceOrder(w http.ResponseWriter, r *http.Request) {
	o, err := a.Orders.AdvanceStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	writeData(w, http.StatusOK, o)
}

func (a *API) stats(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, a.Orders.Stats())
}
