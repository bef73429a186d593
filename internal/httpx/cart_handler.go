package httpx

import (
	"net/http"
	"strings"

	"github.com/ariefcatur/go-campus-orders/internal/cart"
	"github.com/ariefcatur/go-campus-orders/internal/enums"
	"github.com/ariefcatur/go-campus-orders/internal/errs"
	"github.com/ariefcatur/go-campus-orders/internal/models"
	"github.com/ariefcatur/go-campus-orders/internal/orders"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const HeaderSessionID = "X-Session-Id"

type cartItemReq struct {
	Name string `json:"name" validate:"required"`
	Qty  int    `json:"qty"`
}

type cartQtyReq struct {
	Qty int `json:"qty"`
}

type checkoutReq struct {
	DeliveryType  string               `json:"delivery_type" validate:"required"`
	DeliveryInfo  *models.DeliveryInfo `json:"delivery_info" validate:"-"`
	PaymentMethod string               `json:"payment_method"`
	Paid          bool                 `json:"paid"`
}

type cartResp struct {
	Kind  enums.OrderType `json:"kind"`
	Lines []cartLineResp  `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

type cartLineResp struct {
	cart.Line
	LineTotal decimal.Decimal `json:"line_total"`
}

func toCartResp(c *cart.Cart) cartResp {
	lines := c.Lines()
	out := cartResp{Kind: c.Kind(), Lines: make([]cartLineResp, 0, len(lines)), Total: c.Total()}
	for _, l := range lines {
		out.Lines = append(out.Lines, cartLineResp{Line: l, LineTotal: l.Total()})
	}
	return out
}

// sessionCart resolves the caller's cart for the {kind} path segment.
func (a *API) sessionCart(r *http.Request) (*cart.Cart, error) {
	id := strings.TrimSpace(r.Header.Get(HeaderSessionID))
	if id == "" {
		return nil, errs.Invalid("session", "header "+HeaderSessionID+" is required")
	}
	kind, err := enums.ParseOrderType(chi.URLParam(r, "kind"))
	if err != nil {
		return nil, errs.Newf(errs.CodeNotFound, "no %q catalog", chi.URLParam(r, "kind"))
	}
	return a.Carts.Get(id, kind)
}

func (a *API) getCart(w http.ResponseWriter, r *http.Request) {
	c, err := a.sessionCart(r)
	if err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	writeData(w, http.StatusOK, toCartResp(c))
}

func (a *API) clearCart(w http.ResponseWriter, r *http.Request) {
	c, err := a.sessionCart(r)
	if err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	c.Clear()
	writeData(w, http.StatusOK, toCartResp(c))
}

func (a *API) addCartItem(w http.ResponseWriter, r *http.Request) {
	c, err := a.sessionCart(r)
	if err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	var req cartItemReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	if _, err := c.Add(req.Name, req.Qty); err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	writeData(w, http.StatusOK, toCartResp(c))
}

func (a *API) setCartItem(w http.ResponseWriter, r *http.Request) {
	c, err := a.sessionCart(r)
	if err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	var req cartQtyReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	if _, err := c.SetQuantity(chi.URLParam(r, "name"), req.Qty); err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	writeData(w, http.StatusOK, toCartResp(c))
}

func (a *API) removeCartItem(w http.ResponseWriter, r *http.Request) {
	c, err := a.sessionCart(r)
	if err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	if err := c.Remove(chi.URLParam(r, "name")); err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	writeData(w, http.StatusOK, toCartResp(c))
}

func (a *API) checkout(w http.ResponseWriter, r *http.Request) {
	c, err := a.sessionCart(r)
	if err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	var req checkoutReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}

	co := orders.NewCheckout()
	switch enums.DeliveryType(strings.ToLower(strings.TrimSpace(req.DeliveryType))) {
	case enums.DeliveryTypePickup:
		co.Pickup()
	case enums.DeliveryTypeDelivery:
		info := models.DeliveryInfo{}
		if req.DeliveryInfo != nil {
			info = *req.DeliveryInfo
		}
		co.Delivery(info)
	}
	co.Pay(req.PaymentMethod).Confirm(req.Paid)

	order, err := a.Engine.PlaceOrder(r.Context(), c, co)
	if err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	writeData(w, http.StatusCreated, order)
}
