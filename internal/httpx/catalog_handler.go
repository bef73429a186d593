package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-campus-orders/internal/catalog"
	"github.com/ariefcatur/go-campus-orders/internal/enums"
	"github.com/ariefcatur/go-campus-orders/internal/errs"
	"github.com/go-chi/chi/v5"
)

// numberText takes a JSON number or string and keeps the text as typed, so
// the catalog can report parse errors per field.
type numberText string

func (n *numberText) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = numberText(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*n = numberText(num.String())
	return nil
}

type canteenItemReq struct {
	Name      string     `json:"name" validate:"required"`
	Price     numberText `json:"price" validate:"required"`
	Available *bool      `json:"available"`
}

func (r canteenItemReq) input() catalog.CanteenInput {
	return catalog.CanteenInput{Name: r.Name, Price: string(r.Price), Available: r.Available}
}

type suvidhaItemReq struct {
	Name     string     `json:"name" validate:"required"`
	Price    numberText `json:"price" validate:"required"`
	Stock    numberText `json:"stock" validate:"required"`
	Category string     `json:"category" validate:"required"`
}

func (r suvidhaItemReq) input() catalog.SuvidhaInput {
	return catalog.SuvidhaInput{Name: r.Name, Price: string(r.Price), Stock: string(r.Stock), Category: r.Category}
}

type availabilityReq struct {
	// nil toggles
	Available *bool `json:"available"`
}

type stockReq struct {
	Delta *int        `json:"delta" validate:"required_without=Stock"`
	Stock *numberText `json:"stock" validate:"required_without=Delta"`
}

func queryBool(r *http.Request, key string) (bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errs.Invalid(key, "must be true or false")
	}
	return v, nil
}

func (a *API) listCanteen(w http.ResponseWriter, r *http.Request) {
	avail, err := queryBool(r, "available")
	if err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	writeData(w, http.StatusOK, a.Catalog.ListCanteen(catalog.CanteenFilter{
		Query:         r.URL.Query().Get("q"),
		AvailableOnly: avail,
	}))
}

func (a *API) listSuvidha(w http.ResponseWriter, r *http.Request) {
	inStock, err := queryBool(r, "in_stock")
	if err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	f := catalog.SuvidhaFilter{Query: r.URL.Query().Get("q"), InStockOnly: inStock}
	if raw := r.URL.Query().Get("category"); raw != "" {
		cat, err := enums.ParseCategory(raw)
		if err != nil {
			writeError(r.Context(), a.Log, w, errs.Invalid("category", "is not a known category"))
			return
		}
		f.Category = cat
	}
	writeData(w, http.StatusOK, a.Catalog.ListSuvidha(f))
}

func (a *API) addCanteenItem(w http.ResponseWriter, r *http.Request) {
	var req canteenItemReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	item, err := a.Catalog.AddCanteenItem(r.Context(), req.input())
	if err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	writeData(w, http.StatusCreated, item)
}

func (a *API) editCanteenItem(w http.ResponseWriter, r *http.Request) {
	var req canteenItemReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	item, err := a.Catalog.EditCanteenItem(r.Context(), chi.URLParam(r, "name"), req.input())
	if err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	writeData(w, http.StatusOK, item)
}

func (a *API) deleteCanteenItem(w http.ResponseWriter, r *http.Request) {
	if err := a.Catalog.DeleteCanteenItem(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) setAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	name := chi.URLParam(r, "name")
	var err error
	var out any
	if req.Available == nil {
		out, err = a.Catalog.ToggleAvailability(r.Context(), name)
	} else {
		out, err = a.Catalog.SetAvailability(r.Context(), name, *req.Available)
	}
	if err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	writeData(w, http.StatusOK, out)
}

func (a *API) addSuvidhaItem(w http.ResponseWriter, r *http.Request) {
	var req suvidhaItemReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	item, err := a.Catalog.AddSuvidhaItem(r.Context(), req.input())
	if err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	writeData(w, http.StatusCreated, item)
}

func (a *API) editSuvidhaItem(w http.ResponseWriter, r *http.Request) {
	var req suvidhaItemReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	item, err := a.Catalog.EditSuvidhaItem(r.Context(), chi.URLParam(r, "name"), req.input())
	if err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	writeData(w, http.StatusOK, item)
}

func (a *API) deleteSuvidhaItem(w http.ResponseWriter, r *http.Request) {
	if err := a.Catalog.DeleteSuvidhaItem(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// changeStock adjusts by delta or overwrites with stock.
func (a *API) changeStock(w http.ResponseWriter, r *http.Request) {
	var req stockReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	name := chi.URLParam(r, "name")
	var err error
	var out any
	if req.Stock != nil {
		out, err = a.Catalog.SetStock(r.Context(), name, string(*req.Stock))
	} else {
		out, err = a.Catalog.AdjustStock(r.Context(), name, *req.Delta)
	}
	if err != nil {
		writeError(r.Context(), a.Log, w, err)
		return
	}
	writeData(w, http.StatusOK, out)
}
