package catalog

import (
	"github.com/ariefcatur/go-campus-orders/internal/errs"
	"github.com/ariefcatur/go-campus-orders/internal/models"
)

// StockShortage describes one line that cannot be served from current stock.
type StockShortage struct {
	Name      string `json:"name"`
	Required  int    `json:"required"`
	Available int    `json:"available"`
}

// InsufficientStock builds the error returned for any shortage.
func InsufficientStock(shortages ...StockShortage) *errs.Error {
	msg := "insufficient stock"
	if len(shortages) == 1 {
		msg = "insufficient stock for " + shortages[0].Name
	}
	return errs.New(errs.CodeInsufficientStock, msg).WithDetails(shortages)
}

// ApplyStockDelta changes the named item's stock inside doc. It never clamps:
// a result below zero fails and leaves doc untouched.
func ApplyStockDelta(doc *models.Document, name string, delta int) (models.SuvidhaItem, error) {
	i := doc.SuvidhaIndex(name)
	if i < 0 {
		return models.SuvidhaItem{}, errs.Newf(errs.CodeNotFound, "suvidha item %q not found", name)
	}
	next := doc.SuvidhaItems[i].Stock + delta
	if next < 0 {
		return models.SuvidhaItem{}, InsufficientStock(StockShortage{
			Name:      name,
			Required:  -delta,
			Available: doc.SuvidhaItems[i].Stock,
		})
	}
	doc.SuvidhaItems[i].Stock = next
	return doc.SuvidhaItems[i], nil
}
