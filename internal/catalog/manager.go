package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/ariefcatur/go-campus-orders/internal/enums"
	"github.com/ariefcatur/go-campus-orders/internal/errs"
	"github.com/ariefcatur/go-campus-orders/internal/logger"
	"github.com/ariefcatur/go-campus-orders/internal/models"
	"github.com/ariefcatur/go-campus-orders/internal/store"
)

// CanteenInput carries owner-entered fields as typed. Available is optional on
// edit; a nil value keeps the current flag.
type CanteenInput struct {
	Name      string
	Price     string
	Available *bool
}

// SuvidhaInput carries owner-entered fields as typed.
type SuvidhaInput struct {
	Name     string
	Price    string
	Stock    string
	Category string
}

type CanteenFilter struct {
	Query         string
	AvailableOnly bool
}

type SuvidhaFilter struct {
	Query       string
	Category    enums.Category
	InStockOnly bool
}

// Manager maintains both catalogs.
type Manager struct {
	store *store.Store
	log   *logger.Logger
}

func NewManager(s *store.Store, log *logger.Logger) (*Manager, error) {
	if s == nil {
		return nil, fmt.Errorf("document store required")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{store: s, log: log}, nil
}

func (m *Manager) AddCanteenItem(ctx context.Context, in CanteenInput) (models.CanteenItem, error) {
	item, err := buildCanteenItem(in, true)
	if err != nil {
		return models.CanteenItem{}, err
	}
	err = m.store.Update(ctx, func(doc *models.Document) error {
		if doc.CanteenIndex(item.Name) >= 0 {
			return errs.Invalid("name", "already exists in the canteen menu")
		}
		doc.CanteenItems = append(doc.CanteenItems, item)
		return nil
	})
	if err != nil {
		return models.CanteenItem{}, err
	}
	m.log.Info(m.log.WithField(ctx, "item", item.Name), "canteen item added")
	return item, nil
}

func (m *Manager) EditCanteenItem(ctx context.Context, name string, in CanteenInput) (models.CanteenItem, error) {
	var out models.CanteenItem
	err := m.store.Update(ctx, func(doc *models.Document) error {
		i := doc.CanteenIndex(name)
		if i < 0 {
			return errs.Newf(errs.CodeNotFound, "canteen item %q not found", name)
		}
		item, err := buildCanteenItem(in, doc.CanteenItems[i].Available)
		if err != nil {
			return err
		}
		if item.Name != name && doc.CanteenIndex(item.Name) >= 0 {
			return errs.Invalid("name", "already exists in the canteen menu")
		}
		doc.CanteenItems[i] = item
		out = item
		return nil
	})
	if err != nil {
		return models.CanteenItem{}, err
	}
	m.log.Info(m.log.WithFields(ctx, map[string]any{"item": name, "new_name": out.Name}), "canteen item edited")
	return out, nil
}

// DeleteCanteenItem removes the item from future ordering. Past orders keep
// their own copy of name and price.
func (m *Manager) DeleteCanteenItem(ctx context.Context, name string) error {
	err := m.store.Update(ctx, func(doc *models.Document) error {
		i := doc.CanteenIndex(name)
		if i < 0 {
			return errs.Newf(errs.CodeNotFound, "canteen item %q not found", name)
		}
		doc.CanteenItems = append(doc.CanteenItems[:i], doc.CanteenItems[i+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	m.log.Info(m.log.WithField(ctx, "item", name), "canteen item deleted")
	return nil
}

func (m *Manager) SetAvailability(ctx context.Context, name string, available bool) (models.CanteenItem, error) {
	return m.updateAvailability(ctx, name, func(bool) bool { return available })
}

func (m *Manager) ToggleAvailability(ctx context.Context, name string) (models.CanteenItem, error) {
	return m.updateAvailability(ctx, name, func(cur bool) bool { return !cur })
}

func (m *Manager) updateAvailability(ctx context.Context, name string, next func(bool) bool) (models.CanteenItem, error) {
	var out models.CanteenItem
	err := m.store.Update(ctx, func(doc *models.Document) error {
		i := doc.CanteenIndex(name)
		if i < 0 {
			return errs.Newf(errs.CodeNotFound, "canteen item %q not found", name)
		}
		doc.CanteenItems[i].Available = next(doc.CanteenItems[i].Available)
		out = doc.CanteenItems[i]
		return nil
	})
	if err != nil {
		return models.CanteenItem{}, err
	}
	m.log.Info(m.log.WithFields(ctx, map[string]any{"item": name, "available": out.Available}), "canteen availability changed")
	return out, nil
}

func (m *Manager) CanteenItem(name string) (models.CanteenItem, error) {
	var (
		out   models.CanteenItem
		found bool
	)
	m.store.View(func(doc *models.Document) {
		if i := doc.CanteenIndex(name); i >= 0 {
			out, found = doc.CanteenItems[i], true
		}
	})
	if !found {
		return models.CanteenItem{}, errs.Newf(errs.CodeNotFound, "canteen item %q not found", name)
	}
	return out, nil
}

func (m *Manager) ListCanteen(f CanteenFilter) []models.CanteenItem {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := []models.CanteenItem{}
	m.store.View(func(doc *models.Document) {
		for _, it := range doc.CanteenItems {
			if f.AvailableOnly && !it.Available {
				continue
			}
			if q != "" && !strings.Contains(strings.ToLower(it.Name), q) {
				continue
			}
			out = append(out, it)
		}
	})
	return out
}

func (m *Manager) AddSuvidhaItem(ctx context.Context, in SuvidhaInput) (models.SuvidhaItem, error) {
	item, err := buildSuvidhaItem(in)
	if err != nil {
		return models.SuvidhaItem{}, err
	}
	err = m.store.Update(ctx, func(doc *models.Document) error {
		if doc.SuvidhaIndex(item.Name) >= 0 {
			return errs.Invalid("name", "already exists in the suvidha inventory")
		}
		doc.SuvidhaItems = append(doc.SuvidhaItems, item)
		return nil
	})
	if err != nil {
		return models.SuvidhaItem{}, err
	}
	m.log.Info(m.log.WithField(ctx, "item", item.Name), "suvidha item added")
	return item, nil
}

func (m *Manager) EditSuvidhaItem(ctx context.Context, name string, in SuvidhaInput) (models.SuvidhaItem, error) {
	item, err := buildSuvidhaItem(in)
	if err != nil {
		return models.SuvidhaItem{}, err
	}
	err = m.store.Update(ctx, func(doc *models.Document) error {
		i := doc.SuvidhaIndex(name)
		if i < 0 {
			return errs.Newf(errs.CodeNotFound, "suvidha item %q not found", name)
		}
		if item.Name != name && doc.SuvidhaIndex(item.Name) >= 0 {
			return errs.Invalid("name", "already exists in the suvidha inventory")
		}
		doc.SuvidhaItems[i] = item
		return nil
	})
	if err != nil {
		return models.SuvidhaItem{}, err
	}
	m.log.Info(m.log.WithFields(ctx, map[string]any{"item": name, "new_name": item.Name}), "suvidha item edited")
	return item, nil
}

func (m *Manager) DeleteSuvidhaItem(ctx context.Context, name string) error {
	err := m.store.Update(ctx, func(doc *models.Document) error {
		i := doc.SuvidhaIndex(name)
		if i < 0 {
			return errs.Newf(errs.CodeNotFound, "suvidha item %q not found", name)
		}
		doc.SuvidhaItems = append(doc.SuvidhaItems[:i], doc.SuvidhaItems[i+1:]...)
		return nil
	})
	if err != nil {
		return err
	}
	m.log.Info(m.log.WithField(ctx, "item", name), "suvidha item deleted")
	return nil
}

// AdjustStock adds delta (which may be negative) to the item's stock.
func (m *Manager) AdjustStock(ctx context.Context, name string, delta int) (models.SuvidhaItem, error) {
	var out models.SuvidhaItem
	err := m.store.Update(ctx, func(doc *models.Document) error {
		item, err := ApplyStockDelta(doc, name, delta)
		out = item
		return err
	})
	if err != nil {
		return models.SuvidhaItem{}, err
	}
	m.log.Info(m.log.WithFields(ctx, map[string]any{"item": name, "delta": delta, "stock": out.Stock}), "stock adjusted")
	return out, nil
}

// SetStock overwrites the stock count from owner input.
func (m *Manager) SetStock(ctx context.Context, name, raw string) (models.SuvidhaItem, error) {
	stock, err := parseStock(raw)
	if err != nil {
		return models.SuvidhaItem{}, err
	}
	var out models.SuvidhaItem
	err = m.store.Update(ctx, func(doc *models.Document) error {
		i := doc.SuvidhaIndex(name)
		if i < 0 {
			return errs.Newf(errs.CodeNotFound, "suvidha item %q not found", name)
		}
		doc.SuvidhaItems[i].Stock = stock
		out = doc.SuvidhaItems[i]
		return nil
	})
	if err != nil {
		return models.SuvidhaItem{}, err
	}
	m.log.Info(m.log.WithFields(ctx, map[string]any{"item": name, "stock": stock}), "stock set")
	return out, nil
}

func (m *Manager) SuvidhaItem(name string) (models.SuvidhaItem, error) {
	var (
		out   models.SuvidhaItem
		found bool
	)
	m.store.View(func(doc *models.Document) {
		if i := doc.SuvidhaIndex(name); i >= 0 {
			out, found = doc.SuvidhaItems[i], true
		}
	})
	if !found {
		return models.SuvidhaItem{}, errs.Newf(errs.CodeNotFound, "suvidha item %q not found", name)
	}
	return out, nil
}

func (m *Manager) ListSuvidha(f SuvidhaFilter) []models.SuvidhaItem {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := []models.SuvidhaItem{}
	m.store.View(func(doc *models.Document) {
		for _, it := range doc.SuvidhaItems {
			if f.InStockOnly && it.Stock <= 0 {
				continue
			}
			if f.Category != "" && it.Category != f.Category {
				continue
			}
			if q != "" && !strings.Contains(strings.ToLower(it.Name), q) {
				continue
			}
			out = append(out, it)
		}
	})
	return out
}

func buildCanteenItem(in CanteenInput, defaultAvailable bool) (models.CanteenItem, error) {
	name, err := parseName(in.Name)
	if err != nil {
		return models.CanteenItem{}, err
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return models.CanteenItem{}, err
	}
	available := defaultAvailable
	if in.Available != nil {
		available = *in.Available
	}
	return models.CanteenItem{Name: name, Price: price, Available: available}, nil
}

func buildSuvidhaItem(in SuvidhaInput) (models.SuvidhaItem, error) {
	name, err := parseName(in.Name)
	if err != nil {
		return models.SuvidhaItem{}, err
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return models.SuvidhaItem{}, err
	}
	stock, err := parseStock(in.Stock)
	if err != nil {
		return models.SuvidhaItem{}, err
	}
	cat, err := parseCategory(in.Category)
	if err != nil {
		return models.SuvidhaItem{}, err
	}
	return models.SuvidhaItem{Name: name, Price: price, Stock: stock, Category: cat}, nil
}
