package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ariefcatur/go-campus-orders/internal/enums"
	"github.com/ariefcatur/go-campus-orders/internal/errs"
	"github.com/ariefcatur/go-campus-orders/internal/models"
	"github.com/ariefcatur/go-campus-orders/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBackend struct {
	mu   sync.Mutex
	body []byte
	fail bool
}

func (m *memBackend) Read(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.body == nil {
		return nil, store.ErrNotFound
	}
	return m.body, nil
}

func (m *memBackend) Write(_ context.Context, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("disk unavailable")
	}
	m.body = append([]byte(nil), body...)
	return nil
}

func (m *memBackend) Preserve(context.Context, []byte) (string, error) { return "mem", nil }

func newManager(t *testing.T) (*Manager, *memBackend) {
	t.Helper()
	backend := &memBackend{}
	s := store.New(backend, store.WithRetry(1, 0))
	_, err := s.Load(context.Background())
	require.NoError(t, err)
	m, err := NewManager(s, nil)
	require.NoError(t, err)
	return m, backend
}

func ptr[T any](v T) *T { return &v }

func TestNewManagerRequiresStore(t *testing.T) {
	_, err := NewManager(nil, nil)
	assert.Error(t, err)
}

func TestAddCanteenItemThenList(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	item, err := m.AddCanteenItem(ctx, CanteenInput{Name: "  Masala Dosa ", Price: "35.50"})
	require.NoError(t, err)
	assert.Equal(t, "Masala Dosa", item.Name)
	assert.True(t, item.Available)

	got, err := m.CanteenItem("Masala Dosa")
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("35.5")))
	assert.True(t, got.Available)

	list := m.ListCanteen(CanteenFilter{Query: "dosa"})
	require.Len(t, list, 1)
	assert.Equal(t, "Masala Dosa", list[0].Name)
}

func TestAddCanteenItemValidation(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    CanteenInput
		field string
	}{
		{name: "blank name", in: CanteenInput{Name: "   ", Price: "10"}, field: "name"},
		{name: "zero price", in: CanteenInput{Name: "Juice", Price: "0"}, field: "price"},
		{name: "negative price", in: CanteenInput{Name: "Juice", Price: "-4"}, field: "price"},
		{name: "non numeric price", in: CanteenInput{Name: "Juice", Price: "ten"}, field: "price"},
		{name: "duplicate", in: CanteenInput{Name: "Tea", Price: "12"}, field: "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.AddCanteenItem(ctx, tt.in)
			require.Error(t, err)
			typed := errs.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, errs.CodeValidation, typed.Code())
			assert.Equal(t, tt.field, typed.Field())
		})
	}
	assert.Len(t, m.ListCanteen(CanteenFilter{}), 4)
}

func TestEditCanteenItemKeepsAvailability(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	_, err := m.SetAvailability(ctx, "Samosa", false)
	require.NoError(t, err)

	edited, err := m.EditCanteenItem(ctx, "Samosa", CanteenInput{Name: "Samosa (2 pc)", Price: "18"})
	require.NoError(t, err)
	assert.False(t, edited.Available)

	_, err = m.CanteenItem("Samosa")
	assert.True(t, errs.Is(err, errs.CodeNotFound))

	_, err = m.EditCanteenItem(ctx, "Coffee", CanteenInput{Name: "Tea", Price: "12"})
	assert.True(t, errs.Is(err, errs.CodeValidation))

	_, err = m.EditCanteenItem(ctx, "Lassi", CanteenInput{Name: "Lassi", Price: "20", Available: ptr(true)})
	assert.True(t, errs.Is(err, errs.CodeNotFound))
}

func TestToggleAndFilterAvailability(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	item, err := m.ToggleAvailability(ctx, "Coffee")
	require.NoError(t, err)
	assert.False(t, item.Available)

	names := []string{}
	for _, it := range m.ListCanteen(CanteenFilter{AvailableOnly: true}) {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"Veg Burger", "Tea", "Samosa"}, names)

	item, err = m.ToggleAvailability(ctx, "Coffee")
	require.NoError(t, err)
	assert.True(t, item.Available)
}

func TestDeleteCanteenItem(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	require.NoError(t, m.DeleteCanteenItem(ctx, "Tea"))
	assert.Len(t, m.ListCanteen(CanteenFilter{}), 3)
	assert.True(t, errs.Is(m.DeleteCanteenItem(ctx, "Tea"), errs.CodeNotFound))
}

func TestAddSuvidhaItemValidation(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    SuvidhaInput
		field string
	}{
		{name: "blank name", in: SuvidhaInput{Name: "", Price: "10", Stock: "1", Category: "Books"}, field: "name"},
		{name: "bad price", in: SuvidhaInput{Name: "Ruler", Price: "abc", Stock: "1", Category: "Stationery"}, field: "price"},
		{name: "fractional stock", in: SuvidhaInput{Name: "Ruler", Price: "10", Stock: "2.5", Category: "Stationery"}, field: "stock"},
		{name: "negative stock", in: SuvidhaInput{Name: "Ruler", Price: "10", Stock: "-1", Category: "Stationery"}, field: "stock"},
		{name: "unknown category", in: SuvidhaInput{Name: "Ruler", Price: "10", Stock: "1", Category: "Snacks"}, field: "category"},
		{name: "duplicate", in: SuvidhaInput{Name: "Blue Pen", Price: "10", Stock: "1", Category: "Stationery"}, field: "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.AddSuvidhaItem(ctx, tt.in)
			typed := errs.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, errs.CodeValidation, typed.Code())
			assert.Equal(t, tt.field, typed.Field())
		})
	}
}

func TestAddSuvidhaItemThenList(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	item, err := m.AddSuvidhaItem(ctx, SuvidhaInput{Name: "Beaker 250ml", Price: "90", Stock: "0", Category: "Lab Equipment"})
	require.NoError(t, err)
	assert.Equal(t, models.SuvidhaItem{
		Name:     "Beaker 250ml",
		Price:    item.Price,
		Stock:    0,
		Category: enums.CategoryLabEquipment,
	}, item)
	assert.True(t, item.Price.Equal(decimal.NewFromInt(90)))

	lab := m.ListSuvidha(SuvidhaFilter{Category: enums.CategoryLabEquipment})
	require.Len(t, lab, 1)
	assert.Empty(t, m.ListSuvidha(SuvidhaFilter{Category: enums.CategoryLabEquipment, InStockOnly: true}))
}

func TestEditAndDeleteSuvidhaItem(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	edited, err := m.EditSuvidhaItem(ctx, "Graph Paper", SuvidhaInput{Name: "Graph Paper", Price: "32", Stock: "40", Category: "Stationery"})
	require.NoError(t, err)
	assert.Equal(t, 40, edited.Stock)

	_, err = m.EditSuvidhaItem(ctx, "Graph Paper", SuvidhaInput{Name: "Blue Pen", Price: "32", Stock: "40", Category: "Stationery"})
	assert.True(t, errs.Is(err, errs.CodeValidation))

	require.NoError(t, m.DeleteSuvidhaItem(ctx, "Graph Paper"))
	_, err = m.SuvidhaItem("Graph Paper")
	assert.True(t, errs.Is(err, errs.CodeNotFound))
}

func TestAdjustStockNeverGoesNegative(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	item, err := m.AdjustStock(ctx, "Physics Manual", -8)
	require.NoError(t, err)
	assert.Equal(t, 0, item.Stock)

	_, err = m.AdjustStock(ctx, "Physics Manual", -1)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.CodeInsufficientStock))
	shortages, ok := errs.As(err).Details().([]StockShortage)
	require.True(t, ok)
	assert.Equal(t, []StockShortage{{Name: "Physics Manual", Required: 1, Available: 0}}, shortages)

	got, err := m.SuvidhaItem("Physics Manual")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)

	item, err = m.AdjustStock(ctx, "Physics Manual", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Stock)

	_, err = m.AdjustStock(ctx, "Chemistry Manual", 1)
	assert.True(t, errs.Is(err, errs.CodeNotFound))
}

func TestSetStock(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	item, err := m.SetStock(ctx, "Blue Pen", " 75 ")
	require.NoError(t, err)
	assert.Equal(t, 75, item.Stock)

	_, err = m.SetStock(ctx, "Blue Pen", "-3")
	assert.True(t, errs.Is(err, errs.CodeValidation))
}

func TestFailedWriteLeavesCatalogUnchanged(t *testing.T) {
	m, backend := newManager(t)
	backend.fail = true

	_, err := m.AddCanteenItem(context.Background(), CanteenInput{Name: "Lassi", Price: "20"})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.CodeIO))
	assert.Len(t, m.ListCanteen(CanteenFilter{}), 4)
}
