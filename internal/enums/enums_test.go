package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategoryRejectsUnknown(t *testing.T) {
	got, err := ParseCategory("Lab Equipment")
	require.NoError(t, err)
	assert.Equal(t, CategoryLabEquipment, got)

	for _, raw := range []string{"", "lab equipment", "Food", "Books "} {
		_, err := ParseCategory(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestParseOrderStatusAcceptsLegacyCase(t *testing.T) {
	tests := map[string]OrderStatus{
		"pending":   OrderStatusPending,
		"Pending":   OrderStatusPending,
		"completed": OrderStatusCompleted,
		"READY":     OrderStatusReady,
	}
	for raw, want := range tests {
		got, err := ParseOrderStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	_, err := ParseOrderStatus("cancelled")
	assert.Error(t, err)
}

func TestParsePaymentMethod(t *testing.T) {
	got, err := ParsePaymentMethod("upi")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodUPI, got)

	_, err = ParsePaymentMethod("card")
	assert.Error(t, err)
}

func TestCategoriesReturnsCopy(t *testing.T) {
	list := Categories()
	list[0] = "Mutated"
	assert.Equal(t, CategoryBooks, Categories()[0])
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.False(t, OrderStatusReady.IsTerminal())
	assert.True(t, DeliveryTypeDelivery.IsValid())
	assert.False(t, DeliveryType("courier").IsValid())
}
