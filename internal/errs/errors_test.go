package errs

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		retryable bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest},
		{code: CodeInsufficientStock, status: http.StatusConflict},
		{code: CodeEmptyCart, status: http.StatusBadRequest},
		{code: CodeIncompleteDeliveryInfo, status: http.StatusBadRequest},
		{code: CodeInvalidTransition, status: http.StatusUnprocessableEntity},
		{code: CodeNotFound, status: http.StatusNotFound},
		{code: CodeUnauthorized, status: http.StatusUnauthorized},
		{code: CodeIO, status: http.StatusServiceUnavailable, retryable: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		assert.Equal(t, tt.status, meta.HTTPStatus, "code %s", tt.code)
		assert.Equal(t, tt.retryable, meta.Retryable, "code %s", tt.code)
		assert.NotEmpty(t, meta.PublicMessage, "code %s", tt.code)
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestInvalidNamesField(t *testing.T) {
	err := Invalid("price", "must be greater than zero")
	assert.Equal(t, CodeValidation, err.Code())
	assert.Equal(t, "price", err.Field())
	assert.Equal(t, "price must be greater than zero", err.Message())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("disk full")
	wrapped := Wrap(CodeIO, cause, "save document")
	assert.True(t, stdErrors.Is(wrapped, cause))
	assert.Contains(t, wrapped.Error(), "disk full")
}

func TestIsWalksChain(t *testing.T) {
	inner := New(CodeInsufficientStock, "Notebook A4")
	outer := fmt.Errorf("place order: %w", inner)
	assert.True(t, Is(outer, CodeInsufficientStock))
	assert.False(t, Is(outer, CodeValidation))

	nested := Wrap(CodeIO, New(CodeCorruptStore, "bad json"), "load")
	assert.True(t, Is(nested, CodeCorruptStore))
	assert.False(t, Is(stdErrors.New("plain"), CodeIO))
}

func TestAsReturnsTypedError(t *testing.T) {
	got := As(fmt.Errorf("ctx: %w", New(CodeNotFound, "order")))
	require.NotNil(t, got)
	assert.Equal(t, CodeNotFound, got.Code())
	assert.Nil(t, As(nil))
}
