package models

import (
	"github.com/ariefcatur/go-campus-orders/internal/enums"
	"github.com/shopspring/decimal"
)

// CanteenItem is a food menu entry.
type CanteenItem struct {
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
}

// SuvidhaItem is a stock-bearing supplies entry.
type SuvidhaItem struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Category enums.Category  `json:"category"`
}
