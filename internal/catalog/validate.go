package catalog

import (
	"strconv"
	"strings"

	"github.com/ariefcatur/go-campus-orders/internal/enums"
	"github.com/ariefcatur/go-campus-orders/internal/errs"
	"github.com/shopspring/decimal"
)

func parseName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", errs.Invalid("name", "is required")
	}
	return name, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, errs.Invalid("price", "must be a number")
	}
	if !price.IsPositive() {
		return decimal.Zero, errs.Invalid("price", "must be greater than zero")
	}
	return price, nil
}

func parseStock(raw string) (int, error) {
	stock, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errs.Invalid("stock", "must be a whole number")
	}
	if stock < 0 {
		return 0, errs.Invalid("stock", "must not be negative")
	}
	return stock, nil
}

func parseCategory(raw string) (enums.Category, error) {
	cat, err := enums.ParseCategory(strings.TrimSpace(raw))
	if err != nil {
		return "", errs.Invalid("category", "must be one of Books, Manuals, Stationery, Lab Equipment, Others")
	}
	return cat, nil
}
