// Package models holds the persisted document shapes.
//
// Importing models sets decimal.MarshalJSONWithoutQuotes for the whole
// process: every decimal.Decimal, inside these types or not, encodes as a
// bare JSON number. The data file has always stored prices that way and the
// HTTP API returns them the same way.
package models

import "github.com/shopspring/decimal"

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}
