package domain

import "github.com/shopspring/decimal"

// CartLine is one book entry in the active cart. Title and UnitPrice are
// display caches captured when the line was created; the order service
// re-prices every line server-side at submission.
type CartLine struct {
	BookID    string          `json:"bookId"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns UnitPrice * Quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
