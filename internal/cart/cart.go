// Package cart implements the session-scoped shopping cart. A Cart is
// exclusively owned by one session; callers serialize access per the
// one-interaction-at-a-time session model.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/Team-Bodhi/bodhi/internal/domain"
)

// Cart holds the lines in insertion order plus a cached running total.
// Every mutation leaves the total equal to the sum of line subtotals;
// a failed mutation changes nothing.
type Cart struct {
	lines []domain.CartLine
	total decimal.Decimal
}

func New() *Cart {
	return &Cart{total: decimal.Zero}
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total returns the cached total amount.
func (c *Cart) Total() decimal.Decimal {
	return c.total
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Clear removes all lines and resets the total. Safe to call repeatedly.
func (c *Cart) Clear() {
	c.lines = nil
	c.total = decimal.Zero
}

// AddItem adds quantity of the given book. An existing line for the same
// book id is incremented; otherwise a new line is appended.
func (c *Cart) AddItem(book domain.Book, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	delta := book.Price.Mul(decimal.NewFromInt(int64(quantity)))

	for i := range c.lines {
		if c.lines[i].BookID == book.ID {
			c.lines[i].Quantity += quantity
			c.total = c.total.Add(delta)
			return nil
		}
	}

	c.lines = append(c.lines, domain.CartLine{
		BookID:    book.ID,
		Title:     book.Title,
		UnitPrice: book.Price,
		Quantity:  quantity,
	})
	c.total = c.total.Add(delta)
	return nil
}

// UpdateQuantity sets the quantity of the line at index. A quantity below 1
// is rejected rather than removing the line; callers that want removal use
// RemoveItem.
func (c *Cart) UpdateQuantity(index, quantity int) error {
	if index < 0 || index >= len(c.lines) {
		return ErrIndexOutOfRange
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	line := &c.lines[index]
	delta := line.UnitPrice.Mul(decimal.NewFromInt(int64(quantity - line.Quantity)))
	line.Quantity = quantity
	c.total = c.total.Add(delta)
	return nil
}

// RemoveItem deletes the line at index and subtracts its subtotal.
func (c *Cart) RemoveItem(index int) error {
	if index < 0 || index >= len(c.lines) {
		return ErrIndexOutOfRange
	}

	removed := c.lines[index]
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	c.total = c.total.Sub(removed.Subtotal())
	return nil
}
