package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one user's chosen quantity of one product. Unique per (user, product).
type CartLine struct {
	ID        int64
	UserID    int64
	ProductID int64
	Quantity  int
	AddedAt   time.Time
}

// CartItem is a cart line joined with the live product fields needed to show and price it.
type CartItem struct {
	CartLine
	ProductName   string
	Price         decimal.Decimal
	StockQuantity int
	ImagePath     string
	CategoryName  string
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ExceedsStock flags a line whose quantity is above the current stock. Stock is
// only checked when the line is written, so this can become true afterwards.
func (i CartItem) ExceedsStock() bool {
	return i.Quantity > i.StockQuantity
}

// Subtotal sums quantity × price over items.
func Subtotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// ItemCount sums the quantities over items.
func ItemCount(items []CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
