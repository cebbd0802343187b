package domain

import "fmt"

// StockError carries the stock figures behind an ErrInsufficientStock.
// Available is -1 when the figure was not observed (lost a conditional update).
type StockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *StockError) Error() string {
	if e.Available < 0 {
		return fmt.Sprintf("insufficient stock for product %d: requested %d", e.ProductID, e.Requested)
	}
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// CheckStock returns a *StockError when quantity units cannot be taken from available.
func CheckStock(productID int64, quantity, available int) error {
	if quantity > available {
		return &StockError{ProductID: productID, Requested: quantity, Available: available}
	}
	return nil
}

// ValidateQuantity rejects non-positive quantities rather than clamping them.
func ValidateQuantity(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	return nil
}
