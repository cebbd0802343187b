// Package pricing derives shipping, tax and total from a cart subtotal.
package pricing

import "github.com/shopspring/decimal"

var (
	FreeShippingThreshold = decimal.RequireFromString("50.00")
	FlatShipping          = decimal.RequireFromString("5.99")
	TaxRate               = decimal.RequireFromString("0.085")
)

// Quote keeps full precision. Round only when presenting or persisting.
type Quote struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

func Price(subtotal decimal.Decimal) Quote {
	shipping := FlatShipping
	if subtotal.GreaterThanOrEqual(FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(TaxRate)
	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// Rounded returns the quote rounded half-up to cents.
func (q Quote) Rounded() Quote {
	return Quote{
		Subtotal: Cents(q.Subtotal),
		Shipping: Cents(q.Shipping),
		Tax:      Cents(q.Tax),
		Total:    Cents(q.Total),
	}
}

// Cents rounds half away from zero to two places, which is half-up for money amounts.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
