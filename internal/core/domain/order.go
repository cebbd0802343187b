package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentPayPal     PaymentMethod = "paypal"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCreditCard || m == PaymentPayPal
}

type Order struct {
	ID              int64
	UserID          int64
	TotalAmount     decimal.Decimal
	ShippingAddress string
	PaymentMethod   PaymentMethod
	Status          OrderStatus
	CreatedAt       time.Time
	Items           []OrderItem
}

// OrderItem records what was bought. PriceAtPurchase is a snapshot and never
// follows later catalog price changes.
type OrderItem struct {
	OrderID         int64
	ProductID       int64
	Quantity        int
	PriceAtPurchase decimal.Decimal

	// display only
	ProductName string
	ImagePath   string
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type ShippingInfo struct {
	Address string
	City    string
	State   string
	ZipCode string
}

func (s ShippingInfo) Normalize() ShippingInfo {
	return ShippingInfo{
		Address: strings.TrimSpace(s.Address),
		City:    strings.TrimSpace(s.City),
		State:   strings.TrimSpace(s.State),
		ZipCode: strings.TrimSpace(s.ZipCode),
	}
}

// Validate reports the first missing field.
func (s ShippingInfo) Validate() error {
	fields := []struct{ name, value string }{
		{"shipping_address", s.Address},
		{"city", s.City},
		{"state", s.State},
		{"zip_code", s.ZipCode},
	}
	for _, f := range fields {
		if f.value == "" {
			return NewValidationError(f.name, "is required")
		}
	}
	return nil
}

// FullAddress is the denormalized address stored on the order.
func (s ShippingInfo) FullAddress() string {
	return fmt.Sprintf("%s, %s, %s %s", s.Address, s.City, s.State, s.ZipCode)
}

type CheckoutRequest struct {
	Shipping       ShippingInfo
	PaymentMethod  PaymentMethod
	IdempotencyKey string
}

// OrderPlacedEvent is published after an order commits.
type OrderPlacedEvent struct {
	EventID     string            `json:"event_id"`
	OrderID     int64             `json:"order_id"`
	UserID      int64             `json:"user_id"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Items       []OrderPlacedItem `json:"items"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

type OrderPlacedItem struct {
	ProductID       int64           `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}
