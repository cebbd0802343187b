package port

import (
	"context"

	"github.com/rl1809/storefront/internal/core/domain"
)

type CatalogRepository interface {
	// GetProduct returns domain.ErrProductNotFound when absent
	GetProduct(ctx context.Context, productID int64) (*domain.Product, error)

	// ListProducts returns products in insertion order, optionally limited to one category
	ListProducts(ctx context.Context, categoryID int64) ([]domain.Product, error)

	// SearchProducts matches term case-insensitively against name or description
	SearchProducts(ctx context.Context, term string) ([]domain.Product, error)

	GetCategory(ctx context.Context, categoryID int64) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)

	CreateProduct(ctx context.Context, product domain.Product) (int64, error)

	// UpdateProduct applies update with a version check, domain.ErrConflict on a stale version
	UpdateProduct(ctx context.Context, productID int64, update domain.ProductUpdate) error

	DeleteProduct(ctx context.Context, productID int64) error

	// DecrementStock atomically takes quantity units, *domain.StockError if insufficient
	DecrementStock(ctx context.Context, productID int64, quantity int) error
}

type CartRepository interface {
	// AddOrMerge creates the (user, product) line or adds quantity to it, re-checking stock
	// in the same transaction
	AddOrMerge(ctx context.Context, userID, productID int64, quantity int) (*domain.CartLine, error)

	// SetQuantity overwrites the quantity of the user's line, re-checking stock
	SetQuantity(ctx context.Context, userID, cartLineID int64, quantity int) error

	// RemoveLine deletes the user's line, no error if it does not exist
	RemoveLine(ctx context.Context, userID, cartLineID int64) error

	ClearCart(ctx context.Context, userID int64) error

	// ListItems returns the user's lines joined with product fields, newest first
	ListItems(ctx context.Context, userID int64) ([]domain.CartItem, error)

	ItemCount(ctx context.Context, userID int64) (int, error)
}

type OrderRepository interface {
	// WithinCheckoutTx runs fn in one transaction, committed only if fn returns nil
	WithinCheckoutTx(ctx context.Context, fn func(tx CheckoutTx) error) error

	// GetOrder returns domain.ErrOrderNotFound unless the order belongs to userID
	GetOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error)

	ListOrders(ctx context.Context, userID int64) ([]domain.Order, error)
}

// CheckoutTx is the set of writes that make up one order placement.
type CheckoutTx interface {
	// LockCart reads and locks the user's cart lines with current product prices
	LockCart(ctx context.Context, userID int64) ([]domain.CartItem, error)

	CreateOrder(ctx context.Context, order domain.Order) (int64, error)
	AddOrderItem(ctx context.Context, item domain.OrderItem) error
	DecrementStock(ctx context.Context, productID int64, quantity int) error
	ClearCart(ctx context.Context, userID int64) error
}

type UserRepository interface {
	// CreateUser returns domain.ErrConflict when username or email is taken
	CreateUser(ctx context.Context, user domain.User) (int64, error)

	// FindByLogin looks up by username or email, domain.ErrUserNotFound when absent
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
}
