package handler

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
)

type CatalogService interface {
	GetProduct(ctx context.Context, productID int64) (*domain.Product, error)
	ListProducts(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)
	Search(ctx context.Context, term string) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateProduct(ctx context.Context, p domain.Product) (int64, error)
	UpdateProduct(ctx context.Context, productID int64, update domain.ProductUpdate) error
	DeleteProduct(ctx context.Context, productID int64) error
	Dashboard(ctx context.Context) (*domain.DashboardStats, error)
}

type CartService interface {
	AddItem(ctx context.Context, productID int64, quantity int) (*domain.CartLine, error)
	SetQuantity(ctx context.Context, cartLineID int64, quantity int) error
	RemoveItem(ctx context.Context, cartLineID int64) error
	ItemCount(ctx context.Context) (int, error)
	Subtotal(ctx context.Context) (decimal.Decimal, error)
	Summary(ctx context.Context) (*service.CartSummary, error)
}

type OrderService interface {
	PlaceOrder(ctx context.Context, req domain.CheckoutRequest) (int64, error)
	GetOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, login, password string) (*domain.Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
}
