package handler

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/pricing"
	"github.com/rl1809/storefront/internal/core/service"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type stubCatalog struct {
	CatalogService

	mu        sync.Mutex
	products  []domain.Product
	err       error
	lastQuery domain.ProductQuery
	created   domain.Product
	updated   domain.ProductUpdate
	deleted   int64
}

func (s *stubCatalog) ListProducts(_ context.Context, q domain.ProductQuery) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastQuery = q
	return s.products, s.err
}

func (s *stubCatalog) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (s *stubCatalog) Search(_ context.Context, term string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range s.products {
		if term != "" && p.MatchesTerm(term) {
			out = append(out, p)
		}
	}
	return out, s.err
}

func (s *stubCatalog) ListCategories(context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: 1, Name: "Men's Clothing"}, {ID: 5, Name: "Accessories"}}, nil
}

func (s *stubCatalog) ListByCategory(_ context.Context, id int64) ([]domain.Product, error) {
	if id != 1 {
		return nil, domain.ErrCategoryNotFound
	}
	return s.products, nil
}

func (s *stubCatalog) CreateProduct(ctx context.Context, p domain.Product) (int64, error) {
	if _, err := service.RequireAdmin(ctx); err != nil {
		return 0, err
	}
	if s.err != nil {
		return 0, s.err
	}
	s.created = p
	return 42, nil
}

func (s *stubCatalog) UpdateProduct(ctx context.Context, id int64, u domain.ProductUpdate) error {
	if _, err := service.RequireAdmin(ctx); err != nil {
		return err
	}
	s.updated = u
	return s.err
}

func (s *stubCatalog) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := service.RequireAdmin(ctx); err != nil {
		return err
	}
	s.deleted = id
	return s.err
}

func (s *stubCatalog) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	if _, err := service.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	return &domain.DashboardStats{TotalProducts: len(s.products), TotalCategories: 5}, nil
}

type stubCarts struct {
	CartService

	mu       sync.Mutex
	err      error
	items    []domain.CartItem
	added    []int64
	lines    map[int64]int
	setCalls map[int64]int
}

func (s *stubCarts) AddItem(ctx context.Context, productID int64, quantity int) (*domain.CartLine, error) {
	id, ok := domain.IdentityFrom(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.added = append(s.added, productID)
	if s.lines == nil {
		s.lines = make(map[int64]int)
	}
	s.lines[productID] += quantity
	return &domain.CartLine{ID: productID, UserID: id.UserID, ProductID: productID, Quantity: s.lines[productID]}, nil
}

func (s *stubCarts) SetQuantity(ctx context.Context, lineID int64, quantity int) error {
	if _, ok := domain.IdentityFrom(ctx); !ok {
		return domain.ErrUnauthenticated
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setCalls == nil {
		s.setCalls = make(map[int64]int)
	}
	s.setCalls[lineID] = quantity
	return s.err
}

func (s *stubCarts) RemoveItem(ctx context.Context, lineID int64) error {
	if _, ok := domain.IdentityFrom(ctx); !ok {
		return domain.ErrUnauthenticated
	}
	return s.err
}

func (s *stubCarts) ItemCount(context.Context) (int, error) {
	return domain.ItemCount(s.items), s.err
}

func (s *stubCarts) Subtotal(context.Context) (decimal.Decimal, error) {
	return domain.Subtotal(s.items), s.err
}

func (s *stubCarts) Summary(ctx context.Context) (*service.CartSummary, error) {
	if _, ok := domain.IdentityFrom(ctx); !ok {
		return nil, domain.ErrUnauthenticated
	}
	subtotal := domain.Subtotal(s.items)
	return &service.CartSummary{
		Items:    s.items,
		Count:    domain.ItemCount(s.items),
		Subtotal: subtotal,
		Quote:    pricing.Price(subtotal),
	}, s.err
}

type stubOrders struct {
	OrderService

	mu     sync.Mutex
	err    error
	placed []domain.CheckoutRequest
	orders []domain.Order
}

func (s *stubOrders) PlaceOrder(ctx context.Context, req domain.CheckoutRequest) (int64, error) {
	if _, ok := domain.IdentityFrom(ctx); !ok {
		return 0, domain.ErrUnauthenticated
	}
	if s.err != nil {
		return 0, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placed = append(s.placed, req)
	return int64(len(s.placed)), nil
}

func (s *stubOrders) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	if _, ok := domain.IdentityFrom(ctx); !ok {
		return nil, domain.ErrUnauthenticated
	}
	for _, o := range s.orders {
		if o.ID == orderID {
			return &o, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (s *stubOrders) ListOrders(context.Context) ([]domain.Order, error) {
	return s.orders, s.err
}

// stubAuth knows a fixed set of session tokens.
type stubAuth struct {
	mu          sync.Mutex
	tokens      map[string]domain.Identity
	registerErr error
	loggedOut   []string
}

func newStubAuth() *stubAuth {
	return &stubAuth{tokens: map[string]domain.Identity{
		"alice-token": {UserID: 7, Username: "alice", Role: domain.RoleCustomer},
		"admin-token": {UserID: 1, Username: "admin", Role: domain.RoleAdmin},
	}}
}

func (a *stubAuth) Register(_ context.Context, username, email, _ string) (*domain.User, error) {
	if a.registerErr != nil {
		return nil, a.registerErr
	}
	return &domain.User{ID: 99, Username: username, Email: email, Role: domain.RoleCustomer}, nil
}

func (a *stubAuth) Login(_ context.Context, login, password string) (*domain.Session, error) {
	if login != "alice" || password != "secret123" {
		return nil, domain.ErrInvalidCredentials
	}
	return &domain.Session{
		Token:     "alice-token",
		Identity:  a.tokens["alice-token"],
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (a *stubAuth) Logout(_ context.Context, token string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loggedOut = append(a.loggedOut, token)
	return nil
}

func (a *stubAuth) Authenticate(_ context.Context, token string) (domain.Identity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id, ok := a.tokens[token]
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return id, nil
}

func sampleItems() []domain.CartItem {
	return []domain.CartItem{
		{
			CartLine:      domain.CartLine{ID: 11, UserID: 7, ProductID: 1, Quantity: 2},
			ProductName:   "Widget",
			Price:         dec("19.99"),
			StockQuantity: 5,
		},
		{
			CartLine:      domain.CartLine{ID: 12, UserID: 7, ProductID: 2, Quantity: 1},
			ProductName:   "Gadget",
			Price:         dec("40.99"),
			StockQuantity: 0,
		},
	}
}
