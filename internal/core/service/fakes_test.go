package service

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

var testLogger = zap.NewNop()

func withUser(userID int64) context.Context {
	return domain.WithIdentity(context.Background(), domain.Identity{
		UserID: userID, Username: "user", Role: domain.RoleCustomer,
	})
}

func withAdmin() context.Context {
	return domain.WithIdentity(context.Background(), domain.Identity{
		UserID: 1000, Username: "admin", Role: domain.RoleAdmin,
	})
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type memState struct {
	products   map[int64]domain.Product
	categories map[int64]domain.Category
	cart       map[int64]domain.CartLine
	orders     map[int64]domain.Order
}

func (s memState) clone() memState {
	c := memState{
		products:   maps.Clone(s.products),
		categories: maps.Clone(s.categories),
		cart:       maps.Clone(s.cart),
		orders:     maps.Clone(s.orders),
	}
	for id, o := range c.orders {
		o.Items = slices.Clone(o.Items)
		c.orders[id] = o
	}
	return c
}

// memStore is an in-memory catalog, cart and order store. A checkout
// transaction works on a copy of the state that replaces the original only on
// success.
type memStore struct {
	mu     sync.Mutex
	state  memState
	nextID int64
	clock  time.Time

	failAddOrderItem error
	// beforeDecrement runs inside the checkout transaction ahead of each stock decrement.
	beforeDecrement func(state memState, productID int64)
	decremented     []int64
}

func newMemStore() *memStore {
	return &memStore{
		state: memState{
			products: map[int64]domain.Product{},
			categories: map[int64]domain.Category{
				1: {ID: 1, Name: "Men's Clothing"},
				2: {ID: 2, Name: "Women's Clothing"},
			},
			cart:   map[int64]domain.CartLine{},
			orders: map[int64]domain.Order{},
		},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) addProduct(name, price string, stock int) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := domain.Product{
		ID:            m.id(),
		CategoryID:    1,
		Name:          name,
		Price:         money(price),
		StockQuantity: stock,
		CreatedAt:     m.tick(),
	}
	m.state.products[p.ID] = p
	return p.ID
}

func (m *memStore) stock(productID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.products[productID].StockQuantity
}

func (m *memStore) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.orders)
}

// catalog

func (m *memStore) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.state.products[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (m *memStore) ListProducts(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Product
	for _, id := range slices.Sorted(maps.Keys(m.state.products)) {
		p := m.state.products[id]
		if categoryID == 0 || p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) SearchProducts(ctx context.Context, term string) ([]domain.Product, error) {
	all, _ := m.ListProducts(ctx, 0)
	var out []domain.Product
	for _, p := range all {
		if p.MatchesTerm(term) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) GetCategory(ctx context.Context, categoryID int64) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.state.categories[categoryID]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return &c, nil
}

func (m *memStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Category
	for _, id := range slices.Sorted(maps.Keys(m.state.categories)) {
		out = append(out, m.state.categories[id])
	}
	return out, nil
}

func (m *memStore) CreateProduct(ctx context.Context, p domain.Product) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.id()
	p.CreatedAt = m.tick()
	m.state.products[p.ID] = p
	return p.ID, nil
}

func (m *memStore) UpdateProduct(ctx context.Context, productID int64, u domain.ProductUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.state.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if p.Version != u.Version {
		return domain.ErrConflict
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.StockQuantity != nil {
		p.StockQuantity = *u.StockQuantity
	}
	if u.CategoryID != nil {
		p.CategoryID = *u.CategoryID
	}
	p.Version++
	m.state.products[productID] = p
	return nil
}

func (m *memStore) DeleteProduct(ctx context.Context, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.state.products[productID]; !ok {
		return domain.ErrProductNotFound
	}
	delete(m.state.products, productID)
	return nil
}

func (m *memStore) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return decrementIn(m.state, productID, quantity)
}

func decrementIn(state memState, productID int64, quantity int) error {
	p, ok := state.products[productID]
	if !ok || p.StockQuantity < quantity {
		return &domain.StockError{ProductID: productID, Requested: quantity, Available: p.StockQuantity}
	}
	p.StockQuantity -= quantity
	state.products[productID] = p
	return nil
}

// cart

func (m *memStore) findLine(userID, productID int64) (domain.CartLine, bool) {
	for _, l := range m.state.cart {
		if l.UserID == userID && l.ProductID == productID {
			return l, true
		}
	}
	return domain.CartLine{}, false
}

func (m *memStore) AddOrMerge(ctx context.Context, userID, productID int64, quantity int) (*domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.state.products[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	line, exists := m.findLine(userID, productID)
	if err := domain.CheckStock(productID, line.Quantity+quantity, p.StockQuantity); err != nil {
		return nil, err
	}
	if !exists {
		line = domain.CartLine{ID: m.id(), UserID: userID, ProductID: productID, AddedAt: m.tick()}
	}
	line.Quantity += quantity
	m.state.cart[line.ID] = line
	return &line, nil
}

func (m *memStore) SetQuantity(ctx context.Context, userID, cartLineID int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	line, ok := m.state.cart[cartLineID]
	if !ok || line.UserID != userID {
		return domain.ErrCartLineNotFound
	}
	if err := domain.CheckStock(line.ProductID, quantity, m.state.products[line.ProductID].StockQuantity); err != nil {
		return err
	}
	line.Quantity = quantity
	m.state.cart[cartLineID] = line
	return nil
}

func (m *memStore) RemoveLine(ctx context.Context, userID, cartLineID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if line, ok := m.state.cart[cartLineID]; ok && line.UserID == userID {
		delete(m.state.cart, cartLineID)
	}
	return nil
}

func (m *memStore) ClearCart(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clearIn(m.state, userID)
	return nil
}

func clearIn(state memState, userID int64) {
	for id, l := range state.cart {
		if l.UserID == userID {
			delete(state.cart, id)
		}
	}
}

func itemsIn(state memState, userID int64) []domain.CartItem {
	var items []domain.CartItem
	for _, l := range state.cart {
		if l.UserID != userID {
			continue
		}
		p := state.products[l.ProductID]
		items = append(items, domain.CartItem{
			CartLine:      l,
			ProductName:   p.Name,
			Price:         p.Price,
			StockQuantity: p.StockQuantity,
			ImagePath:     p.ImagePath,
		})
	}
	slices.SortFunc(items, func(a, b domain.CartItem) int {
		if c := b.AddedAt.Compare(a.AddedAt); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})
	return items
}

func (m *memStore) ListItems(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return itemsIn(m.state, userID), nil
}

func (m *memStore) ItemCount(ctx context.Context, userID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.ItemCount(itemsIn(m.state, userID)), nil
}

// orders

func (m *memStore) WithinCheckoutTx(ctx context.Context, fn func(tx port.CheckoutTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{store: m, state: m.state.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	m.state = tx.state
	return nil
}

func (m *memStore) GetOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.state.orders[orderID]
	if !ok || o.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}
	return &o, nil
}

func (m *memStore) ListOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, id := range slices.Sorted(maps.Keys(m.state.orders)) {
		if o := m.state.orders[id]; o.UserID == userID {
			out = append([]domain.Order{o}, out...)
		}
	}
	return out, nil
}

type memTx struct {
	store *memStore
	state memState
}

func (t *memTx) LockCart(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	return itemsIn(t.state, userID), nil
}

func (t *memTx) CreateOrder(ctx context.Context, order domain.Order) (int64, error) {
	order.ID = t.store.id()
	order.Items = nil
	t.state.orders[order.ID] = order
	return order.ID, nil
}

func (t *memTx) AddOrderItem(ctx context.Context, item domain.OrderItem) error {
	if t.store.failAddOrderItem != nil {
		return t.store.failAddOrderItem
	}
	o := t.state.orders[item.OrderID]
	o.Items = append(o.Items, item)
	t.state.orders[item.OrderID] = o
	return nil
}

func (t *memTx) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	if t.store.beforeDecrement != nil {
		t.store.beforeDecrement(t.state, productID)
	}
	if err := decrementIn(t.state, productID, quantity); err != nil {
		return err
	}
	t.store.decremented = append(t.store.decremented, productID)
	return nil
}

func (t *memTx) ClearCart(ctx context.Context, userID int64) error {
	clearIn(t.state, userID)
	return nil
}

// cache

type mockCacheRepo struct {
	mu             sync.Mutex
	idempotencySet map[string]bool
	sessions       map[string]domain.Identity
	err            error
}

func newMockCacheRepo() *mockCacheRepo {
	return &mockCacheRepo{
		idempotencySet: make(map[string]bool),
		sessions:       make(map[string]domain.Identity),
	}
}

func (m *mockCacheRepo) SetIdempotency(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return false, m.err
	}
	if m.idempotencySet[key] {
		return false, nil
	}
	m.idempotencySet[key] = true
	return true, nil
}

func (m *mockCacheRepo) ReleaseIdempotency(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.idempotencySet, key)
	return nil
}

func (m *mockCacheRepo) claimed(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.idempotencySet[key]
}

func (m *mockCacheRepo) SaveSession(ctx context.Context, token string, identity domain.Identity, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = identity
	return nil
}

func (m *mockCacheRepo) GetSession(ctx context.Context, token string) (*domain.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	identity, ok := m.sessions[token]
	if !ok {
		return nil, nil
	}
	return &identity, nil
}

func (m *mockCacheRepo) DeleteSession(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

// users

type memUsers struct {
	mu     sync.Mutex
	users  []domain.User
	failed error
}

func (m *memUsers) CreateUser(ctx context.Context, user domain.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failed != nil {
		return 0, m.failed
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
			return 0, domain.ErrConflict
		}
	}
	user.ID = int64(len(m.users) + 1)
	m.users = append(m.users, user)
	return user.ID, nil
}

func (m *memUsers) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == login || u.Email == login {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

var errDatabaseDown = errors.New("connection refused")

type mockPublisher struct {
	mu     sync.Mutex
	events []domain.OrderPlacedEvent
	err    error
}

func (p *mockPublisher) PublishOrderPlaced(ctx context.Context, event domain.OrderPlacedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *mockPublisher) Close() error { return nil }

func (p *mockPublisher) published() []domain.OrderPlacedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.events)
}
