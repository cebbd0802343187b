package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rl1809/storefront/internal/core/domain"
)

func validCheckout() domain.CheckoutRequest {
	return domain.CheckoutRequest{
		Shipping: domain.ShippingInfo{
			Address: " 12 Elm Street ",
			City:    "Springfield",
			State:   "IL",
			ZipCode: "62701",
		},
		PaymentMethod: domain.PaymentCreditCard,
	}
}

type orderFixture struct {
	store  *memStore
	cache  *mockCacheRepo
	carts  *CartService
	orders *OrderService
}

func newOrderFixture(queueSize int) *orderFixture {
	store := newMemStore()
	cache := newMockCacheRepo()
	return &orderFixture{
		store:  store,
		cache:  cache,
		carts:  NewCartService(store, testLogger),
		orders: NewOrderService(store, store, cache, testLogger, queueSize),
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	f := newOrderFixture(10)
	defer f.orders.Close()

	shirt := f.store.addProduct("Shirt", "25.00", 5)
	belt := f.store.addProduct("Belt", "25.00", 5)
	ctx := withUser(1)

	f.carts.AddItem(ctx, shirt, 2)
	f.carts.AddItem(ctx, belt, 1)

	orderID, err := f.orders.PlaceOrder(ctx, validCheckout())
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	order, err := f.orders.GetOrder(ctx, orderID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if !order.TotalAmount.Equal(money("81.38")) {
		t.Errorf("expected total 81.38, got %s", order.TotalAmount)
	}
	if order.Status != domain.OrderStatusProcessing {
		t.Errorf("expected status processing, got %s", order.Status)
	}
	if order.ShippingAddress != "12 Elm Street, Springfield, IL 62701" {
		t.Errorf("unexpected address %q", order.ShippingAddress)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	for _, it := range order.Items {
		if !it.PriceAtPurchase.Equal(money("25.00")) {
			t.Errorf("expected price snapshot 25.00, got %s", it.PriceAtPurchase)
		}
	}

	if f.store.stock(shirt) != 3 || f.store.stock(belt) != 4 {
		t.Errorf("expected stock 3 and 4, got %d and %d", f.store.stock(shirt), f.store.stock(belt))
	}
	if n, _ := f.carts.ItemCount(ctx); n != 0 {
		t.Errorf("expected empty cart, got %d", n)
	}

	select {
	case event := <-f.orders.Events():
		if event.OrderID != orderID || len(event.Items) != 2 || event.EventID == "" {
			t.Errorf("unexpected event: %+v", event)
		}
	default:
		t.Error("expected order placed event")
	}
}

func TestPlaceOrder_PriceSnapshotSurvivesPriceChange(t *testing.T) {
	f := newOrderFixture(10)
	defer f.orders.Close()

	p := f.store.addProduct("Coat", "60.00", 2)
	ctx := withUser(1)
	f.carts.AddItem(ctx, p, 1)

	orderID, err := f.orders.PlaceOrder(ctx, validCheckout())
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	price := money("99.00")
	if err := NewCatalogService(f.store, testLogger).UpdateProduct(withAdmin(), p, domain.ProductUpdate{Price: &price}); err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}

	order, _ := f.orders.GetOrder(ctx, orderID)
	if !order.Items[0].PriceAtPurchase.Equal(money("60.00")) {
		t.Errorf("price snapshot changed to %s", order.Items[0].PriceAtPurchase)
	}
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := newOrderFixture(10)
	defer f.orders.Close()

	_, err := f.orders.PlaceOrder(withUser(1), validCheckout())
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Errorf("expected ErrEmptyCart, got: %v", err)
	}
	if f.store.orderCount() != 0 {
		t.Error("expected no order")
	}
}

func TestPlaceOrder_Validation(t *testing.T) {
	f := newOrderFixture(10)
	defer f.orders.Close()

	p := f.store.addProduct("Dress", "30.00", 5)
	ctx := withUser(1)
	f.carts.AddItem(ctx, p, 1)

	tests := []struct {
		field  string
		mutate func(*domain.CheckoutRequest)
	}{
		{"shipping_address", func(r *domain.CheckoutRequest) { r.Shipping.Address = "   " }},
		{"city", func(r *domain.CheckoutRequest) { r.Shipping.City = "" }},
		{"state", func(r *domain.CheckoutRequest) { r.Shipping.State = "" }},
		{"zip_code", func(r *domain.CheckoutRequest) { r.Shipping.ZipCode = "" }},
		{"payment_method", func(r *domain.CheckoutRequest) { r.PaymentMethod = "bitcoin" }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			req := validCheckout()
			tt.mutate(&req)

			_, err := f.orders.PlaceOrder(ctx, req)
			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got: %v", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, vErr.Field)
			}
			if !errors.Is(err, domain.ErrValidationFailed) {
				t.Error("expected ErrValidationFailed")
			}
		})
	}

	if f.store.stock(p) != 5 {
		t.Error("stock changed on invalid checkout")
	}
}

func TestPlaceOrder_Unauthenticated(t *testing.T) {
	f := newOrderFixture(10)
	defer f.orders.Close()

	_, err := f.orders.PlaceOrder(context.Background(), validCheckout())
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got: %v", err)
	}
}

func TestPlaceOrder_AllOrNothingOnStockShortfall(t *testing.T) {
	f := newOrderFixture(10)
	defer f.orders.Close()

	plenty := f.store.addProduct("Plenty", "10.00", 10)
	scarce := f.store.addProduct("Scarce", "10.00", 2)
	ctx := withUser(1)
	f.carts.AddItem(ctx, plenty, 3)
	f.carts.AddItem(ctx, scarce, 2)

	// someone else buys the scarce stock after it went into this cart
	if err := NewCatalogService(f.store, testLogger).DecrementStock(ctx, scarce, 1); err != nil {
		t.Fatalf("DecrementStock failed: %v", err)
	}

	_, err := f.orders.PlaceOrder(ctx, validCheckout())
	if !errors.Is(err, domain.ErrOrderFailed) || !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrOrderFailed and ErrInsufficientStock, got: %v", err)
	}

	if f.store.stock(plenty) != 10 || f.store.stock(scarce) != 1 {
		t.Errorf("stock changed: %d, %d", f.store.stock(plenty), f.store.stock(scarce))
	}
	if n, _ := f.carts.ItemCount(ctx); n != 5 {
		t.Errorf("expected cart untouched with 5 units, got %d", n)
	}
	if f.store.orderCount() != 0 {
		t.Error("expected no order")
	}
}

func TestPlaceOrder_SecondDecrementFailureUndoesFirst(t *testing.T) {
	f := newOrderFixture(10)
	defer f.orders.Close()

	first := f.store.addProduct("First", "10.00", 5)
	second := f.store.addProduct("Second", "20.00", 5)
	ctx := withUser(1)
	f.carts.AddItem(ctx, first, 2)
	f.carts.AddItem(ctx, second, 1)

	// the cart is locked newest first, so second is decremented before first;
	// first loses its stock after the stock check already passed
	f.store.beforeDecrement = func(state memState, productID int64) {
		if productID == first {
			p := state.products[first]
			p.StockQuantity = 1
			state.products[first] = p
		}
	}

	_, err := f.orders.PlaceOrder(ctx, validCheckout())
	var stockErr *domain.StockError
	if !errors.As(err, &stockErr) || stockErr.ProductID != first {
		t.Fatalf("expected StockError for product %d, got: %v", first, err)
	}
	if !errors.Is(err, domain.ErrOrderFailed) {
		t.Errorf("expected ErrOrderFailed, got: %v", err)
	}

	if len(f.store.decremented) != 1 || f.store.decremented[0] != second {
		t.Fatalf("expected one successful decrement of product %d, got %v", second, f.store.decremented)
	}
	if f.store.stock(first) != 5 || f.store.stock(second) != 5 {
		t.Errorf("stock changed: %d, %d", f.store.stock(first), f.store.stock(second))
	}
	if n, _ := f.carts.ItemCount(ctx); n != 3 {
		t.Errorf("expected cart untouched with 3 units, got %d", n)
	}
	if f.store.orderCount() != 0 {
		t.Error("expected no order")
	}
}

func TestPlaceOrder_AllOrNothingOnWriteFailure(t *testing.T) {
	f := newOrderFixture(10)
	defer f.orders.Close()

	p := f.store.addProduct("Jacket", "80.00", 3)
	ctx := withUser(1)
	f.carts.AddItem(ctx, p, 1)
	f.store.failAddOrderItem = errDatabaseDown

	_, err := f.orders.PlaceOrder(ctx, validCheckout())
	if !errors.Is(err, domain.ErrOrderFailed) {
		t.Fatalf("expected ErrOrderFailed, got: %v", err)
	}
	if errors.Is(err, errDatabaseDown) {
		t.Error("internal cause must not leak to the caller")
	}
	if f.store.stock(p) != 3 || f.store.orderCount() != 0 {
		t.Error("state changed after failed checkout")
	}
}

func TestPlaceOrder_DuplicateIdempotencyKey(t *testing.T) {
	f := newOrderFixture(10)
	defer f.orders.Close()

	p := f.store.addProduct("Shoes", "55.00", 5)
	ctx := withUser(1)
	f.carts.AddItem(ctx, p, 1)

	req := validCheckout()
	req.IdempotencyKey = "abc"
	if _, err := f.orders.PlaceOrder(ctx, req); err != nil {
		t.Fatalf("first checkout failed: %v", err)
	}

	f.carts.AddItem(ctx, p, 1)
	_, err := f.orders.PlaceOrder(ctx, req)
	if !errors.Is(err, domain.ErrDuplicateRequest) {
		t.Errorf("expected ErrDuplicateRequest, got: %v", err)
	}
	if f.store.orderCount() != 1 {
		t.Errorf("expected 1 order, got %d", f.store.orderCount())
	}
}

func TestPlaceOrder_FailedCheckoutReleasesKey(t *testing.T) {
	f := newOrderFixture(10)
	defer f.orders.Close()

	req := validCheckout()
	req.IdempotencyKey = "retry-me"
	ctx := withUser(1)

	if _, err := f.orders.PlaceOrder(ctx, req); !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got: %v", err)
	}
	if f.cache.claimed("checkout:1:retry-me") {
		t.Error("expected key released after failure")
	}

	p := f.store.addProduct("Gloves", "5.00", 5)
	f.carts.AddItem(ctx, p, 1)
	if _, err := f.orders.PlaceOrder(ctx, req); err != nil {
		t.Errorf("expected retry to succeed, got: %v", err)
	}
}

func TestPlaceOrder_CacheDown(t *testing.T) {
	f := newOrderFixture(10)
	defer f.orders.Close()

	f.cache.err = errDatabaseDown
	req := validCheckout()
	req.IdempotencyKey = "k"

	_, err := f.orders.PlaceOrder(withUser(1), req)
	if !errors.Is(err, domain.ErrOrderFailed) {
		t.Errorf("expected ErrOrderFailed, got: %v", err)
	}
}

func TestPlaceOrder_ConcurrentCheckoutsNeverOversell(t *testing.T) {
	f := newOrderFixture(100)
	defer f.orders.Close()

	const stock = 3
	const buyers = 20
	p := f.store.addProduct("Limited Edition", "19.99", stock)

	// every buyer puts one unit in the cart while stock lasts on paper
	for u := int64(1); u <= buyers; u++ {
		f.store.mu.Lock()
		id := f.store.id()
		f.store.state.cart[id] = domain.CartLine{ID: id, UserID: u, ProductID: p, Quantity: 1, AddedAt: f.store.tick()}
		f.store.mu.Unlock()
	}

	var successCount, stockFailures atomic.Int32
	var wg sync.WaitGroup
	for u := int64(1); u <= buyers; u++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := f.orders.PlaceOrder(withUser(userID), validCheckout())
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				stockFailures.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(u)
	}
	wg.Wait()

	if successCount.Load() != stock {
		t.Errorf("expected %d successes, got %d", stock, successCount.Load())
	}
	if stockFailures.Load() != buyers-stock {
		t.Errorf("expected %d stock failures, got %d", buyers-stock, stockFailures.Load())
	}
	if f.store.stock(p) != 0 {
		t.Errorf("expected stock 0, got %d", f.store.stock(p))
	}
}

func TestPlaceOrder_DoubleSubmitSameUser(t *testing.T) {
	f := newOrderFixture(10)
	defer f.orders.Close()

	p := f.store.addProduct("Boots", "70.00", 10)
	ctx := withUser(1)
	f.carts.AddItem(ctx, p, 2)

	var successCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.orders.PlaceOrder(ctx, validCheckout()); err == nil {
				successCount.Add(1)
			} else if !errors.Is(err, domain.ErrEmptyCart) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("expected 1 order, got %d", successCount.Load())
	}
	if f.store.stock(p) != 8 {
		t.Errorf("expected stock 8, got %d", f.store.stock(p))
	}
}

func TestPlaceOrder_FullQueueDoesNotBlock(t *testing.T) {
	f := newOrderFixture(1)
	defer f.orders.Close()

	p := f.store.addProduct("Pin", "1.00", 10)
	for u := int64(1); u <= 3; u++ {
		ctx := withUser(u)
		f.carts.AddItem(ctx, p, 1)
		if _, err := f.orders.PlaceOrder(ctx, validCheckout()); err != nil {
			t.Fatalf("checkout %d failed: %v", u, err)
		}
	}

	if len(f.orders.Events()) != 1 {
		t.Errorf("expected 1 queued event, got %d", len(f.orders.Events()))
	}
	if f.store.orderCount() != 3 {
		t.Errorf("expected 3 orders, got %d", f.store.orderCount())
	}
}

func TestGetOrder_ScopedToOwner(t *testing.T) {
	f := newOrderFixture(10)
	defer f.orders.Close()

	p := f.store.addProduct("Ring", "150.00", 1)
	f.carts.AddItem(withUser(1), p, 1)
	orderID, err := f.orders.PlaceOrder(withUser(1), validCheckout())
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	if _, err := f.orders.GetOrder(withUser(2), orderID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got: %v", err)
	}

	orders, err := f.orders.ListOrders(withUser(2))
	if err != nil || len(orders) != 0 {
		t.Errorf("expected no orders for user 2, got %v, %v", orders, err)
	}
}

func TestListOrders_NewestFirst(t *testing.T) {
	f := newOrderFixture(10)
	defer f.orders.Close()

	p := f.store.addProduct("Watch", "10.00", 10)
	ctx := withUser(1)
	var ids []int64
	for i := 0; i < 3; i++ {
		f.carts.AddItem(ctx, p, 1)
		id, err := f.orders.PlaceOrder(ctx, validCheckout())
		if err != nil {
			t.Fatalf("PlaceOrder failed: %v", err)
		}
		ids = append(ids, id)
	}

	orders, _ := f.orders.ListOrders(ctx)
	got := fmt.Sprint(orders[0].ID, orders[1].ID, orders[2].ID)
	want := fmt.Sprint(ids[2], ids[1], ids[0])
	if got != want {
		t.Errorf("expected order %s, got %s", want, got)
	}
}

func TestClose_Idempotent(t *testing.T) {
	f := newOrderFixture(10)
	f.orders.Close()
	f.orders.Close()

	// checkout after close still commits, the event is dropped
	p := f.store.addProduct("Bag", "45.00", 2)
	f.carts.AddItem(withUser(1), p, 1)
	if _, err := f.orders.PlaceOrder(withUser(1), validCheckout()); err != nil {
		t.Errorf("expected success, got: %v", err)
	}
}

func TestRunEventWorker_PublishesUntilClosed(t *testing.T) {
	f := newOrderFixture(10)
	publisher := &mockPublisher{}

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			RunEventWorker(id, f.orders.Events(), publisher, testLogger)
		}(i)
	}

	p := f.store.addProduct("Wallet", "30.00", 10)
	for u := int64(1); u <= 4; u++ {
		f.carts.AddItem(withUser(u), p, 1)
		if _, err := f.orders.PlaceOrder(withUser(u), validCheckout()); err != nil {
			t.Fatalf("PlaceOrder failed: %v", err)
		}
	}

	f.orders.Close()
	wg.Wait()

	if n := len(publisher.published()); n != 4 {
		t.Errorf("expected 4 published events, got %d", n)
	}
}

func TestRunEventWorker_PublishErrorKeepsDraining(t *testing.T) {
	queue := make(chan domain.OrderPlacedEvent, 2)
	queue <- domain.OrderPlacedEvent{OrderID: 1}
	queue <- domain.OrderPlacedEvent{OrderID: 2}
	close(queue)

	publisher := &mockPublisher{err: errDatabaseDown}
	RunEventWorker(0, queue, publisher, testLogger)

	if len(queue) != 0 {
		t.Error("expected queue drained")
	}
}
