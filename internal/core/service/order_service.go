package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/pricing"
	"github.com/rl1809/storefront/internal/port"
)

type OrderService struct {
	orders port.OrderRepository
	carts  port.CartRepository
	cache  port.CacheRepository
	logger *zap.Logger
	now    func() time.Time

	mu         sync.RWMutex
	closed     bool
	eventQueue chan domain.OrderPlacedEvent
}

func NewOrderService(orders port.OrderRepository, carts port.CartRepository, cache port.CacheRepository,
	logger *zap.Logger, queueSize int) *OrderService {
	return &OrderService{
		orders:     orders,
		carts:      carts,
		cache:      cache,
		logger:     logger.Named("order"),
		now:        time.Now,
		eventQueue: make(chan domain.OrderPlacedEvent, queueSize),
	}
}

func validateCheckout(req domain.CheckoutRequest) (domain.ShippingInfo, error) {
	shipping := req.Shipping.Normalize()
	if err := shipping.Validate(); err != nil {
		return shipping, err
	}
	if !req.PaymentMethod.Valid() {
		return shipping, domain.NewValidationError("payment_method", "must be credit_card or paypal")
	}
	return shipping, nil
}

// PlaceOrder turns the caller's cart into an order. The cart is read, priced,
// written to the order, taken from stock and cleared in one transaction; on any
// failure nothing changes.
func (s *OrderService) PlaceOrder(ctx context.Context, req domain.CheckoutRequest) (orderID int64, err error) {
	id, err := requireIdentity(ctx)
	if err != nil {
		return 0, err
	}
	shipping, err := validateCheckout(req)
	if err != nil {
		return 0, err
	}

	ctx, span := tracer.Start(ctx, "order.place", trace.WithAttributes(attribute.Int64("user.id", id.UserID)))
	defer func() { endSpan(span, err) }()

	if req.IdempotencyKey != "" {
		key := fmt.Sprintf("checkout:%d:%s", id.UserID, req.IdempotencyKey)

		claimed, claimErr := s.cache.SetIdempotency(ctx, key)
		if claimErr != nil {
			s.logger.Error("idempotency check failed", zap.Int64("user_id", id.UserID), zap.Error(claimErr))
			return 0, domain.ErrOrderFailed
		}
		if !claimed {
			return 0, domain.ErrDuplicateRequest
		}

		defer func() {
			if err == nil {
				return
			}
			if releaseErr := s.cache.ReleaseIdempotency(context.WithoutCancel(ctx), key); releaseErr != nil {
				s.logger.Error("release idempotency key failed", zap.String("key", key), zap.Error(releaseErr))
			}
		}()
	}

	count, err := s.carts.ItemCount(ctx, id.UserID)
	if err != nil {
		return 0, translate(s.logger, "count cart", err, domain.ErrOrderFailed)
	}
	if count == 0 {
		return 0, domain.ErrEmptyCart
	}

	var order domain.Order
	err = s.orders.WithinCheckoutTx(ctx, func(tx port.CheckoutTx) error {
		items, err := tx.LockCart(ctx, id.UserID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.ErrEmptyCart
		}
		for _, it := range items {
			if err := domain.CheckStock(it.ProductID, it.Quantity, it.StockQuantity); err != nil {
				return err
			}
		}

		quote := pricing.Price(domain.Subtotal(items))
		order = domain.Order{
			UserID:          id.UserID,
			TotalAmount:     pricing.Cents(quote.Total),
			ShippingAddress: shipping.FullAddress(),
			PaymentMethod:   req.PaymentMethod,
			Status:          domain.OrderStatusProcessing,
			CreatedAt:       s.now(),
		}
		if order.ID, err = tx.CreateOrder(ctx, order); err != nil {
			return err
		}

		for _, it := range items {
			item := domain.OrderItem{
				OrderID:         order.ID,
				ProductID:       it.ProductID,
				Quantity:        it.Quantity,
				PriceAtPurchase: it.Price,
				ProductName:     it.ProductName,
				ImagePath:       it.ImagePath,
			}
			if err := tx.AddOrderItem(ctx, item); err != nil {
				return err
			}
			if err := tx.DecrementStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
			order.Items = append(order.Items, item)
		}

		return tx.ClearCart(ctx, id.UserID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCart) {
			return 0, domain.ErrEmptyCart
		}
		s.logger.Error("checkout rolled back", zap.Int64("user_id", id.UserID), zap.Error(err))
		if errors.Is(err, domain.ErrInsufficientStock) {
			return 0, fmt.Errorf("%w: %w", domain.ErrOrderFailed, err)
		}
		return 0, domain.ErrOrderFailed
	}

	span.SetAttributes(attribute.Int64("order.id", order.ID))
	s.logger.Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", id.UserID),
		zap.String("total", order.TotalAmount.StringFixed(2)),
	)
	s.enqueue(newOrderPlacedEvent(order))

	return order.ID, nil
}

func newOrderPlacedEvent(order domain.Order) domain.OrderPlacedEvent {
	event := domain.OrderPlacedEvent{
		EventID:     uuid.NewString(),
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		OccurredAt:  order.CreatedAt,
	}
	for _, it := range order.Items {
		event.Items = append(event.Items, domain.OrderPlacedItem{
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.PriceAtPurchase,
		})
	}
	return event
}

// enqueue never blocks checkout. The order is already committed, so a full
// queue only loses the notification.
func (s *OrderService) enqueue(event domain.OrderPlacedEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		s.logger.Warn("event queue closed, dropping event", zap.Int64("order_id", event.OrderID))
		return
	}

	select {
	case s.eventQueue <- event:
	default:
		s.logger.Warn("event queue full, dropping event", zap.Int64("order_id", event.OrderID))
	}
}

func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	id, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.GetOrder(ctx, id.UserID, orderID)
	if err != nil {
		return nil, translate(s.logger, "get order", err, domain.ErrInternal)
	}
	return order, nil
}

// ListOrders returns the caller's orders newest first.
func (s *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	id, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListOrders(ctx, id.UserID)
	if err != nil {
		return nil, translate(s.logger, "list orders", err, domain.ErrInternal)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (s *OrderService) Events() <-chan domain.OrderPlacedEvent {
	return s.eventQueue
}

func (s *OrderService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.eventQueue)
	}
}
