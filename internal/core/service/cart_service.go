package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/pricing"
	"github.com/rl1809/storefront/internal/port"
)

type CartSummary struct {
	Items    []domain.CartItem
	Count    int
	Subtotal decimal.Decimal
	Quote    pricing.Quote
}

// CartService is the caller's cart. Every method reads the caller from ctx.
type CartService struct {
	repo   port.CartRepository
	logger *zap.Logger
}

func NewCartService(repo port.CartRepository, logger *zap.Logger) *CartService {
	return &CartService{repo: repo, logger: logger.Named("cart")}
}

func (s *CartService) AddItem(ctx context.Context, productID int64, quantity int) (line *domain.CartLine, err error) {
	id, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "cart.add", trace.WithAttributes(
		attribute.Int64("user.id", id.UserID),
		attribute.Int64("product.id", productID),
		attribute.Int("quantity", quantity),
	))
	defer func() { endSpan(span, err) }()

	line, err = s.repo.AddOrMerge(ctx, id.UserID, productID, quantity)
	if err != nil {
		return nil, translate(s.logger, "add to cart", err, domain.ErrInternal)
	}
	return line, nil
}

// SetQuantity overwrites a line's quantity. A quantity of zero or less removes the line.
func (s *CartService) SetQuantity(ctx context.Context, cartLineID int64, quantity int) (err error) {
	id, err := requireIdentity(ctx)
	if err != nil {
		return err
	}
	if quantity <= 0 {
		return s.RemoveItem(ctx, cartLineID)
	}

	ctx, span := tracer.Start(ctx, "cart.set_quantity", trace.WithAttributes(
		attribute.Int64("user.id", id.UserID),
		attribute.Int64("cart.line_id", cartLineID),
		attribute.Int("quantity", quantity),
	))
	defer func() { endSpan(span, err) }()

	return translate(s.logger, "update cart", s.repo.SetQuantity(ctx, id.UserID, cartLineID, quantity), domain.ErrInternal)
}

func (s *CartService) RemoveItem(ctx context.Context, cartLineID int64) error {
	id, err := requireIdentity(ctx)
	if err != nil {
		return err
	}
	return translate(s.logger, "remove from cart", s.repo.RemoveLine(ctx, id.UserID, cartLineID), domain.ErrInternal)
}

func (s *CartService) Clear(ctx context.Context) error {
	id, err := requireIdentity(ctx)
	if err != nil {
		return err
	}
	return translate(s.logger, "clear cart", s.repo.ClearCart(ctx, id.UserID), domain.ErrInternal)
}

// ListItems returns the cart newest line first.
func (s *CartService) ListItems(ctx context.Context) ([]domain.CartItem, error) {
	id, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListItems(ctx, id.UserID)
	if err != nil {
		return nil, translate(s.logger, "list cart", err, domain.ErrInternal)
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return items, nil
}

func (s *CartService) ItemCount(ctx context.Context) (int, error) {
	id, err := requireIdentity(ctx)
	if err != nil {
		return 0, err
	}
	n, err := s.repo.ItemCount(ctx, id.UserID)
	if err != nil {
		return 0, translate(s.logger, "count cart", err, domain.ErrInternal)
	}
	return n, nil
}

// Subtotal prices the cart at current product prices.
func (s *CartService) Subtotal(ctx context.Context) (decimal.Decimal, error) {
	items, err := s.ListItems(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return domain.Subtotal(items), nil
}

func (s *CartService) Summary(ctx context.Context) (*CartSummary, error) {
	items, err := s.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	subtotal := domain.Subtotal(items)
	return &CartSummary{
		Items:    items,
		Count:    domain.ItemCount(items),
		Subtotal: subtotal,
		Quote:    pricing.Price(subtotal),
	}, nil
}
