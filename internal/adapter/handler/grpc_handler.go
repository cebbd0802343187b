package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/rl1809/storefront/internal/adapter/handler/pb"
	"github.com/rl1809/storefront/internal/core/domain"
)

type GRPCHandler struct {
	pb.UnimplementedStorefrontServer
	carts  CartService
	orders OrderService
}

func NewGRPCHandler(carts CartService, orders OrderService) *GRPCHandler {
	return &GRPCHandler{carts: carts, orders: orders}
}

// Business failures are reported in the response body. Only a missing
// identity or an unknown order surface as gRPC status codes.
func grpcStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, "login required")
	case errors.Is(err, domain.ErrOrderNotFound):
		return status.Error(codes.NotFound, "order not found")
	}
	return nil
}

func (h *GRPCHandler) AddToCart(ctx context.Context, req *pb.AddToCartRequest) (*pb.CartResponse, error) {
	if req.GetProductId() <= 0 || req.GetQuantity() <= 0 {
		return &pb.CartResponse{Success: false, Message: "Invalid product ID or quantity."}, nil
	}

	quantity := int(req.GetQuantity())
	line, err := h.carts.AddItem(ctx, req.GetProductId(), quantity)
	if err != nil {
		if st := grpcStatus(err); st != nil {
			return nil, st
		}
		return &pb.CartResponse{Success: false, Message: addFailureMessage(err, quantity)}, nil
	}

	return &pb.CartResponse{Success: true, Message: addSuccessMessage(line, quantity)}, nil
}

func (h *GRPCHandler) UpdateCart(ctx context.Context, req *pb.UpdateCartRequest) (*pb.CartResponse, error) {
	if req.GetCartId() <= 0 {
		return &pb.CartResponse{Success: false, Message: "Invalid cart ID or quantity."}, nil
	}

	if err := h.carts.SetQuantity(ctx, req.GetCartId(), int(req.GetQuantity())); err != nil {
		if st := grpcStatus(err); st != nil {
			return nil, st
		}
		return &pb.CartResponse{Success: false, Message: updateFailureMessage(err)}, nil
	}

	return &pb.CartResponse{Success: true, Message: "Cart updated successfully!"}, nil
}

func (h *GRPCHandler) RemoveFromCart(ctx context.Context, req *pb.RemoveFromCartRequest) (*pb.CartResponse, error) {
	if req.GetCartId() <= 0 {
		return &pb.CartResponse{Success: false, Message: "Invalid cart ID."}, nil
	}

	if err := h.carts.RemoveItem(ctx, req.GetCartId()); err != nil {
		if st := grpcStatus(err); st != nil {
			return nil, st
		}
		return &pb.CartResponse{Success: false, Message: messageFor(err, "Failed to remove item from cart. Please try again.")}, nil
	}

	return &pb.CartResponse{Success: true, Message: "Item removed from cart successfully!"}, nil
}

func (h *GRPCHandler) GetCart(ctx context.Context, _ *pb.GetCartRequest) (*pb.GetCartResponse, error) {
	summary, err := h.carts.Summary(ctx)
	if err != nil {
		if st := grpcStatus(err); st != nil {
			return nil, st
		}
		return nil, status.Error(codes.Internal, "internal error")
	}

	resp := &pb.GetCartResponse{Count: int32(summary.Count)}
	for _, it := range summary.Items {
		resp.Items = append(resp.Items, &pb.CartItem{
			CartId:       it.ID,
			ProductId:    it.ProductID,
			ProductName:  it.ProductName,
			Price:        it.Price.StringFixed(2),
			Quantity:     int32(it.Quantity),
			LineTotal:    it.LineTotal().StringFixed(2),
			ExceedsStock: it.ExceedsStock(),
		})
	}
	quote := summary.Quote.Rounded()
	resp.Subtotal = quote.Subtotal.StringFixed(2)
	resp.Shipping = quote.Shipping.StringFixed(2)
	resp.Tax = quote.Tax.StringFixed(2)
	resp.Total = quote.Total.StringFixed(2)
	return resp, nil
}

func (h *GRPCHandler) PlaceOrder(ctx context.Context, req *pb.PlaceOrderRequest) (*pb.PlaceOrderResponse, error) {
	orderID, err := h.orders.PlaceOrder(ctx, domain.CheckoutRequest{
		Shipping: domain.ShippingInfo{
			Address: req.GetShippingAddress(),
			City:    req.GetCity(),
			State:   req.GetState(),
			ZipCode: req.GetZipCode(),
		},
		PaymentMethod:  domain.PaymentMethod(req.GetPaymentMethod()),
		IdempotencyKey: req.GetIdempotencyKey(),
	})
	if err != nil {
		if st := grpcStatus(err); st != nil {
			return nil, st
		}
		return &pb.PlaceOrderResponse{Success: false, Message: checkoutMessage(err)}, nil
	}

	return &pb.PlaceOrderResponse{Success: true, Message: "Order placed successfully!", OrderId: orderID}, nil
}

func (h *GRPCHandler) GetOrder(ctx context.Context, req *pb.GetOrderRequest) (*pb.Order, error) {
	order, err := h.orders.GetOrder(ctx, req.GetOrderId())
	if err != nil {
		if st := grpcStatus(err); st != nil {
			return nil, st
		}
		return nil, status.Error(codes.Internal, "internal error")
	}

	out := &pb.Order{
		OrderId:         order.ID,
		TotalAmount:     order.TotalAmount.StringFixed(2),
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   string(order.PaymentMethod),
		Status:          string(order.Status),
		CreatedAt:       order.CreatedAt.UTC().Format(time.RFC3339),
	}
	for _, it := range order.Items {
		out.Items = append(out.Items, &pb.OrderItem{
			ProductId:       it.ProductID,
			ProductName:     it.ProductName,
			Quantity:        int32(it.Quantity),
			PriceAtPurchase: it.PriceAtPurchase.StringFixed(2),
		})
	}
	return out, nil
}

// AuthInterceptor resolves the "authorization" metadata into a caller identity.
// Calls without a valid token proceed anonymously and are rejected by the
// handlers that need a user.
func AuthInterceptor(auth AuthService, logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return handler(ctx, req)
		}
		values := md.Get("authorization")
		if len(values) == 0 {
			return handler(ctx, req)
		}

		token := strings.TrimSpace(strings.TrimPrefix(values[0], "Bearer "))
		identity, err := auth.Authenticate(ctx, token)
		switch {
		case err == nil:
			ctx = domain.WithIdentity(ctx, identity)
		case !errors.Is(err, domain.ErrUnauthenticated):
			logger.Error("session lookup failed", zap.String("method", info.FullMethod), zap.Error(err))
		}
		return handler(ctx, req)
	}
}
