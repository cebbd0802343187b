package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rl1809/storefront/internal/core/domain"
)

type AddToCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateCartRequest struct {
	CartID   int64 `json:"cart_id"`
	Quantity int   `json:"quantity"`
}

type RemoveFromCartRequest struct {
	CartID int64 `json:"cart_id"`
}

type CheckoutHTTPRequest struct {
	ShippingAddress string `json:"shipping_address"`
	City            string `json:"city"`
	State           string `json:"state"`
	ZipCode         string `json:"zip_code"`
	PaymentMethod   string `json:"payment_method"`
}

type CheckoutHTTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID int64  `json:"order_id,omitempty"`
}

func (h *HTTPHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid JSON data."})
		return
	}
	if req.ProductID <= 0 || req.Quantity <= 0 {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid product ID or quantity."})
		return
	}

	line, err := h.carts.AddItem(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, err, addFailureMessage(err, req.Quantity))
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: addSuccessMessage(line, req.Quantity)})
}

func (h *HTTPHandler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	var req UpdateCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid JSON data."})
		return
	}
	if req.CartID <= 0 {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid cart ID or quantity."})
		return
	}

	if err := h.carts.SetQuantity(r.Context(), req.CartID, req.Quantity); err != nil {
		writeError(w, err, updateFailureMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Cart updated successfully!"})
}

func (h *HTTPHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	var req RemoveFromCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid JSON data."})
		return
	}
	if req.CartID <= 0 {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid cart ID."})
		return
	}

	if err := h.carts.RemoveItem(r.Context(), req.CartID); err != nil {
		writeError(w, err, messageFor(err, "Failed to remove item from cart. Please try again."))
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Item removed from cart successfully!"})
}

// CartCount answers 0 for anonymous callers.
func (h *HTTPHandler) CartCount(w http.ResponseWriter, r *http.Request) {
	if _, ok := domain.IdentityFrom(r.Context()); !ok {
		writeJSON(w, http.StatusOK, map[string]int{"count": 0})
		return
	}

	count, err := h.carts.ItemCount(r.Context())
	if err != nil {
		writeError(w, err, messageFor(err, "internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// CartTotal is the cart subtotal before shipping and tax, 0 for anonymous callers.
func (h *HTTPHandler) CartTotal(w http.ResponseWriter, r *http.Request) {
	if _, ok := domain.IdentityFrom(r.Context()); !ok {
		writeJSON(w, http.StatusOK, map[string]any{"total": 0})
		return
	}

	subtotal, err := h.carts.Subtotal(r.Context())
	if err != nil {
		writeError(w, err, messageFor(err, "internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"total": money(subtotal)})
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	summary, err := h.carts.Summary(r.Context())
	if err != nil {
		writeError(w, err, messageFor(err, "internal error"))
		return
	}

	items := make([]cartItemView, 0, len(summary.Items))
	for _, it := range summary.Items {
		items = append(items, newCartItemView(it))
	}
	quote := summary.Quote.Rounded()
	writeJSON(w, http.StatusOK, cartView{
		Items:    items,
		Count:    summary.Count,
		Subtotal: money(quote.Subtotal),
		Shipping: money(quote.Shipping),
		Tax:      money(quote.Tax),
		Total:    money(quote.Total),
	})
}

func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutHTTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, CheckoutHTTPResponse{Success: false, Message: "Invalid JSON data."})
		return
	}

	orderID, err := h.orders.PlaceOrder(r.Context(), domain.CheckoutRequest{
		Shipping: domain.ShippingInfo{
			Address: req.ShippingAddress,
			City:    req.City,
			State:   req.State,
			ZipCode: req.ZipCode,
		},
		PaymentMethod:  domain.PaymentMethod(req.PaymentMethod),
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		writeJSON(w, statusFor(err), CheckoutHTTPResponse{Success: false, Message: checkoutMessage(err)})
		return
	}

	writeJSON(w, http.StatusOK, CheckoutHTTPResponse{
		Success: true,
		Message: "Order placed successfully!",
		OrderID: orderID,
	})
}

// stockMessage appends the units left when the store saw the current stock.
func stockMessage(err error, message string) string {
	var stockErr *domain.StockError
	if errors.As(err, &stockErr) && stockErr.Available >= 0 {
		return fmt.Sprintf("%s Only %d left in stock.", message, stockErr.Available)
	}
	return message
}

// addSuccessMessage tells a merge into an existing line apart from a new line.
func addSuccessMessage(line *domain.CartLine, quantity int) string {
	if line != nil && line.Quantity > quantity {
		return "Cart updated successfully!"
	}
	return "Item added to cart successfully!"
}

func addFailureMessage(err error, quantity int) string {
	var stockErr *domain.StockError
	if !errors.As(err, &stockErr) {
		return messageFor(err, "Failed to add item to cart. Please try again.")
	}
	// Requested is the merged quantity when the line already existed.
	if stockErr.Requested > quantity {
		return stockMessage(err, "Cannot add more items. Stock limit exceeded.")
	}
	return stockMessage(err, "Insufficient stock available.")
}

func updateFailureMessage(err error) string {
	if errors.Is(err, domain.ErrInsufficientStock) {
		return stockMessage(err, "Quantity exceeds available stock.")
	}
	return messageFor(err, "Failed to update cart. Please try again.")
}

func checkoutMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return "Your cart is empty."
	case errors.Is(err, domain.ErrInsufficientStock):
		return "Some items in your cart are no longer available in the requested quantity."
	case errors.Is(err, domain.ErrDuplicateRequest):
		return "This order has already been submitted."
	}
	return messageFor(err, "Failed to place order. Please try again.")
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		writeError(w, err, messageFor(err, "internal error"))
		return
	}

	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, newOrderView(o))
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": views})
}

func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid order ID."})
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, err, messageFor(err, "internal error"))
		return
	}
	writeJSON(w, http.StatusOK, newOrderView(*order))
}

type cartView struct {
	Items    []cartItemView `json:"items"`
	Count    int            `json:"count"`
	Subtotal json.Number    `json:"subtotal"`
	Shipping json.Number    `json:"shipping"`
	Tax      json.Number    `json:"tax"`
	Total    json.Number    `json:"total"`
}

type cartItemView struct {
	CartID        int64       `json:"cart_id"`
	ProductID     int64       `json:"product_id"`
	ProductName   string      `json:"product_name"`
	Price         json.Number `json:"price"`
	Quantity      int         `json:"quantity"`
	LineTotal     json.Number `json:"line_total"`
	StockQuantity int         `json:"stock_quantity"`
	ExceedsStock  bool        `json:"exceeds_stock"`
	ImagePath     string      `json:"image_path"`
	CategoryName  string      `json:"category_name"`
	AddedAt       time.Time   `json:"added_at"`
}

func newCartItemView(it domain.CartItem) cartItemView {
	return cartItemView{
		CartID:        it.ID,
		ProductID:     it.ProductID,
		ProductName:   it.ProductName,
		Price:         money(it.Price),
		Quantity:      it.Quantity,
		LineTotal:     money(it.LineTotal()),
		StockQuantity: it.StockQuantity,
		ExceedsStock:  it.ExceedsStock(),
		ImagePath:     it.ImagePath,
		CategoryName:  it.CategoryName,
		AddedAt:       it.AddedAt,
	}
}

type orderView struct {
	OrderID         int64           `json:"order_id"`
	TotalAmount     json.Number     `json:"total_amount"`
	ShippingAddress string          `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []orderItemView `json:"items"`
}

type orderItemView struct {
	ProductID       int64       `json:"product_id"`
	ProductName     string      `json:"product_name"`
	ImagePath       string      `json:"image_path"`
	Quantity        int         `json:"quantity"`
	PriceAtPurchase json.Number `json:"price_at_purchase"`
	LineTotal       json.Number `json:"line_total"`
}

func newOrderView(o domain.Order) orderView {
	v := orderView{
		OrderID:         o.ID,
		TotalAmount:     money(o.TotalAmount),
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   string(o.PaymentMethod),
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
		Items:           make([]orderItemView, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		v.Items = append(v.Items, orderItemView{
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			ImagePath:       it.ImagePath,
			Quantity:        it.Quantity,
			PriceAtPurchase: money(it.PriceAtPurchase),
			LineTotal:       money(it.LineTotal()),
		})
	}
	return v
}
