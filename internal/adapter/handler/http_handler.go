package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
)

const requestTimeout = 30 * time.Second

type HTTPHandler struct {
	catalog CatalogService
	carts   CartService
	orders  OrderService
	auth    AuthService
	logger  *zap.Logger
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewHTTPHandler(catalog CatalogService, carts CartService, orders OrderService, auth AuthService, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{
		catalog: catalog,
		carts:   carts,
		orders:  orders,
		auth:    auth,
		logger:  logger.Named("http"),
	}
}

func (h *HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(h.identify)

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Post("/auth/logout", h.Logout)

		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Get("/categories", h.ListCategories)
		r.Get("/categories/{id}/products", h.ListByCategory)
		r.Get("/search", h.Search)

		r.Get("/cart/count", h.CartCount)
		r.Get("/cart/total", h.CartTotal)

		r.Group(func(r chi.Router) {
			r.Use(requireLogin("Please log in."))
			r.Get("/cart", h.GetCart)
			r.Post("/cart/update", h.UpdateCart)
			r.Post("/cart/remove", h.RemoveFromCart)
			r.Post("/checkout", h.Checkout)
			r.Get("/orders", h.ListOrders)
			r.Get("/orders/{id}", h.GetOrder)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/dashboard", h.Dashboard)
				r.Post("/products", h.CreateProduct)
				r.Put("/products/{id}", h.UpdateProduct)
				r.Delete("/products/{id}", h.DeleteProduct)
			})
		})

		r.With(requireLogin("Please log in to add items to cart.")).Post("/cart/add", h.AddToCart)
	})

	return r
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error, message string) {
	writeJSON(w, statusFor(err), Response{Success: false, Message: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidationFailed), errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrDuplicateRequest):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// messageFor picks a user-facing message. Validation errors name their field;
// anything unexpected gets fallback.
func messageFor(err error, fallback string) string {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		return vErr.Error()
	case errors.Is(err, domain.ErrUnauthenticated):
		return "Please log in."
	case errors.Is(err, domain.ErrUnauthorized):
		return "Access denied."
	case errors.Is(err, domain.ErrProductNotFound):
		return "Product not found."
	case errors.Is(err, domain.ErrCategoryNotFound):
		return "Category not found."
	case errors.Is(err, domain.ErrCartLineNotFound):
		return "Cart item not found."
	case errors.Is(err, domain.ErrOrderNotFound):
		return "Order not found."
	case errors.Is(err, domain.ErrConflict):
		return "The record was changed by someone else. Reload and try again."
	}
	return fallback
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// money renders an amount rounded to cents as a JSON number.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}
