package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/core/domain"
)

type productView struct {
	ProductID     int64       `json:"product_id"`
	CategoryID    int64       `json:"category_id"`
	CategoryName  string      `json:"category_name"`
	Name          string      `json:"product_name"`
	Description   string      `json:"description"`
	Price         json.Number `json:"price"`
	Size          string      `json:"size"`
	Color         string      `json:"color"`
	ImagePath     string      `json:"image_path"`
	StockQuantity int         `json:"stock_quantity"`
	InStock       bool        `json:"in_stock"`
	Version       int         `json:"version"`
	CreatedAt     time.Time   `json:"created_at"`
}

func newProductView(p domain.Product) productView {
	return productView{
		ProductID:     p.ID,
		CategoryID:    p.CategoryID,
		CategoryName:  p.CategoryName,
		Name:          p.Name,
		Description:   p.Description,
		Price:         money(p.Price),
		Size:          p.Size,
		Color:         p.Color,
		ImagePath:     p.ImagePath,
		StockQuantity: p.StockQuantity,
		InStock:       p.InStock(),
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
	}
}

func productViews(products []domain.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p))
	}
	return views
}

type categoryView struct {
	CategoryID int64  `json:"category_id"`
	Name       string `json:"category_name"`
}

// ProductRequest carries admin product fields. Absent fields are left unchanged on update.
type ProductRequest struct {
	CategoryID    *int64           `json:"category_id"`
	Name          *string          `json:"product_name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	Size          *string          `json:"size"`
	Color         *string          `json:"color"`
	ImagePath     *string          `json:"image_path"`
	StockQuantity *int             `json:"stock_quantity"`
	Version       int              `json:"version"`
}

func (req ProductRequest) product() domain.Product {
	var p domain.Product
	if req.CategoryID != nil {
		p.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Size != nil {
		p.Size = *req.Size
	}
	if req.Color != nil {
		p.Color = *req.Color
	}
	if req.ImagePath != nil {
		p.ImagePath = *req.ImagePath
	}
	if req.StockQuantity != nil {
		p.StockQuantity = *req.StockQuantity
	}
	return p
}

func (req ProductRequest) update() domain.ProductUpdate {
	return domain.ProductUpdate{
		CategoryID:    req.CategoryID,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Size:          req.Size,
		Color:         req.Color,
		ImagePath:     req.ImagePath,
		StockQuantity: req.StockQuantity,
		Version:       req.Version,
	}
}

func parseProductQuery(r *http.Request) (domain.ProductQuery, bool) {
	var q domain.ProductQuery
	values := r.URL.Query()

	if v := values.Get("category"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return q, false
		}
		q.CategoryID = id
	}
	for _, bound := range []struct {
		key string
		dst **decimal.Decimal
	}{{"min_price", &q.MinPrice}, {"max_price", &q.MaxPrice}} {
		if v := values.Get(bound.key); v != "" {
			d, err := decimal.NewFromString(v)
			if err != nil {
				return q, false
			}
			*bound.dst = &d
		}
	}

	sort, ok := domain.ParseProductSort(values.Get("sort"))
	if !ok {
		return q, false
	}
	q.Sort = sort
	return q, true
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q, ok := parseProductQuery(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid filter parameters."})
		return
	}

	products, err := h.catalog.ListProducts(r.Context(), q)
	if err != nil {
		writeError(w, err, messageFor(err, "internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": productViews(products)})
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid product ID."})
		return
	}

	p, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, err, messageFor(err, "internal error"))
		return
	}
	writeJSON(w, http.StatusOK, newProductView(*p))
}

func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		writeError(w, err, messageFor(err, "internal error"))
		return
	}

	views := make([]categoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, categoryView{CategoryID: c.ID, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": views})
}

func (h *HTTPHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid category ID."})
		return
	}

	products, err := h.catalog.ListByCategory(r.Context(), id)
	if err != nil {
		writeError(w, err, messageFor(err, "internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": productViews(products)})
}

func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")

	products, err := h.catalog.Search(r.Context(), term)
	if err != nil {
		writeError(w, err, messageFor(err, "internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": term, "products": productViews(products)})
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid JSON data."})
		return
	}

	id, err := h.catalog.CreateProduct(r.Context(), req.product())
	if err != nil {
		writeError(w, err, messageFor(err, "Failed to add product. Please try again."))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"message":    "Product added successfully!",
		"product_id": id,
	})
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid product ID."})
		return
	}
	var req ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid JSON data."})
		return
	}

	if err := h.catalog.UpdateProduct(r.Context(), id, req.update()); err != nil {
		writeError(w, err, messageFor(err, "Failed to update product. Please try again."))
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Product updated successfully!"})
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: "Invalid product ID."})
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, err, messageFor(err, "Failed to delete product. Please try again."))
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Product deleted successfully!"})
}

func (h *HTTPHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.catalog.Dashboard(r.Context())
	if err != nil {
		writeError(w, err, messageFor(err, "internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_products":   stats.TotalProducts,
		"total_categories": stats.TotalCategories,
		"low_stock":        productViews(stats.LowStock),
		"out_of_stock":     productViews(stats.OutOfStock),
	})
}
