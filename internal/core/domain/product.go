package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LowStockThreshold is the stock level at or below which the admin dashboard flags a product.
const LowStockThreshold = 5

type Category struct {
	ID   int64
	Name string
}

type Product struct {
	ID            int64
	CategoryID    int64
	CategoryName  string
	Name          string
	Description   string
	Price         decimal.Decimal
	Size          string
	Color         string
	ImagePath     string
	StockQuantity int
	Version       int // optimistic locking for admin edits
	CreatedAt     time.Time
}

func (p Product) InStock() bool {
	return p.StockQuantity > 0
}

// ProductUpdate holds the admin-editable fields. Nil fields are left unchanged.
type ProductUpdate struct {
	CategoryID    *int64
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	Size          *string
	Color         *string
	ImagePath     *string
	StockQuantity *int
	Version       int
}

func (u ProductUpdate) Empty() bool {
	return u.CategoryID == nil && u.Name == nil && u.Description == nil && u.Price == nil &&
		u.Size == nil && u.Color == nil && u.ImagePath == nil && u.StockQuantity == nil
}

type ProductSort string

const (
	SortNone      ProductSort = ""
	SortNewest    ProductSort = "newest"
	SortPriceLow  ProductSort = "price_low"
	SortPriceHigh ProductSort = "price_high"
	SortName      ProductSort = "name"
)

func ParseProductSort(s string) (ProductSort, bool) {
	switch ProductSort(s) {
	case SortNone, SortNewest, SortPriceLow, SortPriceHigh, SortName:
		return ProductSort(s), true
	}
	return SortNone, false
}

// ProductQuery filters a catalog listing. Zero values mean "no constraint".
type ProductQuery struct {
	CategoryID int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       ProductSort
}

func (q ProductQuery) Matches(p Product) bool {
	if q.CategoryID != 0 && p.CategoryID != q.CategoryID {
		return false
	}
	if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
		return false
	}
	if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
		return false
	}
	return true
}

// SortProducts orders products in place. The sort is stable, so products that
// compare equal keep the order they arrived in (insertion order from storage).
func SortProducts(products []Product, by ProductSort) {
	var cmp func(a, b Product) int
	switch by {
	case SortPriceLow:
		cmp = func(a, b Product) int { return a.Price.Cmp(b.Price) }
	case SortPriceHigh:
		cmp = func(a, b Product) int { return b.Price.Cmp(a.Price) }
	case SortName:
		cmp = func(a, b Product) int { return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) }
	case SortNewest:
		cmp = func(a, b Product) int { return b.CreatedAt.Compare(a.CreatedAt) }
	default:
		return
	}
	slices.SortStableFunc(products, cmp)
}

// MatchesTerm reports whether term occurs in the product name or description, ignoring case.
func (p Product) MatchesTerm(term string) bool {
	t := strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Name), t) || strings.Contains(strings.ToLower(p.Description), t)
}

type DashboardStats struct {
	TotalProducts   int
	TotalCategories int
	LowStock        []Product
	OutOfStock      []Product
}
