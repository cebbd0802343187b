package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

type CatalogService struct {
	repo   port.CatalogRepository
	logger *zap.Logger
}

func NewCatalogService(repo port.CatalogRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger.Named("catalog")}
}

func (s *CatalogService) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	p, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, translate(s.logger, "get product", err, domain.ErrInternal)
	}
	return p, nil
}

// ListProducts filters and sorts the catalog. Without a sort key products keep
// storage order.
func (s *CatalogService) ListProducts(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error) {
	if q.CategoryID != 0 {
		if _, err := s.repo.GetCategory(ctx, q.CategoryID); err != nil {
			return nil, translate(s.logger, "get category", err, domain.ErrInternal)
		}
	}

	all, err := s.repo.ListProducts(ctx, q.CategoryID)
	if err != nil {
		return nil, translate(s.logger, "list products", err, domain.ErrInternal)
	}

	products := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if q.Matches(p) {
			products = append(products, p)
		}
	}
	domain.SortProducts(products, q.Sort)
	return products, nil
}

func (s *CatalogService) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	if categoryID == 0 {
		return nil, domain.ErrCategoryNotFound
	}
	return s.ListProducts(ctx, domain.ProductQuery{CategoryID: categoryID})
}

// Search returns nothing for a blank term.
func (s *CatalogService) Search(ctx context.Context, term string) ([]domain.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []domain.Product{}, nil
	}

	products, err := s.repo.SearchProducts(ctx, term)
	if err != nil {
		return nil, translate(s.logger, "search products", err, domain.ErrInternal)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, translate(s.logger, "list categories", err, domain.ErrInternal)
	}
	return categories, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, categoryID int64) (*domain.Category, error) {
	c, err := s.repo.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, translate(s.logger, "get category", err, domain.ErrInternal)
	}
	return c, nil
}

func (s *CatalogService) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return err
	}
	return translate(s.logger, "decrement stock", s.repo.DecrementStock(ctx, productID, quantity), domain.ErrInternal)
}

func validateProduct(p domain.Product) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return domain.NewValidationError("product_name", "is required")
	case !p.Price.IsPositive():
		return domain.NewValidationError("price", "must be greater than 0")
	case p.StockQuantity < 0:
		return domain.NewValidationError("stock_quantity", "must not be negative")
	case p.CategoryID == 0:
		return domain.NewValidationError("category_id", "is required")
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, p domain.Product) (int64, error) {
	if _, err := RequireAdmin(ctx); err != nil {
		return 0, err
	}

	p.Name = strings.TrimSpace(p.Name)
	if err := validateProduct(p); err != nil {
		return 0, err
	}
	if _, err := s.repo.GetCategory(ctx, p.CategoryID); err != nil {
		return 0, translate(s.logger, "get category", err, domain.ErrInternal)
	}

	id, err := s.repo.CreateProduct(ctx, p)
	if err != nil {
		return 0, translate(s.logger, "create product", err, domain.ErrInternal)
	}

	s.logger.Info("product created", zap.Int64("product_id", id), zap.String("name", p.Name))
	return id, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, productID int64, update domain.ProductUpdate) error {
	if _, err := RequireAdmin(ctx); err != nil {
		return err
	}
	if update.Empty() {
		return domain.NewValidationError("product", "no fields to update")
	}

	switch {
	case update.Name != nil && strings.TrimSpace(*update.Name) == "":
		return domain.NewValidationError("product_name", "is required")
	case update.Price != nil && !update.Price.IsPositive():
		return domain.NewValidationError("price", "must be greater than 0")
	case update.StockQuantity != nil && *update.StockQuantity < 0:
		return domain.NewValidationError("stock_quantity", "must not be negative")
	}
	if update.CategoryID != nil {
		if _, err := s.repo.GetCategory(ctx, *update.CategoryID); err != nil {
			return translate(s.logger, "get category", err, domain.ErrInternal)
		}
	}

	if err := s.repo.UpdateProduct(ctx, productID, update); err != nil {
		return translate(s.logger, "update product", err, domain.ErrInternal)
	}
	return nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, productID int64) error {
	if _, err := RequireAdmin(ctx); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return translate(s.logger, "delete product", err, domain.ErrInternal)
	}
	s.logger.Info("product deleted", zap.Int64("product_id", productID))
	return nil
}

func (s *CatalogService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	if _, err := RequireAdmin(ctx); err != nil {
		return nil, err
	}

	products, err := s.repo.ListProducts(ctx, 0)
	if err != nil {
		return nil, translate(s.logger, "list products", err, domain.ErrInternal)
	}
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, translate(s.logger, "list categories", err, domain.ErrInternal)
	}

	stats := &domain.DashboardStats{
		TotalProducts:   len(products),
		TotalCategories: len(categories),
		LowStock:        []domain.Product{},
		OutOfStock:      []domain.Product{},
	}
	for _, p := range products {
		if p.StockQuantity <= domain.LowStockThreshold {
			stats.LowStock = append(stats.LowStock, p)
		}
		if p.StockQuantity == 0 {
			stats.OutOfStock = append(stats.OutOfStock, p)
		}
	}
	return stats, nil
}
