package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rl1809/storefront/internal/core/domain"
)

const productColumns = `
	p.product_id, p.category_id, COALESCE(c.category_name, ''), p.product_name,
	COALESCE(p.description, ''), p.price, p.size, p.color, p.image_path,
	p.stock_quantity, p.version, p.created_at`

const productFrom = `
	FROM products p
	LEFT JOIN categories c ON c.category_id = p.category_id`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.CategoryID, &p.CategoryName, &p.Name,
		&p.Description, &p.Price, &p.Size, &p.Color, &p.ImagePath,
		&p.StockQuantity, &p.Version, &p.CreatedAt,
	)
	return p, err
}

func (m *MySQLAdapter) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (m *MySQLAdapter) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	p, err := scanProduct(m.db.QueryRowContext(ctx,
		`SELECT `+productColumns+productFrom+` WHERE p.product_id = ?`, productID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	return &p, nil
}

func (m *MySQLAdapter) ListProducts(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	if categoryID == 0 {
		return m.queryProducts(ctx, `SELECT `+productColumns+productFrom+` ORDER BY p.product_id`)
	}
	return m.queryProducts(ctx,
		`SELECT `+productColumns+productFrom+` WHERE p.category_id = ? ORDER BY p.product_id`, categoryID)
}

func (m *MySQLAdapter) SearchProducts(ctx context.Context, term string) ([]domain.Product, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
	return m.queryProducts(ctx, `SELECT `+productColumns+productFrom+`
		WHERE LOWER(p.product_name) LIKE ? OR LOWER(COALESCE(p.description, '')) LIKE ?
		ORDER BY p.product_id`, pattern, pattern)
}

func (m *MySQLAdapter) GetCategory(ctx context.Context, categoryID int64) (*domain.Category, error) {
	var c domain.Category
	err := m.db.QueryRowContext(ctx,
		`SELECT category_id, category_name FROM categories WHERE category_id = ?`, categoryID,
	).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query category: %w", err)
	}
	return &c, nil
}

func (m *MySQLAdapter) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT category_id, category_name FROM categories ORDER BY category_id`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (m *MySQLAdapter) CreateProduct(ctx context.Context, p domain.Product) (int64, error) {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO products (category_id, product_name, description, price, size, color, image_path, stock_quantity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.CategoryID, p.Name, p.Description, p.Price, p.Size, p.Color, p.ImagePath, p.StockQuantity,
	)
	if mysqlErrorNumber(err) == errNoReferenced {
		return 0, domain.ErrCategoryNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return result.LastInsertId()
}

// UpdateProduct writes the non-nil fields of update if the stored version still
// matches update.Version.
func (m *MySQLAdapter) UpdateProduct(ctx context.Context, productID int64, update domain.ProductUpdate) error {
	var sets []string
	var args []any
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if update.CategoryID != nil {
		set("category_id", *update.CategoryID)
	}
	if update.Name != nil {
		set("product_name", *update.Name)
	}
	if update.Description != nil {
		set("description", *update.Description)
	}
	if update.Price != nil {
		set("price", *update.Price)
	}
	if update.Size != nil {
		set("size", *update.Size)
	}
	if update.Color != nil {
		set("color", *update.Color)
	}
	if update.ImagePath != nil {
		set("image_path", *update.ImagePath)
	}
	if update.StockQuantity != nil {
		set("stock_quantity", *update.StockQuantity)
	}
	sets = append(sets, "version = version + 1")
	args = append(args, productID, update.Version)

	result, err := m.db.ExecContext(ctx,
		`UPDATE products SET `+strings.Join(sets, ", ")+` WHERE product_id = ? AND version = ?`, args...)
	if mysqlErrorNumber(err) == errNoReferenced {
		return domain.ErrCategoryNotFound
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		if _, err := m.GetProduct(ctx, productID); err != nil {
			return err
		}
		return ErrOptimisticLock
	}

	return nil
}

func (m *MySQLAdapter) DeleteProduct(ctx context.Context, productID int64) error {
	result, err := m.db.ExecContext(ctx, `DELETE FROM products WHERE product_id = ?`, productID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (m *MySQLAdapter) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	err := decrementStock(ctx, m.db, productID, quantity)

	var stockErr *domain.StockError
	if !errors.As(err, &stockErr) {
		return err
	}

	p, getErr := m.GetProduct(ctx, productID)
	if getErr != nil {
		return getErr
	}
	stockErr.Available = p.StockQuantity
	return stockErr
}
