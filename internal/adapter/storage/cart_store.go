package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/storefront/internal/core/domain"
)

const cartItemQuery = `
	SELECT c.cart_id, c.user_id, c.product_id, c.quantity, c.added_at,
		p.product_name, p.price, p.stock_quantity, p.image_path, COALESCE(cat.category_name, '')
	FROM cart c
	JOIN products p ON p.product_id = c.product_id
	LEFT JOIN categories cat ON cat.category_id = p.category_id
	WHERE c.user_id = ?
	ORDER BY c.added_at DESC, c.cart_id DESC`

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listCartItems(ctx context.Context, q queryer, query string, userID int64) ([]domain.CartItem, error) {
	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart: %w", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var it domain.CartItem
		if err := rows.Scan(
			&it.ID, &it.UserID, &it.ProductID, &it.Quantity, &it.AddedAt,
			&it.ProductName, &it.Price, &it.StockQuantity, &it.ImagePath, &it.CategoryName,
		); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// AddOrMerge adds quantity to the user's line for productID, creating it if needed.
// The product row is share-locked and the cart row locked so the stock check and
// the write see the same state.
func (m *MySQLAdapter) AddOrMerge(ctx context.Context, userID, productID int64, quantity int) (*domain.CartLine, error) {
	var line domain.CartLine

	err := m.inTx(ctx, true, func(tx *sql.Tx) error {
		var stock int
		err := tx.QueryRowContext(ctx,
			`SELECT stock_quantity FROM products WHERE product_id = ? LOCK IN SHARE MODE`, productID,
		).Scan(&stock)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("query stock: %w", err)
		}

		line = domain.CartLine{UserID: userID, ProductID: productID}
		err = tx.QueryRowContext(ctx, `
			SELECT cart_id, quantity, added_at FROM cart
			WHERE user_id = ? AND product_id = ? FOR UPDATE`, userID, productID,
		).Scan(&line.ID, &line.Quantity, &line.AddedAt)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			if err := domain.CheckStock(productID, quantity, stock); err != nil {
				return err
			}
			result, err := tx.ExecContext(ctx,
				`INSERT INTO cart (user_id, product_id, quantity) VALUES (?, ?, ?)`, userID, productID, quantity)
			if err != nil {
				return fmt.Errorf("insert cart line: %w", err)
			}
			if line.ID, err = result.LastInsertId(); err != nil {
				return fmt.Errorf("insert cart line: %w", err)
			}
			line.Quantity = quantity
			return tx.QueryRowContext(ctx, `SELECT added_at FROM cart WHERE cart_id = ?`, line.ID).Scan(&line.AddedAt)

		case err != nil:
			return fmt.Errorf("query cart line: %w", err)
		}

		merged := line.Quantity + quantity
		if err := domain.CheckStock(productID, merged, stock); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE cart SET quantity = ? WHERE cart_id = ?`, merged, line.ID); err != nil {
			return fmt.Errorf("update cart line: %w", err)
		}
		line.Quantity = merged
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &line, nil
}

func (m *MySQLAdapter) SetQuantity(ctx context.Context, userID, cartLineID int64, quantity int) error {
	return m.inTx(ctx, false, func(tx *sql.Tx) error {
		var productID int64
		var stock int
		err := tx.QueryRowContext(ctx, `
			SELECT c.product_id, p.stock_quantity
			FROM cart c JOIN products p ON p.product_id = c.product_id
			WHERE c.cart_id = ? AND c.user_id = ? FOR UPDATE`, cartLineID, userID,
		).Scan(&productID, &stock)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrCartLineNotFound
		}
		if err != nil {
			return fmt.Errorf("query cart line: %w", err)
		}

		if err := domain.CheckStock(productID, quantity, stock); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE cart SET quantity = ? WHERE cart_id = ?`, quantity, cartLineID); err != nil {
			return fmt.Errorf("update cart line: %w", err)
		}
		return nil
	})
}

func (m *MySQLAdapter) RemoveLine(ctx context.Context, userID, cartLineID int64) error {
	if _, err := m.db.ExecContext(ctx,
		`DELETE FROM cart WHERE cart_id = ? AND user_id = ?`, cartLineID, userID); err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) ClearCart(ctx context.Context, userID int64) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM cart WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) ListItems(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	return listCartItems(ctx, m.db, cartItemQuery, userID)
}

func (m *MySQLAdapter) ItemCount(ctx context.Context, userID int64) (int, error) {
	var count int
	err := m.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(quantity), 0) FROM cart WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count cart: %w", err)
	}
	return count, nil
}
