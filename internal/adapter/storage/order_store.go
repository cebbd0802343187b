package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

const lockCartQuery = cartItemQuery + ` FOR UPDATE OF c, p`

const orderItemColumns = `
	oi.order_id, oi.product_id, oi.quantity, oi.price_at_purchase,
	COALESCE(p.product_name, ''), COALESCE(p.image_path, '')`

// WithinCheckoutTx runs fn in one transaction. A deadlock rolls everything back
// and runs fn again.
func (m *MySQLAdapter) WithinCheckoutTx(ctx context.Context, fn func(tx port.CheckoutTx) error) error {
	return m.inTx(ctx, false, func(tx *sql.Tx) error {
		return fn(&checkoutTx{tx: tx})
	})
}

type checkoutTx struct {
	tx *sql.Tx
}

// LockCart locks the cart and product rows only. Category rows stay unlocked so
// checkouts in the same category do not queue behind each other.
func (c *checkoutTx) LockCart(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	return listCartItems(ctx, c.tx, lockCartQuery, userID)
}

func (c *checkoutTx) CreateOrder(ctx context.Context, order domain.Order) (int64, error) {
	result, err := c.tx.ExecContext(ctx, `
		INSERT INTO orders (user_id, total_amount, shipping_address, payment_method, status)
		VALUES (?, ?, ?, ?, ?)`,
		order.UserID, order.TotalAmount, order.ShippingAddress, order.PaymentMethod, order.Status,
	)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	return result.LastInsertId()
}

func (c *checkoutTx) AddOrderItem(ctx context.Context, item domain.OrderItem) error {
	_, err := c.tx.ExecContext(ctx, `
		INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase)
		VALUES (?, ?, ?, ?)`,
		item.OrderID, item.ProductID, item.Quantity, item.PriceAtPurchase,
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

func (c *checkoutTx) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	return decrementStock(ctx, c.tx, productID, quantity)
}

func (c *checkoutTx) ClearCart(ctx context.Context, userID int64) error {
	if _, err := c.tx.ExecContext(ctx, `DELETE FROM cart WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.ShippingAddress, &o.PaymentMethod, &o.Status, &o.CreatedAt)
	return o, err
}

func scanOrderItems(rows *sql.Rows) ([]domain.OrderItem, error) {
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.OrderID, &it.ProductID, &it.Quantity, &it.PriceAtPurchase,
			&it.ProductName, &it.ImagePath); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (m *MySQLAdapter) GetOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	order, err := scanOrder(m.db.QueryRowContext(ctx, `
		SELECT order_id, user_id, total_amount, shipping_address, payment_method, status, created_at
		FROM orders WHERE order_id = ? AND user_id = ?`, orderID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	rows, err := m.db.QueryContext(ctx, `SELECT `+orderItemColumns+`
		FROM order_items oi
		LEFT JOIN products p ON p.product_id = oi.product_id
		WHERE oi.order_id = ?
		ORDER BY oi.order_item_id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	if order.Items, err = scanOrderItems(rows); err != nil {
		return nil, err
	}

	return &order, nil
}

// ListOrders returns the user's orders newest first, each with its items.
func (m *MySQLAdapter) ListOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT order_id, user_id, total_amount, shipping_address, payment_method, status, created_at
		FROM orders WHERE user_id = ?
		ORDER BY created_at DESC, order_id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}

	var orders []domain.Order
	index := make(map[int64]int)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	itemRows, err := m.db.QueryContext(ctx, `SELECT `+orderItemColumns+`
		FROM order_items oi
		JOIN orders o ON o.order_id = oi.order_id
		LEFT JOIN products p ON p.product_id = oi.product_id
		WHERE o.user_id = ?
		ORDER BY oi.order_item_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	items, err := scanOrderItems(itemRows)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if i, ok := index[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}

	return orders, nil
}
