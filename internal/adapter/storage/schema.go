package storage

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id BIGINT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(50) NOT NULL UNIQUE,
		email VARCHAR(100) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'customer',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS categories (
		category_id BIGINT AUTO_INCREMENT PRIMARY KEY,
		category_name VARCHAR(50) NOT NULL
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id BIGINT AUTO_INCREMENT PRIMARY KEY,
		category_id BIGINT NOT NULL,
		product_name VARCHAR(100) NOT NULL,
		description TEXT NULL,
		price DECIMAL(10,2) NOT NULL,
		size VARCHAR(20) NOT NULL DEFAULT '',
		color VARCHAR(30) NOT NULL DEFAULT '',
		image_path VARCHAR(255) NOT NULL DEFAULT '',
		stock_quantity INT NOT NULL DEFAULT 0,
		version INT NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_products_category FOREIGN KEY (category_id) REFERENCES categories (category_id),
		CONSTRAINT chk_products_stock CHECK (stock_quantity >= 0)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS cart (
		cart_id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		quantity INT NOT NULL,
		added_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		UNIQUE KEY uq_cart_user_product (user_id, product_id),
		CONSTRAINT fk_cart_user FOREIGN KEY (user_id) REFERENCES users (user_id) ON DELETE CASCADE,
		CONSTRAINT fk_cart_product FOREIGN KEY (product_id) REFERENCES products (product_id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		total_amount DECIMAL(10,2) NOT NULL,
		shipping_address TEXT NOT NULL,
		payment_method VARCHAR(20) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'processing',
		created_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		KEY idx_orders_user (user_id),
		CONSTRAINT fk_orders_user FOREIGN KEY (user_id) REFERENCES users (user_id)
	) ENGINE=InnoDB`,
	// product_id carries no foreign key so order history outlives deleted products
	`CREATE TABLE IF NOT EXISTS order_items (
		order_item_id BIGINT AUTO_INCREMENT PRIMARY KEY,
		order_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		quantity INT NOT NULL,
		price_at_purchase DECIMAL(10,2) NOT NULL,
		CONSTRAINT fk_order_items_order FOREIGN KEY (order_id) REFERENCES orders (order_id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
	`INSERT IGNORE INTO categories (category_id, category_name) VALUES
		(1, 'Men''s Clothing'),
		(2, 'Women''s Clothing'),
		(3, 'Casual Wear'),
		(4, 'Formal Wear'),
		(5, 'Accessories')`,
}

// Migrate creates the tables if they do not exist and seeds the categories.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
