package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/rl1809/storefront/internal/core/domain"
)

var ErrOptimisticLock = fmt.Errorf("optimistic lock conflict: %w", domain.ErrConflict)

const (
	errDuplicateEntry = 1062
	errDeadlock       = 1213
	errNoReferenced   = 1452

	maxTxAttempts = 3
)

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func mysqlErrorNumber(err error) uint16 {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number
	}
	return 0
}

// inTx runs fn in a transaction. Deadlocks are retried, and so are duplicate-key
// races when retryDuplicate is set.
func (m *MySQLAdapter) inTx(ctx context.Context, retryDuplicate bool, fn func(tx *sql.Tx) error) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = m.runTx(ctx, fn)
		switch mysqlErrorNumber(err) {
		case errDeadlock:
			continue
		case errDuplicateEntry:
			if retryDuplicate {
				continue
			}
		}
		return err
	}
	return err
}

func (m *MySQLAdapter) runTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

// decrementStock takes quantity units only if that many are left.
func decrementStock(ctx context.Context, exec interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}, productID int64, quantity int) error {
	result, err := exec.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - ?
		WHERE product_id = ? AND stock_quantity >= ?`,
		quantity, productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return &domain.StockError{ProductID: productID, Requested: quantity, Available: -1}
	}

	return nil
}
