package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/storefront/internal/core/domain"
)

func (m *MySQLAdapter) CreateUser(ctx context.Context, user domain.User) (int64, error) {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO users (username, email, password, role) VALUES (?, ?, ?, ?)`,
		user.Username, user.Email, user.PasswordHash, user.Role,
	)
	if mysqlErrorNumber(err) == errDuplicateEntry {
		return 0, fmt.Errorf("username or email taken: %w", domain.ErrConflict)
	}
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return result.LastInsertId()
}

func (m *MySQLAdapter) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	var u domain.User
	err := m.db.QueryRowContext(ctx, `
		SELECT user_id, username, email, password, role, created_at
		FROM users WHERE username = ? OR email = ?
		LIMIT 1`, login, login,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}
