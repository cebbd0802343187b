package port

import (
	"context"
	"time"

	"github.com/rl1809/storefront/internal/core/domain"
)

type CacheRepository interface {
	// SetIdempotency claims a key, returns false if it is already claimed
	SetIdempotency(ctx context.Context, key string) (bool, error)

	// ReleaseIdempotency frees a claimed key so the request can be retried
	ReleaseIdempotency(ctx context.Context, key string) error
}

type SessionStore interface {
	// SaveSession stores the identity under token for ttl
	SaveSession(ctx context.Context, token string, identity domain.Identity, ttl time.Duration) error

	// GetSession returns nil when the token is unknown or expired
	GetSession(ctx context.Context, token string) (*domain.Identity, error)

	DeleteSession(ctx context.Context, token string) error
}
