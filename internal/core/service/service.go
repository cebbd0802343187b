package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
)

var tracer = otel.Tracer("github.com/rl1809/storefront/internal/core/service")

var knownErrors = []error{
	domain.ErrNotFound,
	domain.ErrInsufficientStock,
	domain.ErrInvalidQuantity,
	domain.ErrValidationFailed,
	domain.ErrEmptyCart,
	domain.ErrOrderFailed,
	domain.ErrUnauthenticated,
	domain.ErrUnauthorized,
	domain.ErrDuplicateRequest,
	domain.ErrConflict,
	domain.ErrInvalidCredentials,
	domain.ErrInternal,
}

func isKnown(err error) bool {
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}

// translate passes domain errors through and replaces anything else with
// fallback after logging the cause.
func translate(logger *zap.Logger, op string, err error, fallback error) error {
	if err == nil || isKnown(err) {
		return err
	}
	logger.Error(op+" failed", zap.Error(err))
	return fallback
}

func requireIdentity(ctx context.Context) (domain.Identity, error) {
	id, ok := domain.IdentityFrom(ctx)
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return id, nil
}

// RequireAdmin fails with ErrUnauthenticated without an identity and
// ErrUnauthorized for non-admin callers.
func RequireAdmin(ctx context.Context) (domain.Identity, error) {
	id, err := requireIdentity(ctx)
	if err != nil {
		return id, err
	}
	if !id.IsAdmin() {
		return id, domain.ErrUnauthorized
	}
	return id, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
