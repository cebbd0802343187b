package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

const publishTimeout = 5 * time.Second

// RunEventWorker publishes events until queue is closed.
func RunEventWorker(id int, queue <-chan domain.OrderPlacedEvent, publisher port.EventPublisher, logger *zap.Logger) {
	logger = logger.With(zap.Int("worker", id))

	for event := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)

		if err := publisher.PublishOrderPlaced(ctx, event); err != nil {
			logger.Error("failed to publish order placed event",
				zap.Int64("order_id", event.OrderID),
				zap.String("event_id", event.EventID),
				zap.Error(err),
			)
		} else {
			logger.Debug("published order placed event", zap.Int64("order_id", event.OrderID))
		}

		cancel()
	}
}
