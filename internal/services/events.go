package services

import (
	"context"
	"log/slog"

	"github.com/tuition-tracker/tracker-service/internal/events"
)

// publishEvent sends a domain event after commit. Delivery is best effort:
// the write already happened, so failures are only logged.
func publishEvent(ctx context.Context, publisher events.EventPublisher, logger *slog.Logger, eventType events.EventType, data interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}
