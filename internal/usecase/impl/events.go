package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "gramosi/internal/delivery/context"
	"gramosi/internal/domain/service"

	"github.com/google/uuid"
)

// publishEvent publishes best effort; a failed publish is logged and never
// fails the calling operation.
func publishEvent(
	ctx context.Context,
	publisher service.EventPublisher,
	logger *slog.Logger,
	now time.Time,
	eventType string,
	aggregateID uuid.UUID,
	data map[string]string,
) {
	if publisher == nil {
		return
	}

	event := &service.DomainEvent{
		RequestID:   deliverycontext.GetRequestIDFromContext(ctx),
		EventID:     uuid.NewString(),
		Type:        eventType,
		AggregateID: aggregateID.String(),
		OccurredAt:  now.UTC(),
		Data:        data,
	}

	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event",
			slog.String("event_type", eventType),
			slog.String("aggregate_id", event.AggregateID),
			slog.Any("error", err),
		)
	}
}

// removeMediaObject deletes a stored object. When the bucket refuses, a
// media.orphaned event lets the media worker retry later.
func removeMediaObject(
	ctx context.Context,
	storage service.MediaStorage,
	publisher service.EventPublisher,
	logger *slog.Logger,
	ownerID uuid.UUID,
	key string,
) {
	err := storage.Delete(ctx, key)
	if err == nil {
		return
	}

	logger.Warn("Failed to delete media object, handing it to the worker",
		slog.String("key", key),
		slog.Any("error", err),
	)
	publishEvent(ctx, publisher, logger, time.Now(), service.EventMediaOrphaned, ownerID, map[string]string{
		service.EventDataMediaKey: key,
	})
}
