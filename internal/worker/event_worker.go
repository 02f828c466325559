package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/OutOfContext/MyTicketSystem/internal/events"
	"github.com/OutOfContext/MyTicketSystem/internal/observability"
)

// StartEventWorker registers the synchronous event handlers: every ticket and
// comment event is counted in metrics and logged at debug level.
func StartEventWorker(dispatcher events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("events")

	handler := func(_ context.Context, event events.Event) error {
		metrics.RecordEvent(string(event.Type))
		logger.Debug("domain event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Int64("ticket_id", event.TicketID),
			zap.Int64("actor_id", event.ActorID))
		return nil
	}
	for _, eventType := range events.AllEventTypes {
		dispatcher.Subscribe(eventType, handler)
	}
}
