package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/OutOfContext/MyTicketSystem/internal/domain"
	"github.com/OutOfContext/MyTicketSystem/internal/events"
	"github.com/OutOfContext/MyTicketSystem/internal/observability"
)

func TestStartEventWorker(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	metrics := observability.NewMetrics()

	StartEventWorker(dispatcher, metrics, zap.New(core))

	ctx := context.Background()
	dispatcher.Publish(ctx, events.NewEvent(events.EventTicketCreated, 1, 2, events.TicketCreatedPayload{Title: "VPN", Priority: domain.TicketPriorityLow}))
	dispatcher.Publish(ctx, events.NewEvent(events.EventTicketCreated, 2, 2, nil))
	dispatcher.Publish(ctx, events.NewEvent(events.EventTicketStatusChanged, 1, 3, events.TicketStatusChangedPayload{
		OldStatus: domain.TicketStatusOpen,
		NewStatus: domain.TicketStatusResolved,
	}))

	snap := metrics.Snapshot()
	assert.Equal(t, int64(2), snap.Events[string(events.EventTicketCreated)])
	assert.Equal(t, int64(1), snap.Events[string(events.EventTicketStatusChanged)])
	assert.Zero(t, snap.Events[string(events.EventCommentAdded)])

	entries := logs.FilterMessage("domain event").All()
	assert.Len(t, entries, 3)
	assert.Equal(t, int64(3), entries[2].ContextMap()["actor_id"])
}

func TestStartEventWorker_NilDispatcher(t *testing.T) {
	assert.NotPanics(t, func() {
		StartEventWorker(nil, observability.NewMetrics(), zap.NewNop())
	})
}
