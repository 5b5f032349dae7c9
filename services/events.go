package services

import (
	"context"

	"unveil_server/models"
)

// EventSink consumes domain events fanned out by the services — the
// socket hub and the notification dispatcher are both sinks. Consume
// must not block the publishing operation; sinks own their own
// buffering and drop policy.
type EventSink interface {
	Consume(ctx context.Context, evt models.DomainEvent)
}

// publish stamps evt and delivers it to every sink in order. Called
// inside the per-match critical section, so sinks for a given match see
// events in the order they committed.
func publish(ctx context.Context, sinks []EventSink, evt models.DomainEvent) {
	evt.OccurredAt = nowRFC3339()
	for _, sink := range sinks {
		sink.Consume(ctx, evt)
	}
}
