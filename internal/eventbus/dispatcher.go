package eventbus

import (
	"context"

	"finquest-be/internal/pkg/logger"
	"finquest-be/pkg/events"

	"github.com/google/uuid"
)

// Publisher is what domain services use to announce committed mutations.
type Publisher interface {
	Publish(ctx context.Context, userID uuid.UUID, evts ...events.Event)
}

// Sink receives a copy of every envelope after local delivery (relay, audit stream).
type Sink interface {
	Publish(ctx context.Context, userID uuid.UUID, evt events.Event) error
}

// Dispatcher delivers to the local bus first, then mirrors to the configured sinks.
// Sink failures are logged and swallowed; the mutation that produced the event already committed.
type Dispatcher struct {
	bus    *Bus
	sinks  []Sink
	logger logger.ILogger
}

func NewDispatcher(bus *Bus, log logger.ILogger, sinks ...Sink) *Dispatcher {
	active := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			active = append(active, s)
		}
	}
	return &Dispatcher{bus: bus, sinks: active, logger: log}
}

func (d *Dispatcher) Publish(ctx context.Context, userID uuid.UUID, evts ...events.Event) {
	for _, evt := range evts {
		if evt == nil {
			continue
		}
		d.bus.Publish(userID, evt)

		for _, sink := range d.sinks {
			if err := sink.Publish(ctx, userID, evt); err != nil {
				d.logger.Warn("Dispatcher", "Failed to mirror event", map[string]interface{}{
					"user_id": userID,
					"type":    evt.EventType(),
					"error":   err.Error(),
				})
			}
		}
	}
}
