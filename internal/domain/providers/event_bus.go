package providers

import (
	"context"

	"github.com/arogyavritti/backend/internal/domain/entities"
)

// EventBus fans appointment events out to subscribers
type EventBus interface {
	Publish(ctx context.Context, channel string, event *entities.AppointmentEvent) error

	// Subscribe returns a channel of events that is closed once ctx is done
	// or the bus is closed.
	Subscribe(ctx context.Context, channel string) (<-chan *entities.AppointmentEvent, error)

	Close() error
}
