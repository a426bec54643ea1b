package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arogyavritti/backend/internal/adapters/events"
	"github.com/arogyavritti/backend/internal/domain/entities"
	redisclient "github.com/arogyavritti/backend/internal/infrastructure/clients/redis"
)

func newTestBus(t *testing.T) *events.RedisEventBus {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	bus := events.NewRedisEventBus(redisclient.NewClientFromRedis(rdb))
	t.Cleanup(func() {
		_ = bus.Close()
		_ = rdb.Close()
	})
	return bus
}

func sampleEvent() *entities.AppointmentEvent {
	appointment := &entities.Appointment{
		ID:         "appt-1",
		UserID:     "user-1",
		Department: "Cardiology",
		Status:     entities.AppointmentStatusCancelled,
	}
	return entities.NewAppointmentEvent(entities.AppointmentEventCancelled, appointment, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
}

func receive(t *testing.T, ch <-chan *entities.AppointmentEvent) *entities.AppointmentEvent {
	t.Helper()
	select {
	case event, ok := <-ch:
		require.True(t, ok, "channel closed")
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestRedisEventBus_PublishReachesEverySubscriber(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channel := entities.AppointmentChannel("user-1")
	first, err := bus.Subscribe(ctx, channel)
	require.NoError(t, err)
	second, err := bus.Subscribe(ctx, channel)
	require.NoError(t, err)

	sent := sampleEvent()
	require.NoError(t, bus.Publish(ctx, channel, sent))

	for _, ch := range []<-chan *entities.AppointmentEvent{first, second} {
		got := receive(t, ch)
		assert.Equal(t, sent.ID, got.ID)
		assert.Equal(t, entities.AppointmentEventCancelled, got.Type)
		assert.Equal(t, "appt-1", got.Appointment.ID)
		assert.Equal(t, entities.AppointmentStatusCancelled, got.Appointment.Status)
	}
}

func TestRedisEventBus_ChannelsAreIsolated(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mine, err := bus.Subscribe(ctx, entities.AppointmentChannel("user-1"))
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, entities.AppointmentChannel("user-2"), sampleEvent()))
	sent := sampleEvent()
	require.NoError(t, bus.Publish(ctx, entities.AppointmentChannel("user-1"), sent))

	assert.Equal(t, sent.ID, receive(t, mine).ID)
}

func TestRedisEventBus_CancelClosesSubscription(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := bus.Subscribe(ctx, entities.AppointmentChannel("user-1"))
	require.NoError(t, err)
	cancel()

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRedisEventBus_Close(t *testing.T) {
	bus := newTestBus(t)

	ch, err := bus.Subscribe(context.Background(), entities.AppointmentChannel("user-1"))
	require.NoError(t, err)
	require.NoError(t, bus.Close())

	_, ok := <-ch
	assert.False(t, ok)

	_, err = bus.Subscribe(context.Background(), entities.AppointmentChannel("user-1"))
	assert.Error(t, err)
}
