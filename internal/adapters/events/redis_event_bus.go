package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/arogyavritti/backend/internal/domain/entities"
	"github.com/arogyavritti/backend/internal/domain/providers"
	redisclient "github.com/arogyavritti/backend/internal/infrastructure/clients/redis"
	"github.com/arogyavritti/backend/internal/infrastructure/observability"
)

const subscriberBuffer = 16

// RedisEventBus implements the EventBus interface using Redis Pub/Sub. One
// Redis subscription is shared by every local subscriber of a channel.
type RedisEventBus struct {
	client        *redisclient.Client
	subscriptions map[string]*redis.PubSub
	subscribers   map[string]map[chan *entities.AppointmentEvent]struct{}
	mu            sync.RWMutex
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) *RedisEventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:        client,
		subscriptions: make(map[string]*redis.PubSub),
		subscribers:   make(map[string]map[chan *entities.AppointmentEvent]struct{}),
		ctx:           ctx,
		cancel:        cancel,
	}
}

var _ providers.EventBus = (*RedisEventBus)(nil)

// Publish publishes an event to all subscribers
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.AppointmentEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	observability.LoggerFromContext(ctx).Debug().
		Str("channel", channel).
		Str("event_id", event.ID).
		Str("type", string(event.Type)).
		Msg("Published appointment event")
	return nil
}

// Subscribe subscribes to events on a channel until ctx is done
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.AppointmentEvent, error) {
	if b.ctx.Err() != nil {
		return nil, errors.New("event bus is closed")
	}

	b.mu.Lock()
	if _, exists := b.subscriptions[channel]; !exists {
		pubsub := b.client.Client().Subscribe(b.ctx, channel)
		// wait for the subscription to be confirmed so no publish is missed
		if _, err := pubsub.Receive(ctx); err != nil {
			b.mu.Unlock()
			_ = pubsub.Close()
			return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
		}
		b.subscriptions[channel] = pubsub
		go b.receiveMessages(channel, pubsub)
	}

	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[chan *entities.AppointmentEvent]struct{})
	}

	eventChan := make(chan *entities.AppointmentEvent, subscriberBuffer)
	b.subscribers[channel][eventChan] = struct{}{}
	subscriberCount := len(b.subscribers[channel])
	b.mu.Unlock()

	observability.LoggerFromContext(ctx).Debug().
		Str("channel", channel).
		Int("subscribers", subscriberCount).
		Msg("Subscribed to channel")

	go func() {
		select {
		case <-ctx.Done():
		case <-b.ctx.Done():
		}
		b.removeSubscriber(channel, eventChan)
	}()

	return eventChan, nil
}

// receiveMessages receives messages from Redis and broadcasts them to subscribers
func (b *RedisEventBus) receiveMessages(channel string, pubsub *redis.PubSub) {
	logger := observability.GetLogger()
	defer b.cleanupChannel(channel, pubsub)

	ch := pubsub.Channel()
	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var event entities.AppointmentEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn().Err(err).Str("channel", channel).Msg("Dropping malformed event")
				continue
			}

			b.mu.RLock()
			for subscriber := range b.subscribers[channel] {
				select {
				case subscriber <- &event:
				default:
					logger.Warn().Str("channel", channel).Str("event_id", event.ID).Msg("Subscriber channel full, skipping event")
				}
			}
			b.mu.RUnlock()
		}
	}
}

func (b *RedisEventBus) removeSubscriber(channel string, eventChan chan *entities.AppointmentEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscribers, exists := b.subscribers[channel]
	if !exists {
		return
	}
	if _, ok := subscribers[eventChan]; !ok {
		return
	}

	delete(subscribers, eventChan)
	close(eventChan)

	if len(subscribers) == 0 {
		delete(b.subscribers, channel)
		if pubsub, ok := b.subscriptions[channel]; ok {
			_ = pubsub.Close()
			delete(b.subscriptions, channel)
		}
	}
}

// cleanupChannel drops a channel whose receive loop ended, unless a newer
// subscription has already replaced pubsub.
func (b *RedisEventBus) cleanupChannel(channel string, pubsub *redis.PubSub) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if current, ok := b.subscriptions[channel]; !ok || current != pubsub {
		return
	}

	for subscriber := range b.subscribers[channel] {
		close(subscriber)
	}
	delete(b.subscribers, channel)
	_ = pubsub.Close()
	delete(b.subscriptions, channel)
}

// Close closes the event bus and all subscriptions
func (b *RedisEventBus) Close() error {
	b.cancel()

	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for channel, pubsub := range b.subscriptions {
		if err := pubsub.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close subscription %s: %w", channel, err))
		}
		for subscriber := range b.subscribers[channel] {
			close(subscriber)
		}
		delete(b.subscribers, channel)
		delete(b.subscriptions, channel)
	}
	return errors.Join(errs...)
}
