package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"finquest-be/internal/metrics"
	"finquest-be/internal/pkg/logger"
	"finquest-be/pkg/events"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultRelayChannel = "cluster_events"

// relayMessage is what travels over Redis between API instances.
type relayMessage struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Event        json.RawMessage `json:"event"`
}

// RedisRelay fans envelopes out to the other API instances so a user connected to replica A
// sees mutations handled by replica B. Delivery is best-effort and at-most-once.
type RedisRelay struct {
	rdb     *redis.Client
	bus     *Bus
	channel string
	origin  string
	logger  logger.ILogger
}

func NewRedisRelay(rdb *redis.Client, bus *Bus, channel string, log logger.ILogger) *RedisRelay {
	if channel == "" {
		channel = DefaultRelayChannel
	}
	return &RedisRelay{
		rdb:     rdb,
		bus:     bus,
		channel: channel,
		origin:  uuid.NewString(),
		logger:  log,
	}
}

func (r *RedisRelay) Origin() string { return r.origin }

// Publish forwards evt to every other instance.
func (r *RedisRelay) Publish(ctx context.Context, userID uuid.UUID, evt events.Event) error {
	data, err := events.Encode(evt)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(relayMessage{
		Origin:       r.origin,
		TargetUserID: userID.String(),
		Event:        data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal relay message: %w", err)
	}

	if err := r.rdb.Publish(ctx, r.channel, payload).Err(); err != nil {
		metrics.IncRelay("out", "error")
		return fmt.Errorf("failed to publish to %s: %w", r.channel, err)
	}
	metrics.IncRelay("out", "ok")
	return nil
}

// Run consumes the relay channel until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) error {
	pubsub := r.rdb.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	// Wait for the subscription to be confirmed so early publishes are not lost.
	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", r.channel, err)
	}
	r.logger.Info("RedisRelay", "Listening for cluster events", map[string]interface{}{
		"channel": r.channel,
		"origin":  r.origin,
	})

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.handle([]byte(msg.Payload))
		}
	}
}

func (r *RedisRelay) handle(payload []byte) {
	var m relayMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		metrics.IncRelay("in", "error")
		r.logger.Warn("RedisRelay", "Dropping unparsable relay message", map[string]interface{}{"error": err.Error()})
		return
	}
	if m.Origin == r.origin {
		return
	}

	userID, err := uuid.Parse(m.TargetUserID)
	if err != nil {
		metrics.IncRelay("in", "error")
		return
	}

	evt, err := events.Decode(m.Event)
	if err != nil {
		metrics.IncRelay("in", "error")
		r.logger.Warn("RedisRelay", "Dropping undecodable event", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return
	}

	metrics.IncRelay("in", "ok")
	r.bus.Publish(userID, evt)
}
