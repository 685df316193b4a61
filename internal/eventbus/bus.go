package eventbus

import (
	"errors"
	"fmt"
	"sync"

	"finquest-be/internal/metrics"
	"finquest-be/internal/pkg/logger"
	"finquest-be/pkg/events"

	"github.com/google/uuid"
)

// DefaultMaxSubscribersPerUser is the listener ceiling per user identity. Crossing it only
// produces a leak warning; subscriptions are never refused or dropped because of it.
const DefaultMaxSubscribersPerUser = 1000

var ErrBusClosed = errors.New("eventbus: bus is closed")

// Handler is a delivery callback. It runs synchronously inside Publish.
type Handler func(evt events.Event) error

// Subscription is one live registration of a Handler for one user.
type Subscription struct {
	id      uint64
	userID  uuid.UUID
	handler Handler

	done     chan struct{}
	doneOnce sync.Once
}

func (s *Subscription) UserID() uuid.UUID { return s.userID }

// Done is closed once the subscription has been removed from the bus,
// either by Unsubscribe or by Bus.Close.
func (s *Subscription) Done() <-chan struct{} { return s.done }

func (s *Subscription) markDone() {
	s.doneOnce.Do(func() { close(s.done) })
}

type Option func(*Bus)

// WithMaxSubscribersPerUser overrides the leak-warning ceiling. 0 disables the warning.
func WithMaxSubscribersPerUser(n int) Option {
	return func(b *Bus) {
		if n >= 0 {
			b.maxPerUser = n
		}
	}
}

// Bus multiplexes domain events to subscribers keyed by user identity.
// It keeps nothing after delivery: no buffering, no replay.
type Bus struct {
	mu         sync.RWMutex
	subs       map[uuid.UUID][]*Subscription
	nextID     uint64
	closed     bool
	maxPerUser int
	warned     map[uuid.UUID]bool

	logger logger.ILogger
}

func NewBus(log logger.ILogger, opts ...Option) *Bus {
	b := &Bus{
		subs:       make(map[uuid.UUID][]*Subscription),
		warned:     make(map[uuid.UUID]bool),
		maxPerUser: DefaultMaxSubscribersPerUser,
		logger:     log,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers handler for every event published to userID from now on.
func (b *Bus) Subscribe(userID uuid.UUID, handler Handler) (*Subscription, error) {
	if handler == nil {
		return nil, fmt.Errorf("eventbus: nil handler")
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrBusClosed
	}
	b.nextID++
	sub := &Subscription{
		id:      b.nextID,
		userID:  userID,
		handler: handler,
		done:    make(chan struct{}),
	}
	b.subs[userID] = append(b.subs[userID], sub)
	count := len(b.subs[userID])
	warn := b.maxPerUser > 0 && count > b.maxPerUser && !b.warned[userID]
	if warn {
		b.warned[userID] = true
	}
	b.mu.Unlock()

	metrics.SubscriptionAdded()
	if warn {
		b.logger.Warn("EventBus", "Subscriber ceiling exceeded, possible subscription leak", map[string]interface{}{
			"user_id": userID,
			"count":   count,
			"ceiling": b.maxPerUser,
		})
	}
	return sub, nil
}

// Unsubscribe removes sub. Calling it twice, or from inside a Handler, is safe.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	removed := b.removeLocked(sub)
	b.mu.Unlock()

	if removed {
		metrics.SubscriptionRemoved()
	}
	sub.markDone()
}

func (b *Bus) removeLocked(sub *Subscription) bool {
	list, ok := b.subs[sub.userID]
	if !ok {
		return false
	}
	for i, s := range list {
		if s != sub {
			continue
		}
		// Build a fresh slice so snapshots held by in-flight publishes stay intact.
		next := make([]*Subscription, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		if len(next) == 0 {
			delete(b.subs, sub.userID)
			delete(b.warned, sub.userID)
		} else {
			b.subs[sub.userID] = next
		}
		return true
	}
	return false
}

// Publish delivers evt to every subscriber of userID registered at call time, in registration
// order, before returning. With no subscribers the event is dropped.
func (b *Bus) Publish(userID uuid.UUID, evt events.Event) {
	if evt == nil {
		return
	}

	b.mu.RLock()
	list := b.subs[userID]
	b.mu.RUnlock()

	metrics.IncEventPublished(string(evt.EventType()), len(list) > 0)

	for _, sub := range list {
		b.deliver(sub, evt)
	}
}

func (b *Bus) deliver(sub *Subscription, evt events.Event) {
	defer func() {
		if r := recover(); r != nil {
			metrics.IncDeliveryFailure(string(evt.EventType()), "panic")
			b.logger.Error("EventBus", "Subscriber panicked during delivery", map[string]interface{}{
				"user_id":         sub.userID,
				"subscription_id": sub.id,
				"type":            evt.EventType(),
				"error":           fmt.Sprint(r),
			})
		}
	}()

	if err := sub.handler(evt); err != nil {
		metrics.IncDeliveryFailure(string(evt.EventType()), "error")
		b.logger.Warn("EventBus", "Subscriber failed to handle event", map[string]interface{}{
			"user_id":         sub.userID,
			"subscription_id": sub.id,
			"type":            evt.EventType(),
			"error":           err.Error(),
		})
	}
}

// SubscriberCount returns the number of live subscriptions for userID.
func (b *Bus) SubscriberCount(userID uuid.UUID) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[userID])
}

// Len returns the number of live subscriptions across all users.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, list := range b.subs {
		n += len(list)
	}
	return n
}

// Close tears the bus down: every subscription is removed and its Done channel closed.
// Subsequent Subscribe calls fail with ErrBusClosed; Publish becomes a no-op.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	all := b.subs
	b.subs = make(map[uuid.UUID][]*Subscription)
	b.warned = make(map[uuid.UUID]bool)
	b.mu.Unlock()

	n := 0
	for _, list := range all {
		for _, sub := range list {
			metrics.SubscriptionRemoved()
			sub.markDone()
			n++
		}
	}
	b.logger.Info("EventBus", "Bus closed", map[string]interface{}{"subscriptions": n})
}
