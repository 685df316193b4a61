package sse

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"finquest-be/internal/eventbus"
	"finquest-be/internal/pkg/logger"
	"finquest-be/pkg/events"

	"github.com/google/uuid"
)

const DefaultKeepAlive = 25 * time.Second

var (
	connectedFrame = []byte(": connected\n\n")
	pingFrame      = []byte("event: ping\ndata: {}\n\n")

	ErrStreamClosed = errors.New("sse: stream closed")
)

// Flusher is a buffered writer that can push its buffer to the client.
// *bufio.Writer satisfies it, which is what fasthttp hands to body stream writers.
type Flusher interface {
	io.Writer
	Flush() error
}

// Subscriber is the slice of the bus a session needs.
type Subscriber interface {
	Subscribe(userID uuid.UUID, handler eventbus.Handler) (*eventbus.Subscription, error)
	Unsubscribe(sub *eventbus.Subscription)
}

// DataFrame renders one envelope as an unnamed SSE message.
func DataFrame(payload []byte) []byte {
	frame := make([]byte, 0, len(payload)+8)
	frame = append(frame, "data: "...)
	frame = append(frame, payload...)
	frame = append(frame, '\n', '\n')
	return frame
}

// Session is one open event stream for one authenticated user.
type Session struct {
	userID    uuid.UUID
	bus       Subscriber
	w         Flusher
	keepAlive time.Duration
	logger    logger.ILogger

	mu     sync.Mutex
	closed bool
	failed chan error
}

func NewSession(bus Subscriber, userID uuid.UUID, w Flusher, keepAlive time.Duration, log logger.ILogger) *Session {
	if keepAlive <= 0 {
		keepAlive = DefaultKeepAlive
	}
	return &Session{
		userID:    userID,
		bus:       bus,
		w:         w,
		keepAlive: keepAlive,
		logger:    log,
		failed:    make(chan error, 1),
	}
}

// Run streams events until the client goes away, the bus shuts down or ctx ends.
// The bus subscription and keepalive ticker are released on every exit path.
func (s *Session) Run(ctx context.Context) error {
	if err := s.write(connectedFrame); err != nil {
		return err
	}

	sub, err := s.bus.Subscribe(s.userID, s.deliver)
	if err != nil {
		s.markClosed()
		return err
	}
	defer s.bus.Unsubscribe(sub)

	ticker := time.NewTicker(s.keepAlive)
	defer ticker.Stop()

	s.logger.Info("SSE", "Stream opened", map[string]interface{}{"user_id": s.userID})
	defer s.logger.Info("SSE", "Stream closed", map[string]interface{}{"user_id": s.userID})

	for {
		select {
		case <-ctx.Done():
			s.markClosed()
			return nil
		case <-sub.Done():
			s.markClosed()
			return nil
		case err := <-s.failed:
			return err
		case <-ticker.C:
			if err := s.write(pingFrame); err != nil {
				return err
			}
		}
	}
}

func (s *Session) deliver(evt events.Event) error {
	payload, err := events.Encode(evt)
	if err != nil {
		return err
	}
	return s.write(DataFrame(payload))
}

// write sends one whole frame and flushes it. After the first failure the session is closed
// and later writes are refused without touching the connection.
func (s *Session) write(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStreamClosed
	}

	_, err := s.w.Write(frame)
	if err == nil {
		err = s.w.Flush()
	}
	if err != nil {
		s.closed = true
		select {
		case s.failed <- err:
		default:
		}
		s.logger.Debug("SSE", "Client went away", map[string]interface{}{
			"user_id": s.userID,
			"error":   err.Error(),
		})
		return err
	}
	return nil
}

func (s *Session) markClosed() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
