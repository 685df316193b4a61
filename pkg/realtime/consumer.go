package realtime

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"finquest-be/internal/pkg/logger"

	"github.com/cenkalti/backoff/v5"
)

var (
	// ErrUnauthorized means the server rejected the token; reconnecting will not help.
	ErrUnauthorized = errors.New("realtime: stream rejected token")
	errStreamEnded  = errors.New("realtime: stream ended")
)

const maxFrameSize = 1 << 20

// FrameHandler receives the payload of every data frame.
type FrameHandler interface {
	HandleFrame(data []byte)
}

// Invalidator can drop every cached entry at once.
type Invalidator interface {
	InvalidateAll()
}

type ConsumerOption func(*Consumer)

func WithHTTPClient(c *http.Client) ConsumerOption {
	return func(cons *Consumer) { cons.client = c }
}

// WithRetryInterval sets the first and the maximum reconnect delay.
func WithRetryInterval(initial, maxInterval time.Duration) ConsumerOption {
	return func(cons *Consumer) {
		cons.initialInterval = initial
		cons.maxInterval = maxInterval
	}
}

// Consumer follows GET /api/events and feeds frames to a handler, reconnecting with
// exponential backoff. Everything cached is invalidated after a reconnect because
// events published during the gap are not replayed.
type Consumer struct {
	streamURL       string
	token           string
	handler         FrameHandler
	cache           Invalidator
	client          *http.Client
	initialInterval time.Duration
	maxInterval     time.Duration
	logger          logger.ILogger
}

func NewConsumer(baseURL, token string, handler FrameHandler, cache Invalidator, log logger.ILogger, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		streamURL:       strings.TrimRight(baseURL, "/") + "/api/events",
		token:           token,
		handler:         handler,
		cache:           cache,
		client:          &http.Client{},
		initialInterval: 500 * time.Millisecond,
		maxInterval:     30 * time.Second,
		logger:          log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Consumer) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval
	b.MaxInterval = c.maxInterval
	return b
}

// Run blocks until ctx is cancelled (returns nil) or the token is rejected (returns ErrUnauthorized).
func (c *Consumer) Run(ctx context.Context) error {
	for attempt := 0; ; attempt++ {
		body, err := backoff.Retry(ctx,
			func() (io.ReadCloser, error) { return c.connect(ctx) },
			backoff.WithBackOff(c.newBackOff()),
			backoff.WithMaxElapsedTime(0),
			backoff.WithNotify(func(err error, wait time.Duration) {
				c.logger.Warn("Consumer", "Stream connect failed, retrying", map[string]interface{}{
					"error": err.Error(),
					"wait":  wait.String(),
				})
			}),
		)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if attempt > 0 && c.cache != nil {
			c.cache.InvalidateAll()
		}

		err = c.read(body)
		body.Close()
		if ctx.Err() != nil {
			return nil
		}
		c.logger.Info("Consumer", "Stream dropped, reconnecting", map[string]interface{}{"reason": err.Error()})

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.initialInterval):
		}
	}
}

func (c *Consumer) connect(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.streamURL+"?token="+url.QueryEscape(c.token), nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		resp.Body.Close()
		return nil, backoff.Permanent(ErrUnauthorized)
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, fmt.Errorf("realtime: unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// read parses event-stream frames until the body ends. Comment lines and "ping" events are skipped.
func (c *Consumer) read(body io.Reader) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 4096), maxFrameSize)

	var (
		event string
		data  bytes.Buffer
	)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if data.Len() > 0 && (event == "" || event == "message") {
				c.handler.HandleFrame(bytes.Clone(data.Bytes()))
			}
			event = ""
			data.Reset()
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return errStreamEnded
}
