package handler

import (
	"bufio"
	"time"

	"finquest-be/internal/eventbus"
	"finquest-be/internal/metrics"
	"finquest-be/internal/pkg/logger"
	"finquest-be/internal/pkg/serverutils"
	"finquest-be/internal/sse"

	"github.com/gofiber/fiber/v2"
)

type EventHandler struct {
	bus       *eventbus.Bus
	tokens    *serverutils.TokenManager
	keepAlive time.Duration
	logger    logger.ILogger
}

func NewEventHandler(bus *eventbus.Bus, tokens *serverutils.TokenManager, keepAlive time.Duration, log logger.ILogger) *EventHandler {
	return &EventHandler{
		bus:       bus,
		tokens:    tokens,
		keepAlive: keepAlive,
		logger:    log,
	}
}

// Stream opens the per-user live event stream.
// Browsers' EventSource cannot set headers, so the token only travels as the `token` query parameter.
func (h *EventHandler) Stream(c *fiber.Ctx) error {
	claims, err := h.tokens.Verify(c.Query("token"))
	if err != nil {
		metrics.StreamRejected()
		h.logger.Warn("EventHandler", "Rejected stream handshake", map[string]interface{}{
			"ip":    c.IP(),
			"error": err.Error(),
		})
		c.Status(fiber.StatusUnauthorized)
		return nil
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	// The fiber.Ctx is recycled once this handler returns; only the fasthttp request context
	// stays valid for the lifetime of the stream writer.
	reqCtx := c.Context()
	userID := claims.UserID

	reqCtx.SetBodyStreamWriter(func(w *bufio.Writer) {
		metrics.StreamOpened()
		defer metrics.StreamClosed()

		session := sse.NewSession(h.bus, userID, w, h.keepAlive, h.logger)
		if err := session.Run(reqCtx); err != nil {
			h.logger.Debug("EventHandler", "Stream ended", map[string]interface{}{
				"user_id": userID,
				"reason":  err.Error(),
			})
		}
	})
	return nil
}

func (h *EventHandler) RegisterRoutes(app fiber.Router) {
	app.Get("/events", h.Stream)
	app.Get("/api/events", h.Stream)
}
