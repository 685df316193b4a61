package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// activeSubscriptions tracks live bus subscriptions across all users.
	activeSubscriptions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "finquest",
			Subsystem: "bus",
			Name:      "active_subscriptions",
			Help:      "Number of subscriptions currently registered on the event bus",
		},
	)

	// eventsPublished counts envelopes handed to the bus.
	// Labels:
	// - type: envelope tag ("xp", "activity", ...)
	// - delivered: "true" when at least one subscriber received it
	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finquest",
			Subsystem: "bus",
			Name:      "events_published_total",
			Help:      "Events published on the bus by type",
		},
		[]string{"type", "delivered"},
	)

	deliveryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finquest",
			Subsystem: "bus",
			Name:      "delivery_failures_total",
			Help:      "Subscriber callbacks that returned an error or panicked",
		},
		[]string{"type", "reason"},
	)

	activeStreams = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "finquest",
			Subsystem: "sse",
			Name:      "active_streams",
			Help:      "Open server-sent event connections",
		},
	)

	// streamRequests counts stream handshakes.
	// Labels:
	// - result: "opened" or "unauthorized"
	streamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finquest",
			Subsystem: "sse",
			Name:      "requests_total",
			Help:      "Stream handshake outcomes",
		},
		[]string{"result"},
	)

	relayMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finquest",
			Subsystem: "relay",
			Name:      "messages_total",
			Help:      "Cross-instance relay traffic",
		},
		[]string{"direction", "status"},
	)
)

func SubscriptionAdded()   { activeSubscriptions.Inc() }
func SubscriptionRemoved() { activeSubscriptions.Dec() }

// IncEventPublished records one publish for the given envelope type.
func IncEventPublished(eventType string, delivered bool) {
	if eventType == "" {
		eventType = "unknown"
	}
	d := "false"
	if delivered {
		d = "true"
	}
	eventsPublished.WithLabelValues(eventType, d).Inc()
}

// IncDeliveryFailure records a failing subscriber callback; reason is "error" or "panic".
func IncDeliveryFailure(eventType, reason string) {
	if eventType == "" {
		eventType = "unknown"
	}
	deliveryFailures.WithLabelValues(eventType, reason).Inc()
}

func StreamOpened() {
	activeStreams.Inc()
	streamRequests.WithLabelValues("opened").Inc()
}

func StreamClosed() { activeStreams.Dec() }

func StreamRejected() { streamRequests.WithLabelValues("unauthorized").Inc() }

// IncRelay records relay traffic; direction is "out" or "in", status "ok" or "error".
func IncRelay(direction, status string) {
	relayMessages.WithLabelValues(direction, status).Inc()
}
