package pubsub

import (
	"fmt"
	"strings"

	"github.com/guilhermegouw/parley/internal/events"
)

// Hub holds the brokers shared by one process.
type Hub struct {
	// Session carries backend session lifecycle events.
	Session *Broker[events.SessionEvent]
	// Message carries backend message events.
	Message *Broker[events.MessageEvent]
	// Recent carries recent sessions list invalidation and refresh events.
	Recent *Broker[events.RecentEvent]
}

// NewHub creates a Hub with all brokers initialized.
func NewHub() *Hub {
	return &Hub{
		Session: NewBroker[events.SessionEvent]("session"),
		Message: NewBroker[events.MessageEvent]("message"),
		Recent:  NewBroker[events.RecentEvent]("recent"),
	}
}

// Shutdown shuts down all brokers.
func (h *Hub) Shutdown() {
	h.Session.Shutdown()
	h.Message.Shutdown()
	h.Recent.Shutdown()
}

// IsShutdown reports whether every broker has been shut down.
func (h *Hub) IsShutdown() bool {
	return h.Session.IsShutdown() && h.Message.IsShutdown() && h.Recent.IsShutdown()
}

// Metrics returns metrics for all brokers.
func (h *Hub) Metrics() []BrokerMetrics {
	return []BrokerMetrics{
		h.Session.Metrics(),
		h.Message.Metrics(),
		h.Recent.Metrics(),
	}
}

// DebugString formats the metrics of all brokers, one per line.
func (h *Hub) DebugString() string {
	var sb strings.Builder
	for _, m := range h.Metrics() {
		fmt.Fprintf(&sb, "%-8s subs=%d peak=%d published=%d dropped=%d\n",
			m.Name, m.SubscriberCount, m.SubscriberPeak, m.PublishCount, m.DropCount)
	}
	return sb.String()
}
