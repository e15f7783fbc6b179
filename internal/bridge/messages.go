// Package bridge connects the pub/sub hub to the Bubble Tea program.
package bridge

import (
	"github.com/guilhermegouw/parley/internal/events"
	"github.com/guilhermegouw/parley/internal/pubsub"
)

// RecentEventMsg wraps a recent sessions list event for the TUI.
type RecentEventMsg struct {
	Event pubsub.Event[events.RecentEvent]
}

// Stale reports whether the list should be refetched.
func (m RecentEventMsg) Stale() bool {
	return m.Event.Payload.Reason == events.RecentStale
}

// Refreshed reports whether a new list is cached.
func (m RecentEventMsg) Refreshed() bool {
	return m.Event.Payload.Reason == events.RecentRefreshed
}

// Err returns the refresh error of a failed event.
func (m RecentEventMsg) Err() error {
	if m.Event.Payload.Reason != events.RecentFailed {
		return nil
	}
	return m.Event.Payload.Err
}
