// Package recent caches the recent sessions list shown in the sidebar and
// refreshes it when the list is reported stale.
package recent

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/guilhermegouw/parley/internal/debug"
	"github.com/guilhermegouw/parley/internal/events"
	"github.com/guilhermegouw/parley/internal/gateway"
	"github.com/guilhermegouw/parley/internal/pubsub"
)

// DefaultTTL is how long a fetched list is served before it is refetched.
const DefaultTTL = 30 * time.Second

// refreshTimeout bounds a background refresh.
const refreshTimeout = 15 * time.Second

const listKey = "recent"

// Source fetches the recent sessions list.
type Source interface {
	RecentSessions(ctx context.Context) ([]gateway.RecentSession, error)
}

// Cache holds the last fetched recent sessions list.
type Cache struct {
	source Source
	broker *pubsub.Broker[events.RecentEvent]
	items  *cache.Cache

	// mu serializes fetches so a burst of invalidations costs one request
	// at a time.
	mu sync.Mutex
}

// New creates a Cache reading from source. Events are published on broker,
// which may be nil.
func New(source Source, broker *pubsub.Broker[events.RecentEvent], ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		source: source,
		broker: broker,
		items:  cache.New(ttl, 2*ttl),
	}
}

// Cached returns the cached list without fetching.
func (c *Cache) Cached() ([]gateway.RecentSession, bool) {
	x, found := c.items.Get(listKey)
	if !found {
		return nil, false
	}
	return x.([]gateway.RecentSession), true
}

// List returns the cached list, fetching it when missing or expired.
func (c *Cache) List(ctx context.Context) ([]gateway.RecentSession, error) {
	if sessions, ok := c.Cached(); ok {
		return sessions, nil
	}
	return c.Refresh(ctx)
}

// Refresh fetches the list and replaces the cached copy.
func (c *Cache) Refresh(ctx context.Context) ([]gateway.RecentSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sessions, err := c.source.RecentSessions(ctx)
	if err != nil {
		c.publish(pubsub.EventFailed, events.NewRecentFailedEvent(err))
		return nil, err
	}
	c.items.Set(listKey, sessions, cache.DefaultExpiration)
	c.publish(pubsub.EventCompleted, events.NewRecentRefreshedEvent(len(sessions)))
	return sessions, nil
}

// Invalidate drops the cached list and asks listeners to refresh it. It
// never blocks.
func (c *Cache) Invalidate() {
	c.items.Delete(listKey)
	c.publish(pubsub.EventUpdated, events.NewRecentStaleEvent())
}

// Start refreshes the list in the background whenever it is invalidated,
// until ctx is done. Refresh failures are logged and otherwise ignored.
func (c *Cache) Start(ctx context.Context) {
	if c.broker == nil {
		return
	}
	c.broker.Listen(ctx, func(ev pubsub.Event[events.RecentEvent]) {
		if ev.Payload.Reason != events.RecentStale {
			return
		}
		refreshCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
		defer cancel()
		if _, err := c.Refresh(refreshCtx); err != nil {
			debug.Error("recent", err, "background refresh")
		}
	})
}

func (c *Cache) publish(eventType pubsub.EventType, ev events.RecentEvent) {
	if c.broker != nil {
		c.broker.Publish(eventType, ev)
	}
}
