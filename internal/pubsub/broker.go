package pubsub

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultBufferSize is the default channel buffer for subscribers.
const DefaultBufferSize = 32

// BrokerOption configures a Broker.
type BrokerOption[T any] func(*Broker[T])

// WithBufferSize sets the subscriber channel buffer size.
func WithBufferSize[T any](size int) BrokerOption[T] {
	return func(b *Broker[T]) {
		if size >= 0 {
			b.bufferSize = size
		}
	}
}

// Broker fans typed events out to subscribers. Publishing never blocks:
// events for a subscriber whose buffer is full are dropped and counted.
type Broker[T any] struct {
	name       string
	bufferSize int

	mu     sync.Mutex
	subs   map[uint64]chan Event[T]
	nextID uint64
	closed bool
	peak   int

	published atomic.Int64
	dropped   atomic.Int64
}

// NewBroker creates a broker. name only shows up in metrics.
func NewBroker[T any](name string, opts ...BrokerOption[T]) *Broker[T] {
	b := &Broker[T]{
		name:       name,
		bufferSize: DefaultBufferSize,
		subs:       make(map[uint64]chan Event[T]),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the broker's name.
func (b *Broker[T]) Name() string {
	return b.name
}

// Subscribe returns a channel receiving events until ctx is done or the
// broker shuts down, at which point the channel is closed.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event[T], b.bufferSize)
	if b.closed {
		close(ch)
		return ch
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	if len(b.subs) > b.peak {
		b.peak = len(b.subs)
	}

	go func() {
		<-ctx.Done()
		b.unsubscribe(id)
	}()
	return ch
}

// Listen calls fn for every event on its own goroutine until ctx is done or
// the broker shuts down. The returned channel is closed when fn has seen the
// last event.
func (b *Broker[T]) Listen(ctx context.Context, fn func(Event[T])) <-chan struct{} {
	events := b.Subscribe(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			fn(ev)
		}
	}()
	return done
}

func (b *Broker[T]) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish delivers payload to every current subscriber.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	event := Event[T]{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	// Sends happen under the lock so a concurrent unsubscribe cannot close a
	// channel mid-send; they never block.
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	b.published.Add(1)
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
			b.dropped.Add(1)
		}
	}
}

// Shutdown closes every subscription. Later publishes are ignored and later
// subscriptions receive a closed channel.
func (b *Broker[T]) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// IsShutdown reports whether Shutdown has been called.
func (b *Broker[T]) IsShutdown() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// SubscriberCount returns the current number of subscribers.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Metrics returns the broker's counters.
func (b *Broker[T]) Metrics() BrokerMetrics {
	b.mu.Lock()
	subs, peak := len(b.subs), b.peak
	b.mu.Unlock()

	return BrokerMetrics{
		Name:            b.name,
		PublishCount:    b.published.Load(),
		DropCount:       b.dropped.Load(),
		SubscriberCount: subs,
		SubscriberPeak:  peak,
	}
}

// BrokerMetrics contains broker statistics.
type BrokerMetrics struct {
	Name            string
	PublishCount    int64
	DropCount       int64
	SubscriberCount int
	SubscriberPeak  int
}
