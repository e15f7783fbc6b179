package events

import "time"

// RecentReason says why the recent sessions list changed.
type RecentReason string

// Recent reason constants.
const (
	// RecentStale asks listeners to refetch the list.
	RecentStale RecentReason = "stale"
	// RecentRefreshed reports a completed refetch.
	RecentRefreshed RecentReason = "refreshed"
	// RecentFailed reports a refetch that failed.
	RecentFailed RecentReason = "failed"
)

// RecentEvent signals a change of the recent sessions list.
type RecentEvent struct {
	Reason    RecentReason
	Count     int
	Err       error
	Timestamp time.Time
}

// NewRecentStaleEvent requests a refresh of the recent sessions list.
func NewRecentStaleEvent() RecentEvent {
	return RecentEvent{Reason: RecentStale, Timestamp: time.Now()}
}

// NewRecentRefreshedEvent reports that count sessions are now cached.
func NewRecentRefreshedEvent(count int) RecentEvent {
	return RecentEvent{Reason: RecentRefreshed, Count: count, Timestamp: time.Now()}
}

// NewRecentFailedEvent reports a failed refresh.
func NewRecentFailedEvent(err error) RecentEvent {
	return RecentEvent{Reason: RecentFailed, Err: err, Timestamp: time.Now()}
}
