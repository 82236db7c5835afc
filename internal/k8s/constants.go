package k8s

import (
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// Sync engine constants
const (
	// SubscriptionGracePeriod is how long a kind's sync loop keeps running
	// after its last subscriber releases it. Flipping between two screens
	// within the grace period reuses the warm cache instead of paying for a
	// fresh list on every switch.
	SubscriptionGracePeriod = 30 * time.Second

	// WatchTimeoutSeconds asks the server to close each watch after this
	// many seconds. A clean close resumes from the current revision without
	// a relist, and regular cycling keeps half-dead connections from
	// lingering behind load balancers.
	WatchTimeoutSeconds = 300

	// StopAckTimeout bounds how long teardown waits for each sync loop to
	// acknowledge its cancellation during a context switch. A loop stuck in
	// a connect call exits on its own shortly after; teardown proceeds
	// without it rather than freezing the UI.
	StopAckTimeout = 5 * time.Second

	// EventFetchLimit caps how many events the describe view fetches for a
	// single resource.
	EventFetchLimit = 100
)

// watchBackoff returns the retry schedule for a kind's sync loop: 1s
// doubling to a 30s ceiling, with jitter so many kinds failing at once do
// not reconnect in lockstep. A successful list resets the schedule by
// calling this again.
func watchBackoff() wait.Backoff {
	return wait.Backoff{
		Duration: 1 * time.Second,
		Factor:   2.0,
		Jitter:   0.1,
		Steps:    6,
		Cap:      30 * time.Second,
	}
}

// ListAttempts bounds how many times a single List call tries before the
// failure escapes to the sync loop's own schedule.
const ListAttempts = 5

// listBackoff returns the in-call retry schedule for List: the same curve
// as the sync loop, bounded by ListAttempts.
func listBackoff() wait.Backoff {
	return wait.Backoff{
		Duration: 1 * time.Second,
		Factor:   2.0,
		Jitter:   0.1,
		Steps:    ListAttempts,
		Cap:      30 * time.Second,
	}
}
