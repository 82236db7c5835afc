package screens

import "time"

const (
	// TickInterval is the default cadence at which a resource screen pulls a
	// fresh snapshot from the cache and rebuilds its rows. Watch events only
	// mutate the store; nothing repaints until the next tick.
	TickInterval = 250 * time.Millisecond

	// MinRefreshInterval is the floor between two applied refreshes. A
	// snapshot arriving sooner than this after the previous one is dropped,
	// which bounds row-rebuild work when a screen switch and a tick land
	// together or when updates flood in.
	MinRefreshInterval = 50 * time.Millisecond

	// ContextsTickInterval is the contexts screen cadence. Context status
	// changes arrive as load progress messages anyway, so the list itself
	// can refresh slower than resource screens.
	ContextsTickInterval = 1 * time.Second
)
