package commandbar

import "time"

// MaxPaletteItems is the maximum number of suggestions shown at once.
// Eight rows fit comfortably on small terminals; longer lists scroll.
const MaxPaletteItems = 8

// tipRotationInterval is how often the hidden-state hint line swaps to a
// different usage tip.
const tipRotationInterval = 10 * time.Second

// maxHistoryEntries bounds the command history kept for up/down recall.
const maxHistoryEntries = 100
