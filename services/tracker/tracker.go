// Package tracker remembers which ads were already observed so the worker
// only alerts on new ones. Trackers live for the process lifetime and are
// not safe for concurrent use.
package tracker

import (
	"fmt"
	"time"

	"zuverschenken/adwatcher/config"
	"zuverschenken/adwatcher/internal/crawler"
)

// Tracker is the state the worker diffs each cycle's ads against
type Tracker interface {
	// Seeded reports whether the first successful cycle has been recorded
	Seeded() bool

	// Seed records the ads of the first successful cycle without reporting them
	Seed(ads []crawler.Ad)

	// Diff returns the ads that are new relative to the tracked state
	Diff(ads []crawler.Ad) []crawler.Ad

	// Track records an ad as delivered
	Track(ad crawler.Ad)

	// Len returns the number of tracked entries
	Len() int
}

// New creates the tracker for the configured dedup mode
func New(mode string, ttl time.Duration) (Tracker, error) {
	switch mode {
	case config.DedupModeSet, "":
		return NewSeenSet(ttl), nil
	case config.DedupModeWatermark:
		return NewWatermark(), nil
	default:
		return nil, fmt.Errorf("unknown dedup mode %q", mode)
	}
}
