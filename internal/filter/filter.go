// Package filter decides which scraped ads are worth tracking.
package filter

import (
	"strings"
	"time"

	"zuverschenken/adwatcher/internal/crawler"
)

// Filter drops ads whose title contains an excluded keyword and ads that
// are older than MaxAge.
type Filter struct {
	exclusions []string
	maxAge     time.Duration
}

// Stats counts why ads were dropped by Apply
type Stats struct {
	Excluded int
	Stale    int
}

// New creates a Filter. Keywords are matched case-insensitively as substrings.
func New(exclusions []string, maxAge time.Duration) *Filter {
	lowered := make([]string, 0, len(exclusions))
	for _, e := range exclusions {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			lowered = append(lowered, e)
		}
	}
	return &Filter{exclusions: lowered, maxAge: maxAge}
}

// Excluded reports whether the title contains any exclusion keyword
func (f *Filter) Excluded(title string) bool {
	lower := strings.ToLower(title)
	for _, word := range f.exclusions {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// Stale reports whether an ad published at publishedAt is at least MaxAge old
func (f *Filter) Stale(publishedAt, now time.Time) bool {
	return now.Sub(publishedAt) >= f.maxAge
}

// Apply returns the ads passing both predicates, in their original order
func (f *Filter) Apply(ads []crawler.Ad, now time.Time) ([]crawler.Ad, Stats) {
	var (
		kept  []crawler.Ad
		stats Stats
	)
	for _, ad := range ads {
		switch {
		case f.Excluded(ad.Title):
			stats.Excluded++
		case f.Stale(ad.PublishedAt, now):
			stats.Stale++
		default:
			kept = append(kept, ad)
		}
	}
	return kept, stats
}
