package tracker

import (
	"time"

	"zuverschenken/adwatcher/internal/crawler"
)

// Watermark tracks only the publish time of the newest delivered ad. Only the
// most recently published ad of a page is ever considered, so simultaneous
// new ads beyond the first are not reported.
type Watermark struct {
	mark   time.Time
	seeded bool
}

// NewWatermark creates an unseeded Watermark
func NewWatermark() *Watermark {
	return &Watermark{}
}

// Seeded reports whether Seed has been called
func (w *Watermark) Seeded() bool {
	return w.seeded
}

// Seed moves the watermark to the newest ad without reporting it
func (w *Watermark) Seed(ads []crawler.Ad) {
	if newest, ok := newestAd(ads); ok {
		w.advance(newest.PublishedAt)
	}
	w.seeded = true
}

// Diff returns the newest ad if it was published strictly after the watermark
func (w *Watermark) Diff(ads []crawler.Ad) []crawler.Ad {
	newest, ok := newestAd(ads)
	if !ok || !newest.PublishedAt.After(w.mark) {
		return nil
	}
	return []crawler.Ad{newest}
}

// Track advances the watermark to the ad's publish time
func (w *Watermark) Track(ad crawler.Ad) {
	w.advance(ad.PublishedAt)
}

// Len is 1 once a watermark is set
func (w *Watermark) Len() int {
	if w.mark.IsZero() {
		return 0
	}
	return 1
}

// Mark returns the current watermark
func (w *Watermark) Mark() time.Time {
	return w.mark
}

func (w *Watermark) advance(t time.Time) {
	if t.After(w.mark) {
		w.mark = t
	}
}

// newestAd picks the ad with the latest publish time, the earliest on the
// page among equals.
func newestAd(ads []crawler.Ad) (crawler.Ad, bool) {
	if len(ads) == 0 {
		return crawler.Ad{}, false
	}
	newest := ads[0]
	for _, ad := range ads[1:] {
		if ad.PublishedAt.After(newest.PublishedAt) {
			newest = ad
		}
	}
	return newest, true
}
