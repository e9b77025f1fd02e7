package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"zuverschenken/adwatcher/internal/crawler"
)

func TestWatermarkSeed(t *testing.T) {
	w := NewWatermark()
	assert.False(t, w.Seeded())
	assert.Equal(t, 0, w.Len())

	w.Seed([]crawler.Ad{
		ad("A", published, "/a"),
		ad("B", published.Add(-time.Hour), "/b"),
	})

	assert.True(t, w.Seeded())
	assert.Equal(t, published, w.Mark())
	assert.Equal(t, 1, w.Len())
}

func TestWatermarkDiff(t *testing.T) {
	w := NewWatermark()
	w.Seed([]crawler.Ad{ad("A", published, "/a")})

	// not strictly after the watermark
	assert.Empty(t, w.Diff([]crawler.Ad{ad("Z", published, "/z")}))

	newer := ad("B", published.Add(time.Minute), "/b")
	newest := ad("C", published.Add(2*time.Minute), "/c")
	fresh := w.Diff([]crawler.Ad{newer, newest})
	assert.Equal(t, []crawler.Ad{newest}, fresh, "only the newest ad is considered")

	w.Track(newest)
	assert.Equal(t, newest.PublishedAt, w.Mark())
	assert.Empty(t, w.Diff([]crawler.Ad{newer, newest}))

	// tracking an older ad never moves the watermark back
	w.Track(newer)
	assert.Equal(t, newest.PublishedAt, w.Mark())
}

func TestWatermarkTieKeepsPageOrder(t *testing.T) {
	w := NewWatermark()
	w.Seed(nil)

	first := ad("First", published, "/1")
	second := ad("Second", published, "/2")
	assert.Equal(t, []crawler.Ad{first}, w.Diff([]crawler.Ad{first, second}))
}

func TestWatermarkEmptyPage(t *testing.T) {
	w := NewWatermark()
	w.Seed(nil)
	assert.True(t, w.Seeded())
	assert.True(t, w.Mark().IsZero())
	assert.Empty(t, w.Diff(nil))
}
