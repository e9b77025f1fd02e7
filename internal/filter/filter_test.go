package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"zuverschenken/adwatcher/internal/crawler"
)

func TestExcluded(t *testing.T) {
	f := New([]string{"matratze", " Kühlschrank "}, time.Hour)

	assert.True(t, f.Excluded("Gebrauchte Matratze zu verschenken"))
	assert.True(t, f.Excluded("GEBRAUCHTE MATRATZE"))
	assert.True(t, f.Excluded("Federkernmatratze 90x200"))
	assert.True(t, f.Excluded("kühlschrank defekt"))
	assert.False(t, f.Excluded("Sofa zu verschenken"))
}

func TestStaleBoundary(t *testing.T) {
	f := New(nil, time.Hour)
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

	assert.False(t, f.Stale(now.Add(-59*time.Minute), now))
	assert.True(t, f.Stale(now.Add(-60*time.Minute), now), "exactly the threshold is stale")
	assert.True(t, f.Stale(now.Add(-61*time.Minute), now))
	assert.False(t, f.Stale(now.Add(5*time.Minute), now), "ads ahead of the clock are fresh")
}

func TestApply(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	ads := []crawler.Ad{
		{Title: "Sofa", PublishedAt: now.Add(-10 * time.Minute), Link: "/a"},
		{Title: "Matratze", PublishedAt: now.Add(-10 * time.Minute), Link: "/b"},
		{Title: "Stuhl", PublishedAt: now.Add(-61 * time.Minute), Link: "/c"},
		{Title: "Tisch", PublishedAt: now.Add(-59 * time.Minute), Link: "/d"},
	}

	kept, stats := New([]string{"matratze"}, time.Hour).Apply(ads, now)

	assert.Equal(t, []crawler.Ad{ads[0], ads[3]}, kept)
	assert.Equal(t, Stats{Excluded: 1, Stale: 1}, stats)
}
