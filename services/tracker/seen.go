package tracker

import (
	"time"

	"zuverschenken/adwatcher/internal/crawler"
)

type entry struct {
	key crawler.Key
	ts  time.Time
}

// SeenSet tracks every observed ad by its full identity. With a zero ttl it
// grows for the lifetime of the process; otherwise entries tracked longer
// than ttl ago are evicted.
type SeenSet struct {
	items  map[crawler.Key]time.Time
	order  []entry
	ttl    time.Duration
	seeded bool
	now    func() time.Time
}

// NewSeenSet creates an empty SeenSet
func NewSeenSet(ttl time.Duration) *SeenSet {
	return &SeenSet{
		items: make(map[crawler.Key]time.Time),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Seeded reports whether Seed has been called
func (s *SeenSet) Seeded() bool {
	return s.seeded
}

// Seed records ads without reporting them as new
func (s *SeenSet) Seed(ads []crawler.Ad) {
	for _, ad := range ads {
		s.add(ad.Key())
	}
	s.seeded = true
	s.compact()
}

// Diff returns the ads whose identity has not been tracked yet. An ad that
// occurs twice in ads is returned once.
func (s *SeenSet) Diff(ads []crawler.Ad) []crawler.Ad {
	var fresh []crawler.Ad
	batch := make(map[crawler.Key]struct{}, len(ads))
	for _, ad := range ads {
		key := ad.Key()
		if _, ok := s.items[key]; ok {
			continue
		}
		if _, ok := batch[key]; ok {
			continue
		}
		batch[key] = struct{}{}
		fresh = append(fresh, ad)
	}
	return fresh
}

// Track records an ad
func (s *SeenSet) Track(ad crawler.Ad) {
	s.add(ad.Key())
	s.compact()
}

// Len returns the number of tracked ads
func (s *SeenSet) Len() int {
	return len(s.items)
}

func (s *SeenSet) add(key crawler.Key) {
	now := s.now()
	s.items[key] = now
	if s.ttl > 0 {
		s.order = append(s.order, entry{key: key, ts: now})
	}
}

func (s *SeenSet) compact() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)

	for len(s.order) > 0 && s.order[0].ts.Before(cutoff) {
		oldest := s.order[0]
		s.order = s.order[1:]

		if ts, ok := s.items[oldest.key]; ok && ts.Equal(oldest.ts) {
			delete(s.items, oldest.key)
		}
	}
}
