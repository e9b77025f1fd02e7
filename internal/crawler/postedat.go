package crawler

import (
	"strings"
	"time"

	apperrors "zuverschenken/adwatcher/pkg/errors"
)

// dayOffsets maps the relative day words used by the site to a day offset
var dayOffsets = map[string]int{
	"heute":     0,
	"today":     0,
	"gestern":   -1,
	"yesterday": -1,
}

// ParsePostedAt converts a relative publish text such as "Heute, 14:05" or
// "Gestern, 09:00" into an absolute minute in today's location. today must be
// taken at extraction time so that a long-running process follows midnight.
func ParsePostedAt(raw string, today time.Time) (time.Time, error) {
	word, clock, ok := strings.Cut(strings.TrimSpace(raw), ",")
	if !ok {
		return time.Time{}, apperrors.NewTimeParse(raw, nil)
	}

	offset, ok := dayOffsets[strings.ToLower(strings.TrimSpace(word))]
	if !ok {
		return time.Time{}, apperrors.NewTimeParse(raw, nil)
	}

	hm, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, apperrors.NewTimeParse(raw, err)
	}

	y, m, d := today.Date()
	return time.Date(y, m, d+offset, hm.Hour(), hm.Minute(), 0, 0, today.Location()), nil
}
