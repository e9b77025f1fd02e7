package crawler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "zuverschenken/adwatcher/pkg/errors"
)

func TestParsePostedAt(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)
	today := time.Date(2024, 3, 10, 18, 30, 0, 0, berlin)

	tests := []struct {
		raw  string
		want time.Time
	}{
		{"Today, 14:05", time.Date(2024, 3, 10, 14, 5, 0, 0, berlin)},
		{"Yesterday, 09:00", time.Date(2024, 3, 9, 9, 0, 0, 0, berlin)},
		{"Heute, 14:05", time.Date(2024, 3, 10, 14, 5, 0, 0, berlin)},
		{"Gestern, 23:59", time.Date(2024, 3, 9, 23, 59, 0, 0, berlin)},
		{"  Heute,   7:03 ", time.Date(2024, 3, 10, 7, 3, 0, 0, berlin)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParsePostedAt(tt.raw, today)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
			assert.Equal(t, berlin, got.Location())
		})
	}
}

func TestParsePostedAtAcrossMonthBoundary(t *testing.T) {
	today := time.Date(2024, 3, 1, 0, 10, 0, 0, time.UTC)
	got, err := ParsePostedAt("Gestern, 22:15", today)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 22, 15, 0, 0, time.UTC), got)
}

func TestParsePostedAtUnrecognized(t *testing.T) {
	today := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	for _, raw := range []string{"08.03.2024", "Vorgestern, 10:00", "Heute, 25:61", "Heute 14:05", ""} {
		_, err := ParsePostedAt(raw, today)
		require.Error(t, err, raw)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeTimeParse), raw)
	}
}
