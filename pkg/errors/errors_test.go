package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := NewExtraction("listing", "ad block is missing fields", "title", "link")
	assert.Equal(t, "[extraction] listing: ad block is missing fields [title link]", err.Error())

	wrapped := NewTransport("https://example.com", "failed to fetch URL", fmt.Errorf("dial tcp: refused"))
	assert.Contains(t, wrapped.Error(), "dial tcp: refused")
}

func TestIsType(t *testing.T) {
	err := fmt.Errorf("cycle: %w", NewRemoteStatus("https://example.com", 503))

	assert.True(t, IsType(err, ErrorTypeRemoteStatus))
	assert.False(t, IsType(err, ErrorTypeTransport))
	assert.False(t, IsType(fmt.Errorf("plain"), ErrorTypeTransport))

	typ, ok := TypeOf(err)
	assert.True(t, ok)
	assert.Equal(t, ErrorTypeRemoteStatus, typ)
}

func TestIsFatal(t *testing.T) {
	assert.True(t, NewConfiguration("missing parameters", "LISTING_URL").IsFatal())
	assert.False(t, NewTimeParse("Vorgestern, 10:00", nil).IsFatal())
	assert.False(t, NewRateLimit("listing", 0).IsFatal())
}
