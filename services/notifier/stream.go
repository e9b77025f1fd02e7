package notifier

import (
	"context"
	"encoding/json"

	apperrors "zuverschenken/adwatcher/pkg/errors"
	"zuverschenken/adwatcher/services/publisher"
)

// Stream publishes alerts as JSON encoded ads to a message stream
type Stream struct {
	publisher publisher.Publisher
}

// NewStream creates a Stream sink on top of a publisher
func NewStream(pub publisher.Publisher) *Stream {
	return &Stream{publisher: pub}
}

// Notify publishes the ad keyed by its ID
func (s *Stream) Notify(ctx context.Context, alert Alert) error {
	data, err := json.Marshal(alert.Ad)
	if err != nil {
		return apperrors.NewPublisher(s.Name(), "failed to encode ad", err)
	}

	key := alert.Ad.ID
	if key == "" {
		key = "ad"
	}
	if err := s.publisher.Publish(ctx, key, data); err != nil {
		return apperrors.NewPublisher(s.Name(), "failed to publish ad", err)
	}
	return nil
}

// Name returns the sink name
func (s *Stream) Name() string {
	return "stream"
}
