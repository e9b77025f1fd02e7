package notifier

import (
	"context"

	"zuverschenken/adwatcher/logger"
)

// Log writes alerts to the structured log
type Log struct {
	log *logger.Logger
}

// NewLog creates a Log sink
func NewLog(log *logger.Logger) *Log {
	return &Log{log: log}
}

// Notify logs the alert
func (l *Log) Notify(_ context.Context, alert Alert) error {
	l.log.Info().
		Str("title", alert.Title).
		Str("published_at", alert.Message).
		Str("link", alert.Link).
		Msg("New ad")
	return nil
}

// Name returns the sink name
func (l *Log) Name() string {
	return "log"
}
