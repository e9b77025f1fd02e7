// Package notifier delivers alerts about new ads.
package notifier

import (
	"context"
	"errors"

	"zuverschenken/adwatcher/internal/crawler"
)

// Alert is what a sink shows for one new ad
type Alert struct {
	Title   string
	Message string
	Link    string
	Sound   string
	Ad      crawler.Ad
}

// NewAlert builds the alert for an ad: the title, its publish time and a link
// that opens the ad.
func NewAlert(ad crawler.Ad, sound string) Alert {
	return Alert{
		Title:   ad.Title,
		Message: ad.PublishedAt.Format(crawler.KeyTimeLayout),
		Link:    ad.Link,
		Sound:   sound,
		Ad:      ad,
	}
}

// Notifier is a sink for alerts
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
	Name() string
}

// Multi fans an alert out to several sinks
type Multi []Notifier

// Notify delivers to every sink and joins their errors
func (m Multi) Notify(ctx context.Context, alert Alert) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Name returns the sink name
func (m Multi) Name() string {
	return "multi"
}
