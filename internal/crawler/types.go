package crawler

import (
	"context"
	"time"
)

// KeyTimeLayout is the minute-resolution layout used for ad identity and alerts
const KeyTimeLayout = "2006-01-02 15:04"

// Ad represents one listing occurrence scraped from the listing page
type Ad struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
	Link        string    `json:"link"`
}

// Key identifies an ad by title, publish minute and link. Re-listed ads with
// the same title but a new publish time have different keys.
type Key struct {
	Title       string
	PublishedAt string
	Link        string
}

// Key returns the identity of the ad
func (a Ad) Key() Key {
	return Key{
		Title:       a.Title,
		PublishedAt: a.PublishedAt.Format(KeyTimeLayout),
		Link:        a.Link,
	}
}

// Crawler interface defines the contract for listing crawlers
type Crawler interface {
	// FetchAds retrieves the qualifying ads currently on the listing page
	FetchAds(ctx context.Context) ([]Ad, error)

	// GetName returns the crawler's name for logging and identification
	GetName() string
}

// Selectors contains CSS selectors for the elements of an ad card
type Selectors struct {
	AdList     string
	Title      string
	PostedAt   string
	DateMarker string
	ProPrefix  string
}

// DefaultSelectors matches the kleinanzeigen.de search result markup
var DefaultSelectors = Selectors{
	AdList:     "article",
	Title:      "a.ellipsis",
	PostedAt:   "div.aditem-main--top--right",
	DateMarker: "i.icon-calendar-open",
	ProPrefix:  "/pro/",
}

// CrawlerConfig contains configuration for a crawler
type CrawlerConfig struct {
	Name      string
	URL       string
	LinkHost  string
	CacheKey  string
	BlockTime time.Duration
	UserAgent string
	// VirtualHost is sent as the Host header, empty keeps the URL host
	VirtualHost string
	Timeout     time.Duration
	Location    *time.Location
	Selectors   Selectors
}
