package crawler

import (
	"net/url"

	"zuverschenken/adwatcher/config"
	"zuverschenken/adwatcher/helpers"
	"zuverschenken/adwatcher/logger"
	"zuverschenken/adwatcher/services/cache"
)

// CreateCrawler creates the listing crawler described by the configuration
func CreateCrawler(cfg *config.Config, cacheSvc cache.CacheService) (Crawler, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	var virtualHost string
	if u, err := url.Parse(cfg.LinkHost); err == nil {
		virtualHost = u.Host
	}

	c := NewListingCrawler(CrawlerConfig{
		Name:        "listing",
		URL:         cfg.ListingURL,
		LinkHost:    cfg.LinkHost,
		CacheKey:    "listing_rate_limited",
		BlockTime:   cfg.RateLimitBlock,
		UserAgent:   cfg.UserAgent,
		VirtualHost: virtualHost,
		Timeout:     cfg.FetchTimeout,
		Location:    loc,
		Selectors:   DefaultSelectors,
	}, cacheSvc, helpers.NewClient(cfg.FetchTimeout))

	logger.ForCrawler(c.GetName()).Info().
		Str("url", c.URL).
		Str("host", virtualHost).
		Str("location", loc.String()).
		Msg("Created crawler")

	return c, nil
}
