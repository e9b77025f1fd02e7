package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"

	"zuverschenken/adwatcher/helpers"
	"zuverschenken/adwatcher/logger"
	apperrors "zuverschenken/adwatcher/pkg/errors"
	"zuverschenken/adwatcher/services/cache"
)

// BaseCrawler provides fetching with a rate limit cooldown
type BaseCrawler struct {
	Name      string
	URL       string
	CacheKey  string
	CacheSvc  cache.CacheService
	BlockTime time.Duration
	Client    *http.Client
	Fetch     helpers.FetchOptions
	Now       func() time.Time
}

// fetchWithCache fetches the URL unless a rate limit cooldown is active.
// A rate limited response starts a cooldown for the server's Retry-After
// or BlockTime.
func (c *BaseCrawler) fetchWithCache(ctx context.Context) (io.Reader, error) {
	if c.CacheSvc != nil && c.CacheKey != "" {
		if value, err := c.CacheSvc.Get(c.CacheKey); err == nil {
			secs, _ := strconv.Atoi(string(value))
			return nil, apperrors.NewRateLimit(c.URL, time.Duration(secs)*time.Second)
		}
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	body, err := helpers.FetchPage(ctx, client, c.URL, c.Fetch)
	if err != nil {
		var rl *helpers.RateLimitError
		if errors.As(err, &rl) && c.CacheSvc != nil && c.CacheKey != "" {
			block := c.BlockTime
			if rl.RetryAfter > 0 {
				block = rl.RetryAfter
			}
			value := []byte(strconv.Itoa(int(block / time.Second)))
			if cacheErr := c.CacheSvc.Set(c.CacheKey, value, block); cacheErr != nil {
				logger.ForCache().Warn().Err(cacheErr).Str("key", c.CacheKey).Msg("Failed to store rate limit cooldown")
			} else {
				logger.ForCrawler(c.GetName()).Warn().Dur("block", block).Msg("Rate limited, pausing requests")
			}
		}
		return nil, err
	}

	return body, nil
}

// createDocument creates a goquery document from a reader
func (c *BaseCrawler) createDocument(reader io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrorTypeExtraction, c.URL, "failed to parse HTML", err)
	}
	return doc, nil
}

func (c *BaseCrawler) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// GetName returns the crawler's name for logging
func (c *BaseCrawler) GetName() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("crawler(%s)", c.URL)
}
