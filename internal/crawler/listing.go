package crawler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"zuverschenken/adwatcher/helpers"
	"zuverschenken/adwatcher/logger"
	apperrors "zuverschenken/adwatcher/pkg/errors"
	"zuverschenken/adwatcher/services/cache"
)

// ListingCrawler scrapes private-party ads from a search result page
type ListingCrawler struct {
	BaseCrawler
	LinkHost  string
	Location  *time.Location
	Selectors Selectors
}

// NewListingCrawler creates a new listing crawler
func NewListingCrawler(config CrawlerConfig, cacheSvc cache.CacheService, client *http.Client) *ListingCrawler {
	loc := config.Location
	if loc == nil {
		loc = time.Local
	}
	return &ListingCrawler{
		BaseCrawler: BaseCrawler{
			Name:      config.Name,
			URL:       config.URL,
			CacheKey:  config.CacheKey,
			CacheSvc:  cacheSvc,
			BlockTime: config.BlockTime,
			Client:    client,
			Fetch: helpers.FetchOptions{
				UserAgent: config.UserAgent,
				Host:      config.VirtualHost,
				Timeout:   config.Timeout,
			},
		},
		LinkHost:  config.LinkHost,
		Location:  loc,
		Selectors: config.Selectors,
	}
}

// FetchAds fetches the listing page and extracts its ads
func (c *ListingCrawler) FetchAds(ctx context.Context) ([]Ad, error) {
	utf8Body, err := c.fetchWithCache(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := c.createDocument(utf8Body)
	if err != nil {
		return nil, err
	}

	return c.ExtractAds(doc, c.now())
}

// ExtractAds turns every qualifying ad card into an Ad. A page without any
// card, or a card missing one of its fields, fails the whole page.
func (c *ListingCrawler) ExtractAds(doc *goquery.Document, now time.Time) ([]Ad, error) {
	blocks := doc.Find(c.Selectors.AdList)
	if blocks.Length() == 0 {
		return nil, apperrors.NewExtraction(c.GetName(), "no ad blocks found")
	}

	log := logger.ForCrawler(c.GetName())
	log.Debug().Int("blocks", blocks.Length()).Msg("Parsing listing page")

	today := now.In(c.Location)
	var (
		ads      []Ad
		firstErr error
		skipped  int
	)
	blocks.EachWithBreak(func(i int, s *goquery.Selection) bool {
		ad, ok, err := c.processAd(s, today)
		if err != nil {
			firstErr = err
			return false
		}
		if !ok {
			skipped++
			return true
		}
		ads = append(ads, ad)
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}

	log.Debug().Int("ads", len(ads)).Int("skipped", skipped).Msg("Listing page parsed")
	return ads, nil
}

// processAd extracts a single ad card. ok is false for cards that are not
// private listings (banners, headers, professional sellers).
func (c *ListingCrawler) processAd(s *goquery.Selection, today time.Time) (Ad, bool, error) {
	if c.Selectors.DateMarker != "" && s.Find(c.Selectors.DateMarker).Length() == 0 {
		return Ad{}, false, nil
	}
	if c.isPro(s) {
		return Ad{}, false, nil
	}

	titleSel := s.Find(c.Selectors.Title).First()
	title := strings.TrimSpace(titleSel.Text())
	link, _ := titleSel.Attr("href")
	link = strings.TrimSpace(link)
	postedAt := strings.TrimSpace(s.Find(c.Selectors.PostedAt).First().Text())

	var missing []string
	if title == "" {
		missing = append(missing, "title")
	}
	if postedAt == "" {
		missing = append(missing, "posted_at")
	}
	if link == "" {
		missing = append(missing, "link")
	}
	if len(missing) > 0 {
		return Ad{}, false, apperrors.NewExtraction(c.GetName(), "ad block is missing fields", missing...)
	}

	publishedAt, err := ParsePostedAt(postedAt, today)
	if err != nil {
		return Ad{}, false, err
	}

	link = helpers.ResolveURL(c.LinkHost, link)
	return Ad{
		ID:          helpers.LastPathSegment(link),
		Title:       title,
		PublishedAt: publishedAt,
		Link:        link,
	}, true, nil
}

// isPro reports whether the card links to a professional seller page
func (c *ListingCrawler) isPro(s *goquery.Selection) bool {
	if c.Selectors.ProPrefix == "" {
		return false
	}
	return s.Find(fmt.Sprintf("a[href^=%q]", c.Selectors.ProPrefix)).Length() > 0
}
