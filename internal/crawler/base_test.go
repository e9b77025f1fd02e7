package crawler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "zuverschenken/adwatcher/pkg/errors"
	"zuverschenken/adwatcher/services/cache"
)

// MockCacheService implements a simple in-memory cache for testing
type MockCacheService struct {
	cache map[string][]byte
	ttl   map[string]time.Duration
}

var _ cache.CacheService = (*MockCacheService)(nil)

func NewMockCacheService() *MockCacheService {
	return &MockCacheService{
		cache: make(map[string][]byte),
		ttl:   make(map[string]time.Duration),
	}
}

func (m *MockCacheService) Get(key string) ([]byte, error) {
	if val, ok := m.cache[key]; ok {
		return val, nil
	}
	return nil, cache.ErrCacheMiss
}

func (m *MockCacheService) Set(key string, value []byte, expiration time.Duration) error {
	m.cache[key] = value
	m.ttl[key] = expiration
	return nil
}

func (m *MockCacheService) Delete(key string) error {
	delete(m.cache, key)
	return nil
}

func TestBaseCrawlerRateLimitCooldown(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	mockCache := NewMockCacheService()
	crawler := BaseCrawler{
		URL:       server.URL,
		CacheKey:  "test_rate_limited",
		CacheSvc:  mockCache,
		BlockTime: 5 * time.Minute,
		Client:    server.Client(),
	}

	_, err := crawler.fetchWithCache(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeRateLimit))
	assert.Equal(t, "120", string(mockCache.cache["test_rate_limited"]))
	assert.Equal(t, 120*time.Second, mockCache.ttl["test_rate_limited"])

	// While the cooldown is active no request reaches the server
	_, err = crawler.fetchWithCache(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeRateLimit))
	assert.Equal(t, int32(1), hits.Load())

	mockCache.Delete("test_rate_limited")
	_, err = crawler.fetchWithCache(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestBaseCrawlerNoCooldownOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	mockCache := NewMockCacheService()
	crawler := BaseCrawler{URL: server.URL, CacheKey: "k", CacheSvc: mockCache, Client: server.Client()}

	_, err := crawler.fetchWithCache(context.Background())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeRemoteStatus))
	assert.Empty(t, mockCache.cache)
}

func TestBaseCrawlerFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><article>ok</article></body></html>"))
	}))
	defer server.Close()

	crawler := BaseCrawler{URL: server.URL}
	body, err := crawler.fetchWithCache(context.Background())
	require.NoError(t, err)

	doc, err := crawler.createDocument(body)
	require.NoError(t, err)
	assert.Equal(t, "ok", doc.Find("article").Text())
}

func TestCreateDocumentFromReader(t *testing.T) {
	crawler := BaseCrawler{}
	doc, err := crawler.createDocument(io.NopCloser(strings.NewReader("<p>x</p>")))
	require.NoError(t, err)
	assert.IsType(t, &goquery.Document{}, doc)
}

// TestGetName tests the GetName function
func TestGetName(t *testing.T) {
	crawler := BaseCrawler{Name: "listing"}
	assert.Equal(t, "listing", crawler.GetName())

	crawler = BaseCrawler{URL: "https://example.com"}
	assert.Equal(t, "crawler(https://example.com)", crawler.GetName())
}
