package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "zuverschenken/adwatcher/pkg/errors"
)

const (
	// DedupModeSet tracks every seen ad by its full identity
	DedupModeSet = "set"
	// DedupModeWatermark tracks only the newest publish time
	DedupModeWatermark = "watermark"

	// DefaultUserAgent is the pinned browser identity sent with every request
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_10_1) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/39.0.2171.95 Safari/537.36"
)

// Config represents the application configuration
type Config struct {
	// Listing configuration
	ListingURL string
	LinkHost   string
	Exclusions []string

	// Poll loop configuration
	PollMin      time.Duration
	PollMax      time.Duration
	MaxAdAge     time.Duration
	FetchTimeout time.Duration
	UserAgent    string
	Timezone     string

	// Tracker configuration
	DedupMode string
	SeenTTL   time.Duration

	// Desktop notification configuration
	DesktopNotifications bool
	NotifierCommand      string
	NotifierSound        string

	// Memcache configuration, empty address keeps the cooldown in memory
	MemcacheAddr   string
	RateLimitBlock time.Duration

	// Redis configuration, empty address disables stream publishing
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	return &Config{
		ListingURL:           getEnv("LISTING_URL", ""),
		LinkHost:             strings.TrimSuffix(getEnv("LINK_HOST", ""), "/"),
		Exclusions:           splitAndLower(getEnv("EXCLUSIONS", "")),
		PollMin:              time.Duration(getInt("POLL_MIN_SECONDS", 20)) * time.Second,
		PollMax:              time.Duration(getInt("POLL_MAX_SECONDS", 40)) * time.Second,
		MaxAdAge:             getDuration("MAX_AD_AGE", time.Hour),
		FetchTimeout:         getDuration("FETCH_TIMEOUT", 10*time.Second),
		UserAgent:            getEnv("USER_AGENT", DefaultUserAgent),
		Timezone:             getEnv("TIMEZONE", "Local"),
		DedupMode:            strings.ToLower(getEnv("DEDUP_MODE", DedupModeSet)),
		SeenTTL:              getDuration("SEEN_TTL", 0),
		DesktopNotifications: getBool("DESKTOP_NOTIFICATIONS", true),
		NotifierCommand:      getEnv("NOTIFIER_COMMAND", "terminal-notifier"),
		NotifierSound:        getEnv("NOTIFIER_SOUND", "Sonar"),
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		RateLimitBlock:       getDuration("RATE_LIMIT_BLOCK", 5*time.Minute),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              getInt("REDIS_DB", 0),
		RedisStream:          getEnv("REDIS_STREAM", "ads"),
		RedisStreamCount:     getInt("REDIS_STREAM_COUNT", 1),
		RedisStreamMaxLength: getInt("REDIS_STREAM_MAX_LENGTH", 1000),
		Environment:          getEnv("ADWATCHER_ENVIRONMENT", "development"),
	}
}

// Validate checks that all required parameters are present and that the
// optional ones are usable. Missing required parameters are reported together.
func (c *Config) Validate() error {
	var missing []string
	if c.ListingURL == "" {
		missing = append(missing, "LISTING_URL")
	}
	if c.LinkHost == "" {
		missing = append(missing, "LINK_HOST")
	}
	if len(c.Exclusions) == 0 {
		missing = append(missing, "EXCLUSIONS")
	}
	if len(missing) > 0 {
		return apperrors.NewConfiguration("one or more parameters are missing", missing...)
	}

	if c.PollMin < 0 || c.PollMax < c.PollMin {
		return apperrors.NewConfiguration("poll window must satisfy 0 <= min <= max", "POLL_MIN_SECONDS", "POLL_MAX_SECONDS")
	}
	if c.MaxAdAge <= 0 {
		return apperrors.NewConfiguration("must be positive", "MAX_AD_AGE")
	}
	if c.FetchTimeout <= 0 {
		return apperrors.NewConfiguration("must be positive", "FETCH_TIMEOUT")
	}
	if c.SeenTTL < 0 {
		return apperrors.NewConfiguration("cannot be negative", "SEEN_TTL")
	}
	// Evicting ads that can still pass the age filter would alert on them again
	if c.SeenTTL > 0 && c.SeenTTL < c.MaxAdAge {
		return apperrors.NewConfiguration("must be zero or at least MAX_AD_AGE", "SEEN_TTL")
	}
	if c.DedupMode != DedupModeSet && c.DedupMode != DedupModeWatermark {
		return apperrors.NewConfiguration("must be \"set\" or \"watermark\"", "DEDUP_MODE")
	}
	if _, err := c.Location(); err != nil {
		e := apperrors.NewConfiguration("unknown time zone", "TIMEZONE")
		e.Err = err
		return e
	}
	if c.RedisAddr != "" && c.RedisStreamCount <= 0 {
		return apperrors.NewConfiguration("must be positive", "REDIS_STREAM_COUNT")
	}
	return nil
}

// Location resolves the configured time zone used for publish times
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return d
	}
	return defaultValue
}

// splitAndLower splits a comma separated list into trimmed, lower-cased items
func splitAndLower(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(part))
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
