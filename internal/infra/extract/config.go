package extract

import (
	"fmt"
	"time"
)

// Config controls remote fetching and feed expansion.
type Config struct {
	// Timeout bounds one HTTP fetch, redirects included.
	Timeout time.Duration

	// MaxBodySize is the largest response body read, in bytes.
	MaxBodySize int64

	// MaxRedirects is the number of redirects followed before giving up.
	MaxRedirects int

	// DenyPrivateIPs rejects URLs (and redirect targets) resolving to
	// loopback, private or link-local addresses.
	DenyPrivateIPs bool

	// FeedItemLimit caps how many of the newest feed items are kept.
	FeedItemLimit int

	UserAgent string
}

// DefaultConfig returns the production settings.
func DefaultConfig() Config {
	return Config{
		Timeout:        30 * time.Second,
		MaxBodySize:    10 * 1024 * 1024, // 10MB
		MaxRedirects:   5,
		DenyPrivateIPs: true,
		FeedItemLimit:  20,
		UserAgent:      "DailySummaryBot/1.0",
	}
}

// Validate checks that every limit is usable.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	if c.FeedItemLimit < 1 || c.FeedItemLimit > 200 {
		return fmt.Errorf("feed item limit must be between 1 and 200, got %d", c.FeedItemLimit)
	}

	return nil
}
