// Package sina implements the statement fetcher for Sina Finance
// (money.finance.sina.com.cn). Statements are served as GBK-encoded
// tab-separated downloads, one column per disclosed period; the company
// profile page is GBK-encoded HTML.
//
// Sina is a free, no-API-key source. It rate limits aggressively, so all
// requests go through a shared token bucket. The fetcher itself never
// caches statement data and never retries; both are the caller's concern.
package sina

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/junyangz/cninsight/internal/infra"
)

const (
	defaultBaseURL        = "http://money.finance.sina.com.cn"
	defaultProfileBaseURL = "https://vip.stock.finance.sina.com.cn"
)

// Options configures the Sina client.
type Options struct {
	BaseURL        string        // statement download host
	ProfileBaseURL string        // company profile host
	UserAgent      string
	Timeout        time.Duration // per-request HTTP timeout
	RateLimit      int           // requests per RateWindow
	RateWindow     time.Duration
	NameCacheTTL   time.Duration // company name cache
	Logger         zerolog.Logger
}

// Client fetches statements and company profiles from Sina Finance.
// It implements source.Fetcher and source.ProfileFetcher.
type Client struct {
	base        string
	profileBase string
	http        *infra.HTTPClient
	limiter     *infra.RateLimiter
	names       *infra.Cache
	log         zerolog.Logger
}

// New creates a Sina client. Zero-value options fall back to defaults.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.ProfileBaseURL == "" {
		opts.ProfileBaseURL = defaultProfileBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5
	}
	if opts.RateWindow <= 0 {
		opts.RateWindow = time.Second
	}
	if opts.NameCacheTTL <= 0 {
		opts.NameCacheTTL = 24 * time.Hour
	}
	return &Client{
		base:        opts.BaseURL,
		profileBase: opts.ProfileBaseURL,
		http:        infra.NewHTTPClient(opts.Timeout, opts.UserAgent),
		limiter:     infra.NewRateLimiter(opts.RateLimit, opts.RateWindow),
		names:       infra.NewCache(opts.NameCacheTTL),
		log:         opts.Logger,
	}
}
