package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dtnitsch/tg-preview-scraper/pkg/caching"
	"github.com/go-resty/resty/v2"
)

// DefaultHeaders are sent with every request. Options.UserAgent is merged on top.
var DefaultHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

type Options struct {
	Timeout   time.Duration
	UserAgent string
	// Cache is optional; only 2xx bodies are stored.
	Cache  *caching.Cache
	Logger *slog.Logger
}

// Fetcher issues plain GET requests and reports status and body. A non-2xx
// status is not an error; only transport failures are.
type Fetcher struct {
	client *resty.Client
	cache  *caching.Cache
	logger *slog.Logger
}

func NewFetcher(opts Options) *Fetcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := resty.New()
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	client.SetHeaders(mergeHeaders(opts.UserAgent))

	return &Fetcher{client: client, cache: opts.Cache, logger: logger}
}

func mergeHeaders(userAgent string) map[string]string {
	headers := make(map[string]string, len(DefaultHeaders)+1)
	for k, v := range DefaultHeaders {
		headers[k] = v
	}
	if userAgent != "" {
		headers["User-Agent"] = userAgent
	}
	return headers
}

// Get fetches url and returns the status code and body.
func (f *Fetcher) Get(ctx context.Context, url string) (int, []byte, error) {
	if f.cache != nil {
		if body, ok := f.cache.Get(url); ok {
			f.logger.Debug("cache hit", "url", url)
			return 200, body, nil
		}
	}

	res, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return 0, nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	f.logger.Debug("fetched", "url", url, "status", res.StatusCode(), "bytes", len(res.Body()))

	if f.cache != nil && res.IsSuccess() {
		if err := f.cache.Set(url, res.Body()); err != nil {
			f.logger.Warn("failed to cache response", "url", url, "error", err)
		}
	}
	return res.StatusCode(), res.Body(), nil
}
