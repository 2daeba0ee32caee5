package fetch

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/pagescout/pagescout/internal/logging"
	"github.com/pagescout/pagescout/internal/monitoring"
)

// DefaultTimeout bounds a single page fetch.
const DefaultTimeout = 30 * time.Second

// Options configures the client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// Client fetches pages and files sequentially. There is no retry, rate
// limiting, or concurrency: a failed request is terminal for that URL.
type Client struct {
	resty   *resty.Client
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// Page is the result of one successful fetch.
type Page struct {
	URL        string
	StatusCode int
	Body       []byte
}

// Error reports a per-URL fetch failure. Scraping operations contain it per
// URL; it never aborts a batch.
type Error struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewClient creates a fetch client.
func NewClient(opts Options, log *logging.Logger, metrics *monitoring.Metrics) *Client {
	if log == nil {
		log = logging.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "pagescout/1.0"
	}

	restyClient := resty.New()
	restyClient.
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent)

	return &Client{
		resty:   restyClient,
		log:     log,
		metrics: metrics,
	}
}

// ValidateURL reports whether raw is an absolute http(s) URL with a host.
func ValidateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL %q: scheme must be http or https", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid URL %q: missing host", raw)
	}
	return nil
}

// Get fetches one page. Transport failures and HTTP statuses >= 400 both
// yield *Error.
func (c *Client) Get(ctx context.Context, rawURL string) (*Page, error) {
	if err := ValidateURL(rawURL); err != nil {
		c.recordFetch(false)
		return nil, &Error{URL: rawURL, Err: err}
	}

	resp, err := c.resty.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		c.recordFetch(false)
		return nil, &Error{URL: rawURL, Err: err}
	}

	if resp.StatusCode() >= 400 {
		c.recordFetch(false)
		return nil, &Error{URL: rawURL, StatusCode: resp.StatusCode()}
	}

	c.recordFetch(true)
	c.log.Debug("fetched page",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode()),
		zap.Int("bytes", len(resp.Body())))

	return &Page{
		URL:        rawURL,
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}

// Download streams a URL to path, creating parent directories. A partial
// file is removed on failure. Returns the size written.
func (c *Client) Download(ctx context.Context, rawURL, path string) (int64, error) {
	if err := ValidateURL(rawURL); err != nil {
		return 0, &Error{URL: rawURL, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	resp, err := c.resty.R().SetContext(ctx).SetOutput(path).Get(rawURL)
	if err != nil {
		os.Remove(path)
		return 0, &Error{URL: rawURL, Err: err}
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		os.Remove(path)
		return 0, &Error{URL: rawURL, StatusCode: resp.StatusCode()}
	}

	stat, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat downloaded file: %w", err)
	}

	if c.metrics != nil {
		c.metrics.FilesDownloaded.Inc()
	}

	return stat.Size(), nil
}

func (c *Client) recordFetch(ok bool) {
	if c.metrics != nil {
		c.metrics.RecordFetch(ok)
	}
}
