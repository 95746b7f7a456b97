package httputil

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/matzehuels/techflow/pkg/cache"
	"github.com/matzehuels/techflow/pkg/errors"
	"github.com/matzehuels/techflow/pkg/observability"
)

// DefaultTimeout bounds a single request attempt.
const DefaultTimeout = 30 * time.Second

// DefaultMaxBody caps downloaded sheets.
const DefaultMaxBody = 64 << 20

// Options configures a [Client]. Zero values select the defaults.
type Options struct {
	Cache   cache.Cache // nil disables caching
	Keyer   cache.Keyer // nil means the default keyer
	TTL     time.Duration
	Timeout time.Duration // per attempt
	Retry   RetryPolicy
	MaxBody int64
	Headers map[string]string // applied to every request
}

// Client fetches remote documents with caching and retry.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	headers map[string]string
	retry   RetryPolicy
	maxBody int64
}

// NewClient creates a Client from opts.
func NewClient(opts Options) *Client {
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Retry.Attempts <= 0 {
		opts.Retry = DefaultRetryPolicy()
	}
	if opts.MaxBody <= 0 {
		opts.MaxBody = DefaultMaxBody
	}
	return &Client{
		http:    &http.Client{Timeout: opts.Timeout},
		cache:   opts.Cache,
		keyer:   opts.Keyer,
		ttl:     opts.TTL,
		headers: opts.Headers,
		retry:   opts.Retry,
		maxBody: opts.MaxBody,
	}
}

// Fetch returns the body of rawURL, serving it from the cache when possible.
// If refresh is true the cache is bypassed but still updated. The returned
// bool reports a cache hit.
func (c *Client) Fetch(ctx context.Context, rawURL string, refresh bool) ([]byte, bool, error) {
	key := c.keyer.SourceKey(rawURL)
	if !refresh {
		if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "source")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "source")
	}

	var body []byte
	err := c.retry.Do(ctx, func() error {
		var err error
		body, err = c.Get(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	if err := c.cache.Set(ctx, key, body, c.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, "source", len(body))
	}
	return body, false, nil
}

// Get performs a single GET request and returns the body. Retryable
// failures are wrapped in RetryableError.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "invalid URL %q", rawURL)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := hostPath(req.URL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, transportError(ctx, err, host)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp, rawURL); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, transportError(ctx, err, host)
	}
	if int64(len(body)) > c.maxBody {
		return nil, errors.New(errors.ErrCodeInvalidSource, "%s: document larger than %d bytes", rawURL, c.maxBody)
	}
	return body, nil
}

// transportError classifies a failed request or body read. Cancellation is
// returned as is; deadlines map to ErrCodeTimeout and everything else to a
// retryable ErrCodeNetwork.
func transportError(ctx context.Context, err error, host string) error {
	switch ctx.Err() {
	case context.Canceled:
		return ctx.Err()
	case context.DeadlineExceeded:
		return errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", host)
	}
	if ue, ok := err.(*url.Error); ok && ue.Timeout() {
		return &RetryableError{Err: errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", host)}
	}
	return &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", host)}
}

func checkStatus(resp *http.Response, rawURL string) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s: status %d", rawURL, code)
	case code == http.StatusTooManyRequests:
		return &RetryableError{
			Err:   errors.New(errors.ErrCodeNetwork, "%s: rate limited", rawURL),
			After: retryAfter(resp.Header.Get("Retry-After")),
		}
	case code >= 500:
		return &RetryableError{Err: errors.New(errors.ErrCodeNetwork, "%s: status %d", rawURL, code)}
	default:
		return errors.New(errors.ErrCodeNetwork, "%s: status %d", rawURL, code)
	}
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP date.
func retryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		return max(time.Until(t), 0)
	}
	return 0
}

func hostPath(u *url.URL) (string, string) {
	if u == nil {
		return "", ""
	}
	return u.Host, u.Path
}
