// Package httputil provides the HTTP plumbing for remote sheet sources.
//
// # Client
//
// [Client] downloads a URL with a per-request timeout, applies default
// headers, caches successful bodies in a [cache.Cache] and retries transient
// failures:
//
//	c := httputil.NewClient(httputil.Options{Cache: fileCache, TTL: cache.TTLSource})
//	body, hit, err := c.Fetch(ctx, url, false)
//
// A 404 maps to ErrCodeNotFound, timeouts to ErrCodeTimeout, other non-2xx
// statuses and transport failures to ErrCodeNetwork. Transport failures,
// 429 and 5xx responses are retried; other 4xx responses are not. A body
// larger than [Options].MaxBody is rejected rather than truncated.
//
// # Retry
//
// [RetryPolicy] runs a function with exponential backoff, retrying only
// errors wrapped in [RetryableError] and waiting at least as long as a
// server's Retry-After asks.
//
// [cache.Cache]: github.com/matzehuels/techflow/pkg/cache.Cache
package httputil
