package indexer

import (
	"net/http"
	"time"
)

const (
	DefaultTimeout = 30 * time.Second

	// RequestIDHeader carries the id logged for each batched lookup
	RequestIDHeader = "X-Request-Id"
)

// ClientOptions configures Client. The zero value is completed with defaults
// by NewClient.
type ClientOptions struct {
	timeout    time.Duration
	httpClient *http.Client
	headers    http.Header
}

type ClientOption func(*ClientOptions)

// WithTimeout bounds each batched request. Zero disables the client side
// bound, leaving only the context deadline.
func WithTimeout(d time.Duration) ClientOption {
	return func(o *ClientOptions) {
		o.timeout = d
	}
}

// WithHTTPClient replaces the http client used for requests. The timeout
// option is ignored when this is set.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(o *ClientOptions) {
		o.httpClient = c
	}
}

// WithHeader adds a header to every request, typically for authentication
// against a hosted indexer.
func WithHeader(key, value string) ClientOption {
	return func(o *ClientOptions) {
		if o.headers == nil {
			o.headers = http.Header{}
		}
		o.headers.Add(key, value)
	}
}

// ResolverOptions configures Resolver
type ResolverOptions struct {
	cache NodeCache
}

type ResolverOption func(*ResolverOptions)

// WithNodeCache serves positions from cache when present, and records every
// fetched node in it.
func WithNodeCache(cache NodeCache) ResolverOption {
	return func(o *ResolverOptions) {
		o.cache = cache
	}
}
