package cypher

import (
	"log/slog"
	"net/http"
	"time"
)

// Option configures a Client. Options may be given in any order.
type Option func(*options)

type options struct {
	hc         *http.Client
	transport  http.RoundTripper
	timeout    time.Duration
	hasTimeout bool
	logger     *slog.Logger
	headers    http.Header
}

// httpClient returns a copy of the configured http.Client with the
// transport and timeout options applied on top.
func (o *options) httpClient() *http.Client {
	hc := &http.Client{}
	if o.hc != nil {
		cp := *o.hc
		hc = &cp
	}
	if o.transport != nil {
		hc.Transport = o.transport
	}
	if o.hasTimeout {
		hc.Timeout = o.timeout
	}
	return hc
}

// WithHTTPClient sets the http.Client requests are sent with. The client is
// copied and never modified. WithTransport and WithTimeout override its
// fields on the copy.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.hc = hc
	}
}

// WithTransport sets the base http.RoundTripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.transport = rt
	}
}

// WithTimeout bounds each request, including reading the response body.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
		o.hasTimeout = true
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithUserAgent sets the User-Agent header on requests that don't already have one.
func WithUserAgent(ua string) Option {
	return WithHeader("User-Agent", ua)
}

// WithHeader adds a header to requests that don't already set it.
func WithHeader(key, value string) Option {
	return func(o *options) {
		if value == "" {
			return
		}
		o.headers.Add(key, value)
	}
}
