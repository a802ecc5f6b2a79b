package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request identifier to the service.
const RequestIDHeader = "X-Request-Id"

// NewTransportWithFallbackHeaders creates a new http.RoundTripper that wraps the given
// http.RoundTripper and adds the given headers to the request if they are not already set.
//
// This is useful for client-wide defaults such as `User-Agent` that a single call may
// still override.
func NewTransportWithFallbackHeaders(t http.RoundTripper, headers http.Header) http.RoundTripper {
	if t == nil {
		t = http.DefaultTransport
	}
	return &headerRoundTripper{transport: t, header: headers}
}

type headerRoundTripper struct {
	transport http.RoundTripper
	header    http.Header
}

func (h *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	var out *http.Request
	for key, values := range h.header {
		key = http.CanonicalHeaderKey(key)
		if _, ok := req.Header[key]; ok {
			continue
		}
		// RoundTrippers must not modify the caller's request.
		if out == nil {
			out = req.Clone(req.Context())
		}
		for _, value := range values {
			out.Header.Add(key, value)
		}
	}
	if out == nil {
		out = req
	}
	return h.transport.RoundTrip(out)
}

// NewRequestIDTransport sets a random X-Request-Id on requests that don't carry one.
func NewRequestIDTransport(t http.RoundTripper) http.RoundTripper {
	if t == nil {
		t = http.DefaultTransport
	}
	return &requestIDRoundTripper{transport: t}
}

type requestIDRoundTripper struct {
	transport http.RoundTripper
}

func (r *requestIDRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(RequestIDHeader) != "" {
		return r.transport.RoundTrip(req)
	}
	out := req.Clone(req.Context())
	out.Header.Set(RequestIDHeader, uuid.NewString())
	return r.transport.RoundTrip(out)
}

// NewLoggingTransport logs every exchange at debug level.
func NewLoggingTransport(t http.RoundTripper, logger *slog.Logger) http.RoundTripper {
	if t == nil {
		t = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &loggingRoundTripper{transport: t, logger: logger}
}

type loggingRoundTripper struct {
	transport http.RoundTripper
	logger    *slog.Logger
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	res, err := l.transport.RoundTrip(req)
	attrs := []any{
		"method", req.Method,
		"url", req.URL.String(),
		"request_id", req.Header.Get(RequestIDHeader),
		"duration", time.Since(start),
	}
	if err != nil {
		l.logger.Debug("request failed", append(attrs, "error", err)...)
		return nil, err
	}
	l.logger.Debug("request done", append(attrs, "status", res.StatusCode)...)
	return res, nil
}
