package testutil

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/text/language"

	"shareholder/pkg/requestcontext"
)

// WithClient adds client IP and User-Agent to the request context.
// This simulates what the client metadata middleware would do.
func WithClient(req *http.Request, clientIP, userAgent string) *http.Request {
	ctx := requestcontext.WithClientMetadata(req.Context(), clientIP, userAgent)
	return req.WithContext(ctx)
}

// WithLocale sets the negotiated response language on the request context.
func WithLocale(req *http.Request, tag language.Tag) *http.Request {
	return req.WithContext(requestcontext.WithLocale(req.Context(), tag))
}

// WithRequestID adds a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithTime pins the request-scoped "now".
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
