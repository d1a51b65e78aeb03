// Package ratelimit throttles requests per client IP with token buckets.
package ratelimit

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	audit "shareholder/pkg/platform/audit"
	"shareholder/pkg/platform/middleware/metadata"
	"shareholder/pkg/requestcontext"
)

// Limiter hands out one token bucket per client key. Idle buckets expire
// so the map does not grow without bound.
type Limiter struct {
	limit   rate.Limit
	burst   int
	buckets *cache.Cache
	mu      sync.Mutex
	emitter audit.Emitter
	logger  *slog.Logger
}

type Option func(*Limiter)

func WithEmitter(e audit.Emitter) Option {
	return func(l *Limiter) {
		if e != nil {
			l.emitter = e
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New allows perMinute requests per client with the given burst.
// perMinute <= 0 disables limiting.
func New(perMinute, burst int, opts ...Option) *Limiter {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	if burst <= 0 {
		burst = 1
	}
	l := &Limiter{
		limit:   limit,
		burst:   burst,
		buckets: cache.New(10*time.Minute, 20*time.Minute),
		emitter: audit.NopEmitter{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if v, ok := l.buckets.Get(key); ok {
		lim := v.(*rate.Limiter)
		l.buckets.SetDefault(key, lim)
		return lim
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	l.buckets.SetDefault(key, lim)
	return lim
}

// Allow reports whether key may proceed now and, if not, how long to wait.
func (l *Limiter) Allow(key string, now time.Time) (bool, time.Duration) {
	r := l.bucket(key).ReserveN(now, 1)
	if !r.OK() {
		return false, time.Minute
	}
	delay := r.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	r.CancelAt(now)
	return false, delay
}

// Middleware rejects requests over the limit with 429 and a Retry-After header.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ip := metadata.GetClientIP(ctx)
		if ip == "" {
			ip = metadata.ClientIPFromRequest(r)
		}
		ok, wait := l.Allow(ip, requestcontext.Now(ctx))
		if ok {
			next.ServeHTTP(w, r)
			return
		}

		requestID := requestcontext.RequestID(ctx)
		l.logger.WarnContext(ctx, "rate limit exceeded",
			"path", r.URL.Path,
			"request_id", requestID,
		)
		if err := l.emitter.Emit(ctx, audit.Event{
			Action:    string(audit.EventRateLimitExceeded),
			Subject:   r.URL.Path,
			Outcome:   audit.OutcomeRejected,
			RequestID: requestID,
			ClientIP:  ip,
			Client:    metadata.DescribeClient(metadata.GetUserAgent(ctx)),
		}); err != nil {
			l.logger.WarnContext(ctx, "failed to emit audit event", "error", err, "request_id", requestID)
		}

		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate_limited","error_description":"too many requests"}`))
	})
}
