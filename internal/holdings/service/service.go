// Package service answers holder lookups: it loads the register snapshot,
// canonicalizes the records and filters them by national ID.
package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks Source,SnapshotCache,AuditPublisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"

	"shareholder/internal/holdings/matcher"
	"shareholder/internal/holdings/metrics"
	"shareholder/internal/holdings/models"
	"shareholder/internal/holdings/source"
	"shareholder/internal/holdings/store"
	"shareholder/pkg/domain"
	dErrors "shareholder/pkg/domain-errors"
	"shareholder/pkg/platform/audit"
	"shareholder/pkg/platform/circuit"
	"shareholder/pkg/platform/locale"
)

const (
	snapshotKey = "snapshot"

	defaultFetchTimeout = 30 * time.Second
)

type Service struct {
	source    Source
	cache     SnapshotCache
	auditor   AuditPublisher
	hasher    *audit.SubjectHasher
	breaker   *circuit.Breaker
	policy    matcher.Policy
	localizer *locale.Localizer
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer

	fetchTimeout time.Duration
	group        singleflight.Group

	mu       sync.RWMutex
	lastGood *models.Snapshot
}

type Option func(*Service)

func WithCache(cache SnapshotCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = publisher
	}
}

// WithSubjectHasher sets the keyed hash applied to national IDs before they
// are written to activity events. Without it events carry no subject.
func WithSubjectHasher(h *audit.SubjectHasher) Option {
	return func(s *Service) {
		s.hasher = h
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(s *Service) {
		s.breaker = b
	}
}

func WithPolicy(p matcher.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

func WithLocalizer(l *locale.Localizer) Option {
	return func(s *Service) {
		s.localizer = l
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithFetchTimeout bounds one shared source fetch. Callers stop waiting when
// their own context ends; the fetch keeps running until this timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func New(src Source, opts ...Option) (*Service, error) {
	if src == nil {
		return nil, errors.New("record source is required")
	}
	svc := &Service{
		source:    src,
		cache:     store.NopCache{},
		auditor:   audit.NopEmitter{},
		policy:    matcher.DefaultPolicy,
		localizer: locale.Default,
		logger:    slog.Default(),

		fetchTimeout: defaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.breaker == nil {
		svc.breaker = circuit.New(src.Name())
	}
	if svc.tracer == nil {
		svc.tracer = otel.Tracer("shareholder/holdings")
	}
	return svc, nil
}

// Search returns the holdings whose identifiers match nationalID under the
// service's match policy, in register order.
func (s *Service) Search(ctx context.Context, nationalID domain.NationalID) (*SearchResult, error) {
	ctx, span := s.tracer.Start(ctx, "holdings.Search")
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.ObserveSearchLatency(time.Since(start)) }()

	if nationalID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidNationalID, "national_id is required")
	}

	snap, stale, err := s.loadSnapshot(ctx)
	if err != nil {
		recordSpanError(span, err)
		s.metrics.IncrementSearchOutcome(string(audit.OutcomeFailed))
		s.emit(ctx, s.searchEvent(nationalID, audit.OutcomeFailed, 0))
		return nil, err
	}

	records := s.canonicalizer(ctx).Canonicalize(snap.Records)
	matched := s.policy.Match(records, nationalID.String())
	s.logMatches(ctx, matched, nationalID)

	outcome := audit.OutcomeFound
	if len(matched) == 0 {
		outcome = audit.OutcomeNotFound
	}
	s.metrics.IncrementSearchOutcome(string(outcome))
	s.emit(ctx, s.searchEvent(nationalID, outcome, len(matched)))
	annotateSpan(span, snap, len(matched), stale)

	return &SearchResult{
		Holdings:   matched,
		TotalFound: len(matched),
		Source:     snap.Source,
		FetchedAt:  snap.FetchedAt,
		Stale:      stale,
	}, nil
}

// List returns every canonical record in the register, truncated to limit.
// A limit of zero returns all records.
func (s *Service) List(ctx context.Context, limit int) (*ListResult, error) {
	ctx, span := s.tracer.Start(ctx, "holdings.List")
	defer span.End()

	if limit < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "limit must not be negative")
	}

	snap, stale, err := s.loadSnapshot(ctx)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	records := s.canonicalizer(ctx).Canonicalize(snap.Records)
	total := len(records)
	if limit > 0 && limit < total {
		records = records[:limit]
	}
	annotateSpan(span, snap, len(records), stale)

	s.emit(ctx, audit.Event{
		Action:  string(audit.EventHoldingsListed),
		Outcome: string(audit.OutcomeOK),
		Count:   len(records),
	})

	return &ListResult{
		Holdings:      records,
		TotalInSource: total,
		Source:        snap.Source,
		FetchedAt:     snap.FetchedAt,
		Stale:         stale,
	}, nil
}

// Status probes the record source. A successful probe counts towards
// closing an open breaker.
func (s *Service) Status(ctx context.Context) Status {
	ctx, span := s.tracer.Start(ctx, "holdings.Status")
	defer span.End()

	err := s.source.Health(ctx)
	online := err == nil
	if online {
		if s.breaker.IsOpen() {
			_, change := s.breaker.RecordSuccess()
			s.noteBreaker(ctx, change)
		}
	} else {
		s.logger.WarnContext(ctx, "record source health check failed",
			"source", s.source.Name(),
			"category", source.GetCategory(err),
			"error", err,
		)
	}
	s.metrics.SetSourceUp(online)

	return Status{
		Online:    online,
		Source:    s.source.Name(),
		Breaker:   s.breaker.State().String(),
		CheckedAt: time.Now(),
	}
}

// StartHealthMonitor probes the source every interval until ctx is done.
func (s *Service) StartHealthMonitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.Status(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Status(ctx)
		}
	}
}

type loaded struct {
	snap  *models.Snapshot
	stale bool
}

// loadSnapshot serves from cache when possible. Concurrent misses share one
// source fetch that runs detached from the callers' cancellation.
func (s *Service) loadSnapshot(ctx context.Context) (*models.Snapshot, bool, error) {
	snap, err := s.cache.Get(ctx)
	switch {
	case err == nil:
		s.metrics.RecordCacheHit()
		return snap, false, nil
	case errors.Is(err, store.ErrNotFound):
		s.metrics.RecordCacheMiss()
	default:
		s.metrics.RecordCacheError()
		s.logger.WarnContext(ctx, "snapshot cache read failed", "error", err)
	}

	ch := s.group.DoChan(snapshotKey, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()
		return s.fetch(fetchCtx)
	})
	select {
	case <-ctx.Done():
		return nil, false, dErrors.Wrap(ctx.Err(), dErrors.CodeUnavailable, "request ended before the record source answered")
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		l := res.Val.(loaded)
		return l.snap, l.stale, nil
	}
}

func (s *Service) fetch(ctx context.Context) (loaded, error) {
	if s.breaker.IsOpen() {
		if fb := s.fallback(); fb != nil {
			s.metrics.IncrementFallbackServed()
			return loaded{snap: fb, stale: true}, nil
		}
	}

	start := time.Now()
	snap, err := s.source.Fetch(ctx)
	s.metrics.ObserveSourceLatency(s.source.Name(), time.Since(start))
	if err != nil {
		category := source.GetCategory(err)
		s.metrics.IncrementSourceError(s.source.Name(), string(category))
		useFallback, change := s.breaker.RecordFailure()
		s.noteBreaker(ctx, change)
		s.logger.WarnContext(ctx, "record source fetch failed",
			"source", s.source.Name(),
			"category", category,
			"error", err,
		)
		if useFallback {
			if fb := s.fallback(); fb != nil {
				s.metrics.IncrementFallbackServed()
				return loaded{snap: fb, stale: true}, nil
			}
		}
		return loaded{}, translateSourceError(err)
	}

	_, change := s.breaker.RecordSuccess()
	s.noteBreaker(ctx, change)

	s.mu.Lock()
	s.lastGood = snap
	s.mu.Unlock()
	s.metrics.SetSnapshotRecords(snap.Len())

	if err := s.cache.Put(ctx, snap); err != nil {
		s.metrics.RecordCacheError()
		s.logger.WarnContext(ctx, "snapshot cache write failed", "error", err)
	}
	return loaded{snap: snap}, nil
}

func (s *Service) fallback() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastGood
}

func (s *Service) noteBreaker(ctx context.Context, change circuit.StateChange) {
	switch {
	case change.Opened:
		s.metrics.SetBreakerOpen(true)
		s.logger.WarnContext(ctx, "record source breaker opened", "source", s.source.Name())
	case change.Closed:
		s.metrics.SetBreakerOpen(false)
		s.logger.InfoContext(ctx, "record source breaker closed", "source", s.source.Name())
	}
}

func translateSourceError(err error) error {
	if errors.Is(err, source.ErrInvalidCollection) {
		return dErrors.Wrap(err, dErrors.CodeInvalidCollection, "record source returned an invalid collection")
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, "record source unavailable")
}

// canonicalizer uses the placeholder name for the request's language.
func (s *Service) canonicalizer(ctx context.Context) matcher.Canonicalizer {
	return matcher.Canonicalizer{
		UnknownHolder: s.localizer.Text(s.tag(ctx), locale.MsgUnknownHolder),
	}
}

func (s *Service) tag(ctx context.Context) language.Tag {
	tag := requestLocale(ctx)
	if tag == language.Und {
		return s.localizer.Fallback()
	}
	return tag
}

func (s *Service) logMatches(ctx context.Context, matched []models.CanonicalRecord, nationalID domain.NationalID) {
	if !s.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	for _, rec := range matched {
		rule, ok := s.policy.Explain(rec, nationalID.String())
		if !ok {
			continue
		}
		s.logger.DebugContext(ctx, "record matched",
			"rule", rule.Name,
			"mode", rule.Mode.String(),
			"account_id", rec.AccountID,
		)
	}
}
