package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	"shareholder/internal/holdings/models"
	"shareholder/pkg/domain"
	"shareholder/pkg/platform/audit"
	"shareholder/pkg/platform/middleware/metadata"
	"shareholder/pkg/requestcontext"
)

func (s *Service) searchEvent(nationalID domain.NationalID, outcome string, count int) audit.Event {
	event := audit.Event{
		Action:  string(audit.EventHoldingsSearched),
		Outcome: outcome,
		Count:   count,
	}
	if s.hasher != nil {
		event.SubjectIDHash = s.hasher.Hash(nationalID.String())
	}
	return event
}

// emit fills request metadata and publishes the event. Publishing failures
// are logged and never fail the lookup.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	event.Timestamp = requestcontext.Now(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientIP = requestcontext.ClientIP(ctx)
	event.Client = metadata.DescribeClient(requestcontext.UserAgent(ctx))
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit activity event",
			"action", event.Action,
			"error", err,
		)
	}
}

func requestLocale(ctx context.Context) language.Tag {
	return requestcontext.Locale(ctx)
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func annotateSpan(span trace.Span, snap *models.Snapshot, returned int, stale bool) {
	span.SetAttributes(
		attribute.String("holdings.source", snap.Source),
		attribute.Int("holdings.snapshot_records", snap.Len()),
		attribute.Int("holdings.returned", returned),
		attribute.Bool("holdings.stale", stale),
	)
}
