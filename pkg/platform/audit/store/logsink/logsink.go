// Package logsink writes audit events to a structured logger.
package logsink

import (
	"context"
	"log/slog"

	audit "shareholder/pkg/platform/audit"
)

type Store struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger.With("component", "audit")}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	s.logger.LogAttrs(ctx, slog.LevelInfo, "audit event",
		slog.String("category", string(event.Category)),
		slog.String("action", event.Action),
		slog.Time("timestamp", event.Timestamp),
		slog.String("subject_id_hash", event.SubjectIDHash),
		slog.String("subject", event.Subject),
		slog.String("outcome", event.Outcome),
		slog.Int("count", event.Count),
		slog.String("request_id", event.RequestID),
		slog.String("client_ip", event.ClientIP),
		slog.String("client", event.Client),
	)
	return nil
}
