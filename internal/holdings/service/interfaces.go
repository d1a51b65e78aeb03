package service

import (
	"context"

	"shareholder/internal/holdings/models"
	"shareholder/pkg/platform/audit"
)

// Source retrieves the full record collection from the register.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (*models.Snapshot, error)
	Health(ctx context.Context) error
}

// SnapshotCache holds the most recent snapshot between fetches.
type SnapshotCache interface {
	Get(ctx context.Context) (*models.Snapshot, error)
	Put(ctx context.Context, snap *models.Snapshot) error
}

// AuditPublisher records activity events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
