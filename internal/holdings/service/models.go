package service

import (
	"time"

	"shareholder/internal/holdings/models"
)

// SearchResult is the outcome of a lookup by national ID. Zero matches is a
// valid, empty result.
type SearchResult struct {
	Holdings   []models.CanonicalRecord
	TotalFound int
	Source     string
	FetchedAt  time.Time
	// Stale is set when the record source was failing and the last good
	// snapshot was served instead.
	Stale bool
}

// ListResult is the administrative view of the whole register.
type ListResult struct {
	Holdings      []models.CanonicalRecord
	TotalInSource int
	Source        string
	FetchedAt     time.Time
	Stale         bool
}

// Status reports the liveness of the record source.
type Status struct {
	Online    bool
	Source    string
	Breaker   string
	CheckedAt time.Time
}
