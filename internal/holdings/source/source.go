// Package source defines the boundary to the holder record register and
// the payload conventions shared by every backend.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shareholder/internal/holdings/matcher"
	"shareholder/internal/holdings/models"
)

// Source retrieves the full holder record collection.
type Source interface {
	// Name identifies the backend in logs, metrics and snapshots.
	Name() string
	// Fetch returns every record currently held by the backend. An empty
	// collection is a valid snapshot, not an error.
	Fetch(ctx context.Context) (*models.Snapshot, error)
	// Health reports whether the backend is reachable.
	Health(ctx context.Context) error
}

// ErrInvalidCollection means the backend answered with something that is
// not a record collection (null data, a scalar). It is distinct from an
// empty collection.
var ErrInvalidCollection = errors.New("payload is not a record collection")

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// DecodePayload decodes an upstream body. A {"success": true, "data": X}
// envelope is unwrapped to X; an envelope without data is an invalid
// collection. Any other body is itself the payload.
// The payload may be an array of records or a single record object.
func DecodePayload(body []byte) ([]models.RawRecord, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrInvalidCollection)
	}

	if body[0] == '{' {
		var env envelope
		if err := json.Unmarshal(body, &env); err == nil && env.Success != nil {
			if !*env.Success {
				reason := env.Error
				if reason == "" {
					reason = env.Message
				}
				return nil, fmt.Errorf("upstream reported failure: %s", reason)
			}
			if env.Data == nil {
				return nil, fmt.Errorf("%w: envelope without data", ErrInvalidCollection)
			}
			body = bytes.TrimSpace(env.Data)
		}
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	switch payload.(type) {
	case []any, map[string]any:
		return matcher.ToRawRecords(payload), nil
	case nil:
		return nil, fmt.Errorf("%w: null", ErrInvalidCollection)
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidCollection, payload)
	}
}

// DecodeRecord decodes one stored record document. Documents that are not
// JSON objects become empty records so one bad row cannot hide the rest.
func DecodeRecord(doc []byte) models.RawRecord {
	var rec map[string]any
	if err := json.Unmarshal(doc, &rec); err != nil || rec == nil {
		return models.RawRecord{}
	}
	return rec
}

// NewSnapshot stamps records with the backend name and fetch time.
func NewSnapshot(name string, records []models.RawRecord, fetchedAt time.Time) *models.Snapshot {
	if records == nil {
		records = []models.RawRecord{}
	}
	return &models.Snapshot{Records: records, Source: name, FetchedAt: fetchedAt}
}
