// Package store caches the most recent record snapshot so that every
// search does not hit the record source.
package store

import (
	"context"

	"shareholder/internal/holdings/models"
	"shareholder/pkg/platform/sentinel"
)

// ErrNotFound is returned when no unexpired snapshot is cached.
var ErrNotFound = sentinel.ErrNotFound

// NopCache never holds anything. Used when caching is disabled.
type NopCache struct{}

func (NopCache) Get(context.Context) (*models.Snapshot, error) { return nil, ErrNotFound }

func (NopCache) Put(context.Context, *models.Snapshot) error { return nil }
