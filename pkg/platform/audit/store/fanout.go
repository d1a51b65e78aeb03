package store

import (
	"context"
	"errors"

	audit "shareholder/pkg/platform/audit"
)

// Fanout appends each event to every store, collecting all failures.
type Fanout []audit.Store

func (f Fanout) Append(ctx context.Context, event audit.Event) error {
	var errs []error
	for _, s := range f {
		if s == nil {
			continue
		}
		if err := s.Append(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
