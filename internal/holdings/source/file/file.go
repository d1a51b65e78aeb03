// Package file reads holder records from a JSON document on disk, in the
// same shape the register's HTTP API returns.
package file

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"shareholder/internal/holdings/models"
	"shareholder/internal/holdings/source"
)

const Name = "file"

type Source struct {
	path string
	now  func() time.Time
}

func New(path string) *Source {
	return &Source{path: path, now: time.Now}
}

func (s *Source) Name() string { return Name }

func (s *Source) Fetch(ctx context.Context) (*models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	body, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, source.NewSourceError(source.ErrorNotFound, Name, "record file missing", err)
		}
		return nil, source.NewSourceError(source.ErrorInternal, Name, "read record file", err)
	}
	records, err := source.DecodePayload(body)
	if err != nil {
		return nil, source.Classify(Name, err)
	}
	return source.NewSnapshot(Name, records, s.now()), nil
}

func (s *Source) Health(_ context.Context) error {
	info, err := os.Stat(s.path)
	if err != nil {
		return source.NewSourceError(source.ErrorNotFound, Name, "record file missing", err)
	}
	if info.IsDir() {
		return source.NewSourceError(source.ErrorBadData, Name, "record path is a directory", nil)
	}
	return nil
}
