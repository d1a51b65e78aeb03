// Package sqldb reads holder records from a SQL table in which each row
// stores one raw record as a JSON document. The postgres and sqlite
// packages open the database and supply their dialect.
package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"shareholder/internal/holdings/models"
	"shareholder/internal/holdings/source"
	"shareholder/pkg/platform/tx"
)

// Dialect holds the statements that differ between databases.
type Dialect struct {
	Name   string
	Schema string
	Select string
	Count  string
	Insert string
}

type Source struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

func New(db *sql.DB, dialect Dialect) *Source {
	return &Source{db: db, dialect: dialect, now: time.Now}
}

func (s *Source) Name() string { return s.dialect.Name }

// EnsureSchema creates the record table if it does not exist.
func (s *Source) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.Schema); err != nil {
		return fmt.Errorf("create %s schema: %w", s.dialect.Name, err)
	}
	return nil
}

func (s *Source) Fetch(ctx context.Context) (*models.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.Select)
	if err != nil {
		return nil, source.NewSourceError(source.ErrorProviderOutage, s.dialect.Name, "query records", err)
	}
	defer rows.Close()

	records := []models.RawRecord{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, source.NewSourceError(source.ErrorBadData, s.dialect.Name, "scan record", err)
		}
		records = append(records, source.DecodeRecord(payload))
	}
	if err := rows.Err(); err != nil {
		return nil, source.NewSourceError(source.ErrorProviderOutage, s.dialect.Name, "iterate records", err)
	}
	return source.NewSnapshot(s.dialect.Name, records, s.now()), nil
}

func (s *Source) Health(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return source.NewSourceError(source.ErrorProviderOutage, s.dialect.Name, "ping", err)
	}
	return nil
}

// Insert appends records in order. It joins the transaction carried by ctx
// when there is one, otherwise it runs in its own.
func (s *Source) Insert(ctx context.Context, records ...models.RawRecord) error {
	return tx.Run(ctx, s.db, func(ctx context.Context, sqlTx *sql.Tx) error {
		return s.insert(ctx, sqlTx, records)
	})
}

// Seed inserts records into an empty table and reports how many rows it
// wrote. A table that already holds rows is left untouched.
func (s *Source) Seed(ctx context.Context, records []models.RawRecord) (int, error) {
	written := 0
	err := tx.Run(ctx, s.db, func(ctx context.Context, sqlTx *sql.Tx) error {
		var n int
		if err := sqlTx.QueryRowContext(ctx, s.dialect.Count).Scan(&n); err != nil {
			return fmt.Errorf("count records: %w", err)
		}
		if n > 0 {
			return nil
		}
		if err := s.insert(ctx, sqlTx, records); err != nil {
			return err
		}
		written = len(records)
		return nil
	})
	return written, err
}

func (s *Source) insert(ctx context.Context, sqlTx *sql.Tx, records []models.RawRecord) error {
	stmt, err := sqlTx.PrepareContext(ctx, s.dialect.Insert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, string(payload)); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}
	return nil
}

// DB exposes the handle to tests that need raw rows or their own
// transaction.
func (s *Source) DB() *sql.DB { return s.db }

func (s *Source) Close() error {
	return s.db.Close()
}
