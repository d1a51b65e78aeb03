// Package sqlite reads holder records from a local SQLite file, for
// deployments that run without network access to the register.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"shareholder/internal/holdings/source/sqldb"
)

const Name = "sqlite"

var Dialect = sqldb.Dialect{
	Name: Name,
	Schema: `CREATE TABLE IF NOT EXISTS holder_records (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	payload TEXT NOT NULL
)`,
	Select: `SELECT payload FROM holder_records ORDER BY id`,
	Count:  `SELECT COUNT(*) FROM holder_records`,
	Insert: `INSERT INTO holder_records (payload) VALUES (?)`,
}

// Open opens (creating if needed) the SQLite file at path and ensures the
// schema exists.
func Open(ctx context.Context, path string) (*sqldb.Source, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	src := sqldb.New(db, Dialect)
	if err := src.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return src, nil
}
