// Package postgres reads holder records from a PostgreSQL table through the
// pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"shareholder/internal/holdings/source/sqldb"
)

const Name = "postgres"

var Dialect = sqldb.Dialect{
	Name: Name,
	Schema: `CREATE TABLE IF NOT EXISTS holder_records (
	id      BIGSERIAL PRIMARY KEY,
	payload JSONB NOT NULL
)`,
	Select: `SELECT payload FROM holder_records ORDER BY id`,
	Count:  `SELECT COUNT(*) FROM holder_records`,
	Insert: `INSERT INTO holder_records (payload) VALUES ($1::jsonb)`,
}

// Open connects to url, verifies the connection and ensures the schema.
func Open(ctx context.Context, url string, maxConns int) (*sqldb.Source, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(maxConns)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	src := sqldb.New(db, Dialect)
	if err := src.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return src, nil
}
