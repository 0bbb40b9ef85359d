package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:quizsight.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/quizsight?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS imports (
  id TEXT PRIMARY KEY,
  source TEXT NOT NULL,
  question_rows INTEGER NOT NULL,
  ballot_rows INTEGER NOT NULL,
  answer_rows INTEGER NOT NULL,
  merged_rows INTEGER NOT NULL,
  dropped_ballots INTEGER NOT NULL DEFAULT 0,
  tally_mismatches INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS insight_entries (
  import_id TEXT NOT NULL REFERENCES imports(id) ON DELETE CASCADE,
  metric TEXT NOT NULL,
  rank INTEGER NOT NULL,
  key TEXT NOT NULL,
  value REAL,
  at INTEGER,
  PRIMARY KEY (import_id, metric, rank)
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS imports (
  id TEXT PRIMARY KEY,
  source TEXT NOT NULL,
  question_rows INTEGER NOT NULL,
  ballot_rows INTEGER NOT NULL,
  answer_rows INTEGER NOT NULL,
  merged_rows INTEGER NOT NULL,
  dropped_ballots INTEGER NOT NULL DEFAULT 0,
  tally_mismatches INTEGER NOT NULL DEFAULT 0,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS insight_entries (
  import_id TEXT NOT NULL REFERENCES imports(id) ON DELETE CASCADE,
  metric TEXT NOT NULL,
  rank INTEGER NOT NULL,
  key TEXT NOT NULL,
  value DOUBLE PRECISION,
  at BIGINT,
  PRIMARY KEY (import_id, metric, rank)
);
`
