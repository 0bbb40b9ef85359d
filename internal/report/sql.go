package report

import (
	"context"
	"database/sql"

	"github.com/quizsight/quizsight/internal/insight"
)

// SQLSink writes every ranked entry into insight_entries, keyed by the
// import that produced it. Re-running an import replaces its rows.
type SQLSink struct{ db *sql.DB }

func NewSQLSink(db *sql.DB) *SQLSink { return &SQLSink{db: db} }

func (s *SQLSink) Write(ctx context.Context, importID string, rep insight.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM insight_entries WHERE import_id=$1`, importID); err != nil {
		return err
	}
	const ins = `INSERT INTO insight_entries (import_id, metric, rank, key, value, at)
	             VALUES ($1,$2,$3,$4,$5,$6)`
	for _, sec := range rep.Sections() {
		for i, e := range sec.Entries {
			if _, err := tx.ExecContext(ctx, ins, importID, sec.Name, i+1, e.Key, e.Value, nil); err != nil {
				return err
			}
		}
		for i, e := range sec.TimeEntries {
			var at any
			if !e.At.IsZero() {
				at = e.At.Unix()
			}
			if _, err := tx.ExecContext(ctx, ins, importID, sec.Name, i+1, e.Key, nil, at); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}
