// Package audit records one row per dataset import: where it came
// from, how big it was, and the data-quality counters the pipeline
// reported. The core treats unmatched keys and bad tallies as expected
// data, so this log is the only place drops become visible.
package audit

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Import struct {
	ID              string `json:"id"`
	Source          string `json:"source"` // "upload", "boot", "cli"
	QuestionRows    int    `json:"question_rows"`
	BallotRows      int    `json:"ballot_rows"`
	AnswerRows      int    `json:"answer_rows"`
	MergedRows      int    `json:"merged_rows"`
	DroppedBallots  int    `json:"dropped_ballots"`
	TallyMismatches int    `json:"tally_mismatches"`
	CreatedAt       int64  `json:"created_at"`
}

type Log struct{ db *sql.DB }

func NewLog(db *sql.DB) *Log { return &Log{db: db} }

// Record appends an import row, assigning an ID when the caller left
// it empty, and returns the stored record.
func (l *Log) Record(ctx context.Context, imp Import) (Import, error) {
	if imp.ID == "" {
		imp.ID = uuid.NewString()
	}
	if imp.CreatedAt == 0 {
		imp.CreatedAt = time.Now().Unix()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO imports (id, source, question_rows, ballot_rows, answer_rows, merged_rows, dropped_ballots, tally_mismatches, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		imp.ID, imp.Source, imp.QuestionRows, imp.BallotRows, imp.AnswerRows,
		imp.MergedRows, imp.DroppedBallots, imp.TallyMismatches, imp.CreatedAt)
	return imp, err
}

// Recent lists the newest imports first.
func (l *Log) Recent(ctx context.Context, limit int) ([]Import, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, source, question_rows, ballot_rows, answer_rows, merged_rows, dropped_ballots, tally_mismatches, created_at
		 FROM imports ORDER BY created_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Import
	for rows.Next() {
		var imp Import
		if err := rows.Scan(&imp.ID, &imp.Source, &imp.QuestionRows, &imp.BallotRows,
			&imp.AnswerRows, &imp.MergedRows, &imp.DroppedBallots, &imp.TallyMismatches, &imp.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, imp)
	}
	return out, rows.Err()
}
