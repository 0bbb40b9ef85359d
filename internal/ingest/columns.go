// Package ingest decodes the three poll export tables from csv or xlsx
// into raw rows. Column mapping is header-driven and tolerant of the
// legacy export's column names (que_text, ans_text, que_created_at); a
// genuinely missing column is the pipeline's one hard failure.
package ingest

import (
	"strings"

	"github.com/quizsight/quizsight/internal/poll"
)

// Legacy spreadsheet headers mapped to the canonical schema names.
var aliases = map[string]string{
	"que_text":       "question_text",
	"ans_text":       "answer_text",
	"que_created_at": "created_at",
	"votes":          "vote_tally",
	"correct_answer": "correct_choice",
}

type columns struct {
	table string
	index map[string]int
}

func mapHeader(table string, header []string) columns {
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := aliases[name]; ok {
			name = canonical
		}
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	return columns{table: table, index: index}
}

func (c columns) require(names ...string) error {
	for _, n := range names {
		if _, ok := c.index[n]; !ok {
			return &poll.MissingColumnError{Table: c.table, Column: n}
		}
	}
	return nil
}

// get returns the trimmed cell for a column, empty when the row is
// short. Optional columns simply come back empty.
func (c columns) get(row []string, name string) string {
	i, ok := c.index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func questionRows(table string, rows [][]string) ([]poll.QuestionRow, error) {
	if len(rows) == 0 {
		return nil, &poll.MissingColumnError{Table: table, Column: "question_text"}
	}
	cols := mapHeader(table, rows[0])
	if err := cols.require("question_text", "created_at", "answer_text"); err != nil {
		return nil, err
	}
	out := make([]poll.QuestionRow, 0, len(rows)-1)
	for _, r := range rows[1:] {
		out = append(out, poll.QuestionRow{
			QuestionText: cols.get(r, "question_text"),
			CreatedAt:    cols.get(r, "created_at"),
			AnswerText:   cols.get(r, "answer_text"),
			VoteTally:    cols.get(r, "vote_tally"),
		})
	}
	return out, nil
}

func ballotRows(table string, rows [][]string) ([]poll.BallotRow, error) {
	if len(rows) == 0 {
		return nil, &poll.MissingColumnError{Table: table, Column: "voter_name"}
	}
	cols := mapHeader(table, rows[0])
	if err := cols.require("voter_name", "question_text", "choice", "voting_time"); err != nil {
		return nil, err
	}
	out := make([]poll.BallotRow, 0, len(rows)-1)
	for _, r := range rows[1:] {
		out = append(out, poll.BallotRow{
			VoterName:    cols.get(r, "voter_name"),
			QuestionText: cols.get(r, "question_text"),
			Choice:       cols.get(r, "choice"),
			VoteCount:    cols.get(r, "vote_count"),
			VotingTime:   cols.get(r, "voting_time"),
		})
	}
	return out, nil
}

func answerKeyRows(table string, rows [][]string) ([]poll.AnswerKeyRow, error) {
	if len(rows) == 0 {
		return nil, &poll.MissingColumnError{Table: table, Column: "question_text"}
	}
	cols := mapHeader(table, rows[0])
	if err := cols.require("question_text", "correct_choice"); err != nil {
		return nil, err
	}
	out := make([]poll.AnswerKeyRow, 0, len(rows)-1)
	for _, r := range rows[1:] {
		out = append(out, poll.AnswerKeyRow{
			QuestionText:  cols.get(r, "question_text"),
			CorrectChoice: cols.get(r, "correct_choice"),
		})
	}
	return out, nil
}
