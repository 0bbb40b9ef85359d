package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/quizsight/quizsight/internal/poll"
)

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // exports often have ragged trailing cells
	return cr.ReadAll()
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// readTable picks the decoder by file extension: .xlsx workbooks go
// through excelize, everything else is treated as csv.
func readTable(name string, r io.Reader) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return readXLSX(r)
	}
	return readCSV(r)
}

func ReadQuestions(name string, r io.Reader) ([]poll.QuestionRow, error) {
	rows, err := readTable(name, r)
	if err != nil {
		return nil, fmt.Errorf("questions: %w", err)
	}
	return questionRows("questions", rows)
}

func ReadBallots(name string, r io.Reader) ([]poll.BallotRow, error) {
	rows, err := readTable(name, r)
	if err != nil {
		return nil, fmt.Errorf("ballots: %w", err)
	}
	return ballotRows("ballots", rows)
}

func ReadAnswerKey(name string, r io.Reader) ([]poll.AnswerKeyRow, error) {
	rows, err := readTable(name, r)
	if err != nil {
		return nil, fmt.Errorf("answers: %w", err)
	}
	return answerKeyRows("answers", rows)
}
