package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/quizsight/quizsight/internal/insight"
	"github.com/quizsight/quizsight/internal/storage"
)

// CSVSink writes one file per ranked metric into the blob store, the
// same shape the legacy pipeline exported as Top_N_*.xlsx files.
type CSVSink struct {
	store storage.BlobStore
}

func NewCSVSink(store storage.BlobStore) *CSVSink { return &CSVSink{store: store} }

func (s *CSVSink) Write(ctx context.Context, importID string, rep insight.Report) error {
	for _, sec := range rep.Sections() {
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write([]string{"key", sec.ValueHeader}); err != nil {
			return err
		}
		for _, e := range sec.Entries {
			if err := w.Write([]string{e.Key, strconv.FormatFloat(e.Value, 'f', -1, 64)}); err != nil {
				return err
			}
		}
		for _, e := range sec.TimeEntries {
			at := ""
			if !e.At.IsZero() {
				at = e.At.Format(time.RFC3339)
			}
			if err := w.Write([]string{e.Key, at}); err != nil {
				return err
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
		key := fmt.Sprintf("%s/top_%d_%s.csv", importID, rep.Limit, sec.Name)
		if _, err := s.store.Put(key, &buf); err != nil {
			return fmt.Errorf("export %s: %w", sec.Name, err)
		}
	}
	return nil
}
