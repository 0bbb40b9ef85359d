package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/quizsight/quizsight/internal/insight"
	"github.com/quizsight/quizsight/internal/report"
	"github.com/quizsight/quizsight/internal/storage"
)

// POST /reports/export?limit=N — recompute at N and push through every
// configured sink. Responds with the blob keys written.
func ExportReportHandler(snaps *Snapshots, defaultLimit int, bs storage.BlobStore, sinks ...report.Sink) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := snaps.Get()
		if snap == nil {
			http.Error(w, "no dataset loaded", http.StatusConflict)
			return
		}
		limit := parseIntDefault(r.URL.Query().Get("limit"), defaultLimit)
		rep := insight.NewEngine(snap.Result.Merged, limit).Compute()
		for _, s := range sinks {
			if err := s.Write(r.Context(), snap.ImportID, rep); err != nil {
				http.Error(w, "export: "+err.Error(), http.StatusInternalServerError)
				return
			}
		}
		keys, err := bs.List(snap.ImportID + "/")
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{"import_id": snap.ImportID, "files": keys})
	}
}

// GET /reports/* — stream an exported file back.
func GetReportFileHandler(bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/reports/")
		if key == "" || strings.Contains(key, "..") {
			http.Error(w, "bad key", http.StatusBadRequest)
			return
		}
		f, err := bs.Get(key)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		w.Header().Set("Content-Type", "text/csv")
		_, _ = io.Copy(w, f)
	}
}
