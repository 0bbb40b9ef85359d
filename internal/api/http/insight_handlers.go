package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/quizsight/quizsight/internal/insight"
)

// GET /insights?limit=N
func GetReportHandler(snaps *Snapshots, defaultLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := snaps.Get()
		if snap == nil {
			http.Error(w, "no dataset loaded", http.StatusConflict)
			return
		}
		limit := parseIntDefault(r.URL.Query().Get("limit"), defaultLimit)
		eng := insight.NewEngine(snap.Result.Merged, limit)
		writeJSON(w, eng.Compute())
	}
}

// GET /insights/{metric}?limit=N
func GetMetricHandler(snaps *Snapshots, defaultLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := snaps.Get()
		if snap == nil {
			http.Error(w, "no dataset loaded", http.StatusConflict)
			return
		}
		name := strings.TrimSpace(chi.URLParam(r, "metric"))
		limit := parseIntDefault(r.URL.Query().Get("limit"), defaultLimit)
		eng := insight.NewEngine(snap.Result.Merged, limit)
		out, ok := eng.Metric(name)
		if !ok {
			http.Error(w, "unknown metric: "+name, http.StatusNotFound)
			return
		}
		writeJSON(w, map[string]any{"metric": name, "limit": limit, "entries": out})
	}
}

// GET /tallies — the reconciled per-(question, choice) vote counts.
func GetTalliesHandler(snaps *Snapshots) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := snaps.Get()
		if snap == nil {
			http.Error(w, "no dataset loaded", http.StatusConflict)
			return
		}
		writeJSON(w, snap.Result.Tallies)
	}
}
