package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	api "github.com/quizsight/quizsight/internal/api/http"
	"github.com/quizsight/quizsight/internal/audit"
	auth "github.com/quizsight/quizsight/internal/auth/middleware"
	"github.com/quizsight/quizsight/internal/config"
	"github.com/quizsight/quizsight/internal/db"
	"github.com/quizsight/quizsight/internal/ingest"
	"github.com/quizsight/quizsight/internal/pipeline"
	"github.com/quizsight/quizsight/internal/rbac"
	"github.com/quizsight/quizsight/internal/report"
	"github.com/quizsight/quizsight/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	alog := audit.NewLog(dbh)

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	authSvc := auth.NewAuthService(cfg.AuthSecret)
	accounts := []auth.Account{
		{Username: cfg.AdminUser, PassHash: cfg.AdminPassHash, Role: "admin"},
		{Username: cfg.ViewerUser, PassHash: cfg.ViewerPassHash, Role: "viewer"},
	}

	snaps := &api.Snapshots{}
	if cfg.QuestionsPath != "" {
		if err := loadBootDataset(ctx, cfg, snaps, alog); err != nil {
			log.Fatalf("boot dataset: %v", err)
		}
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, accounts))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("insights:view")).
			Get("/insights", api.GetReportHandler(snaps, cfg.TopN))
		pr.With(rbac.Require("insights:view")).
			Get("/insights/{metric}", api.GetMetricHandler(snaps, cfg.TopN))
		pr.With(rbac.Require("insights:view")).
			Get("/tallies", api.GetTalliesHandler(snaps))

		pr.With(rbac.Require("datasets:upload")).
			Post("/datasets", api.UploadDatasetHandler(snaps, cfg.ReferenceNow, alog))
		pr.With(rbac.Require("datasets:upload")).
			Get("/imports", api.ListImportsHandler(alog))

		pr.With(rbac.Require("reports:export")).
			Post("/reports/export", api.ExportReportHandler(snaps, cfg.TopN, bs,
				report.NewCSVSink(bs), report.NewSQLSink(dbh)))
		pr.With(rbac.Require("insights:view")).
			Get("/reports/*", api.GetReportFileHandler(bs))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	log.Printf("listening on %s (db=%s, top_n=%d)", cfg.HTTPAddr, cfg.DBDriver, cfg.TopN)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

// loadBootDataset ingests the dataset named by QUESTIONS_PATH /
// BALLOTS_PATH / ANSWERS_PATH so the dashboard serves data before the
// first upload.
func loadBootDataset(ctx context.Context, cfg config.Config, snaps *api.Snapshots, alog *audit.Log) error {
	var tables pipeline.Tables

	if err := readFile(cfg.QuestionsPath, &tables.Questions, ingest.ReadQuestions); err != nil {
		return err
	}
	if err := readFile(cfg.BallotsPath, &tables.Ballots, ingest.ReadBallots); err != nil {
		return err
	}
	if err := readFile(cfg.AnswersPath, &tables.Answers, ingest.ReadAnswerKey); err != nil {
		return err
	}

	res := pipeline.Run(cfg.ReferenceNow, tables)
	imp, err := alog.Record(ctx, audit.Import{
		Source:          "boot",
		QuestionRows:    len(tables.Questions),
		BallotRows:      len(tables.Ballots),
		AnswerRows:      len(tables.Answers),
		MergedRows:      len(res.Merged),
		DroppedBallots:  res.DroppedBallots,
		TallyMismatches: res.TallyMismatches,
	})
	if err != nil {
		return err
	}
	snaps.Set(&api.Snapshot{Result: res, ImportID: imp.ID, LoadedAt: time.Now()})
	log.Printf("boot dataset loaded: id=%s merged=%d dropped=%d mismatches=%d",
		imp.ID, imp.MergedRows, imp.DroppedBallots, imp.TallyMismatches)
	return nil
}

func readFile[T any](path string, dst *[]T, read func(string, io.Reader) ([]T, error)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	rows, err := read(path, f)
	if err != nil {
		return err
	}
	*dst = rows
	return nil
}
