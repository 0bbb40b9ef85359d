package http

import (
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/quizsight/quizsight/internal/audit"
	"github.com/quizsight/quizsight/internal/ingest"
	"github.com/quizsight/quizsight/internal/pipeline"
	"github.com/quizsight/quizsight/internal/poll"
)

const maxUploadBytes = 32 << 20

// POST /datasets — multipart upload with parts "questions", "ballots"
// and "answers" (xlsx or csv each). Runs the pipeline and swaps the
// served snapshot. Schema violations come back as 400 with the table
// and column named; everything else malformed is absorbed as missing
// data per the pipeline's contract.
func UploadDatasetHandler(snaps *Snapshots, reference time.Time, alog *audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}

		var tables pipeline.Tables
		var err error
		tables.Questions, err = readPart(r, "questions", ingest.ReadQuestions)
		if err == nil {
			tables.Ballots, err = readPart(r, "ballots", ingest.ReadBallots)
		}
		if err == nil {
			tables.Answers, err = readPart(r, "answers", ingest.ReadAnswerKey)
		}
		if err != nil {
			var missing *poll.MissingColumnError
			if errors.As(err, &missing) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "decode upload: "+err.Error(), http.StatusBadRequest)
			return
		}

		res := pipeline.Run(reference, tables)
		imp := audit.Import{
			Source:          "upload",
			QuestionRows:    len(tables.Questions),
			BallotRows:      len(tables.Ballots),
			AnswerRows:      len(tables.Answers),
			MergedRows:      len(res.Merged),
			DroppedBallots:  res.DroppedBallots,
			TallyMismatches: res.TallyMismatches,
		}
		if alog != nil {
			if imp, err = alog.Record(r.Context(), imp); err != nil {
				http.Error(w, "record import: "+err.Error(), http.StatusInternalServerError)
				return
			}
		}
		snaps.Set(&Snapshot{Result: res, ImportID: imp.ID, LoadedAt: time.Now()})
		log.Printf("dataset imported: id=%s merged=%d dropped=%d mismatches=%d",
			imp.ID, imp.MergedRows, imp.DroppedBallots, imp.TallyMismatches)

		w.WriteHeader(http.StatusCreated)
		writeJSON(w, imp)
	}
}

func readPart[T any](r *http.Request, field string, read func(string, io.Reader) ([]T, error)) ([]T, error) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return nil, errors.New("missing file part " + field)
	}
	defer f.Close()
	return read(hdr.Filename, f)
}

// GET /imports — recent import audit entries.
func ListImportsHandler(alog *audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntDefault(r.URL.Query().Get("limit"), 20)
		out, err := alog.Recent(r.Context(), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, out)
	}
}
