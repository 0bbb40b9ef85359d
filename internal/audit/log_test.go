package audit

import (
	"context"
	"testing"

	"github.com/quizsight/quizsight/internal/db"
)

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:audit_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer dbh.Close()

	log := NewLog(dbh)
	first, err := log.Record(ctx, Import{
		Source:          "upload",
		QuestionRows:    4,
		BallotRows:      10,
		AnswerRows:      2,
		MergedRows:      8,
		DroppedBallots:  2,
		TallyMismatches: 1,
		CreatedAt:       100,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if first.ID == "" {
		t.Fatalf("ID must be assigned")
	}
	if _, err := log.Record(ctx, Import{ID: "imp-2", Source: "cli", CreatedAt: 200}); err != nil {
		t.Fatalf("record second: %v", err)
	}

	got, err := log.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d imports, want 2", len(got))
	}
	if got[0].ID != "imp-2" {
		t.Errorf("newest first, got %+v", got)
	}
	if got[1].DroppedBallots != 2 || got[1].TallyMismatches != 1 {
		t.Errorf("counters lost: %+v", got[1])
	}
}
