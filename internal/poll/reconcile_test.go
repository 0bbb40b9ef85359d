package poll

import "testing"

func TestParseTally(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"42", 42, true},
		{"42 votes", 42, true},
		{" 7 votes ", 7, true},
		{"0", 0, true},
		{"votes 42", 0, false},
		{"", 0, false},
		{"n/a", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseTally(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("ParseTally(%q) = (%d, %v), want (%d, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestReconcileRecountsFromBallots(t *testing.T) {
	rows := []QuestionRow{
		{QuestionText: "Q1", AnswerText: "A", VoteTally: "99 votes"}, // stale
		{QuestionText: "Q1", AnswerText: "B", VoteTally: "junk"},
		{QuestionText: "Q2", AnswerText: "Yes", VoteTally: "1"},
	}
	ballots := []Ballot{
		{Voter: "v1", QuestionText: "Q1", Choice: "A"},
		{Voter: "v2", QuestionText: "Q1", Choice: "A"},
		{Voter: "v3", QuestionText: "Q1", Choice: "B"},
		{Voter: "v1", QuestionText: "Q2", Choice: "No"}, // choice not in question table
	}

	tallies := Reconcile(rows, ballots)
	want := []ChoiceTally{
		{"Q1", "A", 2},
		{"Q1", "B", 1},
		{"Q2", "Yes", 0},
	}
	if len(tallies) != len(want) {
		t.Fatalf("got %d tallies, want %d", len(tallies), len(want))
	}
	for i, w := range want {
		if tallies[i] != w {
			t.Errorf("tally[%d] = %+v, want %+v", i, tallies[i], w)
		}
	}

	// The raw table must be untouched.
	if rows[0].VoteTally != "99 votes" {
		t.Errorf("Reconcile mutated its input: %+v", rows[0])
	}
}

func TestReconcileCountMatchesBallotRows(t *testing.T) {
	rows := []QuestionRow{
		{QuestionText: "Q", AnswerText: "A"},
		{QuestionText: "Q", AnswerText: "B"},
	}
	ballots := make([]Ballot, 0, 30)
	for i := 0; i < 30; i++ {
		choice := "A"
		if i%3 == 0 {
			choice = "B"
		}
		ballots = append(ballots, Ballot{Voter: "v", QuestionText: "Q", Choice: choice})
	}

	for _, tl := range Reconcile(rows, ballots) {
		n := 0
		for _, b := range ballots {
			if b.QuestionText == tl.QuestionText && b.Choice == tl.Choice {
				n++
			}
		}
		if tl.Votes != n {
			t.Errorf("tally(%s,%s) = %d, want %d", tl.QuestionText, tl.Choice, tl.Votes, n)
		}
	}
}

func TestTallyMismatches(t *testing.T) {
	rows := []QuestionRow{
		{QuestionText: "Q1", AnswerText: "A", VoteTally: "2 votes"}, // agrees
		{QuestionText: "Q1", AnswerText: "B", VoteTally: "5"},       // disagrees
		{QuestionText: "Q2", AnswerText: "C", VoteTally: "huh"},     // unparseable
	}
	ballots := []Ballot{
		{QuestionText: "Q1", Choice: "A"},
		{QuestionText: "Q1", Choice: "A"},
		{QuestionText: "Q1", Choice: "B"},
	}
	tallies := Reconcile(rows, ballots)
	if got := TallyMismatches(rows, tallies); got != 2 {
		t.Errorf("TallyMismatches = %d, want 2", got)
	}
}
