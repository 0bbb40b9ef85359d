package insight

import (
	"math"
	"testing"
	"time"

	"github.com/quizsight/quizsight/internal/poll"
)

func ts(h, m int) poll.Timestamp {
	return poll.At(time.Date(2024, 10, 20, h, m, 0, 0, time.UTC))
}

func mb(voter, question, choice, correct string, latency time.Duration) poll.MergedBallot {
	return poll.MergedBallot{
		Voter:         voter,
		QuestionText:  question,
		Choice:        choice,
		CorrectChoice: correct,
		Latency:       latency,
		HasLatency:    true,
		Correct:       choice == correct,
	}
}

// End-to-end scenario: Q1 created 10:00, v1 answers A at 10:05, v2
// answers B at 10:02, correct answer is A.
func endToEndMerged() []poll.MergedBallot {
	questions := []poll.Question{{Text: "Q1", CreatedAt: ts(10, 0)}}
	ballots := []poll.Ballot{
		{Voter: "v1", QuestionText: "Q1", Choice: "A", VotingTime: ts(10, 5)},
		{Voter: "v2", QuestionText: "Q1", Choice: "B", VotingTime: ts(10, 2)},
	}
	answers := []poll.AnswerKeyRow{{QuestionText: "Q1", CorrectChoice: "A"}}
	return poll.Merge(questions, ballots, answers)
}

func TestGoodPerformersEndToEnd(t *testing.T) {
	e := NewEngine(endToEndMerged(), 2)
	got := e.GoodPerformers()
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].Key != "v1" || got[0].Value != 100 {
		t.Errorf("first = %+v, want (v1, 100)", got[0])
	}
	if got[1].Key != "v2" || got[1].Value != 0 {
		t.Errorf("second = %+v, want (v2, 0)", got[1])
	}
}

func TestEarlyBirdsEndToEnd(t *testing.T) {
	e := NewEngine(endToEndMerged(), 2)
	got := e.EarlyBirds()
	if len(got) == 0 || got[0].Key != "v2" || got[0].Value != 1 {
		t.Fatalf("early birds = %+v, want v2 credited (2m < 5m)", got)
	}
	for _, en := range got {
		if en.Key == "v1" {
			t.Errorf("v1 must not be credited for Q1")
		}
	}
}

func TestEarlyBirdsTieAndMissingLatency(t *testing.T) {
	merged := []poll.MergedBallot{
		mb("zoe", "Q1", "A", "A", time.Minute),
		mb("amy", "Q1", "B", "A", time.Minute),                                             // tie: lexicographically first wins
		{Voter: "eve", QuestionText: "Q1", Choice: "A", CorrectChoice: "A", Correct: true}, // no latency
		mb("eve", "Q2", "A", "A", 2*time.Minute),
	}
	got := NewEngine(merged, 5).EarlyBirds()
	want := map[string]float64{"amy": 1, "eve": 1}
	if len(got) != 2 {
		t.Fatalf("early birds = %+v, want amy and eve", got)
	}
	for _, en := range got {
		if want[en.Key] != en.Value {
			t.Errorf("entry %+v unexpected", en)
		}
	}
}

func TestActivityRanksAndLimit(t *testing.T) {
	var merged []poll.MergedBallot
	for i := 0; i < 5; i++ {
		merged = append(merged, mb("busy", "Q1", "A", "A", time.Minute))
	}
	merged = append(merged, mb("quiet", "Q1", "A", "A", time.Minute))
	merged = append(merged, mb("mid", "Q1", "A", "A", time.Minute), mb("mid", "Q2", "A", "A", time.Minute))

	e := NewEngine(merged, 2)
	most := e.MostActiveVoters()
	if len(most) != 2 || most[0].Key != "busy" || most[0].Value != 5 || most[1].Key != "mid" {
		t.Fatalf("most active = %+v", most)
	}
	least := e.LeastActiveVoters()
	if len(least) != 2 || least[0].Key != "quiet" || least[0].Value != 1 {
		t.Fatalf("least active = %+v", least)
	}
}

func TestRankDeterministicTieBreak(t *testing.T) {
	merged := []poll.MergedBallot{
		mb("carol", "Q1", "A", "A", time.Minute),
		mb("alice", "Q2", "A", "A", time.Minute),
		mb("bob", "Q3", "A", "A", time.Minute),
	}
	got := NewEngine(merged, 10).MostActiveVoters()
	for i, want := range []string{"alice", "bob", "carol"} {
		if got[i].Key != want {
			t.Fatalf("tie break not lexicographic: %+v", got)
		}
	}
}

func TestInactiveFollowers(t *testing.T) {
	merged := []poll.MergedBallot{
		{Voter: "old", QuestionText: "Q1", Choice: "A", VotingTime: ts(9, 0)},
		{Voter: "old", QuestionText: "Q2", Choice: "A", VotingTime: ts(10, 0)},
		{Voter: "recent", QuestionText: "Q1", Choice: "A", VotingTime: ts(12, 0)},
		{Voter: "ghost", QuestionText: "Q1", Choice: "A"}, // no valid timestamp at all
	}
	got := NewEngine(merged, 10).InactiveFollowers()
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	if got[0].Key != "ghost" || !got[0].At.IsZero() {
		t.Errorf("voter with only missing timestamps must sort oldest: %+v", got[0])
	}
	if got[1].Key != "old" || !got[1].At.Equal(ts(10, 0).Time) {
		t.Errorf("last-seen must be the max voting time: %+v", got[1])
	}
	if got[2].Key != "recent" {
		t.Errorf("ordering wrong: %+v", got)
	}
}

func TestAccuracyRounding(t *testing.T) {
	merged := []poll.MergedBallot{
		mb("v", "Q1", "A", "A", time.Minute),
		mb("v", "Q2", "A", "A", time.Minute),
		mb("v", "Q3", "B", "A", time.Minute),
	}
	got := NewEngine(merged, 1).GoodPerformers()
	if len(got) != 1 {
		t.Fatalf("got %+v", got)
	}
	if math.Abs(got[0].Value-66.6667) > 0.01 {
		t.Errorf("accuracy = %f, want ~66.67", got[0].Value)
	}
	if got[0].Value < 0 || got[0].Value > 100 {
		t.Errorf("accuracy out of range: %f", got[0].Value)
	}
}

func TestEasyQuestionsExactFilter(t *testing.T) {
	var merged []poll.MergedBallot
	// ten ballots, one incorrect: 90% correct is not easy
	for i := 0; i < 9; i++ {
		merged = append(merged, mb("v", "Q90", "A", "A", time.Minute))
	}
	merged = append(merged, mb("v", "Q90", "B", "A", time.Minute))
	merged = append(merged, mb("v", "Q100", "A", "A", time.Minute))

	got := NewEngine(merged, 10).EasyQuestions()
	if len(got) != 1 || got[0].Key != "Q100" || got[0].Value != 1 {
		t.Fatalf("easy questions = %+v, want only Q100", got)
	}
}

func TestLatencyMetricsAndNegativePropagation(t *testing.T) {
	merged := []poll.MergedBallot{
		mb("v1", "Qfast", "A", "A", -2*time.Minute), // data-quality artifact, retained
		mb("v2", "Qfast", "A", "A", 10*time.Minute),
		mb("v1", "Qslow", "A", "A", time.Hour),
		{Voter: "v3", QuestionText: "Qnolat", Choice: "A", CorrectChoice: "A", Correct: true},
	}
	e := NewEngine(merged, 10)

	fast := e.FastRespondedQuestions()
	if len(fast) != 2 {
		t.Fatalf("questions without any defined latency must be excluded: %+v", fast)
	}
	if fast[0].Key != "Qfast" || fast[0].Value != (-2*time.Minute).Seconds() {
		t.Errorf("negative latency must win the minimum: %+v", fast[0])
	}

	slow := e.SlowRespondedQuestions()
	if slow[0].Key != "Qslow" || slow[0].Value != time.Hour.Seconds() {
		t.Errorf("slowest = %+v, want Qslow at 3600s", slow[0])
	}
	// Qfast's maximum is its 10m row, not the negative one.
	if slow[1].Key != "Qfast" || slow[1].Value != (10*time.Minute).Seconds() {
		t.Errorf("Qfast max = %+v", slow[1])
	}
}

func TestDifficultQuestions(t *testing.T) {
	merged := []poll.MergedBallot{
		mb("v1", "Qpop", "A", "A", time.Minute),
		mb("v2", "Qpop", "A", "A", time.Minute),
		mb("v1", "Qrare", "A", "A", time.Minute),
	}
	got := NewEngine(merged, 10).DifficultQuestions()
	if got[0].Key != "Qrare" || got[0].Value != 1 {
		t.Fatalf("difficult = %+v, want Qrare first", got)
	}
}

func TestChallengingQuestions(t *testing.T) {
	merged := []poll.MergedBallot{
		mb("v1", "Qhard", "B", "A", time.Minute),
		mb("v2", "Qhard", "B", "A", time.Minute),
		mb("v3", "Qhard", "A", "A", time.Minute),
		mb("v1", "Qok", "A", "A", time.Minute),
	}
	got := NewEngine(merged, 10).ChallengingQuestions()
	if got[0].Key != "Qhard" || math.Abs(got[0].Value-2.0/3.0) > 1e-9 {
		t.Fatalf("challenging = %+v", got)
	}
}

func TestEmptyInputs(t *testing.T) {
	e := NewEngine(nil, 5)
	if got := e.MostActiveVoters(); len(got) != 0 {
		t.Errorf("most active on empty = %+v", got)
	}
	if got := e.EarlyBirds(); len(got) != 0 {
		t.Errorf("early birds on empty = %+v", got)
	}
	if got := e.InactiveFollowers(); len(got) != 0 {
		t.Errorf("inactive on empty = %+v", got)
	}
	if got := e.LatencyHistogram(10); got != nil {
		t.Errorf("histogram on empty = %+v", got)
	}
	if s := e.Summary(); s.TotalBallots != 0 || s.AverageAccuracy != 0 {
		t.Errorf("summary on empty = %+v", s)
	}
}

func TestEveryMetricHonorsLimitAndOrder(t *testing.T) {
	var merged []poll.MergedBallot
	voters := []string{"a", "b", "c", "d", "e", "f", "g"}
	for i, v := range voters {
		for j := 0; j <= i; j++ {
			q := "Q" + voters[j]
			merged = append(merged, mb(v, q, "A", "A", time.Duration(i+j+1)*time.Minute))
		}
	}
	const n = 3
	e := NewEngine(merged, n)
	rep := e.Compute()

	check := func(name string, entries []Entry, descending bool) {
		t.Helper()
		if len(entries) > n {
			t.Errorf("%s: %d entries, limit %d", name, len(entries), n)
		}
		for i := 1; i < len(entries); i++ {
			if descending && entries[i].Value > entries[i-1].Value {
				t.Errorf("%s: not descending at %d: %+v", name, i, entries)
			}
			if !descending && entries[i].Value < entries[i-1].Value {
				t.Errorf("%s: not ascending at %d: %+v", name, i, entries)
			}
		}
	}
	check("most_active_voters", rep.MostActiveVoters, true)
	check("least_active_voters", rep.LeastActiveVoters, false)
	check("early_birds", rep.EarlyBirds, true)
	check("good_performers", rep.GoodPerformers, true)
	check("challenging_questions", rep.ChallengingQuestions, true)
	check("difficult_questions", rep.DifficultQuestions, false)
	check("fast_responded_questions", rep.FastRespondedQuestions, false)
	check("slow_responded_questions", rep.SlowRespondedQuestions, true)
	if len(rep.EasyQuestions) > n || len(rep.InactiveFollowers) > n {
		t.Errorf("easy/inactive exceed limit")
	}
	for i := 1; i < len(rep.InactiveFollowers); i++ {
		if rep.InactiveFollowers[i].At.Before(rep.InactiveFollowers[i-1].At) {
			t.Errorf("inactive followers not ascending: %+v", rep.InactiveFollowers)
		}
	}
}

func TestMetricRouting(t *testing.T) {
	e := NewEngine(endToEndMerged(), 5)
	for _, name := range []string{
		"most_active_voters", "least_active_voters", "early_birds",
		"inactive_followers", "good_performers", "challenging_questions",
		"easy_questions", "difficult_questions", "fast_responded_questions",
		"slow_responded_questions", "summary", "latency_histogram",
	} {
		if _, ok := e.Metric(name); !ok {
			t.Errorf("metric %q not routed", name)
		}
	}
	if _, ok := e.Metric("nope"); ok {
		t.Errorf("unknown metric must not route")
	}
}

func TestSummary(t *testing.T) {
	merged := []poll.MergedBallot{
		mb("v1", "Q1", "A", "A", time.Minute), // v1: 100%
		mb("v2", "Q1", "B", "A", time.Minute), // v2: 0%
	}
	s := NewEngine(merged, 5).Summary()
	if s.TotalBallots != 2 || s.TotalCorrect != 1 || s.Voters != 2 || s.Questions != 1 {
		t.Fatalf("summary = %+v", s)
	}
	if s.AverageAccuracy != 50 {
		t.Errorf("average accuracy = %f, want 50", s.AverageAccuracy)
	}
}

func TestLatencyHistogram(t *testing.T) {
	var merged []poll.MergedBallot
	for i := 1; i <= 10; i++ {
		merged = append(merged, mb("v", "Q", "A", "A", time.Duration(i)*time.Minute))
	}
	buckets := NewEngine(merged, 5).LatencyHistogram(3)
	if len(buckets) != 3 {
		t.Fatalf("got %d buckets, want 3", len(buckets))
	}
	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	if total != 10 {
		t.Errorf("histogram counts sum to %d, want 10", total)
	}
	if buckets[0].From != time.Minute || buckets[2].To != 10*time.Minute {
		t.Errorf("bucket bounds wrong: %+v", buckets)
	}
}
