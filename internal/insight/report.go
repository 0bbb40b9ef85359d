package insight

import (
	"time"
)

// Summary aggregates headline numbers for the dashboard's metric
// cards: mean per-voter accuracy, ballot totals and distinct counts.
type Summary struct {
	AverageAccuracy float64 `json:"average_accuracy"`
	TotalBallots    int     `json:"total_ballots"`
	TotalCorrect    int     `json:"total_correct"`
	Voters          int     `json:"voters"`
	Questions       int     `json:"questions"`
}

func (e *Engine) Summary() Summary {
	s := Summary{}
	total := map[string]int{}
	correct := map[string]int{}
	questions := map[string]bool{}
	for _, m := range e.merged {
		s.TotalBallots++
		if m.Correct {
			s.TotalCorrect++
		}
		total[m.Voter]++
		if m.Correct {
			correct[m.Voter]++
		}
		questions[m.QuestionText] = true
	}
	s.Voters = len(total)
	s.Questions = len(questions)
	if len(total) > 0 {
		sum := 0.0
		for v, n := range total {
			sum += float64(correct[v]) / float64(n) * 100
		}
		s.AverageAccuracy = sum / float64(len(total))
	}
	return s
}

// Bucket is one bar of the response-time distribution.
type Bucket struct {
	From  time.Duration `json:"from"`
	To    time.Duration `json:"to"`
	Count int           `json:"count"`
}

// LatencyHistogram buckets all defined latencies into n equal-width
// ranges between the observed minimum and maximum. Returns nil when no
// row has a defined latency.
func (e *Engine) LatencyHistogram(n int) []Bucket {
	if n < 1 {
		n = 10
	}
	var lats []time.Duration
	for _, m := range e.merged {
		if m.HasLatency {
			lats = append(lats, m.Latency)
		}
	}
	if len(lats) == 0 {
		return nil
	}
	lo, hi := lats[0], lats[0]
	for _, l := range lats {
		if l < lo {
			lo = l
		}
		if l > hi {
			hi = l
		}
	}
	width := (hi - lo) / time.Duration(n)
	if width <= 0 {
		return []Bucket{{From: lo, To: hi, Count: len(lats)}}
	}
	buckets := make([]Bucket, n)
	for i := range buckets {
		buckets[i].From = lo + time.Duration(i)*width
		buckets[i].To = lo + time.Duration(i+1)*width
	}
	buckets[n-1].To = hi
	for _, l := range lats {
		i := int((l - lo) / width)
		if i >= n {
			i = n - 1
		}
		buckets[i].Count++
	}
	return buckets
}

// Report bundles every metric at the engine's limit. Handlers and
// report sinks consume this as a unit.
type Report struct {
	Limit                  int         `json:"limit"`
	MostActiveVoters       []Entry     `json:"most_active_voters"`
	LeastActiveVoters      []Entry     `json:"least_active_voters"`
	EarlyBirds             []Entry     `json:"early_birds"`
	InactiveFollowers      []TimeEntry `json:"inactive_followers"`
	GoodPerformers         []Entry     `json:"good_performers"`
	ChallengingQuestions   []Entry     `json:"challenging_questions"`
	EasyQuestions          []Entry     `json:"easy_questions"`
	DifficultQuestions     []Entry     `json:"difficult_questions"`
	FastRespondedQuestions []Entry     `json:"fast_responded_questions"`
	SlowRespondedQuestions []Entry     `json:"slow_responded_questions"`
	Summary                Summary     `json:"summary"`
	LatencyHistogram       []Bucket    `json:"latency_histogram"`
}

func (e *Engine) Compute() Report {
	return Report{
		Limit:                  e.limit,
		MostActiveVoters:       e.MostActiveVoters(),
		LeastActiveVoters:      e.LeastActiveVoters(),
		EarlyBirds:             e.EarlyBirds(),
		InactiveFollowers:      e.InactiveFollowers(),
		GoodPerformers:         e.GoodPerformers(),
		ChallengingQuestions:   e.ChallengingQuestions(),
		EasyQuestions:          e.EasyQuestions(),
		DifficultQuestions:     e.DifficultQuestions(),
		FastRespondedQuestions: e.FastRespondedQuestions(),
		SlowRespondedQuestions: e.SlowRespondedQuestions(),
		Summary:                e.Summary(),
		LatencyHistogram:       e.LatencyHistogram(10),
	}
}

// Metric routes a metric name to its computation, the same shape the
// single-metric API endpoint exposes.
func (e *Engine) Metric(name string) (any, bool) {
	switch name {
	case "most_active_voters":
		return e.MostActiveVoters(), true
	case "least_active_voters":
		return e.LeastActiveVoters(), true
	case "early_birds":
		return e.EarlyBirds(), true
	case "inactive_followers":
		return e.InactiveFollowers(), true
	case "good_performers":
		return e.GoodPerformers(), true
	case "challenging_questions":
		return e.ChallengingQuestions(), true
	case "easy_questions":
		return e.EasyQuestions(), true
	case "difficult_questions":
		return e.DifficultQuestions(), true
	case "fast_responded_questions":
		return e.FastRespondedQuestions(), true
	case "slow_responded_questions":
		return e.SlowRespondedQuestions(), true
	case "summary":
		return e.Summary(), true
	case "latency_histogram":
		return e.LatencyHistogram(10), true
	}
	return nil, false
}

// Section is a uniform view over the ranked tables, used by the CSV
// and terminal renderers.
type Section struct {
	Name        string
	ValueHeader string
	Entries     []Entry
	TimeEntries []TimeEntry
}

func (r Report) Sections() []Section {
	return []Section{
		{Name: "most_active_voters", ValueHeader: "ballots", Entries: r.MostActiveVoters},
		{Name: "least_active_voters", ValueHeader: "ballots", Entries: r.LeastActiveVoters},
		{Name: "early_birds", ValueHeader: "first_responses", Entries: r.EarlyBirds},
		{Name: "inactive_followers", ValueHeader: "last_seen", TimeEntries: r.InactiveFollowers},
		{Name: "good_performers", ValueHeader: "accuracy_pct", Entries: r.GoodPerformers},
		{Name: "challenging_questions", ValueHeader: "incorrect_fraction", Entries: r.ChallengingQuestions},
		{Name: "easy_questions", ValueHeader: "correct_fraction", Entries: r.EasyQuestions},
		{Name: "difficult_questions", ValueHeader: "ballots", Entries: r.DifficultQuestions},
		{Name: "fast_responded_questions", ValueHeader: "min_latency_sec", Entries: r.FastRespondedQuestions},
		{Name: "slow_responded_questions", ValueHeader: "max_latency_sec", Entries: r.SlowRespondedQuestions},
	}
}
