// Package insight computes the top-N metric tables served by the
// dashboard. Every metric is a pure function over an immutable merged
// ballot slice; the engine never mutates shared state, so metrics are
// safe to compute concurrently.
package insight

import (
	"sort"
	"time"

	"github.com/quizsight/quizsight/internal/poll"
)

const DefaultLimit = 20

// Entry is one row of a ranked metric table.
type Entry struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// TimeEntry is one row of a time-valued metric table.
type TimeEntry struct {
	Key string    `json:"key"`
	At  time.Time `json:"at"`
}

type Engine struct {
	merged []poll.MergedBallot
	limit  int
}

func NewEngine(merged []poll.MergedBallot, limit int) *Engine {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Engine{merged: merged, limit: limit}
}

func (e *Engine) Limit() int { return e.limit }

// rank orders grouped values and truncates to the limit. Ties on the
// value always break by key ascending, so output order is independent
// of input row order and map iteration.
func (e *Engine) rank(values map[string]float64, descending bool) []Entry {
	out := make([]Entry, 0, len(values))
	for k, v := range values {
		out = append(out, Entry{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			if descending {
				return out[i].Value > out[j].Value
			}
			return out[i].Value < out[j].Value
		}
		return out[i].Key < out[j].Key
	})
	if len(out) > e.limit {
		out = out[:e.limit]
	}
	return out
}

// MostActiveVoters ranks voters by ballot count, repeats included.
func (e *Engine) MostActiveVoters() []Entry {
	return e.rank(e.ballotCountsByVoter(), true)
}

// LeastActiveVoters ranks voters by ballot count, fewest first.
func (e *Engine) LeastActiveVoters() []Entry {
	return e.rank(e.ballotCountsByVoter(), false)
}

func (e *Engine) ballotCountsByVoter() map[string]float64 {
	counts := map[string]float64{}
	for _, m := range e.merged {
		counts[m.Voter]++
	}
	return counts
}

// EarlyBirds counts, per voter, the questions where that voter holds
// the single fastest response. Only rows with a defined latency
// compete; a latency tie on one question credits the lexicographically
// first voter.
func (e *Engine) EarlyBirds() []Entry {
	type best struct {
		voter   string
		latency time.Duration
	}
	fastest := map[string]best{}
	for _, m := range e.merged {
		if !m.HasLatency {
			continue
		}
		b, seen := fastest[m.QuestionText]
		switch {
		case !seen,
			m.Latency < b.latency,
			m.Latency == b.latency && m.Voter < b.voter:
			fastest[m.QuestionText] = best{voter: m.Voter, latency: m.Latency}
		}
	}
	credits := map[string]float64{}
	for _, b := range fastest {
		credits[b.voter]++
	}
	return e.rank(credits, true)
}

// InactiveFollowers ranks voters by their most recent voting time,
// oldest last-seen first. Voters whose timestamps all failed to parse
// carry the zero time and therefore surface at the top.
func (e *Engine) InactiveFollowers() []TimeEntry {
	last := map[string]time.Time{}
	for _, m := range e.merged {
		t, seen := last[m.Voter]
		if !seen {
			last[m.Voter] = time.Time{}
			t = time.Time{}
		}
		if m.VotingTime.Valid && m.VotingTime.Time.After(t) {
			last[m.Voter] = m.VotingTime.Time
		}
	}
	out := make([]TimeEntry, 0, len(last))
	for k, v := range last {
		out = append(out, TimeEntry{Key: k, At: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].At.Equal(out[j].At) {
			return out[i].At.Before(out[j].At)
		}
		return out[i].Key < out[j].Key
	})
	if len(out) > e.limit {
		out = out[:e.limit]
	}
	return out
}

// GoodPerformers ranks voters by accuracy, a percentage in [0,100].
// Voters without merged ballots never group, so accuracy is always
// well-defined.
func (e *Engine) GoodPerformers() []Entry {
	total := map[string]float64{}
	correct := map[string]float64{}
	for _, m := range e.merged {
		total[m.Voter]++
		if m.Correct {
			correct[m.Voter]++
		}
	}
	acc := make(map[string]float64, len(total))
	for v, n := range total {
		acc[v] = correct[v] / n * 100
	}
	return e.rank(acc, true)
}

// ChallengingQuestions ranks questions by the fraction of incorrect
// ballots, in [0,1], most-missed first.
func (e *Engine) ChallengingQuestions() []Entry {
	total := map[string]float64{}
	wrong := map[string]float64{}
	for _, m := range e.merged {
		total[m.QuestionText]++
		if !m.Correct {
			wrong[m.QuestionText]++
		}
	}
	frac := make(map[string]float64, len(total))
	for q, n := range total {
		frac[q] = wrong[q] / n
	}
	return e.rank(frac, true)
}

// EasyQuestions returns questions every ballot answered correctly, in
// the order they first appear in the merged data, cut at the limit.
// There is no further ranking: the filter is exactly fraction == 1.
func (e *Engine) EasyQuestions() []Entry {
	var order []string
	total := map[string]int{}
	correct := map[string]int{}
	for _, m := range e.merged {
		if _, seen := total[m.QuestionText]; !seen {
			order = append(order, m.QuestionText)
		}
		total[m.QuestionText]++
		if m.Correct {
			correct[m.QuestionText]++
		}
	}
	out := []Entry{}
	for _, q := range order {
		if correct[q] != total[q] {
			continue
		}
		out = append(out, Entry{Key: q, Value: 1})
		if len(out) == e.limit {
			break
		}
	}
	return out
}

// DifficultQuestions ranks questions by ballot count, fewest first.
func (e *Engine) DifficultQuestions() []Entry {
	counts := map[string]float64{}
	for _, m := range e.merged {
		counts[m.QuestionText]++
	}
	return e.rank(counts, false)
}

// FastRespondedQuestions ranks questions by their minimum defined
// latency in seconds, fastest first. Questions with no defined latency
// are excluded.
func (e *Engine) FastRespondedQuestions() []Entry {
	return e.rank(e.latencyExtremes(true), false)
}

// SlowRespondedQuestions ranks questions by their maximum defined
// latency in seconds, slowest first.
func (e *Engine) SlowRespondedQuestions() []Entry {
	return e.rank(e.latencyExtremes(false), true)
}

func (e *Engine) latencyExtremes(min bool) map[string]float64 {
	out := map[string]float64{}
	for _, m := range e.merged {
		if !m.HasLatency {
			continue
		}
		sec := m.Latency.Seconds()
		cur, seen := out[m.QuestionText]
		if !seen || (min && sec < cur) || (!min && sec > cur) {
			out[m.QuestionText] = sec
		}
	}
	return out
}
