package poll

import (
	"strconv"
	"strings"
)

// ParseTally extracts the leading numeric token from a tally field that
// may arrive as a plain number or as a string like "42 votes".
func ParseTally(v string) (int, bool) {
	fields := strings.Fields(strings.TrimSpace(v))
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Reconcile recomputes the tally for every (question, choice) pair in
// the question table by counting exact-matching ballot rows. The
// source's own tally column, whatever its encoding, is discarded: the
// recount is authoritative. Inputs are not mutated.
func Reconcile(rows []QuestionRow, ballots []Ballot) []ChoiceTally {
	type pair struct{ q, c string }
	counts := map[pair]int{}
	for _, b := range ballots {
		counts[pair{b.QuestionText, b.Choice}]++
	}
	out := make([]ChoiceTally, 0, len(rows))
	for _, r := range rows {
		out = append(out, ChoiceTally{
			QuestionText: r.QuestionText,
			Choice:       r.AnswerText,
			Votes:        counts[pair{r.QuestionText, r.AnswerText}],
		})
	}
	return out
}

// TallyMismatches counts question rows whose source tally disagrees
// with the recomputed one. Unparseable source tallies always count as
// mismatches. Reported per import for data-quality auditing.
func TallyMismatches(rows []QuestionRow, tallies []ChoiceTally) int {
	type pair struct{ q, c string }
	recount := make(map[pair]int, len(tallies))
	for _, t := range tallies {
		recount[pair{t.QuestionText, t.Choice}] = t.Votes
	}
	mismatched := 0
	for _, r := range rows {
		claimed, ok := ParseTally(r.VoteTally)
		if !ok || claimed != recount[pair{r.QuestionText, r.AnswerText}] {
			mismatched++
		}
	}
	return mismatched
}
