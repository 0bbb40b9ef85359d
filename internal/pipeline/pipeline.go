// Package pipeline runs the full normalize-reconcile-merge pass. It is
// a pure function of the three raw tables plus the reference instant:
// no I/O, no shared state, one invocation per dashboard load or report
// run.
package pipeline

import (
	"time"

	"github.com/quizsight/quizsight/internal/poll"
)

// Tables are the three raw inputs, already decoded from whatever file
// format they arrived in.
type Tables struct {
	Questions []poll.QuestionRow
	Ballots   []poll.BallotRow
	Answers   []poll.AnswerKeyRow
}

// Result carries every derived table from one run.
type Result struct {
	Questions []poll.Question
	Ballots   []poll.Ballot
	Tallies   []poll.ChoiceTally
	Merged    []poll.MergedBallot

	// Data-quality counters for the import audit log.
	TallyMismatches int
	DroppedBallots  int
}

func Run(reference time.Time, t Tables) Result {
	n := poll.NewNormalizer(reference)

	questions := n.Questions(t.Questions)
	ballots := n.Ballots(t.Ballots)
	tallies := poll.Reconcile(t.Questions, ballots)
	merged := poll.Merge(questions, ballots, t.Answers)

	kept := map[string]bool{}
	for _, m := range merged {
		kept[m.Voter+"\x00"+m.QuestionText+"\x00"+m.Choice] = true
	}
	dropped := 0
	for _, b := range ballots {
		if !kept[b.Voter+"\x00"+b.QuestionText+"\x00"+b.Choice] {
			dropped++
		}
	}

	return Result{
		Questions:       questions,
		Ballots:         ballots,
		Tallies:         tallies,
		Merged:          merged,
		TallyMismatches: poll.TallyMismatches(t.Questions, tallies),
		DroppedBallots:  dropped,
	}
}
