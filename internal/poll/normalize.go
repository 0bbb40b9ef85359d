package poll

// Questions consolidates the one-row-per-question-choice export into
// one Question per distinct text (exact, case-sensitive). Choices keep
// their source order; on duplicate texts the earliest valid creation
// time wins.
func (n *Normalizer) Questions(rows []QuestionRow) []Question {
	index := map[string]int{}
	out := make([]Question, 0, len(rows))
	for _, r := range rows {
		created := n.Normalize(r.CreatedAt)
		i, seen := index[r.QuestionText]
		if !seen {
			index[r.QuestionText] = len(out)
			out = append(out, Question{Text: r.QuestionText, CreatedAt: created})
			i = len(out) - 1
		} else if created.Valid && (!out[i].CreatedAt.Valid || created.Time.Before(out[i].CreatedAt.Time)) {
			out[i].CreatedAt = created
		}
		if r.AnswerText != "" && !contains(out[i].Choices, r.AnswerText) {
			out[i].Choices = append(out[i].Choices, r.AnswerText)
		}
	}
	return out
}

// Ballots normalizes voting times. No dedup: a voter may legitimately
// appear several times for the same question.
func (n *Normalizer) Ballots(rows []BallotRow) []Ballot {
	out := make([]Ballot, 0, len(rows))
	for _, r := range rows {
		out = append(out, Ballot{
			Voter:        r.VoterName,
			QuestionText: r.QuestionText,
			Choice:       r.Choice,
			VotingTime:   n.Normalize(r.VotingTime),
		})
	}
	return out
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
