package poll

// Merge inner-joins ballots to questions and then to the answer key,
// both on exact question-text equality. Ballots referencing unknown
// questions or questions absent from the key are dropped silently:
// expected for stale or edited polls, not an error.
//
// A question text appearing more than once in the answer key produces
// one merged row per key row. That multiplies ballot rows after the
// join; it mirrors the source data's semantics and is deliberately not
// deduplicated here. Upstream data owners have been flagged.
func Merge(questions []Question, ballots []Ballot, answers []AnswerKeyRow) []MergedBallot {
	byText := make(map[string]Question, len(questions))
	for _, q := range questions {
		byText[q.Text] = q
	}
	keys := make(map[string][]string, len(answers))
	for _, a := range answers {
		keys[a.QuestionText] = append(keys[a.QuestionText], a.CorrectChoice)
	}

	var out []MergedBallot
	for _, b := range ballots {
		q, ok := byText[b.QuestionText]
		if !ok {
			continue
		}
		correct, ok := keys[b.QuestionText]
		if !ok {
			continue
		}
		for _, c := range correct {
			m := MergedBallot{
				Voter:         b.Voter,
				QuestionText:  b.QuestionText,
				Choice:        b.Choice,
				CorrectChoice: c,
				CreatedAt:     q.CreatedAt,
				VotingTime:    b.VotingTime,
				Correct:       b.Choice == c,
			}
			if q.CreatedAt.Valid && b.VotingTime.Valid {
				m.Latency = b.VotingTime.Time.Sub(q.CreatedAt.Time)
				m.HasLatency = true
			}
			out = append(out, m)
		}
	}
	return out
}
