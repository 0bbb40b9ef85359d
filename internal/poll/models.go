package poll

import "time"

// Raw input rows, one per spreadsheet line. Date and tally fields stay
// strings until the normalizer has looked at them: the exports mix
// absolute dates, relative keywords and "42 votes"-style counts.

type QuestionRow struct {
	QuestionText string `json:"question_text"`
	CreatedAt    string `json:"created_at"`
	AnswerText   string `json:"answer_text"`
	VoteTally    string `json:"vote_tally"`
}

type BallotRow struct {
	VoterName    string `json:"voter_name"`
	QuestionText string `json:"question_text"`
	Choice       string `json:"choice"`
	VoteCount    string `json:"vote_count"`
	VotingTime   string `json:"voting_time"`
}

type AnswerKeyRow struct {
	QuestionText  string `json:"question_text"`
	CorrectChoice string `json:"correct_choice"`
}

// Timestamp is a time that may have failed to parse. Invalid values
// never abort the pipeline; latency-dependent metrics skip them while
// count-based metrics keep the row.
type Timestamp struct {
	Time  time.Time `json:"time"`
	Valid bool      `json:"valid"`
}

func At(t time.Time) Timestamp { return Timestamp{Time: t, Valid: true} }

// Question is one distinct question text with its normalized creation
// time and the ordered set of answer choices seen in the source.
type Question struct {
	Text      string    `json:"text"`
	CreatedAt Timestamp `json:"created_at"`
	Choices   []string  `json:"choices"`
}

// Ballot is one voter-choice event.
type Ballot struct {
	Voter        string    `json:"voter"`
	QuestionText string    `json:"question_text"`
	Choice       string    `json:"choice"`
	VotingTime   Timestamp `json:"voting_time"`
}

// ChoiceTally is the reconciled vote count for one (question, choice)
// pair, recomputed from ballot rows.
type ChoiceTally struct {
	QuestionText string `json:"question_text"`
	Choice       string `json:"choice"`
	Votes        int    `json:"votes"`
}

// MergedBallot is a ballot joined to its question and the answer key.
// Latency is defined only when both parent timestamps parsed; a
// negative latency (vote recorded before creation) is kept as-is.
type MergedBallot struct {
	Voter         string        `json:"voter"`
	QuestionText  string        `json:"question_text"`
	Choice        string        `json:"choice"`
	CorrectChoice string        `json:"correct_choice"`
	CreatedAt     Timestamp     `json:"created_at"`
	VotingTime    Timestamp     `json:"voting_time"`
	Latency       time.Duration `json:"latency"`
	HasLatency    bool          `json:"has_latency"`
	Correct       bool          `json:"correct"`
}
