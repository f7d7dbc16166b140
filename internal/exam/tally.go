package exam

import "github.com/prepverse/prepverse-backend/internal/model"

// Summary is the aggregate of all answer events of one attempt.
type Summary struct {
	Score      float64
	Correct    int
	Incorrect  int
	Unanswered int
}

// Tally reduces an attempt's answer records to its final summary.
// Marks were written by ScoreAnswer at answer time, so summing them here
// reproduces exactly the number an incremental tally would have reached.
// Unanswered counts every question without a selection, including the
// never-visited ones.
func Tally(answers []model.AnswerRecord, totalQuestions int) Summary {
	var s Summary
	answered := 0
	for _, a := range answers {
		if a.SelectedOption == nil {
			continue
		}
		answered++
		s.Score += a.MarksAwarded
		if a.IsCorrect != nil && *a.IsCorrect {
			s.Correct++
		} else {
			s.Incorrect++
		}
	}
	s.Unanswered = totalQuestions - answered
	return s
}
