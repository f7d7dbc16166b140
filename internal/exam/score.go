package exam

import "github.com/prepverse/prepverse-backend/internal/pattern"

// ScoreAnswer computes the marks awarded for one answer event under the
// given pattern. Deterministic and side-effect free: it is invoked both
// per-answer during the attempt and in batch at final scoring, and the
// two must agree exactly.
//
//	nil selection            → 0
//	selected == correct      → +MarksPerCorrectAnswer
//	selected != correct      → −NegativeMarkingFactor (0 if disabled)
func ScoreAnswer(selectedOption *int, correctOption int, p *pattern.ExamPattern) float64 {
	if selectedOption == nil {
		return 0
	}
	if *selectedOption == correctOption {
		return p.MarksPerCorrectAnswer
	}
	if p.NegativeMarkingEnabled() {
		return -p.NegativeMarkingFactor
	}
	return 0
}
