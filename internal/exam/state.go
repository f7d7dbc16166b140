// Package exam holds the pure core of the attempt engine: answer state
// classification, per-answer scoring, the authoritative section clock,
// final tallying and rank computation. Nothing here touches storage;
// services call in and persist the results.
package exam

// AnswerState classifies a question's interaction data within an attempt.
type AnswerState string

const (
	StateNotVisited        AnswerState = "not_visited"
	StateSkipped           AnswerState = "skipped"
	StateAnswered          AnswerState = "answered"
	StateMarkedForReview   AnswerState = "marked_for_review"
	StateAnsweredAndMarked AnswerState = "answered_and_marked"
)

// Review verdict overlay, applied only in post-submission review mode.
const (
	VerdictCorrect    = "correct"
	VerdictWrong      = "wrong"
	VerdictUnanswered = "unanswered"
)

// ClassifyAnswer maps (visited, selectedOption, markedForReview) to the
// answer state. A question with no AnswerRecord at all was never visited;
// once a record exists, a nil selection means skipped (or marked, if the
// review flag is set).
func ClassifyAnswer(visited bool, selectedOption *int, markedForReview bool) AnswerState {
	if !visited {
		return StateNotVisited
	}
	switch {
	case selectedOption == nil && !markedForReview:
		return StateSkipped
	case selectedOption == nil && markedForReview:
		return StateMarkedForReview
	case markedForReview:
		return StateAnsweredAndMarked
	default:
		return StateAnswered
	}
}

// Verdict computes the review-mode display overlay for an answer. It is
// recomputed on every read and never stored.
func Verdict(selectedOption *int, correctOption int) string {
	if selectedOption == nil {
		return VerdictUnanswered
	}
	if *selectedOption == correctOption {
		return VerdictCorrect
	}
	return VerdictWrong
}
