package model

import (
	"time"

	"github.com/google/uuid"
)

// AnswerRecord is the latest answer event for one question of one attempt.
// Upsert keyed by (attempt, question); last write wins, no history.
// SectionNumber is fixed at first write; an answer never moves between
// sections.
type AnswerRecord struct {
	AttemptID       uuid.UUID `json:"attempt_id"`
	QuestionID      uuid.UUID `json:"question_id"`
	SelectedOption  *int      `json:"selected_option"`
	IsCorrect       *bool     `json:"is_correct"`
	MarkedForReview bool      `json:"is_marked_for_review"`
	MarksAwarded    float64   `json:"marks_awarded"`
	SectionNumber   int       `json:"section_number"`
	AnsweredAt      time.Time `json:"answered_at"`
}

// ReviewedAnswer is an AnswerRecord with the post-submission display
// overlay applied: the question, the candidate's pick, the correct option
// and the computed verdict. Built on read, never stored.
type ReviewedAnswer struct {
	QuestionID      uuid.UUID `json:"question_id"`
	SectionNumber   int       `json:"section_number"`
	QuestionText    string    `json:"question_text"`
	Options         []string  `json:"options"`
	SelectedOption  *int      `json:"selected_option"`
	CorrectOption   int       `json:"correct_option"`
	MarkedForReview bool      `json:"is_marked_for_review"`
	MarksAwarded    float64   `json:"marks_awarded"`
	Verdict         string    `json:"verdict"`
}
