package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Question represents a single multiple-choice question of a test.
// Options are an ordered JSON array; CorrectOption is the 0-based index
// into that array.
type Question struct {
	ID            uuid.UUID       `json:"id"`
	TestID        uuid.UUID       `json:"test_id"`
	SectionNumber int             `json:"section_number"`
	QuestionText  string          `json:"question_text"`
	Options       json.RawMessage `json:"options"`
	CorrectOption int             `json:"correct_option"`
	OrderNum      int             `json:"order_num"`
}

// QuestionForCandidate is a question with the correct option stripped,
// sent to candidates during an attempt.
type QuestionForCandidate struct {
	ID            uuid.UUID       `json:"id"`
	SectionNumber int             `json:"section_number"`
	QuestionText  string          `json:"question_text"`
	Options       json.RawMessage `json:"options"`
	OrderNum      int             `json:"order_num"`
}

// ForCandidate strips the correct option for delivery.
func (q *Question) ForCandidate() QuestionForCandidate {
	return QuestionForCandidate{
		ID:            q.ID,
		SectionNumber: q.SectionNumber,
		QuestionText:  q.QuestionText,
		Options:       q.Options,
		OrderNum:      q.OrderNum,
	}
}

// SectionPayload is the Redis-cached question payload for one section of
// a published test (no correct answers).
type SectionPayload struct {
	TestID          uuid.UUID              `json:"test_id"`
	SectionNumber   int                    `json:"section_number"`
	DurationSeconds int                    `json:"duration_seconds"`
	Questions       []QuestionForCandidate `json:"questions"`
}

// AddQuestionRequest is the payload for adding a question to a test.
type AddQuestionRequest struct {
	SectionNumber int             `json:"section_number" binding:"required,min=1"`
	QuestionText  string          `json:"question_text" binding:"required,min=1,max=4000"`
	Options       json.RawMessage `json:"options" binding:"required"`
	CorrectOption int             `json:"correct_option" binding:"min=0"`
	OrderNum      int             `json:"order_num" binding:"min=0"`
}

// ReplaceQuestionsRequest is the payload for bulk replacing a test's questions.
type ReplaceQuestionsRequest struct {
	Questions []AddQuestionRequest `json:"questions" binding:"dive"`
}
