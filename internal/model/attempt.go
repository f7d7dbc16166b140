package model

import (
	"time"

	"github.com/google/uuid"
)

// SectionTime is the persisted clock state of one section of an attempt.
// The JSON shape is a durable contract: it is round-tripped across process
// restarts and must reconstruct identical clock behavior.
//
// At most one SectionTime of an attempt has a non-nil StartTime with
// IsSubmitted false (the active section). RemainingSeconds holds the last
// checkpointed remaining value, initialized to the section template's
// duration; it is only trustworthy together with StartTime.
type SectionTime struct {
	Section          int        `json:"section"`
	StartTime        *time.Time `json:"start_time"`
	RemainingSeconds int        `json:"remaining_seconds"`
	IsSubmitted      bool       `json:"is_submitted"`
}

// Attempt is one candidate's run through one test. Exactly one exists per
// (candidate, test); sections submit strictly in increasing order.
type Attempt struct {
	ID               uuid.UUID     `json:"id"`
	TestID           uuid.UUID     `json:"test_id"`
	CandidateID      int           `json:"candidate_id"`
	StartedAt        time.Time     `json:"started_at"`
	SubmittedAt      *time.Time    `json:"submitted_at,omitempty"`
	IsCompleted      bool          `json:"is_completed"`
	CurrentSection   *int          `json:"current_section,omitempty"`
	TotalScore       float64       `json:"total_score"`
	CorrectCount     int           `json:"correct_count"`
	IncorrectCount   int           `json:"incorrect_count"`
	UnansweredCount  int           `json:"unanswered_count"`
	TimeTakenMinutes float64       `json:"time_taken_minutes"`
	Sections         []SectionTime `json:"sections"`
}

// ActiveSection returns the SectionTime currently running, or nil if no
// section is active (not started or completed).
func (a *Attempt) ActiveSection() *SectionTime {
	if a.CurrentSection == nil {
		return nil
	}
	return a.Section(*a.CurrentSection)
}

// Section returns the SectionTime for the given 1-based section number.
func (a *Attempt) Section(n int) *SectionTime {
	for i := range a.Sections {
		if a.Sections[i].Section == n {
			return &a.Sections[i]
		}
	}
	return nil
}

// AttemptSummary is the final result of a completed attempt.
type AttemptSummary struct {
	AttemptID        uuid.UUID `json:"attempt_id"`
	Score            float64   `json:"score"`
	Correct          int       `json:"correct"`
	Incorrect        int       `json:"incorrect"`
	Unanswered       int       `json:"unanswered"`
	TimeTakenMinutes float64   `json:"time_taken_minutes"`
}

// RecordAnswerRequest is the payload for recording one answer event.
// SelectedOption nil with MarkedForReview false clears the selection
// (the question becomes skipped).
type RecordAnswerRequest struct {
	SelectedOption  *int `json:"selected_option" binding:"omitempty,min=0"`
	MarkedForReview bool `json:"is_marked_for_review"`
	SectionNumber   int  `json:"section_number" binding:"required,min=1"`
}
