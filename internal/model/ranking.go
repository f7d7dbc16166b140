package model

import (
	"time"

	"github.com/google/uuid"
)

// RankingEntry is a candidate's computed standing for one test, derived
// from all completed attempts. Rank is 1-based and dense; percentile is
// continuous in [0, 100]. Rebuilt in full on every completion, never
// hand-edited.
type RankingEntry struct {
	TestID           uuid.UUID `json:"test_id"`
	CandidateID      int       `json:"candidate_id"`
	Rank             int       `json:"rank"`
	Score            float64   `json:"score"`
	TimeTakenMinutes float64   `json:"time_taken_minutes"`
	Percentile       float64   `json:"percentile"`
	ComputedAt       time.Time `json:"computed_at"`
}
