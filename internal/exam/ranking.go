package exam

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/prepverse/prepverse-backend/internal/model"
)

// Standing is one completed attempt's input to rank computation.
type Standing struct {
	CandidateID      int
	Score            float64
	TimeTakenMinutes float64
	SubmittedAt      time.Time
}

// ComputeRankings produces the full ranking table for one test from all
// of its completed attempts. Order is score descending, then time taken
// ascending; beyond that the sort is stable on (submitted_at, candidate)
// so repeated runs over the same attempts never reorder ties. Ranks are
// dense 1..n with no gaps; identical score+time still get distinct
// consecutive ranks. Percentile for rank r of n is ((n-r)/(n-1))*100,
// or 100 when n == 1.
func ComputeRankings(testID uuid.UUID, standings []Standing, computedAt time.Time) []model.RankingEntry {
	ordered := make([]Standing, len(standings))
	copy(ordered, standings)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Score != ordered[j].Score {
			return ordered[i].Score > ordered[j].Score
		}
		if ordered[i].TimeTakenMinutes != ordered[j].TimeTakenMinutes {
			return ordered[i].TimeTakenMinutes < ordered[j].TimeTakenMinutes
		}
		if !ordered[i].SubmittedAt.Equal(ordered[j].SubmittedAt) {
			return ordered[i].SubmittedAt.Before(ordered[j].SubmittedAt)
		}
		return ordered[i].CandidateID < ordered[j].CandidateID
	})

	n := len(ordered)
	entries := make([]model.RankingEntry, 0, n)
	for i, s := range ordered {
		rank := i + 1
		percentile := 100.0
		if n > 1 {
			percentile = float64(n-rank) / float64(n-1) * 100
		}
		entries = append(entries, model.RankingEntry{
			TestID:           testID,
			CandidateID:      s.CandidateID,
			Rank:             rank,
			Score:            s.Score,
			TimeTakenMinutes: s.TimeTakenMinutes,
			Percentile:       percentile,
			ComputedAt:       computedAt,
		})
	}
	return entries
}
