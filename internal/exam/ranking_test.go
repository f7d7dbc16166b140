package exam

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestComputeRankingsOrderAndPercentile(t *testing.T) {
	testID := uuid.New()
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	standings := []Standing{
		{CandidateID: 11, Score: 90, TimeTakenMinutes: 12, SubmittedAt: now},
		{CandidateID: 22, Score: 90, TimeTakenMinutes: 10, SubmittedAt: now},
		{CandidateID: 33, Score: 40, TimeTakenMinutes: 5, SubmittedAt: now},
	}

	entries := ComputeRankings(testID, standings, now)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	// Faster time wins the score tie.
	if entries[0].CandidateID != 22 || entries[0].Rank != 1 {
		t.Errorf("rank 1 = candidate %d, want 22", entries[0].CandidateID)
	}
	if entries[1].CandidateID != 11 || entries[1].Rank != 2 {
		t.Errorf("rank 2 = candidate %d, want 11", entries[1].CandidateID)
	}
	if entries[2].CandidateID != 33 || entries[2].Rank != 3 {
		t.Errorf("rank 3 = candidate %d, want 33", entries[2].CandidateID)
	}

	// ((n-r)/(n-1))*100 for n=3 → 100, 50, 0.
	wantPercentiles := []float64{100, 50, 0}
	for i, want := range wantPercentiles {
		if entries[i].Percentile != want {
			t.Errorf("rank %d percentile = %v, want %v", i+1, entries[i].Percentile, want)
		}
	}
}

func TestComputeRankingsTwoCandidateTie(t *testing.T) {
	testID := uuid.New()
	now := time.Now()

	entries := ComputeRankings(testID, []Standing{
		{CandidateID: 1, Score: 90, TimeTakenMinutes: 10, SubmittedAt: now},
		{CandidateID: 2, Score: 90, TimeTakenMinutes: 12, SubmittedAt: now},
	}, now)

	if entries[0].CandidateID != 1 || entries[0].Percentile != 100 {
		t.Errorf("faster candidate: rank %d percentile %v, want rank 1 percentile 100", entries[0].Rank, entries[0].Percentile)
	}
	if entries[1].CandidateID != 2 || entries[1].Percentile != 0 {
		t.Errorf("slower candidate: rank %d percentile %v, want rank 2 percentile 0", entries[1].Rank, entries[1].Percentile)
	}
}

func TestComputeRankingsDensePermutation(t *testing.T) {
	testID := uuid.New()
	now := time.Now()

	var standings []Standing
	for i := 1; i <= 25; i++ {
		standings = append(standings, Standing{
			CandidateID:      i,
			Score:            float64(i % 7), // plenty of ties
			TimeTakenMinutes: float64(i % 3),
			SubmittedAt:      now.Add(time.Duration(i) * time.Second),
		})
	}

	entries := ComputeRankings(testID, standings, now)
	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if e.Rank < 1 || e.Rank > len(entries) {
			t.Fatalf("rank %d out of range 1..%d", e.Rank, len(entries))
		}
		if seen[e.Rank] {
			t.Fatalf("duplicate rank %d", e.Rank)
		}
		seen[e.Rank] = true
	}
	if len(seen) != len(entries) {
		t.Errorf("ranks are not a permutation of 1..%d", len(entries))
	}
}

func TestComputeRankingsStableAcrossRuns(t *testing.T) {
	testID := uuid.New()
	now := time.Now()

	// Identical score and time; submission order must pin the result so a
	// later recomputation does not reorder the pair.
	standings := []Standing{
		{CandidateID: 7, Score: 50, TimeTakenMinutes: 20, SubmittedAt: now.Add(time.Second)},
		{CandidateID: 3, Score: 50, TimeTakenMinutes: 20, SubmittedAt: now},
	}

	first := ComputeRankings(testID, standings, now)
	// Swap input order; output must not change.
	second := ComputeRankings(testID, []Standing{standings[1], standings[0]}, now)

	for i := range first {
		if first[i].CandidateID != second[i].CandidateID || first[i].Rank != second[i].Rank {
			t.Errorf("run disagreement at position %d: %+v vs %+v", i, first[i], second[i])
		}
	}
	if first[0].CandidateID != 3 {
		t.Errorf("earlier submission should hold rank 1, got candidate %d", first[0].CandidateID)
	}
}

func TestComputeRankingsSingleCandidate(t *testing.T) {
	entries := ComputeRankings(uuid.New(), []Standing{
		{CandidateID: 9, Score: 10, TimeTakenMinutes: 30, SubmittedAt: time.Now()},
	}, time.Now())

	if len(entries) != 1 || entries[0].Rank != 1 || entries[0].Percentile != 100 {
		t.Errorf("single completion: got %+v, want rank 1 percentile 100", entries)
	}
}

func TestComputeRankingsEmpty(t *testing.T) {
	if entries := ComputeRankings(uuid.New(), nil, time.Now()); len(entries) != 0 {
		t.Errorf("empty input produced %d entries", len(entries))
	}
}
