package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepverse/prepverse-backend/internal/model"
)

// RankingRepository handles the derived ranking table. Rows are only
// ever written by full batch replacement per test.
type RankingRepository struct {
	pool *pgxpool.Pool
}

// NewRankingRepository creates a new RankingRepository.
func NewRankingRepository(pool *pgxpool.Pool) *RankingRepository {
	return &RankingRepository{pool: pool}
}

// ReplaceForTest atomically swaps the full ranking table of one test:
// delete everything, bulk insert the recomputed entries via UNNEST, one
// transaction. Readers never see a partial table.
func (r *RankingRepository) ReplaceForTest(ctx context.Context, testID uuid.UUID, entries []model.RankingEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM rankings WHERE test_id = $1`, testID); err != nil {
		return err
	}

	if len(entries) > 0 {
		n := len(entries)
		candidates := make([]int, 0, n)
		ranks := make([]int, 0, n)
		scores := make([]float64, 0, n)
		times := make([]float64, 0, n)
		percentiles := make([]float64, 0, n)
		computedAts := make([]time.Time, 0, n)

		for _, e := range entries {
			candidates = append(candidates, e.CandidateID)
			ranks = append(ranks, e.Rank)
			scores = append(scores, e.Score)
			times = append(times, e.TimeTakenMinutes)
			percentiles = append(percentiles, e.Percentile)
			computedAts = append(computedAts, e.ComputedAt)
		}

		query := `
			INSERT INTO rankings (test_id, candidate_id, rank, score, time_taken_minutes, percentile, computed_at)
			SELECT $1, u.candidate_id, u.rank, u.score, u.time_taken_minutes, u.percentile, u.computed_at
			FROM UNNEST(
				$2::int[],
				$3::int[],
				$4::float8[],
				$5::float8[],
				$6::float8[],
				$7::timestamptz[]
			) AS u (candidate_id, rank, score, time_taken_minutes, percentile, computed_at)
		`
		if _, err := tx.Exec(ctx, query, testID, candidates, ranks, scores, times, percentiles, computedAts); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ListByTest retrieves the full ranking table of a test in rank order.
func (r *RankingRepository) ListByTest(ctx context.Context, testID uuid.UUID) ([]model.RankingEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT test_id, candidate_id, rank, score, time_taken_minutes, percentile, computed_at
		 FROM rankings WHERE test_id = $1
		 ORDER BY rank`, testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.RankingEntry
	for rows.Next() {
		var e model.RankingEntry
		if err := rows.Scan(&e.TestID, &e.CandidateID, &e.Rank, &e.Score, &e.TimeTakenMinutes, &e.Percentile, &e.ComputedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetByCandidate retrieves one candidate's ranking entry for a test.
// Returns pgx.ErrNoRows if the candidate has no completed ranked attempt.
func (r *RankingRepository) GetByCandidate(ctx context.Context, testID uuid.UUID, candidateID int) (*model.RankingEntry, error) {
	e := &model.RankingEntry{}
	err := r.pool.QueryRow(ctx,
		`SELECT test_id, candidate_id, rank, score, time_taken_minutes, percentile, computed_at
		 FROM rankings WHERE test_id = $1 AND candidate_id = $2`,
		testID, candidateID,
	).Scan(&e.TestID, &e.CandidateID, &e.Rank, &e.Score, &e.TimeTakenMinutes, &e.Percentile, &e.ComputedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// DeleteForCandidate removes one candidate's entry (administrative
// attempt reset); the next recomputation rebuilds the rest.
func (r *RankingRepository) DeleteForCandidate(ctx context.Context, testID uuid.UUID, candidateID int) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM rankings WHERE test_id = $1 AND candidate_id = $2`, testID, candidateID)
	return err
}
