package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prepverse/prepverse-backend/internal/exam"
	"github.com/prepverse/prepverse-backend/internal/model"
	"github.com/prepverse/prepverse-backend/internal/repository"
	"github.com/rs/zerolog"
)

// ErrRankingDisabled is returned for ranking reads on a non-competitive test.
var ErrRankingDisabled = errors.New("ranking is not enabled for this test")

// RankingService recomputes and serves the per-test ranking table.
// Recomputation is always a full batch replace over every completed
// attempt of the test, never a delta update.
type RankingService struct {
	rankingRepo *repository.RankingRepository
	attemptRepo *repository.AttemptRepository
	testRepo    *repository.TestRepository
	log         zerolog.Logger
}

// NewRankingService creates a new RankingService.
func NewRankingService(
	rankingRepo *repository.RankingRepository,
	attemptRepo *repository.AttemptRepository,
	testRepo *repository.TestRepository,
	log zerolog.Logger,
) *RankingService {
	return &RankingService{
		rankingRepo: rankingRepo,
		attemptRepo: attemptRepo,
		testRepo:    testRepo,
		log:         log.With().Str("component", "ranking_service").Logger(),
	}
}

// RankTest rebuilds the full ranking table of one test from its completed
// attempts. Safe to run repeatedly; each run replaces the table
// atomically, so a run racing a fresh completion is corrected by that
// completion's own queued recomputation.
func (s *RankingService) RankTest(ctx context.Context, testID uuid.UUID) error {
	t, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		return fmt.Errorf("get test: %w", err)
	}
	if !t.RankingEnabled {
		return ErrRankingDisabled
	}

	standings, err := s.attemptRepo.ListCompletedStandings(ctx, testID)
	if err != nil {
		return fmt.Errorf("list standings: %w", err)
	}

	entries := exam.ComputeRankings(testID, standings, time.Now())
	if err := s.rankingRepo.ReplaceForTest(ctx, testID, entries); err != nil {
		return fmt.Errorf("replace rankings: %w", err)
	}

	s.log.Info().
		Str("test_id", testID.String()).
		Int("candidates", len(entries)).
		Msg("Rankings recomputed")
	return nil
}

// GetRankings returns the ranking table of a test in rank order.
func (s *RankingService) GetRankings(ctx context.Context, testID uuid.UUID) ([]model.RankingEntry, error) {
	t, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		return nil, err
	}
	if !t.RankingEnabled {
		return nil, ErrRankingDisabled
	}
	entries, err := s.rankingRepo.ListByTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.RankingEntry{}
	}
	return entries, nil
}

// GetCandidateRanking returns one candidate's standing, or nil if they
// have no completed attempt on the test yet.
func (s *RankingService) GetCandidateRanking(ctx context.Context, testID uuid.UUID, candidateID int) (*model.RankingEntry, error) {
	t, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		return nil, err
	}
	if !t.RankingEnabled {
		return nil, ErrRankingDisabled
	}
	entry, err := s.rankingRepo.GetByCandidate(ctx, testID, candidateID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}
