package worker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prepverse/prepverse-backend/internal/config"
	"github.com/prepverse/prepverse-backend/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	RankBatchSize    = 50
	RankBatchTimeout = 2 * time.Second
	RankPollTimeout  = 1 * time.Second
)

// RankingWorker consumes test IDs queued on attempt completion and
// recomputes each test's full ranking table. The batch window dedupes:
// twenty completions of the same test inside it cost one recomputation,
// and the full-replace semantics make the collapsed run equivalent.
type RankingWorker struct {
	rankingService *service.RankingService
	rdb            *redis.Client
	log            zerolog.Logger
}

// NewRankingWorker creates a new RankingWorker.
func NewRankingWorker(rankingService *service.RankingService, rdb *redis.Client, log zerolog.Logger) *RankingWorker {
	return &RankingWorker{
		rankingService: rankingService,
		rdb:            rdb,
		log:            log.With().Str("component", "ranking_worker").Logger(),
	}
}

// Start runs the consume loop until ctx is cancelled. A pending batch is
// flushed on shutdown.
func (w *RankingWorker) Start(ctx context.Context) {
	w.log.Info().Msg("RankingWorker started")

	batch := make(map[uuid.UUID]struct{}, RankBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= RankBatchSize || time.Since(lastFlush) >= RankBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = make(map[uuid.UUID]struct{}, RankBatchSize)
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, RankPollTimeout, config.WorkerKey.RecomputeRankingsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			testID, err := uuid.Parse(item[1])
			if err != nil {
				w.log.Error().Err(err).Str("raw", item[1]).Msg("Invalid test id on queue")
				continue
			}

			batch[testID] = struct{}{}
		}
	}
}

// flushSafe recomputes each queued test, requeueing the ones that fail
// so a transient database outage never drops a recomputation.
func (w *RankingWorker) flushSafe(ctx context.Context, batch map[uuid.UUID]struct{}) {
	for testID := range batch {
		if err := w.rankingService.RankTest(ctx, testID); err != nil {
			// Stale IDs (test deleted, ranking flag flipped off) are
			// dropped; anything else is retried.
			if errors.Is(err, service.ErrRankingDisabled) || errors.Is(err, pgx.ErrNoRows) {
				w.log.Warn().Str("test_id", testID.String()).Msg("Test not rankable, dropping")
				continue
			}
			w.log.Error().Err(err).Str("test_id", testID.String()).Msg("RankTest failed, requeueing")
			w.rdb.RPush(ctx, config.WorkerKey.RecomputeRankingsQueue, testID.String())
		}
	}
}
