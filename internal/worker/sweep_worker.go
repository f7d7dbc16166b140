package worker

import (
	"context"
	"time"

	"github.com/prepverse/prepverse-backend/internal/repository"
	"github.com/prepverse/prepverse-backend/internal/service"
	"github.com/rs/zerolog"
)

// SweepBatchSize caps how many stale attempts one sweep pass touches.
const SweepBatchSize = 200

// SweepWorker periodically force-submits attempts whose active section
// deadline passed and whose candidate never came back. Liveness aid
// only: the lazy expiry check on every candidate operation keeps the
// engine correct without it, this just stops abandoned attempts from
// sitting half-open forever.
type SweepWorker struct {
	attemptRepo    *repository.AttemptRepository
	attemptService *service.AttemptService
	interval       time.Duration
	grace          time.Duration
	log            zerolog.Logger
}

// NewSweepWorker creates a new SweepWorker. grace delays the sweep past
// the deadline so in-flight candidate requests win the row lock first.
func NewSweepWorker(
	attemptRepo *repository.AttemptRepository,
	attemptService *service.AttemptService,
	interval, grace time.Duration,
	log zerolog.Logger,
) *SweepWorker {
	return &SweepWorker{
		attemptRepo:    attemptRepo,
		attemptService: attemptService,
		interval:       interval,
		grace:          grace,
		log:            log.With().Str("component", "sweep_worker").Logger(),
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (w *SweepWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("SweepWorker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("SweepWorker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *SweepWorker) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-w.grace)
	ids, err := w.attemptRepo.ListExpiredIDs(ctx, cutoff, SweepBatchSize)
	if err != nil {
		w.log.Error().Err(err).Msg("List expired attempts failed")
		return
	}
	if len(ids) == 0 {
		return
	}

	swept := 0
	for _, id := range ids {
		// ForceExpire re-checks under the row lock; an attempt the
		// candidate just advanced is left alone.
		if err := w.attemptService.ForceExpire(ctx, id); err != nil {
			w.log.Error().Err(err).Str("attempt_id", id.String()).Msg("Force expire failed")
			continue
		}
		swept++
	}

	w.log.Info().Int("swept", swept).Int("candidates", len(ids)).Msg("Sweep pass complete")
}
