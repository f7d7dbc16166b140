package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prepverse/prepverse-backend/internal/config"
	"github.com/prepverse/prepverse-backend/internal/exam"
	"github.com/prepverse/prepverse-backend/internal/model"
	"github.com/prepverse/prepverse-backend/internal/pattern"
	"github.com/prepverse/prepverse-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Attempt lifecycle errors.
var (
	ErrTestUnavailable   = errors.New("test is outside its availability window")
	ErrInvalidState      = errors.New("operation is not legal in the attempt's current state")
	ErrSectionMismatch   = errors.New("target section is not the active section")
	ErrSectionExpired    = errors.New("active section time has expired")
	ErrAlreadyCompleted  = errors.New("attempt is already completed")
	ErrNotAttemptOwner   = errors.New("attempt belongs to another candidate")
	ErrQuestionNotInTest = errors.New("question does not belong to this test")
)

// AttemptService drives the attempt lifecycle: start/resume, answer
// recording, section submission and final completion. Every mutating
// path runs inside a transaction holding the attempt row lock, and every
// authoritative operation re-derives the active section clock first, so
// an expired section is force-submitted before the request is judged.
type AttemptService struct {
	attemptRepo *repository.AttemptRepository
	answerRepo  *repository.AnswerRepository
	rankingRepo *repository.RankingRepository
	testRepo    *repository.TestRepository
	testSvc     *TestService
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	attemptRepo *repository.AttemptRepository,
	answerRepo *repository.AnswerRepository,
	rankingRepo *repository.RankingRepository,
	testRepo *repository.TestRepository,
	testSvc *TestService,
	rdb *redis.Client,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		attemptRepo: attemptRepo,
		answerRepo:  answerRepo,
		rankingRepo: rankingRepo,
		testRepo:    testRepo,
		testSvc:     testSvc,
		rdb:         rdb,
		log:         log.With().Str("component", "attempt_service").Logger(),
	}
}

// StartResult is returned by Start: the attempt plus everything the
// client needs to render the active section.
type StartResult struct {
	AttemptID        uuid.UUID                    `json:"attempt_id"`
	CurrentSection   int                          `json:"current_section"`
	RemainingSeconds int                          `json:"remaining_seconds"`
	Questions        []model.QuestionForCandidate `json:"questions"`
	Resumed          bool                         `json:"resumed"`
}

// AnswerResult is returned by RecordAnswer.
type AnswerResult struct {
	QuestionState    exam.AnswerState `json:"question_state"`
	RemainingSeconds int              `json:"remaining_seconds"`
}

// SubmitSectionResult is returned by SubmitSection.
type SubmitSectionResult struct {
	NextSection      *int                  `json:"next_section"`
	IsLastSection    bool                  `json:"is_last_section"`
	RemainingSeconds int                   `json:"remaining_seconds"`
	Summary          *model.AttemptSummary `json:"summary,omitempty"`
}

// AnswerSnapshot is one question's recorded answer as seen on reload.
type AnswerSnapshot struct {
	QuestionID      uuid.UUID        `json:"question_id"`
	SectionNumber   int              `json:"section_number"`
	SelectedOption  *int             `json:"selected_option"`
	MarkedForReview bool             `json:"is_marked_for_review"`
	State           exam.AnswerState `json:"state"`
}

// AttemptState is the reload/resume snapshot of an attempt.
type AttemptState struct {
	Attempt          *model.Attempt               `json:"attempt"`
	RemainingSeconds int                          `json:"remaining_seconds"`
	Questions        []model.QuestionForCandidate `json:"questions,omitempty"`
	Answers          []AnswerSnapshot             `json:"answers"`
}

// Start creates an attempt for (candidate, test) or resumes the existing
// incomplete one. Idempotent under concurrent duplicate starts: the
// unique (test, candidate) constraint lets exactly one insert win and the
// loser resumes what the winner created.
func (s *AttemptService) Start(ctx context.Context, testID uuid.UUID, candidateID int) (*StartResult, error) {
	t, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if t.Status != model.TestStatusPublished || !t.AvailableAt(now) {
		return nil, ErrTestUnavailable
	}
	p, err := s.testSvc.Pattern(t)
	if err != nil {
		return nil, err
	}

	a := newAttempt(testID, candidateID, p, now)
	resumed := false

	if err := s.attemptRepo.CreateIfAbsent(ctx, a); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("create attempt: %w", err)
		}
		// An attempt already exists. Resume it through the locked
		// expiry pass so a stale active section is advanced first.
		existing, err := s.attemptRepo.GetByTestAndCandidate(ctx, testID, candidateID)
		if err != nil {
			return nil, fmt.Errorf("fetch existing attempt: %w", err)
		}
		if existing.IsCompleted {
			return nil, ErrAlreadyCompleted
		}
		a, err = s.refresh(ctx, existing.ID)
		if err != nil {
			return nil, err
		}
		if a.IsCompleted {
			return nil, ErrAlreadyCompleted
		}
		resumed = true
	}

	if err := s.rdb.Set(ctx, config.CacheKey.CandidateActiveAttemptKey(candidateID), a.ID.String(), 0).Err(); err != nil {
		s.log.Warn().Err(err).Str("attempt_id", a.ID.String()).Msg("Failed to cache active attempt")
	}

	section := *a.CurrentSection
	payload, err := s.testSvc.GetSectionPayload(ctx, testID, section)
	if err != nil {
		return nil, err
	}

	return &StartResult{
		AttemptID:        a.ID,
		CurrentSection:   section,
		RemainingSeconds: exam.SectionRemaining(a.ActiveSection(), time.Now()),
		Questions:        payload.Questions,
		Resumed:          resumed,
	}, nil
}

// newAttempt builds the initial attempt state for a pattern: one
// SectionTime per section, section 1 active at now.
func newAttempt(testID uuid.UUID, candidateID int, p *pattern.ExamPattern, now time.Time) *model.Attempt {
	sections := make([]model.SectionTime, len(p.Sections))
	for i, tpl := range p.Sections {
		sections[i] = model.SectionTime{
			Section:          tpl.SectionNumber,
			RemainingSeconds: tpl.DurationSeconds,
		}
	}
	start := now
	sections[0].StartTime = &start

	first := 1
	return &model.Attempt{
		TestID:         testID,
		CandidateID:    candidateID,
		StartedAt:      now,
		CurrentSection: &first,
		Sections:       sections,
	}
}

// RecordAnswer upserts the answer for one question of the active section
// and checkpoints the section clock. The question state is classified
// from (selectedOption, markedForReview) after the write.
func (s *AttemptService) RecordAnswer(ctx context.Context, attemptID uuid.UUID, candidateID int, questionID uuid.UUID, req *model.RecordAnswerRequest) (*AnswerResult, error) {
	tx, err := s.attemptRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	a, err := s.attemptRepo.GetForUpdate(ctx, tx, attemptID)
	if err != nil {
		return nil, err
	}
	if a.CandidateID != candidateID {
		return nil, ErrNotAttemptOwner
	}
	if a.IsCompleted {
		return nil, ErrInvalidState
	}

	t, err := s.testRepo.GetByID(ctx, a.TestID)
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}
	p, err := s.testSvc.Pattern(t)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if expired := applyExpiry(a, now); expired {
		// The clock ran out before this write arrived. Persist the
		// forced transition and reject the mutation.
		if a.CurrentSection == nil {
			if err := s.finalize(ctx, tx, a, p, now); err != nil {
				return nil, err
			}
			if err := tx.Commit(ctx); err != nil {
				return nil, fmt.Errorf("commit: %w", err)
			}
			s.afterCompletion(ctx, t, a)
			return nil, ErrSectionExpired
		}
		if err := s.attemptRepo.SaveProgress(ctx, tx, a); err != nil {
			return nil, fmt.Errorf("save progress: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit: %w", err)
		}
		return nil, ErrSectionExpired
	}

	if a.CurrentSection == nil || *a.CurrentSection != req.SectionNumber {
		return nil, ErrSectionMismatch
	}

	// Grade from the cached answer key; membership in the section
	// payload proves the question belongs to the active section.
	answerKey, err := s.testSvc.GetAnswerKey(ctx, a.TestID)
	if err != nil {
		return nil, err
	}
	correctOption, ok := answerKey[questionID]
	if !ok {
		return nil, ErrQuestionNotInTest
	}
	payload, err := s.testSvc.GetSectionPayload(ctx, a.TestID, req.SectionNumber)
	if err != nil {
		return nil, err
	}
	inSection := false
	for i := range payload.Questions {
		if payload.Questions[i].ID == questionID {
			inSection = true
			break
		}
	}
	if !inSection {
		return nil, ErrSectionMismatch
	}

	var isCorrect *bool
	if req.SelectedOption != nil {
		v := *req.SelectedOption == correctOption
		isCorrect = &v
	}

	record := &model.AnswerRecord{
		AttemptID:       a.ID,
		QuestionID:      questionID,
		SelectedOption:  req.SelectedOption,
		IsCorrect:       isCorrect,
		MarkedForReview: req.MarkedForReview,
		MarksAwarded:    exam.ScoreAnswer(req.SelectedOption, correctOption, p),
		SectionNumber:   req.SectionNumber,
		AnsweredAt:      now,
	}
	if err := s.answerRepo.Upsert(ctx, tx, record); err != nil {
		return nil, fmt.Errorf("upsert answer: %w", err)
	}

	// Checkpoint the clock: fold elapsed time into remaining_seconds and
	// restart measurement from now, so a reload reconstructs the same
	// countdown.
	active := a.ActiveSection()
	active.RemainingSeconds = exam.SectionRemaining(active, now)
	checkpoint := now
	active.StartTime = &checkpoint
	if err := s.attemptRepo.SaveProgress(ctx, tx, a); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &AnswerResult{
		QuestionState:    exam.ClassifyAnswer(true, req.SelectedOption, req.MarkedForReview),
		RemainingSeconds: active.RemainingSeconds,
	}, nil
}

// SubmitSection closes section n and activates the next one, or triggers
// final completion when n is the last. The timer-expiry path and a manual
// click race safely: whichever acquires the row lock first performs the
// single advance, and a manual submit that finds its section just expired
// reports the same transition instead of failing.
func (s *AttemptService) SubmitSection(ctx context.Context, attemptID uuid.UUID, candidateID, section int) (*SubmitSectionResult, error) {
	tx, err := s.attemptRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	a, err := s.attemptRepo.GetForUpdate(ctx, tx, attemptID)
	if err != nil {
		return nil, err
	}
	if a.CandidateID != candidateID {
		return nil, ErrNotAttemptOwner
	}
	if a.IsCompleted {
		return nil, ErrInvalidState
	}
	if a.Section(section) == nil {
		return nil, ErrSectionMismatch
	}

	t, err := s.testRepo.GetByID(ctx, a.TestID)
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}
	p, err := s.testSvc.Pattern(t)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expired := applyExpiry(a, now)

	switch {
	case a.CurrentSection != nil && *a.CurrentSection == section:
		advanceSection(a, now)
	case expired && a.Section(section).IsSubmitted:
		// Expiry just performed this exact transition; report it.
	default:
		return nil, ErrSectionMismatch
	}

	if a.CurrentSection == nil {
		if err := s.finalize(ctx, tx, a, p, now); err != nil {
			return nil, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit: %w", err)
		}
		s.afterCompletion(ctx, t, a)
		return &SubmitSectionResult{
			IsLastSection: true,
			Summary:       summaryOf(a),
		}, nil
	}

	if err := s.attemptRepo.SaveProgress(ctx, tx, a); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	next := *a.CurrentSection
	return &SubmitSectionResult{
		NextSection:      &next,
		RemainingSeconds: exam.SectionRemaining(a.ActiveSection(), now),
	}, nil
}

// SubmitTest finalizes the attempt. Sections still open are submitted in
// order first (ending the test early forfeits their remaining time).
// Idempotent guard: a second submit fails with ErrAlreadyCompleted and
// never rescores.
func (s *AttemptService) SubmitTest(ctx context.Context, attemptID uuid.UUID, candidateID int) (*model.AttemptSummary, error) {
	tx, err := s.attemptRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	a, err := s.attemptRepo.GetForUpdate(ctx, tx, attemptID)
	if err != nil {
		return nil, err
	}
	if a.CandidateID != candidateID {
		return nil, ErrNotAttemptOwner
	}
	if a.IsCompleted {
		return nil, ErrAlreadyCompleted
	}

	t, err := s.testRepo.GetByID(ctx, a.TestID)
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}
	p, err := s.testSvc.Pattern(t)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	applyExpiry(a, now)
	for a.CurrentSection != nil {
		advanceSection(a, now)
	}

	if err := s.finalize(ctx, tx, a, p, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	s.afterCompletion(ctx, t, a)

	return summaryOf(a), nil
}

// State returns the reload/resume snapshot: the attempt with a freshly
// derived clock, the active section's questions and all recorded answers
// with their classified states.
func (s *AttemptService) State(ctx context.Context, attemptID uuid.UUID, candidateID int) (*AttemptState, error) {
	a, err := s.refresh(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if a.CandidateID != candidateID {
		return nil, ErrNotAttemptOwner
	}

	answers, err := s.answerRepo.ListByAttempt(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	snapshots := make([]AnswerSnapshot, len(answers))
	for i, rec := range answers {
		snapshots[i] = AnswerSnapshot{
			QuestionID:      rec.QuestionID,
			SectionNumber:   rec.SectionNumber,
			SelectedOption:  rec.SelectedOption,
			MarkedForReview: rec.MarkedForReview,
			State:           exam.ClassifyAnswer(true, rec.SelectedOption, rec.MarkedForReview),
		}
	}

	state := &AttemptState{
		Attempt: a,
		Answers: snapshots,
	}
	if a.CurrentSection != nil {
		state.RemainingSeconds = exam.SectionRemaining(a.ActiveSection(), time.Now())
		payload, err := s.testSvc.GetSectionPayload(ctx, a.TestID, *a.CurrentSection)
		if err != nil {
			return nil, err
		}
		state.Questions = payload.Questions
	}
	return state, nil
}

// Remaining returns the authoritative remaining seconds of the attempt's
// active section, forcing expiry transitions first. Backs the clock
// stream; a client's "time up" message lands here as a hint.
func (s *AttemptService) Remaining(ctx context.Context, attemptID uuid.UUID, candidateID int) (section int, seconds int, completed bool, err error) {
	a, err := s.refresh(ctx, attemptID)
	if err != nil {
		return 0, 0, false, err
	}
	if a.CandidateID != candidateID {
		return 0, 0, false, ErrNotAttemptOwner
	}
	if a.IsCompleted || a.CurrentSection == nil {
		return 0, 0, true, nil
	}
	return *a.CurrentSection, exam.SectionRemaining(a.ActiveSection(), time.Now()), false, nil
}

// Review returns the post-completion answer review: every question with
// the candidate's pick, the correct option and the computed verdict.
// Verdicts are derived on read, never stored.
func (s *AttemptService) Review(ctx context.Context, attemptID uuid.UUID, candidateID int) ([]model.ReviewedAnswer, *model.AttemptSummary, error) {
	a, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		return nil, nil, err
	}
	if a.CandidateID != candidateID {
		return nil, nil, ErrNotAttemptOwner
	}
	if !a.IsCompleted {
		return nil, nil, ErrInvalidState
	}

	questions, err := s.testSvc.questionRepo.ListByTest(ctx, a.TestID)
	if err != nil {
		return nil, nil, fmt.Errorf("list questions: %w", err)
	}
	answers, err := s.answerRepo.ListByAttempt(ctx, attemptID)
	if err != nil {
		return nil, nil, fmt.Errorf("list answers: %w", err)
	}
	byQuestion := make(map[uuid.UUID]*model.AnswerRecord, len(answers))
	for i := range answers {
		byQuestion[answers[i].QuestionID] = &answers[i]
	}

	reviewed := make([]model.ReviewedAnswer, 0, len(questions))
	for _, q := range questions {
		var options []string
		if err := json.Unmarshal(q.Options, &options); err != nil {
			return nil, nil, fmt.Errorf("decode options for question %s: %w", q.ID, err)
		}

		entry := model.ReviewedAnswer{
			QuestionID:    q.ID,
			SectionNumber: q.SectionNumber,
			QuestionText:  q.QuestionText,
			Options:       options,
			CorrectOption: q.CorrectOption,
		}
		if rec, ok := byQuestion[q.ID]; ok {
			entry.SelectedOption = rec.SelectedOption
			entry.MarkedForReview = rec.MarkedForReview
			entry.MarksAwarded = rec.MarksAwarded
			entry.Verdict = exam.Verdict(rec.SelectedOption, q.CorrectOption)
		} else {
			entry.Verdict = exam.Verdict(nil, q.CorrectOption)
		}
		reviewed = append(reviewed, entry)
	}

	return reviewed, summaryOf(a), nil
}

// ListForCandidate returns a candidate's attempts, newest first.
func (s *AttemptService) ListForCandidate(ctx context.Context, candidateID int) ([]model.Attempt, error) {
	return s.attemptRepo.ListByCandidate(ctx, candidateID)
}

// ForceExpire runs the expiry pass for one attempt. Called by the sweep
// worker for attempts whose deadline passed; a no-op when the candidate's
// own traffic already advanced the clock.
func (s *AttemptService) ForceExpire(ctx context.Context, attemptID uuid.UUID) error {
	_, err := s.refresh(ctx, attemptID)
	return err
}

// Reset deletes an attempt and its answers so the candidate can start
// over. Administrative only. The candidate's ranking row goes with it and
// a recomputation is queued for the remaining field.
func (s *AttemptService) Reset(ctx context.Context, attemptID uuid.UUID) error {
	a, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		return err
	}
	if err := s.attemptRepo.Delete(ctx, attemptID); err != nil {
		return fmt.Errorf("delete attempt: %w", err)
	}
	if err := s.rankingRepo.DeleteForCandidate(ctx, a.TestID, a.CandidateID); err != nil {
		return fmt.Errorf("delete ranking: %w", err)
	}
	_ = s.rdb.Del(ctx, config.CacheKey.CandidateActiveAttemptKey(a.CandidateID)).Err()
	if err := s.rdb.RPush(ctx, config.WorkerKey.RecomputeRankingsQueue, a.TestID.String()).Err(); err != nil {
		s.log.Error().Err(err).Str("test_id", a.TestID.String()).Msg("Failed to enqueue ranking recomputation")
	}

	s.log.Info().
		Str("attempt_id", attemptID.String()).
		Int("candidate_id", a.CandidateID).
		Msg("Attempt reset")
	return nil
}

// refresh loads an attempt under the row lock, applies any pending expiry
// transitions and persists them. Completion discovered here finalizes the
// attempt exactly as a manual submit would.
func (s *AttemptService) refresh(ctx context.Context, attemptID uuid.UUID) (*model.Attempt, error) {
	tx, err := s.attemptRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	a, err := s.attemptRepo.GetForUpdate(ctx, tx, attemptID)
	if err != nil {
		return nil, err
	}
	if a.IsCompleted {
		return a, tx.Commit(ctx)
	}

	now := time.Now()
	if !applyExpiry(a, now) {
		return a, tx.Commit(ctx)
	}

	if a.CurrentSection == nil {
		t, err := s.testRepo.GetByID(ctx, a.TestID)
		if err != nil {
			return nil, fmt.Errorf("get test: %w", err)
		}
		p, err := s.testSvc.Pattern(t)
		if err != nil {
			return nil, err
		}
		if err := s.finalize(ctx, tx, a, p, now); err != nil {
			return nil, err
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit: %w", err)
		}
		s.afterCompletion(ctx, t, a)
		return a, nil
	}

	if err := s.attemptRepo.SaveProgress(ctx, tx, a); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	return a, tx.Commit(ctx)
}

// finalize aggregates the attempt's answers and writes the completed
// state inside the caller's transaction. The tally recomputes from the
// stored records and must agree exactly with the incremental per-answer
// marks.
func (s *AttemptService) finalize(ctx context.Context, tx pgx.Tx, a *model.Attempt, p *pattern.ExamPattern, now time.Time) error {
	answers, err := s.answerRepo.ListByAttemptTx(ctx, tx, a.ID)
	if err != nil {
		return fmt.Errorf("list answers: %w", err)
	}
	sum := exam.Tally(answers, p.TotalQuestions())

	submitted := now
	a.SubmittedAt = &submitted
	a.IsCompleted = true
	a.CurrentSection = nil
	a.TotalScore = sum.Score
	a.CorrectCount = sum.Correct
	a.IncorrectCount = sum.Incorrect
	a.UnansweredCount = sum.Unanswered
	a.TimeTakenMinutes = now.Sub(a.StartedAt).Minutes()

	if err := s.attemptRepo.Complete(ctx, tx, a); err != nil {
		return fmt.Errorf("complete attempt: %w", err)
	}
	return nil
}

// afterCompletion runs the post-commit side effects of a completion:
// clear the active-attempt key and queue the ranking recomputation.
func (s *AttemptService) afterCompletion(ctx context.Context, t *model.Test, a *model.Attempt) {
	_ = s.rdb.Del(ctx, config.CacheKey.CandidateActiveAttemptKey(a.CandidateID)).Err()

	s.log.Info().
		Str("attempt_id", a.ID.String()).
		Str("test_id", t.ID.String()).
		Float64("score", a.TotalScore).
		Msg("Attempt completed")

	if !t.RankingEnabled {
		return
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.RecomputeRankingsQueue, t.ID.String()).Err(); err != nil {
		s.log.Error().Err(err).Str("test_id", t.ID.String()).Msg("Failed to enqueue ranking recomputation")
	}
}

// applyExpiry force-submits the active section while its derived
// remaining time is zero, activating successors at now. Returns whether
// the attempt mutated. With a nil CurrentSection afterwards the caller
// must finalize.
func applyExpiry(a *model.Attempt, now time.Time) bool {
	mutated := false
	for {
		st := a.ActiveSection()
		if st == nil || exam.SectionRemaining(st, now) > 0 {
			break
		}
		advanceSection(a, now)
		mutated = true
	}
	return mutated
}

// advanceSection closes the active section and activates the next
// unsubmitted one at now, or clears CurrentSection when none remains.
// Identical effect for manual submits and time-up forced submits.
func advanceSection(a *model.Attempt, now time.Time) {
	n := *a.CurrentSection
	st := a.Section(n)
	st.IsSubmitted = true
	st.RemainingSeconds = 0
	st.StartTime = nil

	if next := a.Section(n + 1); next != nil && !next.IsSubmitted {
		start := now
		next.StartTime = &start
		nn := n + 1
		a.CurrentSection = &nn
		return
	}
	a.CurrentSection = nil
}

func summaryOf(a *model.Attempt) *model.AttemptSummary {
	return &model.AttemptSummary{
		AttemptID:        a.ID,
		Score:            a.TotalScore,
		Correct:          a.CorrectCount,
		Incorrect:        a.IncorrectCount,
		Unanswered:       a.UnansweredCount,
		TimeTakenMinutes: a.TimeTakenMinutes,
	}
}
