package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prepverse/prepverse-backend/internal/config"
	"github.com/prepverse/prepverse-backend/internal/model"
	"github.com/prepverse/prepverse-backend/internal/pattern"
	"github.com/prepverse/prepverse-backend/internal/repository"
	"github.com/prepverse/prepverse-backend/internal/response"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Domain errors.
var (
	ErrUnknownPattern      = errors.New("unknown exam pattern")
	ErrNotTestAuthor       = errors.New("not the author of this test")
	ErrTestNotDraft        = errors.New("test status is not DRAFT")
	ErrTestNotPublished    = errors.New("test status is not PUBLISHED")
	ErrInsufficientContent = errors.New("question counts do not match the pattern's section layout")
)

// TestService handles test lifecycle, pattern validation and Redis caching.
type TestService struct {
	testRepo     *repository.TestRepository
	questionRepo *repository.QuestionRepository
	attemptRepo  *repository.AttemptRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewTestService creates a new TestService.
func NewTestService(
	testRepo *repository.TestRepository,
	questionRepo *repository.QuestionRepository,
	attemptRepo *repository.AttemptRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *TestService {
	return &TestService{
		testRepo:     testRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "test_service").Logger(),
	}
}

// GetByID retrieves a test by its UUID.
func (s *TestService) GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	return s.testRepo.GetByID(ctx, id)
}

// Pattern resolves a test's catalog pattern.
func (s *TestService) Pattern(t *model.Test) (*pattern.ExamPattern, error) {
	p, ok := pattern.Get(t.PatternID)
	if !ok {
		return nil, ErrUnknownPattern
	}
	return p, nil
}

// List retrieves tests for the admin listing, newest first.
func (s *TestService) List(ctx context.Context, page, perPage int) ([]model.Test, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	tests, total, err := s.testRepo.ListPaginated(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if tests == nil {
		tests = []model.Test{}
	}

	return tests, response.NewPagination(page, perPage, total), nil
}

// Create inserts a new test as DRAFT after validating the pattern id
// against the catalog.
func (s *TestService) Create(ctx context.Context, t *model.Test) error {
	if _, ok := pattern.Get(t.PatternID); !ok {
		return ErrUnknownPattern
	}
	t.Status = model.TestStatusDraft
	return s.testRepo.Create(ctx, t)
}

// Update modifies an existing draft test. The pattern id is immutable
// after creation; changing the section layout would invalidate questions.
func (s *TestService) Update(ctx context.Context, authorID int, t *model.Test) error {
	existing, err := s.testRepo.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	if authorID != 0 && existing.AuthorID != authorID {
		return ErrNotTestAuthor
	}
	if existing.Status != model.TestStatusDraft {
		return ErrTestNotDraft
	}
	t.PatternID = existing.PatternID
	return s.testRepo.Update(ctx, t)
}

// Delete removes a draft test.
func (s *TestService) Delete(ctx context.Context, id uuid.UUID, authorID int) error {
	existing, err := s.testRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if authorID != 0 && existing.AuthorID != authorID {
		return ErrNotTestAuthor
	}
	if existing.Status != model.TestStatusDraft {
		return ErrTestNotDraft
	}
	return s.testRepo.Delete(ctx, id)
}

// Archive retires a published test. Archived tests disappear from the
// lobby but completed attempts and rankings stay readable.
func (s *TestService) Archive(ctx context.Context, id uuid.UUID) error {
	existing, err := s.testRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.Status != model.TestStatusPublished {
		return ErrTestNotPublished
	}
	return s.testRepo.UpdateStatus(ctx, id, model.TestStatusArchived)
}

// ReplaceQuestions bulk replaces a draft test's question set.
func (s *TestService) ReplaceQuestions(ctx context.Context, testID uuid.UUID, authorID int, questions []model.Question) error {
	existing, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		return err
	}
	if authorID != 0 && existing.AuthorID != authorID {
		return ErrNotTestAuthor
	}
	if existing.Status != model.TestStatusDraft {
		return ErrTestNotDraft
	}

	p, err := s.Pattern(existing)
	if err != nil {
		return err
	}
	for i := range questions {
		if _, ok := p.Section(questions[i].SectionNumber); !ok {
			return fmt.Errorf("question %d: section %d does not exist in pattern %s",
				i, questions[i].SectionNumber, p.ID)
		}
	}

	return s.questionRepo.ReplaceForTest(ctx, testID, questions)
}

// Publish validates the test against its pattern and flips it to
// PUBLISHED, prewarming the Redis payload and answer-key caches. Every
// section must carry exactly the question count its template demands.
func (s *TestService) Publish(ctx context.Context, testID uuid.UUID, authorID int) error {
	t, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		return fmt.Errorf("get test: %w", err)
	}

	if authorID != 0 && t.AuthorID != authorID {
		return ErrNotTestAuthor
	}
	if t.Status != model.TestStatusDraft {
		return ErrTestNotDraft
	}

	p, err := s.Pattern(t)
	if err != nil {
		return err
	}

	counts, err := s.questionRepo.CountBySection(ctx, testID)
	if err != nil {
		return fmt.Errorf("count questions: %w", err)
	}
	for _, tpl := range p.Sections {
		if counts[tpl.SectionNumber] != tpl.QuestionCount {
			return ErrInsufficientContent
		}
	}
	for sec := range counts {
		if _, ok := p.Section(sec); !ok {
			return ErrInsufficientContent
		}
	}

	if err := s.WarmTestCache(ctx, t); err != nil {
		return err
	}

	if err := s.testRepo.UpdateStatus(ctx, testID, model.TestStatusPublished); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	s.log.Info().Str("test_id", testID.String()).Str("pattern", p.ID).Msg("Test published")
	return nil
}

// WarmTestCache loads a test's section payloads and answer key from
// PostgreSQL into Redis. Used by Publish and PrewarmAllCaches.
func (s *TestService) WarmTestCache(ctx context.Context, t *model.Test) error {
	p, err := s.Pattern(t)
	if err != nil {
		return err
	}

	questions, err := s.questionRepo.ListByTest(ctx, t.ID)
	if err != nil {
		return fmt.Errorf("list questions: %w", err)
	}
	if len(questions) == 0 {
		return ErrInsufficientContent
	}

	bySection := make(map[int][]model.QuestionForCandidate)
	answerKey := make(map[string]interface{}, len(questions))
	for _, q := range questions {
		bySection[q.SectionNumber] = append(bySection[q.SectionNumber], q.ForCandidate())
		answerKey[q.ID.String()] = q.CorrectOption
	}

	pipe := s.rdb.Pipeline()
	for _, tpl := range p.Sections {
		payload := model.SectionPayload{
			TestID:          t.ID,
			SectionNumber:   tpl.SectionNumber,
			DurationSeconds: tpl.DurationSeconds,
			Questions:       bySection[tpl.SectionNumber],
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal section payload: %w", err)
		}
		pipe.Set(ctx, config.CacheKey.TestSectionPayloadKey(t.ID.String(), tpl.SectionNumber), data, 0)
	}

	keyKey := config.CacheKey.TestAnswerKeyKey(t.ID.String())
	pipe.Del(ctx, keyKey)
	pipe.HSet(ctx, keyKey, answerKey)
	pipe.Set(ctx, config.CacheKey.TestPatternKey(t.ID.String()), t.PatternID, 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache to redis: %w", err)
	}

	s.log.Debug().
		Str("test_id", t.ID.String()).
		Int("questions", len(questions)).
		Msg("Cache warmed")
	return nil
}

// PrewarmAllCaches loads every published test into Redis on startup so
// the first candidate request never races a lazy fill.
func (s *TestService) PrewarmAllCaches(ctx context.Context) error {
	tests, err := s.testRepo.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list published tests: %w", err)
	}

	if len(tests) == 0 {
		s.log.Info().Msg("No published tests to prewarm")
		return nil
	}

	warmed := 0
	for i := range tests {
		if err := s.WarmTestCache(ctx, &tests[i]); err != nil {
			s.log.Warn().
				Err(err).
				Str("test_id", tests[i].ID.String()).
				Msg("Failed to warm test, skipping")
			continue
		}
		warmed++
	}

	s.log.Info().
		Int("warmed", warmed).
		Int("total", len(tests)).
		Msg("Prewarming complete")
	return nil
}

// GetSectionPayload retrieves the cached candidate payload for one
// section, falling back to PostgreSQL on a cache miss and self-healing
// the cache.
func (s *TestService) GetSectionPayload(ctx context.Context, testID uuid.UUID, section int) (*model.SectionPayload, error) {
	key := config.CacheKey.TestSectionPayloadKey(testID.String(), section)
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var payload model.SectionPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal section payload: %w", err)
		}
		return &payload, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get section payload: %w", err)
	}

	// Cache miss: rebuild from the source of truth.
	t, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}
	p, err := s.Pattern(t)
	if err != nil {
		return nil, err
	}
	tpl, ok := p.Section(section)
	if !ok {
		return nil, fmt.Errorf("section %d does not exist in pattern %s", section, p.ID)
	}

	questions, err := s.questionRepo.ListBySection(ctx, testID, section)
	if err != nil {
		return nil, fmt.Errorf("list section questions: %w", err)
	}

	payload := &model.SectionPayload{
		TestID:          testID,
		SectionNumber:   section,
		DurationSeconds: tpl.DurationSeconds,
		Questions:       make([]model.QuestionForCandidate, len(questions)),
	}
	for i := range questions {
		payload.Questions[i] = questions[i].ForCandidate()
	}

	if data, err := json.Marshal(payload); err == nil {
		_ = s.rdb.Set(ctx, key, data, 0).Err()
	}

	return payload, nil
}

// GetAnswerKey retrieves the answer key for grading, Redis first with a
// PostgreSQL fallback and self-heal.
func (s *TestService) GetAnswerKey(ctx context.Context, testID uuid.UUID) (map[uuid.UUID]int, error) {
	keyKey := config.CacheKey.TestAnswerKeyKey(testID.String())
	cached, err := s.rdb.HGetAll(ctx, keyKey).Result()
	if err != nil {
		return nil, fmt.Errorf("get answer key: %w", err)
	}

	if len(cached) > 0 {
		key := make(map[uuid.UUID]int, len(cached))
		for idStr, optStr := range cached {
			id, err := uuid.Parse(idStr)
			if err != nil {
				return nil, fmt.Errorf("invalid question id in cache: %w", err)
			}
			opt, err := strconv.Atoi(optStr)
			if err != nil {
				return nil, fmt.Errorf("invalid correct option in cache: %w", err)
			}
			key[id] = opt
		}
		return key, nil
	}

	// Cache miss (evicted or never published through this process).
	key, err := s.questionRepo.AnswerKey(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("load answer key: %w", err)
	}
	if len(key) == 0 {
		return nil, errors.New("test has no questions")
	}

	fields := make(map[string]interface{}, len(key))
	for id, opt := range key {
		fields[id.String()] = opt
	}
	_ = s.rdb.HSet(ctx, keyKey, fields).Err()

	return key, nil
}

// LobbyStatus represents the concrete state of a test in the lobby.
type LobbyStatus string

const (
	LobbyStatusUpcoming   LobbyStatus = "UPCOMING"
	LobbyStatusAvailable  LobbyStatus = "AVAILABLE"
	LobbyStatusInProgress LobbyStatus = "IN_PROGRESS"
	LobbyStatusCompleted  LobbyStatus = "COMPLETED"
)

// LobbyTest represents a test as displayed in the candidate lobby.
type LobbyTest struct {
	model.Test
	PatternName string      `json:"pattern_name"`
	LobbyStatus LobbyStatus `json:"lobby_status"`
	AttemptID   *uuid.UUID  `json:"attempt_id,omitempty"`
	FinalScore  *float64    `json:"final_score,omitempty"`
}

// GetLobby returns the published tests visible to a candidate, overlaid
// with their attempt state.
func (s *TestService) GetLobby(ctx context.Context, candidateID int) ([]LobbyTest, error) {
	tests, err := s.testRepo.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published tests: %w", err)
	}

	attempts, err := s.attemptRepo.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	attemptMap := make(map[uuid.UUID]*model.Attempt, len(attempts))
	for i := range attempts {
		attemptMap[attempts[i].TestID] = &attempts[i]
	}

	lobby := []LobbyTest{}
	now := time.Now()

	for i := range tests {
		t := &tests[i]
		entry := LobbyTest{Test: *t}
		if p, ok := pattern.Get(t.PatternID); ok {
			entry.PatternName = p.Name
		}

		if att, ok := attemptMap[t.ID]; ok {
			entry.AttemptID = &att.ID
			if att.IsCompleted {
				entry.LobbyStatus = LobbyStatusCompleted
				score := att.TotalScore
				entry.FinalScore = &score
			} else {
				entry.LobbyStatus = LobbyStatusInProgress
			}
		} else {
			if t.ScheduledStart != nil && t.ScheduledStart.After(now) {
				entry.LobbyStatus = LobbyStatusUpcoming
			} else if !t.AvailableAt(now) {
				// Expired without an attempt: hide.
				continue
			} else {
				entry.LobbyStatus = LobbyStatusAvailable
			}
		}

		lobby = append(lobby, entry)
	}

	return lobby, nil
}

// GetResults retrieves paginated attempt results for a test (admin view).
func (s *TestService) GetResults(ctx context.Context, testID uuid.UUID, page, perPage int) ([]repository.AttemptResult, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	if _, err := s.testRepo.GetByID(ctx, testID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("get test: %w", err)
	}
	return s.attemptRepo.ListByTest(ctx, testID, perPage, (page-1)*perPage)
}
