package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepverse/prepverse-backend/internal/exam"
	"github.com/prepverse/prepverse-backend/internal/model"
)

// AttemptRepository handles attempt data access. All mutating paths run
// inside a caller-owned transaction holding the attempt row lock, so
// record-answer, submit-section and submit-test calls for the same
// attempt serialize while different attempts proceed in parallel.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// Begin opens a transaction for a locked attempt mutation.
func (r *AttemptRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

const attemptColumns = `id, test_id, candidate_id, started_at, submitted_at, is_completed,
	current_section, total_score, correct_count, incorrect_count, unanswered_count,
	time_taken_minutes, section_times`

func scanAttempt(row pgx.Row) (*model.Attempt, error) {
	a := &model.Attempt{}
	var sections []byte
	err := row.Scan(&a.ID, &a.TestID, &a.CandidateID, &a.StartedAt, &a.SubmittedAt, &a.IsCompleted,
		&a.CurrentSection, &a.TotalScore, &a.CorrectCount, &a.IncorrectCount, &a.UnansweredCount,
		&a.TimeTakenMinutes, &sections)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sections, &a.Sections); err != nil {
		return nil, fmt.Errorf("decode section_times: %w", err)
	}
	return a, nil
}

// CreateIfAbsent inserts a new attempt unless one already exists for
// (test, candidate). Returns pgx.ErrNoRows on conflict, in which case the caller
// resolves the race by fetching the existing attempt (idempotent start).
func (r *AttemptRepository) CreateIfAbsent(ctx context.Context, a *model.Attempt) error {
	sections, err := json.Marshal(a.Sections)
	if err != nil {
		return fmt.Errorf("encode section_times: %w", err)
	}
	var deadline *time.Time
	if d := exam.SectionDeadline(a.ActiveSection()); !d.IsZero() {
		deadline = &d
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO attempts (test_id, candidate_id, started_at, current_section, section_times, section_deadline)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (test_id, candidate_id) DO NOTHING
		 RETURNING id, started_at`,
		a.TestID, a.CandidateID, a.StartedAt, a.CurrentSection, sections, deadline,
	).Scan(&a.ID, &a.StartedAt)
}

// GetByID retrieves an attempt by id (no lock).
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error) {
	return scanAttempt(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM attempts WHERE id = $1`, id))
}

// GetByTestAndCandidate retrieves the attempt for a (test, candidate) pair.
func (r *AttemptRepository) GetByTestAndCandidate(ctx context.Context, testID uuid.UUID, candidateID int) (*model.Attempt, error) {
	return scanAttempt(r.pool.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM attempts
		 WHERE test_id = $1 AND candidate_id = $2`, testID, candidateID))
}

// GetForUpdate retrieves an attempt inside tx, holding its row lock until
// commit. Concurrent submit/answer calls for the same attempt queue here.
func (r *AttemptRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Attempt, error) {
	return scanAttempt(tx.QueryRow(ctx,
		`SELECT `+attemptColumns+` FROM attempts WHERE id = $1 FOR UPDATE`, id))
}

// SaveProgress persists the attempt's clock state: current section, the
// section_times array and the derived active-section deadline used by the
// expiry sweep.
func (r *AttemptRepository) SaveProgress(ctx context.Context, tx pgx.Tx, a *model.Attempt) error {
	sections, err := json.Marshal(a.Sections)
	if err != nil {
		return fmt.Errorf("encode section_times: %w", err)
	}
	var deadline *time.Time
	if d := exam.SectionDeadline(a.ActiveSection()); !d.IsZero() {
		deadline = &d
	}
	_, err = tx.Exec(ctx,
		`UPDATE attempts
		 SET current_section = $1, section_times = $2, section_deadline = $3
		 WHERE id = $4`,
		a.CurrentSection, sections, deadline, a.ID)
	return err
}

// Complete finalizes an attempt: aggregates, completion flags and the
// cleared clock state, in one write.
func (r *AttemptRepository) Complete(ctx context.Context, tx pgx.Tx, a *model.Attempt) error {
	sections, err := json.Marshal(a.Sections)
	if err != nil {
		return fmt.Errorf("encode section_times: %w", err)
	}
	_, err = tx.Exec(ctx,
		`UPDATE attempts
		 SET is_completed = TRUE, submitted_at = $1, current_section = NULL,
		     total_score = $2, correct_count = $3, incorrect_count = $4,
		     unanswered_count = $5, time_taken_minutes = $6,
		     section_times = $7, section_deadline = NULL
		 WHERE id = $8`,
		a.SubmittedAt, a.TotalScore, a.CorrectCount, a.IncorrectCount,
		a.UnansweredCount, a.TimeTakenMinutes, sections, a.ID)
	return err
}

// ListByCandidate retrieves all attempts of a candidate, newest first.
func (r *AttemptRepository) ListByCandidate(ctx context.Context, candidateID int) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attemptColumns+` FROM attempts
		 WHERE candidate_id = $1
		 ORDER BY started_at DESC`, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, *a)
	}
	return attempts, rows.Err()
}

// ListExpiredIDs returns attempts whose active section deadline passed
// before the cutoff. Feeds the sweep worker; the forced submit itself
// re-checks under the row lock.
func (r *AttemptRepository) ListExpiredIDs(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM attempts
		 WHERE is_completed = FALSE AND section_deadline IS NOT NULL AND section_deadline < $1
		 ORDER BY section_deadline
		 LIMIT $2`, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListCompletedStandings loads the rank-computation inputs for all
// completed attempts of a test, in stable submission order.
func (r *AttemptRepository) ListCompletedStandings(ctx context.Context, testID uuid.UUID) ([]exam.Standing, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT candidate_id, total_score, time_taken_minutes, submitted_at
		 FROM attempts
		 WHERE test_id = $1 AND is_completed = TRUE
		 ORDER BY submitted_at, candidate_id`, testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var standings []exam.Standing
	for rows.Next() {
		var s exam.Standing
		if err := rows.Scan(&s.CandidateID, &s.Score, &s.TimeTakenMinutes, &s.SubmittedAt); err != nil {
			return nil, err
		}
		standings = append(standings, s)
	}
	return standings, rows.Err()
}

// Delete removes an attempt and its answers (administrative reset only).
func (r *AttemptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM attempts WHERE id = $1`, id)
	return err
}

// AttemptResult joins an attempt with its candidate for the admin
// results listing.
type AttemptResult struct {
	AttemptID        uuid.UUID  `json:"attempt_id"`
	CandidateID      int        `json:"candidate_id"`
	CandidateName    string     `json:"candidate_name"`
	CandidateEmail   string     `json:"candidate_email"`
	IsCompleted      bool       `json:"is_completed"`
	TotalScore       float64    `json:"total_score"`
	CorrectCount     int        `json:"correct_count"`
	IncorrectCount   int        `json:"incorrect_count"`
	UnansweredCount  int        `json:"unanswered_count"`
	TimeTakenMinutes float64    `json:"time_taken_minutes"`
	StartedAt        time.Time  `json:"started_at"`
	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
}

// ListByTest retrieves attempt results for a test with pagination.
func (r *AttemptRepository) ListByTest(ctx context.Context, testID uuid.UUID, limit, offset int) ([]AttemptResult, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM attempts WHERE test_id = $1`, testID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT a.id, c.id, c.name, c.email, a.is_completed, a.total_score,
		        a.correct_count, a.incorrect_count, a.unanswered_count,
		        a.time_taken_minutes, a.started_at, a.submitted_at
		 FROM attempts a
		 JOIN candidates c ON a.candidate_id = c.id
		 WHERE a.test_id = $1
		 ORDER BY a.total_score DESC, a.time_taken_minutes ASC
		 LIMIT $2 OFFSET $3`, testID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []AttemptResult
	for rows.Next() {
		var res AttemptResult
		if err := rows.Scan(&res.AttemptID, &res.CandidateID, &res.CandidateName, &res.CandidateEmail,
			&res.IsCompleted, &res.TotalScore, &res.CorrectCount, &res.IncorrectCount,
			&res.UnansweredCount, &res.TimeTakenMinutes, &res.StartedAt, &res.SubmittedAt); err != nil {
			return nil, 0, err
		}
		results = append(results, res)
	}
	return results, total, rows.Err()
}
