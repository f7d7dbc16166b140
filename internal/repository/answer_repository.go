package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepverse/prepverse-backend/internal/model"
)

// AnswerRepository handles answer record data access. Answers are an
// upsert keyed by (attempt, question): last write wins, no history.
type AnswerRepository struct {
	pool *pgxpool.Pool
}

// NewAnswerRepository creates a new AnswerRepository.
func NewAnswerRepository(pool *pgxpool.Pool) *AnswerRepository {
	return &AnswerRepository{pool: pool}
}

// Upsert writes the latest answer event for (attempt, question) inside
// the caller's attempt transaction. section_number is set on first write
// only; an answer can never move between sections.
func (r *AnswerRepository) Upsert(ctx context.Context, tx pgx.Tx, a *model.AnswerRecord) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO answers (attempt_id, question_id, selected_option, is_correct,
		                      is_marked_for_review, marks_awarded, section_number, answered_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (attempt_id, question_id) DO UPDATE
		 SET selected_option = EXCLUDED.selected_option,
		     is_correct = EXCLUDED.is_correct,
		     is_marked_for_review = EXCLUDED.is_marked_for_review,
		     marks_awarded = EXCLUDED.marks_awarded,
		     answered_at = EXCLUDED.answered_at`,
		a.AttemptID, a.QuestionID, a.SelectedOption, a.IsCorrect,
		a.MarkedForReview, a.MarksAwarded, a.SectionNumber, a.AnsweredAt)
	return err
}

// Get retrieves the answer record for (attempt, question), if any.
func (r *AnswerRepository) Get(ctx context.Context, attemptID, questionID uuid.UUID) (*model.AnswerRecord, error) {
	a := &model.AnswerRecord{}
	err := r.pool.QueryRow(ctx,
		`SELECT attempt_id, question_id, selected_option, is_correct,
		        is_marked_for_review, marks_awarded, section_number, answered_at
		 FROM answers WHERE attempt_id = $1 AND question_id = $2`,
		attemptID, questionID,
	).Scan(&a.AttemptID, &a.QuestionID, &a.SelectedOption, &a.IsCorrect,
		&a.MarkedForReview, &a.MarksAwarded, &a.SectionNumber, &a.AnsweredAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListByAttempt retrieves all answer records of an attempt.
func (r *AnswerRepository) ListByAttempt(ctx context.Context, attemptID uuid.UUID) ([]model.AnswerRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT attempt_id, question_id, selected_option, is_correct,
		        is_marked_for_review, marks_awarded, section_number, answered_at
		 FROM answers WHERE attempt_id = $1
		 ORDER BY section_number, answered_at`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAnswers(rows)
}

// ListByAttemptTx is ListByAttempt inside the caller's transaction, used
// for the final tally so it sees exactly the locked attempt's answers.
func (r *AnswerRepository) ListByAttemptTx(ctx context.Context, tx pgx.Tx, attemptID uuid.UUID) ([]model.AnswerRecord, error) {
	rows, err := tx.Query(ctx,
		`SELECT attempt_id, question_id, selected_option, is_correct,
		        is_marked_for_review, marks_awarded, section_number, answered_at
		 FROM answers WHERE attempt_id = $1
		 ORDER BY section_number, answered_at`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAnswers(rows)
}

func collectAnswers(rows pgx.Rows) ([]model.AnswerRecord, error) {
	var answers []model.AnswerRecord
	for rows.Next() {
		var a model.AnswerRecord
		if err := rows.Scan(&a.AttemptID, &a.QuestionID, &a.SelectedOption, &a.IsCorrect,
			&a.MarkedForReview, &a.MarksAwarded, &a.SectionNumber, &a.AnsweredAt); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
