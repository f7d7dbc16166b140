package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepverse/prepverse-backend/internal/model"
)

// QuestionRepository handles question data access. Questions are
// read-only to the attempt engine; writes happen on the admin surface.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// GetByID retrieves a single question.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q := &model.Question{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, test_id, section_number, question_text, options, correct_option, order_num
		 FROM questions WHERE id = $1`, id,
	).Scan(&q.ID, &q.TestID, &q.SectionNumber, &q.QuestionText, &q.Options, &q.CorrectOption, &q.OrderNum)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ListByTest retrieves all questions for a test, ordered by section then order_num.
func (r *QuestionRepository) ListByTest(ctx context.Context, testID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, test_id, section_number, question_text, options, correct_option, order_num
		 FROM questions WHERE test_id = $1
		 ORDER BY section_number, order_num`, testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectQuestions(rows)
}

// ListBySection retrieves the questions of one section, ordered by order_num.
func (r *QuestionRepository) ListBySection(ctx context.Context, testID uuid.UUID, section int) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, test_id, section_number, question_text, options, correct_option, order_num
		 FROM questions WHERE test_id = $1 AND section_number = $2
		 ORDER BY order_num`, testID, section)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectQuestions(rows)
}

// CountBySection returns question counts keyed by section number.
func (r *QuestionRepository) CountBySection(ctx context.Context, testID uuid.UUID) (map[int]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT section_number, COUNT(*) FROM questions
		 WHERE test_id = $1 GROUP BY section_number`, testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var section, count int
		if err := rows.Scan(&section, &count); err != nil {
			return nil, err
		}
		counts[section] = count
	}
	return counts, rows.Err()
}

// AnswerKey returns the (question id → correct option) map for a test.
// Used to rebuild the Redis answer-key cache on miss.
func (r *QuestionRepository) AnswerKey(ctx context.Context, testID uuid.UUID) (map[uuid.UUID]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, correct_option FROM questions WHERE test_id = $1`, testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	key := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var correct int
		if err := rows.Scan(&id, &correct); err != nil {
			return nil, err
		}
		key[id] = correct
	}
	return key, rows.Err()
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (test_id, section_number, question_text, options, correct_option, order_num)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		q.TestID, q.SectionNumber, q.QuestionText, q.Options, q.CorrectOption, q.OrderNum,
	).Scan(&q.ID)
}

// ReplaceForTest deletes all questions of a test and bulk inserts the
// replacements in one transaction.
func (r *QuestionRepository) ReplaceForTest(ctx context.Context, testID uuid.UUID, questions []model.Question) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE test_id = $1`, testID); err != nil {
		return err
	}

	for i := range questions {
		q := &questions[i]
		if err := tx.QueryRow(ctx,
			`INSERT INTO questions (test_id, section_number, question_text, options, correct_option, order_num)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			testID, q.SectionNumber, q.QuestionText, q.Options, q.CorrectOption, q.OrderNum,
		).Scan(&q.ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func collectQuestions(rows pgx.Rows) ([]model.Question, error) {
	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.TestID, &q.SectionNumber, &q.QuestionText, &q.Options, &q.CorrectOption, &q.OrderNum); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
