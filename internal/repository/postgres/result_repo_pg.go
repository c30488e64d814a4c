package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/quizeweb/quizeweb-api/internal/domain"
)

type ResultRepository struct {
	db *sqlx.DB
}

func NewResultRepo(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

type resultRow struct {
	ID          uuid.UUID     `db:"id"`
	UserID      uuid.UUID     `db:"user_id"`
	QuizID      uuid.UUID     `db:"quiz_id"`
	Score       int           `db:"score"`
	Total       int           `db:"total"`
	Percentage  int           `db:"percentage"`
	Answers     pq.Int64Array `db:"answers"`
	Questions   []byte        `db:"questions"`
	TimeTaken   *float64      `db:"time_taken"`
	Attempt     int           `db:"attempt"`
	CompletedAt time.Time     `db:"completed_at"`
	QuizTitle   string        `db:"quiz_title"`
}

func (row resultRow) toDomain() (*domain.Result, error) {
	result := &domain.Result{
		ID:          row.ID,
		UserID:      row.UserID,
		QuizID:      row.QuizID,
		Score:       row.Score,
		Total:       row.Total,
		Percentage:  row.Percentage,
		TimeTaken:   row.TimeTaken,
		Attempt:     row.Attempt,
		CompletedAt: row.CompletedAt,
	}
	result.Answers = make([]int, len(row.Answers))
	for i, answer := range row.Answers {
		result.Answers[i] = int(answer)
	}
	if len(row.Questions) > 0 {
		if err := json.Unmarshal(row.Questions, &result.Questions); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func toAnswerArray(answers []int) pq.Int64Array {
	out := make(pq.Int64Array, len(answers))
	for i, answer := range answers {
		out[i] = int64(answer)
	}
	return out
}

// Create assigns the attempt ordinal inside the insert statement: the row and
// its prior-attempt count come from the same statement, so the ordinal never
// goes through a separate read-then-write round trip. Concurrent submissions
// can still observe the same count; the ordinal is display-only by contract.
func (r *ResultRepository) Create(ctx context.Context, result *domain.Result) (*domain.Result, error) {
	snapshot, err := json.Marshal(result.Questions)
	if err != nil {
		return nil, err
	}
	const query = `
        INSERT INTO results (user_id, quiz_id, score, total, percentage, answers, questions, time_taken, attempt)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
                1 + (SELECT COUNT(*) FROM results WHERE user_id = $1 AND quiz_id = $2))
        RETURNING id, user_id, quiz_id, score, total, percentage, answers, questions,
                  time_taken, attempt, completed_at, '' AS quiz_title
    `
	var row resultRow
	err = r.db.QueryRowxContext(ctx, query,
		result.UserID, result.QuizID, result.Score, result.Total, result.Percentage,
		toAnswerArray(result.Answers), snapshot, result.TimeTaken,
	).StructScan(&row)
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (r *ResultRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Result, error) {
	const query = `
        SELECT id, user_id, quiz_id, score, total, percentage, answers, questions,
               time_taken, attempt, completed_at, '' AS quiz_title
        FROM results
        WHERE id = $1
    `
	var row resultRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	return row.toDomain()
}

// ListByUser left-joins the quiz so attempts on a since-deleted quiz still
// appear in history; their title comes back empty.
func (r *ResultRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.ResultWithQuiz, error) {
	const query = `
        SELECT r.id, r.user_id, r.quiz_id, r.score, r.total, r.percentage, r.answers,
               NULL AS questions, r.time_taken, r.attempt, r.completed_at,
               COALESCE(q.title, '') AS quiz_title
        FROM results r
        LEFT JOIN quizzes q ON q.id = r.quiz_id
        WHERE r.user_id = $1
        ORDER BY r.completed_at DESC
        LIMIT $2 OFFSET $3
    `
	var rows []resultRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, err
	}
	return rowsToDomain(rows)
}

func (r *ResultRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	const query = `SELECT COUNT(*) FROM results WHERE user_id = $1`
	var count int64
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ResultRepository) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.ResultWithQuiz, error) {
	const query = `
        SELECT r.id, r.user_id, r.quiz_id, r.score, r.total, r.percentage, r.answers,
               NULL AS questions, r.time_taken, r.attempt, r.completed_at,
               COALESCE(q.title, '') AS quiz_title
        FROM results r
        LEFT JOIN quizzes q ON q.id = r.quiz_id
        WHERE r.user_id = $1
        ORDER BY r.completed_at DESC
    `
	var rows []resultRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, err
	}
	return rowsToDomain(rows)
}

func rowsToDomain(rows []resultRow) ([]domain.ResultWithQuiz, error) {
	out := make([]domain.ResultWithQuiz, 0, len(rows))
	for _, row := range rows {
		result, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, domain.ResultWithQuiz{Result: *result, QuizTitle: row.QuizTitle})
	}
	return out, nil
}
