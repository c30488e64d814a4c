package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/quizeweb/quizeweb-api/internal/domain"
)

type QuizRepository struct {
	db *sqlx.DB
}

func NewQuizRepo(db *sqlx.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

// quizRow carries the raw JSONB questions column alongside the scalar fields.
type quizRow struct {
	ID        uuid.UUID `db:"id"`
	Title     string    `db:"title"`
	Questions []byte    `db:"questions"`
	CreatedBy uuid.UUID `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row quizRow) toDomain() (*domain.Quiz, error) {
	quiz := &domain.Quiz{
		ID:        row.ID,
		Title:     row.Title,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if err := json.Unmarshal(row.Questions, &quiz.Questions); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (r *QuizRepository) Create(ctx context.Context, title string, questions []domain.Question, createdBy uuid.UUID) (*domain.Quiz, error) {
	payload, err := json.Marshal(questions)
	if err != nil {
		return nil, err
	}
	const query = `
        INSERT INTO quizzes (title, questions, created_by)
        VALUES ($1, $2, $3)
        RETURNING id, title, questions, created_by, created_at, updated_at
    `
	var row quizRow
	if err := r.db.QueryRowxContext(ctx, query, title, payload, createdBy).StructScan(&row); err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (r *QuizRepository) Update(ctx context.Context, id uuid.UUID, title string, questions []domain.Question) (*domain.Quiz, error) {
	payload, err := json.Marshal(questions)
	if err != nil {
		return nil, err
	}
	const query = `
        UPDATE quizzes
        SET title = $2,
            questions = $3,
            updated_at = NOW()
        WHERE id = $1
        RETURNING id, title, questions, created_by, created_at, updated_at
    `
	var row quizRow
	if err := r.db.QueryRowxContext(ctx, query, id, title, payload).StructScan(&row); err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (r *QuizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM quizzes WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *QuizRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Quiz, error) {
	const query = `
        SELECT id, title, questions, created_by, created_at, updated_at
        FROM quizzes
        WHERE id = $1
    `
	var row quizRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (r *QuizRepository) ListAll(ctx context.Context) ([]domain.QuizSummary, error) {
	const query = `
        SELECT q.id, q.title, jsonb_array_length(q.questions) AS question_count,
               q.created_by, u.name AS creator_name, q.created_at
        FROM quizzes q
        JOIN users u ON u.id = q.created_by
        ORDER BY q.created_at DESC
    `
	summaries := []domain.QuizSummary{}
	if err := r.db.SelectContext(ctx, &summaries, query); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *QuizRepository) ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]domain.Quiz, error) {
	const query = `
        SELECT id, title, questions, created_by, created_at, updated_at
        FROM quizzes
        WHERE created_by = $1
        ORDER BY created_at DESC
    `
	var rows []quizRow
	if err := r.db.SelectContext(ctx, &rows, query, createdBy); err != nil {
		return nil, err
	}
	quizzes := make([]domain.Quiz, 0, len(rows))
	for _, row := range rows {
		quiz, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, *quiz)
	}
	return quizzes, nil
}
