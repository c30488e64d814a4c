package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/quizeweb/quizeweb-api/internal/domain"
)

type QuizRepository interface {
	Create(ctx context.Context, title string, questions []domain.Question, createdBy uuid.UUID) (*domain.Quiz, error)
	Update(ctx context.Context, id uuid.UUID, title string, questions []domain.Question) (*domain.Quiz, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Quiz, error)
	ListAll(ctx context.Context) ([]domain.QuizSummary, error)
	ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]domain.Quiz, error)
}
