package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/quizeweb/quizeweb-api/internal/domain"
)

type ResultRepository interface {
	// Create inserts an attempt row. The attempt ordinal is assigned by the
	// store inside the insert statement; the passed-in value is ignored.
	Create(ctx context.Context, result *domain.Result) (*domain.Result, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Result, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.ResultWithQuiz, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	ListAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.ResultWithQuiz, error)
}
