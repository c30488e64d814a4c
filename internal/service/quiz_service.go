package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/quizeweb/quizeweb-api/internal/domain"
	"github.com/quizeweb/quizeweb-api/internal/repository/ports"
)

var (
	ErrQuizValidation = errors.New("invalid quiz")
	ErrQuizNotFound   = errors.New("quiz not found")
	ErrQuizForbidden  = errors.New("not allowed to manage this quiz")
)

type QuizService struct {
	quizzes ports.QuizRepository
}

func NewQuizService(quizzes ports.QuizRepository) *QuizService {
	return &QuizService{quizzes: quizzes}
}

// validateQuiz enforces the question invariants: at least one question,
// exactly four options each, correct index within [0,3]. A quiz can therefore
// never reach the scoring engine with zero questions.
func validateQuiz(title string, questions []domain.Question) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", ErrQuizValidation)
	}
	if len(questions) == 0 {
		return fmt.Errorf("%w: at least one question is required", ErrQuizValidation)
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("%w: question %d has no text", ErrQuizValidation, i+1)
		}
		if len(q.Options) != domain.QuestionOptionCount {
			return fmt.Errorf("%w: question %d must have exactly %d options", ErrQuizValidation, i+1, domain.QuestionOptionCount)
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= domain.QuestionOptionCount {
			return fmt.Errorf("%w: question %d correct answer out of range", ErrQuizValidation, i+1)
		}
	}
	return nil
}

func (s *QuizService) Create(ctx context.Context, creator *domain.User, title string, questions []domain.Question) (*domain.Quiz, error) {
	if err := validateQuiz(title, questions); err != nil {
		return nil, err
	}
	return s.quizzes.Create(ctx, strings.TrimSpace(title), questions, creator.ID)
}

// Update replaces the whole quiz. Only the owner or an admin may do so; the
// caller is always an already authenticated and verified user.
func (s *QuizService) Update(ctx context.Context, actor *domain.User, id uuid.UUID, title string, questions []domain.Question) (*domain.Quiz, error) {
	existing, err := s.quizzes.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	if existing.CreatedBy != actor.ID && !actor.IsAdmin() {
		return nil, ErrQuizForbidden
	}
	if err := validateQuiz(title, questions); err != nil {
		return nil, err
	}
	return s.quizzes.Update(ctx, id, strings.TrimSpace(title), questions)
}

func (s *QuizService) Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	existing, err := s.quizzes.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return ErrQuizNotFound
		}
		return err
	}
	if existing.CreatedBy != actor.ID && !actor.IsAdmin() {
		return ErrQuizForbidden
	}
	if err := s.quizzes.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrQuizNotFound
		}
		return err
	}
	return nil
}

func (s *QuizService) Get(ctx context.Context, id uuid.UUID) (*domain.Quiz, error) {
	quiz, err := s.quizzes.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) ListAll(ctx context.Context) ([]domain.QuizSummary, error) {
	return s.quizzes.ListAll(ctx)
}

func (s *QuizService) ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Quiz, error) {
	return s.quizzes.ListByCreator(ctx, userID)
}
