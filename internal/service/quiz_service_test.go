package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/quizeweb/quizeweb-api/internal/domain"
)

type fakeQuizRepo struct {
	createInput struct {
		title     string
		questions []domain.Question
		createdBy uuid.UUID
	}
	createResult *domain.Quiz
	createErr    error

	updateInput struct {
		id        uuid.UUID
		title     string
		questions []domain.Question
	}
	updateResult *domain.Quiz
	updateErr    error

	deleteInput uuid.UUID
	deleteErr   error

	findByIDInput  uuid.UUID
	findByIDResult *domain.Quiz
	findByIDErr    error

	listAllResult []domain.QuizSummary
	listAllErr    error

	listByCreatorInput  uuid.UUID
	listByCreatorResult []domain.Quiz
	listByCreatorErr    error
}

func (f *fakeQuizRepo) Create(ctx context.Context, title string, questions []domain.Question, createdBy uuid.UUID) (*domain.Quiz, error) {
	f.createInput.title = title
	f.createInput.questions = questions
	f.createInput.createdBy = createdBy
	return f.createResult, f.createErr
}

func (f *fakeQuizRepo) Update(ctx context.Context, id uuid.UUID, title string, questions []domain.Question) (*domain.Quiz, error) {
	f.updateInput.id = id
	f.updateInput.title = title
	f.updateInput.questions = questions
	return f.updateResult, f.updateErr
}

func (f *fakeQuizRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.deleteInput = id
	return f.deleteErr
}

func (f *fakeQuizRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Quiz, error) {
	f.findByIDInput = id
	return f.findByIDResult, f.findByIDErr
}

func (f *fakeQuizRepo) ListAll(ctx context.Context) ([]domain.QuizSummary, error) {
	return f.listAllResult, f.listAllErr
}

func (f *fakeQuizRepo) ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]domain.Quiz, error) {
	f.listByCreatorInput = createdBy
	return f.listByCreatorResult, f.listByCreatorErr
}

func validQuestions() []domain.Question {
	return []domain.Question{
		{Text: "What is 2+2?", Options: []string{"3", "4", "5", "6"}, CorrectAnswer: 1},
		{Text: "Capital of France?", Options: []string{"Paris", "Rome", "Berlin", "Oslo"}, CorrectAnswer: 0},
	}
}

func TestValidateQuiz(t *testing.T) {
	cases := []struct {
		name      string
		title     string
		questions []domain.Question
		wantErr   bool
	}{
		{name: "valid", title: "Basics", questions: validQuestions()},
		{name: "blank title", title: "  ", questions: validQuestions(), wantErr: true},
		{name: "no questions", title: "Basics", questions: nil, wantErr: true},
		{
			name:  "blank question text",
			title: "Basics",
			questions: []domain.Question{
				{Text: " ", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 0},
			},
			wantErr: true,
		},
		{
			name:  "three options",
			title: "Basics",
			questions: []domain.Question{
				{Text: "Q", Options: []string{"a", "b", "c"}, CorrectAnswer: 0},
			},
			wantErr: true,
		},
		{
			name:  "five options",
			title: "Basics",
			questions: []domain.Question{
				{Text: "Q", Options: []string{"a", "b", "c", "d", "e"}, CorrectAnswer: 0},
			},
			wantErr: true,
		},
		{
			name:  "correct answer too large",
			title: "Basics",
			questions: []domain.Question{
				{Text: "Q", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 4},
			},
			wantErr: true,
		},
		{
			name:  "correct answer negative",
			title: "Basics",
			questions: []domain.Question{
				{Text: "Q", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: -1},
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateQuiz(tc.title, tc.questions)
			if tc.wantErr {
				if !errors.Is(err, ErrQuizValidation) {
					t.Fatalf("expected ErrQuizValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected valid quiz, got %v", err)
			}
		})
	}
}

func TestQuizCreateTrimsTitle(t *testing.T) {
	repo := &fakeQuizRepo{createResult: &domain.Quiz{ID: uuid.New()}}
	svc := NewQuizService(repo)
	creator := &domain.User{ID: uuid.New(), Role: domain.RoleUser}

	if _, err := svc.Create(context.Background(), creator, "  Basics ", validQuestions()); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if repo.createInput.title != "Basics" {
		t.Fatalf("expected trimmed title, got %q", repo.createInput.title)
	}
	if repo.createInput.createdBy != creator.ID {
		t.Fatal("expected creator id recorded on the quiz")
	}
}

func TestQuizUpdateOwnership(t *testing.T) {
	owner := &domain.User{ID: uuid.New(), Role: domain.RoleUser}
	stranger := &domain.User{ID: uuid.New(), Role: domain.RoleUser}
	admin := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}
	quizID := uuid.New()

	repo := &fakeQuizRepo{
		findByIDResult: &domain.Quiz{ID: quizID, Title: "Old", CreatedBy: owner.ID},
		updateResult:   &domain.Quiz{ID: quizID, Title: "New", CreatedBy: owner.ID},
	}
	svc := NewQuizService(repo)

	if _, err := svc.Update(context.Background(), stranger, quizID, "New", validQuestions()); !errors.Is(err, ErrQuizForbidden) {
		t.Fatalf("expected ErrQuizForbidden for non-owner, got %v", err)
	}
	if _, err := svc.Update(context.Background(), owner, quizID, "New", validQuestions()); err != nil {
		t.Fatalf("expected owner update to succeed, got %v", err)
	}
	if _, err := svc.Update(context.Background(), admin, quizID, "New", validQuestions()); err != nil {
		t.Fatalf("expected admin update to succeed, got %v", err)
	}

	repo.findByIDErr = sql.ErrNoRows
	repo.findByIDResult = nil
	if _, err := svc.Update(context.Background(), owner, quizID, "New", validQuestions()); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestQuizUpdateValidatesAfterOwnershipCheck(t *testing.T) {
	owner := &domain.User{ID: uuid.New(), Role: domain.RoleUser}
	quizID := uuid.New()
	repo := &fakeQuizRepo{findByIDResult: &domain.Quiz{ID: quizID, CreatedBy: owner.ID}}
	svc := NewQuizService(repo)

	if _, err := svc.Update(context.Background(), owner, quizID, "", validQuestions()); !errors.Is(err, ErrQuizValidation) {
		t.Fatalf("expected ErrQuizValidation, got %v", err)
	}
	if repo.updateInput.id != (uuid.UUID{}) {
		t.Fatal("expected no update call for invalid payload")
	}
}

func TestQuizDeleteOwnership(t *testing.T) {
	owner := &domain.User{ID: uuid.New(), Role: domain.RoleUser}
	stranger := &domain.User{ID: uuid.New(), Role: domain.RoleUser}
	quizID := uuid.New()

	repo := &fakeQuizRepo{findByIDResult: &domain.Quiz{ID: quizID, CreatedBy: owner.ID}}
	svc := NewQuizService(repo)

	if err := svc.Delete(context.Background(), stranger, quizID); !errors.Is(err, ErrQuizForbidden) {
		t.Fatalf("expected ErrQuizForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), owner, quizID); err != nil {
		t.Fatalf("expected owner delete to succeed, got %v", err)
	}
	if repo.deleteInput != quizID {
		t.Fatal("expected delete to target the quiz id")
	}
}

func TestQuizGetNotFound(t *testing.T) {
	repo := &fakeQuizRepo{findByIDErr: sql.ErrNoRows}
	svc := NewQuizService(repo)

	if _, err := svc.Get(context.Background(), uuid.New()); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}
