package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quizeweb/quizeweb-api/internal/domain"
)

type fakeResultRepo struct {
	createInput  *domain.Result
	created      []domain.Result
	createResult *domain.Result
	createErr    error

	findByIDInput  uuid.UUID
	findByIDResult *domain.Result
	findByIDErr    error

	listByUserInput struct {
		userID uuid.UUID
		limit  int
		offset int
	}
	listByUserResult []domain.ResultWithQuiz
	listByUserErr    error

	countByUserResult int64
	countByUserErr    error

	listAllByUserResult []domain.ResultWithQuiz
	listAllByUserErr    error
}

// Create mirrors the store's attempt assignment: the ordinal is one more
// than the number of rows this user already holds for the quiz.
func (f *fakeResultRepo) Create(ctx context.Context, result *domain.Result) (*domain.Result, error) {
	f.createInput = result
	if f.createResult != nil || f.createErr != nil {
		return f.createResult, f.createErr
	}
	attempt := 1
	for _, prior := range f.created {
		if prior.UserID == result.UserID && prior.QuizID == result.QuizID {
			attempt++
		}
	}
	stored := *result
	stored.ID = uuid.New()
	stored.Attempt = attempt
	f.created = append(f.created, stored)
	return &stored, nil
}

func (f *fakeResultRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Result, error) {
	f.findByIDInput = id
	return f.findByIDResult, f.findByIDErr
}

func (f *fakeResultRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.ResultWithQuiz, error) {
	f.listByUserInput.userID = userID
	f.listByUserInput.limit = limit
	f.listByUserInput.offset = offset
	return f.listByUserResult, f.listByUserErr
}

func (f *fakeResultRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return f.countByUserResult, f.countByUserErr
}

func (f *fakeResultRepo) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.ResultWithQuiz, error) {
	return f.listAllByUserResult, f.listAllByUserErr
}

func fourQuestionQuiz(createdBy uuid.UUID) *domain.Quiz {
	return &domain.Quiz{
		ID:        uuid.New(),
		Title:     "Basics",
		CreatedBy: createdBy,
		Questions: []domain.Question{
			{Text: "Q1", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 1},
			{Text: "Q2", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 2},
			{Text: "Q3", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 0},
			{Text: "Q4", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 3},
		},
	}
}

func TestScoreAnswers(t *testing.T) {
	quiz := fourQuestionQuiz(uuid.New())

	score, total, percentage, err := scoreAnswers(quiz.Questions, []int{1, 2, 1, 3})
	if err != nil {
		t.Fatalf("scoreAnswers returned error: %v", err)
	}
	if score != 3 || total != 4 || percentage != 75 {
		t.Fatalf("expected 3/4 = 75%%, got %d/%d = %d%%", score, total, percentage)
	}

	// Short submissions leave the remaining questions unanswered.
	score, _, percentage, err = scoreAnswers(quiz.Questions, []int{1})
	if err != nil {
		t.Fatalf("scoreAnswers returned error: %v", err)
	}
	if score != 1 || percentage != 25 {
		t.Fatalf("expected 1 correct = 25%%, got %d = %d%%", score, percentage)
	}

	// Out-of-range indices are simply wrong, never a panic.
	score, _, _, err = scoreAnswers(quiz.Questions, []int{9, -1, 0, 3})
	if err != nil {
		t.Fatalf("scoreAnswers returned error: %v", err)
	}
	if score != 2 {
		t.Fatalf("expected 2 correct, got %d", score)
	}

	if _, _, _, err := scoreAnswers(nil, []int{0}); !errors.Is(err, ErrEmptyQuiz) {
		t.Fatalf("expected ErrEmptyQuiz, got %v", err)
	}
}

func TestScoreAnswersRoundsHalfUp(t *testing.T) {
	questions := []domain.Question{
		{Text: "Q1", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 0},
		{Text: "Q2", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 0},
		{Text: "Q3", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 0},
	}

	_, _, percentage, err := scoreAnswers(questions, []int{0, 1, 1})
	if err != nil {
		t.Fatalf("scoreAnswers returned error: %v", err)
	}
	if percentage != 33 {
		t.Fatalf("expected 1/3 to round to 33, got %d", percentage)
	}

	_, _, percentage, err = scoreAnswers(questions, []int{0, 0, 1})
	if err != nil {
		t.Fatalf("scoreAnswers returned error: %v", err)
	}
	if percentage != 67 {
		t.Fatalf("expected 2/3 to round to 67, got %d", percentage)
	}
}

func TestSubmitSnapshotsQuestions(t *testing.T) {
	userID := uuid.New()
	quiz := fourQuestionQuiz(uuid.New())
	quizzes := &fakeQuizRepo{findByIDResult: quiz}
	results := &fakeResultRepo{}
	svc := NewResultService(results, quizzes)

	timeTaken := 42.5
	result, err := svc.Submit(context.Background(), userID, quiz.ID, []int{1, 2, 0, 3}, &timeTaken)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if result.Score != 4 || result.Percentage != 100 {
		t.Fatalf("expected a perfect score, got %d (%d%%)", result.Score, result.Percentage)
	}

	stored := results.createInput
	if stored.UserID != userID || stored.QuizID != quiz.ID {
		t.Fatal("expected user and quiz ids on the stored row")
	}
	if len(stored.Questions) != len(quiz.Questions) {
		t.Fatalf("expected question snapshot of %d entries, got %d", len(quiz.Questions), len(stored.Questions))
	}
	if stored.TimeTaken == nil || *stored.TimeTaken != 42.5 {
		t.Fatalf("expected time taken 42.5, got %v", stored.TimeTaken)
	}
}

func TestSubmitAssignsSequentialAttempts(t *testing.T) {
	userID := uuid.New()
	quiz := fourQuestionQuiz(uuid.New())
	quizzes := &fakeQuizRepo{findByIDResult: quiz}
	results := &fakeResultRepo{}
	svc := NewResultService(results, quizzes)

	answers := []int{1, 2, 0, 3}
	first, err := svc.Submit(context.Background(), userID, quiz.ID, answers, nil)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	second, err := svc.Submit(context.Background(), userID, quiz.ID, answers, nil)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if first.Attempt != 1 || second.Attempt != 2 {
		t.Fatalf("expected attempts 1 then 2, got %d then %d", first.Attempt, second.Attempt)
	}

	// Another user's attempts count independently.
	other, err := svc.Submit(context.Background(), uuid.New(), quiz.ID, answers, nil)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if other.Attempt != 1 {
		t.Fatalf("expected a fresh user to start at attempt 1, got %d", other.Attempt)
	}
}

func TestSubmitUnknownQuiz(t *testing.T) {
	quizzes := &fakeQuizRepo{findByIDErr: sql.ErrNoRows}
	svc := NewResultService(&fakeResultRepo{}, quizzes)

	if _, err := svc.Submit(context.Background(), uuid.New(), uuid.New(), []int{0}, nil); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestHistoryPagination(t *testing.T) {
	userID := uuid.New()
	results := &fakeResultRepo{
		listByUserResult:  make([]domain.ResultWithQuiz, 10),
		countByUserResult: 25,
	}
	svc := NewResultService(results, &fakeQuizRepo{})

	page, err := svc.History(context.Background(), userID, 2, 10)
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if results.listByUserInput.limit != 10 || results.listByUserInput.offset != 10 {
		t.Fatalf("expected limit 10 offset 10, got %d/%d", results.listByUserInput.limit, results.listByUserInput.offset)
	}

	p := page.Pagination
	if p.CurrentPage != 2 || p.TotalPages != 3 || p.TotalResults != 25 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
	if !p.HasNextPage || !p.HasPrevPage {
		t.Fatalf("expected both neighbours for the middle page: %+v", p)
	}
}

func TestHistoryNormalizesPageAndLimit(t *testing.T) {
	results := &fakeResultRepo{}
	svc := NewResultService(results, &fakeQuizRepo{})

	if _, err := svc.History(context.Background(), uuid.New(), -3, 0); err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if results.listByUserInput.limit != 10 || results.listByUserInput.offset != 0 {
		t.Fatalf("expected defaults limit 10 offset 0, got %d/%d", results.listByUserInput.limit, results.listByUserInput.offset)
	}

	if _, err := svc.History(context.Background(), uuid.New(), 1, 500); err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if results.listByUserInput.limit != 50 {
		t.Fatalf("expected limit clamped to 50, got %d", results.listByUserInput.limit)
	}
}

func TestStatsEmptyLedger(t *testing.T) {
	svc := NewResultService(&fakeResultRepo{}, &fakeQuizRepo{})

	stats, err := svc.Stats(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.TotalQuizzesTaken != 0 || stats.AverageScore != 0 || stats.BestScore != 0 {
		t.Fatalf("expected zeroed aggregates, got %+v", stats)
	}
	if stats.QuizPerformance == nil || len(stats.QuizPerformance) != 0 {
		t.Fatal("expected an empty, non-nil performance slice")
	}
}

func TestStatsAggregates(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	quizA := uuid.New()
	quizB := uuid.New()

	row := func(quizID uuid.UUID, title string, percentage int, completedAt time.Time) domain.ResultWithQuiz {
		return domain.ResultWithQuiz{
			Result: domain.Result{
				ID:          uuid.New(),
				QuizID:      quizID,
				Percentage:  percentage,
				CompletedAt: completedAt,
			},
			QuizTitle: title,
		}
	}

	results := &fakeResultRepo{listAllByUserResult: []domain.ResultWithQuiz{
		row(quizA, "Maths", 50, now.Add(-30*24*time.Hour)),
		row(quizA, "Maths", 100, now.Add(-time.Hour)),
		row(quizB, "History", 60, now.Add(-2*24*time.Hour)),
	}}
	svc := NewResultService(results, &fakeQuizRepo{})
	svc.now = func() time.Time { return now }

	stats, err := svc.Stats(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}

	if stats.TotalQuizzesTaken != 3 || stats.UniqueQuizzesAttempted != 2 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.BestScore != 100 || stats.WorstScore != 50 {
		t.Fatalf("expected best 100 worst 50, got %d/%d", stats.BestScore, stats.WorstScore)
	}
	if stats.AverageScore != 70 {
		t.Fatalf("expected average 70, got %v", stats.AverageScore)
	}
	if stats.RecentActivity != 2 {
		t.Fatalf("expected 2 attempts within 7 days, got %d", stats.RecentActivity)
	}

	if len(stats.QuizPerformance) != 2 {
		t.Fatalf("expected two per-quiz entries, got %d", len(stats.QuizPerformance))
	}
	first := stats.QuizPerformance[0]
	if first.QuizID != quizA || first.QuizTitle != "Maths" {
		t.Fatalf("expected the most recently attempted quiz first, got %+v", first)
	}
	if first.Attempts != 2 || first.BestScore != 100 || first.AverageScore != 75 {
		t.Fatalf("unexpected per-quiz aggregates: %+v", first)
	}
}

func TestStatsKeepAttemptsForDeletedQuizzes(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	deletedQuiz := uuid.New()

	// A row whose quiz has been deleted comes back with an empty title; the
	// ledger row itself must still feed every aggregate.
	results := &fakeResultRepo{listAllByUserResult: []domain.ResultWithQuiz{
		{
			Result:    domain.Result{ID: uuid.New(), QuizID: deletedQuiz, Percentage: 80, CompletedAt: now.Add(-time.Hour)},
			QuizTitle: "",
		},
	}}
	svc := NewResultService(results, &fakeQuizRepo{})
	svc.now = func() time.Time { return now }

	stats, err := svc.Stats(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.TotalQuizzesTaken != 1 || stats.RecentActivity != 1 {
		t.Fatalf("expected the orphaned attempt to be counted, got %+v", stats)
	}
	if stats.BestScore != 80 || stats.AverageScore != 80 {
		t.Fatalf("expected aggregates over the orphaned attempt, got %+v", stats)
	}
	if len(stats.QuizPerformance) != 1 || stats.QuizPerformance[0].QuizID != deletedQuiz {
		t.Fatalf("expected a per-quiz entry for the deleted quiz, got %+v", stats.QuizPerformance)
	}
}

func TestAttemptDetails(t *testing.T) {
	userID := uuid.New()
	quiz := fourQuestionQuiz(uuid.New())
	stored := &domain.Result{
		ID:        uuid.New(),
		UserID:    userID,
		QuizID:    quiz.ID,
		Answers:   []int{1, 0},
		Questions: quiz.Questions,
	}
	results := &fakeResultRepo{findByIDResult: stored}
	svc := NewResultService(results, &fakeQuizRepo{})

	details, err := svc.AttemptDetails(context.Background(), userID, stored.ID)
	if err != nil {
		t.Fatalf("AttemptDetails returned error: %v", err)
	}
	if len(details.Breakdown) != 4 {
		t.Fatalf("expected 4 breakdown rows, got %d", len(details.Breakdown))
	}

	first := details.Breakdown[0]
	if first.UserAnswer == nil || *first.UserAnswer != 1 || !first.IsCorrect {
		t.Fatalf("expected question 1 answered correctly, got %+v", first)
	}
	second := details.Breakdown[1]
	if second.UserAnswer == nil || *second.UserAnswer != 0 || second.IsCorrect {
		t.Fatalf("expected question 2 answered incorrectly, got %+v", second)
	}
	third := details.Breakdown[2]
	if third.UserAnswer != nil || third.IsCorrect {
		t.Fatalf("expected question 3 unanswered, got %+v", third)
	}
}

func TestAttemptDetailsOwnership(t *testing.T) {
	stored := &domain.Result{ID: uuid.New(), UserID: uuid.New()}
	results := &fakeResultRepo{findByIDResult: stored}
	svc := NewResultService(results, &fakeQuizRepo{})

	if _, err := svc.AttemptDetails(context.Background(), uuid.New(), stored.ID); !errors.Is(err, ErrResultNotFound) {
		t.Fatalf("expected ErrResultNotFound for another user's attempt, got %v", err)
	}
}

func TestAttemptDetailsFallsBackToCurrentQuiz(t *testing.T) {
	userID := uuid.New()
	quiz := fourQuestionQuiz(uuid.New())
	stored := &domain.Result{
		ID:      uuid.New(),
		UserID:  userID,
		QuizID:  quiz.ID,
		Answers: []int{1, 2, 0, 3},
	}
	results := &fakeResultRepo{findByIDResult: stored}
	quizzes := &fakeQuizRepo{findByIDResult: quiz}
	svc := NewResultService(results, quizzes)

	details, err := svc.AttemptDetails(context.Background(), userID, stored.ID)
	if err != nil {
		t.Fatalf("AttemptDetails returned error: %v", err)
	}
	if quizzes.findByIDInput != quiz.ID {
		t.Fatal("expected fallback lookup of the current quiz")
	}
	if len(details.Breakdown) != 4 {
		t.Fatalf("expected 4 breakdown rows from the live quiz, got %d", len(details.Breakdown))
	}
}
