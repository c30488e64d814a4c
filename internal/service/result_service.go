package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/quizeweb/quizeweb-api/internal/domain"
	"github.com/quizeweb/quizeweb-api/internal/repository/ports"
)

var (
	ErrResultNotFound = errors.New("quiz result not found")
	ErrEmptyQuiz      = errors.New("quiz has no questions")
)

const recentActivityWindow = 7 * 24 * time.Hour

type ResultService struct {
	results ports.ResultRepository
	quizzes ports.QuizRepository
	now     func() time.Time
}

func NewResultService(results ports.ResultRepository, quizzes ports.QuizRepository) *ResultService {
	return &ResultService{
		results: results,
		quizzes: quizzes,
		now:     time.Now,
	}
}

// scoreAnswers counts positions where the submitted index matches the
// question's correct index. Missing or out-of-range entries simply count as
// incorrect. The percentage is rounded half away from zero.
func scoreAnswers(questions []domain.Question, answers []int) (score, total, percentage int, err error) {
	total = len(questions)
	if total == 0 {
		return 0, 0, 0, ErrEmptyQuiz
	}
	for i, q := range questions {
		if i < len(answers) && answers[i] == q.CorrectAnswer {
			score++
		}
	}
	percentage = int(math.Round(float64(score) / float64(total) * 100))
	return score, total, percentage, nil
}

// Submit scores an answer sequence against the quiz and appends an immutable
// attempt row. The quiz's question set is snapshotted into the row so the
// attempt detail view stays stable when the quiz is edited later.
func (s *ResultService) Submit(ctx context.Context, userID, quizID uuid.UUID, answers []int, timeTaken *float64) (*domain.Result, error) {
	quiz, err := s.quizzes.FindByID(ctx, quizID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	score, total, percentage, err := scoreAnswers(quiz.Questions, answers)
	if err != nil {
		return nil, err
	}

	return s.results.Create(ctx, &domain.Result{
		UserID:     userID,
		QuizID:     quizID,
		Score:      score,
		Total:      total,
		Percentage: percentage,
		Answers:    answers,
		Questions:  quiz.Questions,
		TimeTaken:  timeTaken,
	})
}

type HistoryPagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalResults int64 `json:"totalResults"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

type HistoryPage struct {
	Results    []domain.ResultWithQuiz `json:"results"`
	Pagination HistoryPagination       `json:"pagination"`
}

// History returns a page of the user's attempts, newest first.
func (s *ResultService) History(ctx context.Context, userID uuid.UUID, page, limit int) (*HistoryPage, error) {
	page, limit = normalizeHistoryPage(page, limit)

	results, err := s.results.ListByUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	total, err := s.results.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &HistoryPage{
		Results: results,
		Pagination: HistoryPagination{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalResults: total,
			HasNextPage:  page < totalPages,
			HasPrevPage:  page > 1,
		},
	}, nil
}

type QuizPerformance struct {
	QuizID       uuid.UUID `json:"quiz_id"`
	QuizTitle    string    `json:"quiz_title"`
	Attempts     int       `json:"attempts"`
	BestScore    int       `json:"best_score"`
	AverageScore float64   `json:"average_score"`
	LastAttempt  time.Time `json:"last_attempt"`
}

type PerformanceStats struct {
	TotalQuizzesTaken      int               `json:"totalQuizzesTaken"`
	UniqueQuizzesAttempted int               `json:"uniqueQuizzesAttempted"`
	AverageScore           float64           `json:"averageScore"`
	BestScore              int               `json:"bestScore"`
	WorstScore             int               `json:"worstScore"`
	RecentActivity         int               `json:"recentActivity"`
	QuizPerformance        []QuizPerformance `json:"quizPerformance"`
}

// Stats derives the user's aggregate performance from the full attempt
// ledger. A user with no attempts gets zeroed aggregates, never an error.
func (s *ResultService) Stats(ctx context.Context, userID uuid.UUID) (*PerformanceStats, error) {
	rows, err := s.results.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &PerformanceStats{QuizPerformance: []QuizPerformance{}}
	if len(rows) == 0 {
		return stats, nil
	}

	cutoff := s.now().Add(-recentActivityWindow)
	sum := 0
	best, worst := rows[0].Percentage, rows[0].Percentage
	perQuiz := map[uuid.UUID]*QuizPerformance{}
	perQuizSum := map[uuid.UUID]int{}

	for _, row := range rows {
		sum += row.Percentage
		if row.Percentage > best {
			best = row.Percentage
		}
		if row.Percentage < worst {
			worst = row.Percentage
		}
		if row.CompletedAt.After(cutoff) {
			stats.RecentActivity++
		}

		entry, ok := perQuiz[row.QuizID]
		if !ok {
			entry = &QuizPerformance{QuizID: row.QuizID, QuizTitle: row.QuizTitle}
			perQuiz[row.QuizID] = entry
		}
		entry.Attempts++
		perQuizSum[row.QuizID] += row.Percentage
		if row.Percentage > entry.BestScore {
			entry.BestScore = row.Percentage
		}
		if row.CompletedAt.After(entry.LastAttempt) {
			entry.LastAttempt = row.CompletedAt
		}
	}

	stats.TotalQuizzesTaken = len(rows)
	stats.UniqueQuizzesAttempted = len(perQuiz)
	stats.AverageScore = float64(sum) / float64(len(rows))
	stats.BestScore = best
	stats.WorstScore = worst

	for id, entry := range perQuiz {
		entry.AverageScore = float64(perQuizSum[id]) / float64(entry.Attempts)
		stats.QuizPerformance = append(stats.QuizPerformance, *entry)
	}
	sort.Slice(stats.QuizPerformance, func(i, j int) bool {
		return stats.QuizPerformance[i].LastAttempt.After(stats.QuizPerformance[j].LastAttempt)
	})

	return stats, nil
}

type QuestionBreakdown struct {
	QuestionNumber int      `json:"questionNumber"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	CorrectAnswer  int      `json:"correctAnswer"`
	UserAnswer     *int     `json:"userAnswer"`
	IsCorrect      bool     `json:"isCorrect"`
}

type AttemptDetails struct {
	Result    *domain.Result      `json:"result"`
	Breakdown []QuestionBreakdown `json:"detailedAnalysis"`
}

// AttemptDetails re-derives the per-question view of a stored attempt by
// zipping the recorded answers against the question snapshot. Rows predating
// the snapshot fall back to the quiz's current content.
func (s *ResultService) AttemptDetails(ctx context.Context, userID, resultID uuid.UUID) (*AttemptDetails, error) {
	result, err := s.results.FindByID(ctx, resultID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	if result.UserID != userID {
		return nil, ErrResultNotFound
	}

	questions := result.Questions
	if len(questions) == 0 {
		quiz, err := s.quizzes.FindByID(ctx, result.QuizID)
		if err != nil {
			if isNotFound(err) {
				return nil, ErrQuizNotFound
			}
			return nil, err
		}
		questions = quiz.Questions
	}

	breakdown := make([]QuestionBreakdown, 0, len(questions))
	for i, q := range questions {
		item := QuestionBreakdown{
			QuestionNumber: i + 1,
			Question:       q.Text,
			Options:        q.Options,
			CorrectAnswer:  q.CorrectAnswer,
		}
		if i < len(result.Answers) {
			answer := result.Answers[i]
			item.UserAnswer = &answer
			item.IsCorrect = answer == q.CorrectAnswer
		}
		breakdown = append(breakdown, item)
	}

	return &AttemptDetails{Result: result, Breakdown: breakdown}, nil
}

func normalizeHistoryPage(page, limit int) (int, int) {
	const (
		defaultLimit = 10
		maxLimit     = 50
	)
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
