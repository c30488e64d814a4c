package domain

import (
	"time"

	"github.com/google/uuid"
)

// Result is one finished quiz attempt. Rows are append-only: once written they
// are never updated or deleted, which makes them a reliable ledger for the
// performance statistics.
type Result struct {
	ID     uuid.UUID `db:"id" json:"id"`
	UserID uuid.UUID `db:"user_id" json:"user_id"`
	QuizID uuid.UUID `db:"quiz_id" json:"quiz_id"`
	Score  int       `db:"score" json:"score"`
	Total  int       `db:"total" json:"total"`
	// Percentage is round-half-away-from-zero of 100*score/total.
	Percentage int   `db:"percentage" json:"percentage"`
	Answers    []int `db:"-" json:"answers"`
	// Questions is the quiz content snapshotted at submission time, so attempt
	// details stay stable when the quiz is edited afterwards.
	Questions   []Question `db:"-" json:"-"`
	TimeTaken   *float64   `db:"time_taken" json:"time_taken,omitempty"`
	Attempt     int        `db:"attempt" json:"attempt"`
	CompletedAt time.Time  `db:"completed_at" json:"completed_at"`
}

// ResultWithQuiz joins a result row with the owning quiz's title for history
// and statistics views.
type ResultWithQuiz struct {
	Result
	QuizTitle string `db:"quiz_title" json:"quiz_title"`
}
