package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuestionOptionCount is the fixed number of options every question carries.
const QuestionOptionCount = 4

type Question struct {
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

type Quiz struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Title     string     `db:"title" json:"title"`
	Questions []Question `db:"-" json:"questions"`
	CreatedBy uuid.UUID  `db:"created_by" json:"created_by"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// QuizSummary is the public listing shape: no question content, just the count.
type QuizSummary struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	QuestionCount int       `db:"question_count" json:"question_count"`
	CreatedBy     uuid.UUID `db:"created_by" json:"created_by"`
	CreatorName   string    `db:"creator_name" json:"creator_name"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
