package http

import "github.com/quizeweb/quizeweb-api/internal/domain"

// RegisterRequest carries the registration fields.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest carries the login fields.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgetPasswordRequest asks for a reset link.
type ForgetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest carries the replacement password.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// QuestionPayload is one question as submitted by a quiz author.
type QuestionPayload struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"required,len=4,dive,required"`
	CorrectAnswer *int     `json:"correctAnswer" validate:"required,min=0,max=3"`
}

// QuizRequest is the create/update payload.
type QuizRequest struct {
	Title     string            `json:"title" validate:"required"`
	Questions []QuestionPayload `json:"questions" validate:"required,min=1,dive"`
}

func (r QuizRequest) toDomain() []domain.Question {
	questions := make([]domain.Question, 0, len(r.Questions))
	for _, q := range r.Questions {
		correct := -1
		if q.CorrectAnswer != nil {
			correct = *q.CorrectAnswer
		}
		questions = append(questions, domain.Question{
			Text:          q.Question,
			Options:       q.Options,
			CorrectAnswer: correct,
		})
	}
	return questions
}

// SubmitQuizRequest carries the answer sequence for a submission. Answers may
// be shorter than the quiz or contain out-of-range indices; those positions
// score as incorrect.
type SubmitQuizRequest struct {
	Answers   []int    `json:"answers" validate:"required"`
	TimeTaken *float64 `json:"timeTaken,omitempty"`
}
