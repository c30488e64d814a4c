package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/quizeweb/quizeweb-api/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, name, email string, passwordHash, passwordSalt []byte, role string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// SetVerificationToken overwrites any outstanding verification token,
	// invalidating the previous one.
	SetVerificationToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error

	// ConsumeVerificationToken is an atomic check-and-clear: it matches the
	// token, requires it to be unexpired, marks the user verified and clears
	// the token in a single store operation. A consumed or unknown token
	// yields sql.ErrNoRows.
	ConsumeVerificationToken(ctx context.Context, token string, now time.Time) (*domain.User, error)

	SetResetPasswordToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error

	// ConsumeResetPasswordToken atomically matches an unexpired reset token,
	// replaces the password hash and clears the token and its expiry.
	ConsumeResetPasswordToken(ctx context.Context, token string, passwordHash, passwordSalt []byte, now time.Time) (*domain.User, error)
}
