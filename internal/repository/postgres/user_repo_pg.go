package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/quizeweb/quizeweb-api/internal/domain"
)

const userColumns = `id, name, email, password_hash, password_salt, role, is_verified,
        verification_token, verification_expires_at, reset_password_token, reset_password_expires_at,
        created_at, updated_at`

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, name, email string, passwordHash, passwordSalt []byte, role string) (*domain.User, error) {
	const query = `
        INSERT INTO users (name, email, password_hash, password_salt, role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + userColumns
	row := r.db.QueryRowxContext(ctx, query, name, email, passwordHash, passwordSalt, role)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) SetVerificationToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	const query = `
        UPDATE users
        SET verification_token = $2,
            verification_expires_at = $3,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.ExecContext(ctx, query, id, token, expiresAt)
	return err
}

// ConsumeVerificationToken performs the check-and-clear in one statement so
// two racing requests cannot both consume the same token.
func (r *UserRepository) ConsumeVerificationToken(ctx context.Context, token string, now time.Time) (*domain.User, error) {
	const query = `
        UPDATE users
        SET is_verified = TRUE,
            verification_token = NULL,
            verification_expires_at = NULL,
            updated_at = NOW()
        WHERE verification_token = $1 AND verification_expires_at > $2
        RETURNING ` + userColumns
	row := r.db.QueryRowxContext(ctx, query, token, now)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) SetResetPasswordToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	const query = `
        UPDATE users
        SET reset_password_token = $2,
            reset_password_expires_at = $3,
            updated_at = NOW()
        WHERE id = $1
    `
	_, err := r.db.ExecContext(ctx, query, id, token, expiresAt)
	return err
}

func (r *UserRepository) ConsumeResetPasswordToken(ctx context.Context, token string, passwordHash, passwordSalt []byte, now time.Time) (*domain.User, error) {
	const query = `
        UPDATE users
        SET password_hash = $2,
            password_salt = $3,
            reset_password_token = NULL,
            reset_password_expires_at = NULL,
            updated_at = NOW()
        WHERE reset_password_token = $1 AND reset_password_expires_at > $4
        RETURNING ` + userColumns
	row := r.db.QueryRowxContext(ctx, query, token, passwordHash, passwordSalt, now)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}
