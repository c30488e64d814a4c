package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                     uuid.UUID  `db:"id" json:"id"`
	Name                   string     `db:"name" json:"name"`
	Email                  string     `db:"email" json:"email"`
	PasswordHash           []byte     `db:"password_hash" json:"-"`
	PasswordSalt           []byte     `db:"password_salt" json:"-"`
	Role                   string     `db:"role" json:"role"`
	IsVerified             bool       `db:"is_verified" json:"is_verified"`
	VerificationToken      *string    `db:"verification_token" json:"-"`
	VerificationExpiresAt  *time.Time `db:"verification_expires_at" json:"-"`
	ResetPasswordToken     *string    `db:"reset_password_token" json:"-"`
	ResetPasswordExpiresAt *time.Time `db:"reset_password_expires_at" json:"-"`
	CreatedAt              time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at" json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
