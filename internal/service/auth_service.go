package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quizeweb/quizeweb-api/internal/domain"
	"github.com/quizeweb/quizeweb-api/internal/repository/ports"
	"github.com/quizeweb/quizeweb-api/internal/util"
)

var (
	ErrEmailTaken         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("no account found with the provided email")
	ErrInvalidCredentials = errors.New("email or password is incorrect")
	ErrTokenInvalid       = errors.New("invalid or expired link")
	ErrSessionInvalid     = errors.New("invalid session token")
	ErrSessionExpired     = errors.New("session token expired")
	ErrAlreadyVerified    = errors.New("email is already verified")
)

// Mailer delivers the two token-bearing e-mails. Delivery failures never undo
// already persisted state; the token survives for a later resend.
type Mailer interface {
	SendVerification(ctx context.Context, email, name, token string) error
	SendPasswordReset(ctx context.Context, email, name, token string) error
}

type AuthService struct {
	users  ports.UserRepository
	mailer Mailer
	jwt    *util.JWTManager

	verificationTTL time.Duration
	resetTTL        time.Duration
	now             func() time.Time
}

type SessionResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

func NewAuthService(users ports.UserRepository, mailer Mailer, jwtManager *util.JWTManager, verificationTTL, resetTTL time.Duration) *AuthService {
	return &AuthService{
		users:           users,
		mailer:          mailer,
		jwt:             jwtManager,
		verificationTTL: verificationTTL,
		resetTTL:        resetTTL,
		now:             time.Now,
	}
}

// Register creates an unverified account and dispatches the verification
// e-mail. The token is persisted before the mail is attempted, so a delivery
// failure leaves the account in a resend-able state instead of losing it.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if err := util.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, salt, err := util.DerivePassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, name, email, hash, salt, domain.RoleUser)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if err := s.issueVerification(ctx, user); err != nil {
		// The account is already persisted; verification can be re-requested.
		log.Printf("auth: verification mail for %s failed: %v", user.Email, err)
	}
	return user, nil
}

func (s *AuthService) issueVerification(ctx context.Context, user *domain.User) error {
	token, err := util.GenerateOpaqueToken()
	if err != nil {
		return err
	}
	if err := s.users.SetVerificationToken(ctx, user.ID, token, s.now().Add(s.verificationTTL)); err != nil {
		return err
	}
	return s.mailer.SendVerification(ctx, user.Email, user.Name, token)
}

// Verify consumes a verification token and issues a session. Consumption is a
// single atomic store operation, so a token can never be redeemed twice.
func (s *AuthService) Verify(ctx context.Context, token string) (*SessionResult, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrTokenInvalid
	}
	user, err := s.users.ConsumeVerificationToken(ctx, token, s.now())
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	return s.issueSession(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*SessionResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !util.VerifyPassword(password, user.PasswordSalt, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issueSession(user)
}

func (s *AuthService) issueSession(user *domain.User) (*SessionResult, error) {
	token, expiresAt, err := s.jwt.Generate(user.ID, user.Name, user.Email)
	if err != nil {
		return nil, err
	}
	return &SessionResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Authenticate resolves a session token to its user. Expired tokens are
// reported separately from malformed or badly signed ones.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.jwt.Parse(token)
	if err != nil {
		if errors.Is(err, util.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, ErrSessionInvalid
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Profile(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ForgetPassword stores a fresh reset token with an explicit expiry before
// mailing it. Any prior unconsumed token is overwritten and thereby revoked.
func (s *AuthService) ForgetPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}

	token, err := util.GenerateOpaqueToken()
	if err != nil {
		return err
	}
	if err := s.users.SetResetPasswordToken(ctx, user.ID, token, s.now().Add(s.resetTTL)); err != nil {
		return err
	}
	return s.mailer.SendPasswordReset(ctx, user.Email, user.Name, token)
}

// ResetPassword redeems a reset token. Matching, expiry check, password swap
// and token clearing happen in one atomic store operation.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(token) == "" {
		return ErrTokenInvalid
	}
	if err := util.ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, salt, err := util.DerivePassword(newPassword)
	if err != nil {
		return err
	}
	if _, err := s.users.ConsumeResetPasswordToken(ctx, token, hash, salt, s.now()); err != nil {
		if isNotFound(err) {
			return ErrTokenInvalid
		}
		return err
	}
	return nil
}

// ResendVerification replaces the outstanding verification token with a new
// one, invalidating the previous link, and sends a fresh e-mail.
func (s *AuthService) ResendVerification(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}
	return s.issueVerification(ctx, user)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
