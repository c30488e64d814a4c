package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quizeweb/quizeweb-api/internal/domain"
	"github.com/quizeweb/quizeweb-api/internal/service"
	"github.com/quizeweb/quizeweb-api/internal/util"
)

// CookieSettings controls the session cookie's transport attributes, which
// differ between production (Secure, SameSite=None) and development (Lax).
type CookieSettings struct {
	Secure   bool
	SameSite http.SameSite
}

type AuthHandler struct {
	auth    *service.AuthService
	cookies CookieSettings
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService, cookies CookieSettings) {
	handler := &AuthHandler{auth: auth, cookies: cookies}

	group := e.Group("/api/v1/auth")
	group.POST("/register", handler.register)
	group.GET("/verify/:token", handler.verify)
	group.POST("/login", handler.login)
	group.GET("/logout", handler.logout, RequireAuth(auth))
	group.GET("/profile", handler.profile, RequireAuth(auth))
	group.POST("/forget-password", handler.forgetPassword)
	group.POST("/reset-password/:token", handler.resetPassword)
	group.PUT("/reset-password/:token", handler.resetPassword)
	group.POST("/resend-verification", handler.resendVerification, RequireAuth(auth))
}

func (h *AuthHandler) register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("All fields are required!"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("All fields are required!"))
	}

	user, err := h.auth.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			return c.JSON(http.StatusConflict, util.Failure("User already exists"))
		case errors.Is(err, util.ErrWeakPassword):
			return c.JSON(http.StatusBadRequest, util.Failure(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, util.Failure("Something went wrong!"))
		}
	}

	return c.JSON(http.StatusCreated, util.Success("Check your email for verification!", util.Envelope{
		"user": sanitizeUser(user),
	}))
}

func (h *AuthHandler) verify(c echo.Context) error {
	session, err := h.auth.Verify(c.Request().Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, service.ErrTokenInvalid) {
			return c.JSON(http.StatusNotFound, util.Failure("Invalid link!"))
		}
		return c.JSON(http.StatusInternalServerError, util.Failure("Something went wrong!"))
	}

	h.setSessionCookie(c, session.Token, session.ExpiresAt)
	return c.JSON(http.StatusCreated, util.Success("User verified successfully!", util.Envelope{
		"user":  sanitizeUser(session.User),
		"token": session.Token,
	}))
}

func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("All fields are required!"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("All fields are required!"))
	}

	session, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, util.Failure("No account found with the provided email!"))
		case errors.Is(err, service.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, util.Failure("Email or password is incorrect!"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Failure("Something went wrong!"))
		}
	}

	h.setSessionCookie(c, session.Token, session.ExpiresAt)
	return c.JSON(http.StatusOK, util.Success("Logged in successfully", util.Envelope{
		"user":  sanitizeUser(session.User),
		"token": session.Token,
	}))
}

// logout only clears the cookie: the token itself stays cryptographically
// valid until its natural expiry, there is no server-side revocation list.
func (h *AuthHandler) logout(c echo.Context) error {
	h.clearSessionCookie(c)
	return c.JSON(http.StatusOK, util.Success("User logged out successfully", nil))
}

// profile re-reads the user so the response reflects state changed since the
// session token was minted (a verification landing between requests, say).
func (h *AuthHandler) profile(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Failure("Please login!"))
	}

	fresh, err := h.auth.Profile(c.Request().Context(), user.ID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, util.Failure("User not found"))
		}
		return c.JSON(http.StatusInternalServerError, util.Failure("Something went wrong!"))
	}
	return c.JSON(http.StatusOK, util.Success("User profile fetched successfully", util.Envelope{
		"user": sanitizeUser(fresh),
	}))
}

func (h *AuthHandler) forgetPassword(c echo.Context) error {
	var req ForgetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("All fields are required!"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("All fields are required!"))
	}

	if err := h.auth.ForgetPassword(c.Request().Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, util.Failure("No account found with this email address"))
		}
		return c.JSON(http.StatusInternalServerError, util.Failure("Something went wrong!"))
	}
	return c.JSON(http.StatusOK, util.Success("Check your email to reset password!", nil))
}

func (h *AuthHandler) resetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("All fields are required!"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("All fields are required!"))
	}

	if err := h.auth.ResetPassword(c.Request().Context(), c.Param("token"), req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrTokenInvalid):
			return c.JSON(http.StatusNotFound, util.Failure("Token expired! Try again"))
		case errors.Is(err, util.ErrWeakPassword):
			return c.JSON(http.StatusBadRequest, util.Failure(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, util.Failure("Something went wrong!"))
		}
	}
	return c.JSON(http.StatusOK, util.Success("Password reset successful", nil))
}

func (h *AuthHandler) resendVerification(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Failure("Please login first"))
	}

	if err := h.auth.ResendVerification(c.Request().Context(), user.ID); err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyVerified):
			return c.JSON(http.StatusBadRequest, util.Failure("Email is already verified"))
		case errors.Is(err, service.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, util.Failure("User not found"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Failure("Failed to send verification email. Please try again later."))
		}
	}
	return c.JSON(http.StatusOK, util.Success("Verification email sent successfully! Please check your email.", nil))
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string, expiresAt time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: h.cookies.SameSite,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: h.cookies.SameSite,
	})
}

func sanitizeUser(user *domain.User) util.Envelope {
	return util.Envelope{
		"id":          user.ID,
		"name":        user.Name,
		"email":       user.Email,
		"role":        user.Role,
		"is_verified": user.IsVerified,
		"created_at":  user.CreatedAt,
	}
}
