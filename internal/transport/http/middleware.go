package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/quizeweb/quizeweb-api/internal/domain"
	"github.com/quizeweb/quizeweb-api/internal/service"
	"github.com/quizeweb/quizeweb-api/internal/util"
)

const (
	contextUserKey  = "auth.user"
	contextTokenKey = "auth.token"

	// sessionCookieName carries the session JWT; a bearer header is accepted
	// as a fallback transport.
	sessionCookieName = "token"
)

// extractSessionToken prefers the HTTP-only cookie and falls back to an
// Authorization bearer header.
func extractSessionToken(c echo.Context) string {
	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := strings.TrimSpace(c.Request().Header.Get("Authorization"))
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func RequireAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractSessionToken(c)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, util.Failure("No authentication token provided. Please login!"))
			}
			user, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				switch err {
				case service.ErrSessionExpired:
					c.Logger().Debugf("auth: expired session token")
					return c.JSON(http.StatusUnauthorized, util.Failure("Token expired. Please login again!"))
				default:
					c.Logger().Debugf("auth: rejected session token: %v", err)
					return c.JSON(http.StatusUnauthorized, util.Failure("Invalid token. Please login again!"))
				}
			}
			c.Set(contextUserKey, user)
			c.Set(contextTokenKey, token)
			return next(c)
		}
	}
}

// RequireVerified must run after RequireAuth; it gates verified-only actions
// and flags that a resend-verification action is available.
func RequireVerified() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok || user == nil {
				return c.JSON(http.StatusUnauthorized, util.Failure("Please login first"))
			}
			if !user.IsVerified {
				resp := util.Failure("Please verify your email address before creating or participating in quizzes")
				resp["requiresVerification"] = true
				return c.JSON(http.StatusForbidden, resp)
			}
			return next(c)
		}
	}
}

func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok || user == nil {
				return c.JSON(http.StatusUnauthorized, util.Failure("Please login first"))
			}
			if !user.IsAdmin() {
				return c.JSON(http.StatusForbidden, util.Failure("You are not authorized to access this resource"))
			}
			return next(c)
		}
	}
}

func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(contextUserKey).(*domain.User)
	return user, ok
}
