package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/quizeweb/quizeweb-api/internal/service"
	"github.com/quizeweb/quizeweb-api/internal/util"
)

type QuizHandler struct {
	quizzes *service.QuizService
}

func RegisterQuizzes(e *echo.Echo, auth *service.AuthService, quizzes *service.QuizService) {
	handler := &QuizHandler{quizzes: quizzes}

	public := e.Group("/api/v1/quizzes")
	public.GET("", handler.listAll)

	protected := e.Group("/api/v1/quizzes", RequireAuth(auth), RequireVerified())
	protected.POST("", handler.create)
	protected.GET("/mine", handler.listMine)
	protected.GET("/:id", handler.get)
	protected.PUT("/:id", handler.update)
	protected.DELETE("/:id", handler.delete)
}

func (h *QuizHandler) listAll(c echo.Context) error {
	quizzes, err := h.quizzes.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Failure("Server error"))
	}
	return c.JSON(http.StatusOK, util.Success("Quizes fetched successfully", util.Envelope{
		"quizes": quizzes,
	}))
}

func (h *QuizHandler) get(c echo.Context) error {
	id, err := parseQuizID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("Quiz id must be a valid UUID"))
	}
	quiz, err := h.quizzes.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrQuizNotFound) {
			return c.JSON(http.StatusNotFound, util.Failure("Quiz not found"))
		}
		return c.JSON(http.StatusInternalServerError, util.Failure("Server error"))
	}
	return c.JSON(http.StatusOK, util.Success("Quiz fetched successfully", util.Envelope{
		"quize": quiz,
	}))
}

func (h *QuizHandler) create(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Failure("Please login!"))
	}

	var req QuizRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("Title and questions are required"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("Invalid question format"))
	}

	quiz, err := h.quizzes.Create(c.Request().Context(), user, req.Title, req.toDomain())
	if err != nil {
		if errors.Is(err, service.ErrQuizValidation) {
			return c.JSON(http.StatusBadRequest, util.Failure(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Failure("Server error"))
	}
	return c.JSON(http.StatusCreated, util.Success("Quiz created successfully", util.Envelope{
		"quiz": quiz,
	}))
}

func (h *QuizHandler) update(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Failure("Please login!"))
	}

	id, err := parseQuizID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("Quiz id must be a valid UUID"))
	}

	var req QuizRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("Title and questions are required"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("Invalid question format"))
	}

	quiz, err := h.quizzes.Update(c.Request().Context(), user, id, req.Title, req.toDomain())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuizNotFound):
			return c.JSON(http.StatusNotFound, util.Failure("Quiz not found"))
		case errors.Is(err, service.ErrQuizForbidden):
			return c.JSON(http.StatusForbidden, util.Failure("You don't have permission to edit this quiz"))
		case errors.Is(err, service.ErrQuizValidation):
			return c.JSON(http.StatusBadRequest, util.Failure(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, util.Failure("Server error"))
		}
	}
	return c.JSON(http.StatusOK, util.Success("Quiz updated successfully", util.Envelope{
		"quiz": quiz,
	}))
}

func (h *QuizHandler) delete(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Failure("Please login!"))
	}

	id, err := parseQuizID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("Quiz id must be a valid UUID"))
	}

	if err := h.quizzes.Delete(c.Request().Context(), user, id); err != nil {
		switch {
		case errors.Is(err, service.ErrQuizNotFound):
			return c.JSON(http.StatusNotFound, util.Failure("Quiz doesn't exist!"))
		case errors.Is(err, service.ErrQuizForbidden):
			return c.JSON(http.StatusForbidden, util.Failure("You don't have permission to delete this quiz"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Failure("Server error"))
		}
	}
	return c.JSON(http.StatusOK, util.Success("Quiz deleted successfully", nil))
}

func (h *QuizHandler) listMine(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Failure("Please login!"))
	}

	quizzes, err := h.quizzes.ListMine(c.Request().Context(), user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Failure("Server error"))
	}
	return c.JSON(http.StatusOK, util.Success("User quizes fetched successfully", util.Envelope{
		"quizes": quizzes,
	}))
}

func parseQuizID(c echo.Context, param string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Param(param)))
}
