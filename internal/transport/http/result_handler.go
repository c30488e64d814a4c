package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/quizeweb/quizeweb-api/internal/service"
	"github.com/quizeweb/quizeweb-api/internal/util"
)

type ResultHandler struct {
	results *service.ResultService
}

func RegisterResults(e *echo.Echo, auth *service.AuthService, results *service.ResultService) {
	handler := &ResultHandler{results: results}

	e.POST("/api/v1/quizzes/:id/submit", handler.submit, RequireAuth(auth), RequireVerified())

	group := e.Group("/api/v1/results", RequireAuth(auth))
	group.GET("/history", handler.history)
	group.GET("/stats", handler.stats)
	group.GET("/attempt/:result_id", handler.attemptDetails)
}

func (h *ResultHandler) submit(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Failure("Please login!"))
	}

	quizID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("quizId and answers are required"))
	}

	var req SubmitQuizRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("quizId and answers are required"))
	}
	if req.Answers == nil {
		return c.JSON(http.StatusBadRequest, util.Failure("quizId and answers are required"))
	}

	result, err := h.results.Submit(c.Request().Context(), user.ID, quizID, req.Answers, req.TimeTaken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuizNotFound):
			return c.JSON(http.StatusNotFound, util.Failure("Quiz not found"))
		case errors.Is(err, service.ErrEmptyQuiz):
			return c.JSON(http.StatusBadRequest, util.Failure("Quiz has no questions"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Failure("Server error"))
		}
	}

	return c.JSON(http.StatusOK, util.Success("Quiz submitted successfully", util.Envelope{
		"result": util.Envelope{
			"score":       result.Score,
			"total":       result.Total,
			"percentage":  result.Percentage,
			"attempt":     result.Attempt,
			"timeTaken":   result.TimeTaken,
			"completedAt": result.CompletedAt,
		},
	}))
}

func (h *ResultHandler) history(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Failure("Please login!"))
	}

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)

	historyPage, err := h.results.History(c.Request().Context(), user.ID, page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Failure("Server error"))
	}
	return c.JSON(http.StatusOK, util.Success("Quiz history fetched successfully", util.Envelope{
		"data": historyPage,
	}))
}

func (h *ResultHandler) stats(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Failure("Please login!"))
	}

	stats, err := h.results.Stats(c.Request().Context(), user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Failure("Server error"))
	}
	return c.JSON(http.StatusOK, util.Success("Performance stats fetched successfully", util.Envelope{
		"data": stats,
	}))
}

func (h *ResultHandler) attemptDetails(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Failure("Please login!"))
	}

	resultID, err := uuid.Parse(strings.TrimSpace(c.Param("result_id")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Failure("Result id must be a valid UUID"))
	}

	details, err := h.results.AttemptDetails(c.Request().Context(), user.ID, resultID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrResultNotFound), errors.Is(err, service.ErrQuizNotFound):
			return c.JSON(http.StatusNotFound, util.Failure("Quiz result not found"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Failure("Server error"))
		}
	}
	return c.JSON(http.StatusOK, util.Success("Quiz attempt details fetched successfully", util.Envelope{
		"data": details,
	}))
}

func queryInt(c echo.Context, param string, fallback int) int {
	raw := strings.TrimSpace(c.QueryParam(param))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
