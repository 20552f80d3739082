package handler

import (
	"errors"
	"io"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/greenworld/garden-backend/internal/middleware"
	"github.com/greenworld/garden-backend/internal/model"
	"github.com/greenworld/garden-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type QuizHandler struct {
	quiz    service.QuizService
	rewards service.RewardService
}

func NewQuizHandler(quiz service.QuizService, rewards service.RewardService) *QuizHandler {
	return &QuizHandler{quiz: quiz, rewards: rewards}
}

type QuestionResponse struct {
	ID           uint64   `json:"id"`
	QuestionText string   `json:"questionText"`
	Options      []string `json:"options"`
}

func (h *QuizHandler) ListQuestions(c echo.Context) error {
	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	questions, err := h.quiz.ListQuestions(c.Request().Context(), skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch questions"))
	}
	resp := make([]QuestionResponse, 0, len(questions))
	for i := range questions {
		resp = append(resp, toQuestionResponse(&questions[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

type QuizSubmission struct {
	Skip    int               `json:"skip"`
	Limit   int               `json:"limit"`
	Answers map[string]string `json:"answers"`
}

type QuizResult struct {
	Score  int    `json:"score"`
	UserID uint64 `json:"userId"`
}

func (h *QuizHandler) Submit(c echo.Context) error {
	var sub QuizSubmission
	if err := c.Bind(&sub); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	score, err := h.quiz.Score(c.Request().Context(), sub.Skip, sub.Limit, sub.Answers)
	if err != nil {
		if errors.Is(err, service.ErrNoQuestions) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "no questions found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to score quiz"))
	}
	return c.JSON(http.StatusOK, QuizResult{Score: score, UserID: middleware.UserID(c)})
}

// ImportText ingests a plain-text body of 6-line question blocks.
func (h *QuizHandler) ImportText(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "expecting utf-8 text body"))
	}
	created, err := h.quiz.ImportText(c.Request().Context(), string(body))
	if err != nil {
		if errors.Is(err, service.ErrNoQuestions) {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "no question blocks found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to import questions"))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"ok": true, "created": created})
}

type GameResultRequest struct {
	Title       string `json:"title"`
	Score       int    `json:"score"`
	DurationSec int    `json:"duration_sec"`
}

type GameResultResponse struct {
	OK       bool   `json:"ok"`
	Awarded  int64  `json:"awarded"`
	ResultID uint64 `json:"resultId"`
}

// PostGameResult converts a scored session into coins: one coin per two score
// points, never negative, settled atomically with the result row.
func (h *QuizHandler) PostGameResult(c echo.Context) error {
	var req GameResultRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	coins := int64(req.Score / 2)
	if coins < 0 {
		coins = 0
	}
	result, err := h.rewards.AwardCoins(c.Request().Context(), middleware.UserID(c), coins, service.GameResultPayload{
		Title:       req.Title,
		Score:       req.Score,
		DurationSec: req.DurationSec,
	})
	if err != nil {
		return respondEconomyError(c, err)
	}
	return c.JSON(http.StatusOK, GameResultResponse{OK: true, Awarded: coins, ResultID: result.ID})
}

func toQuestionResponse(q *model.Question) QuestionResponse {
	// Shuffled so the correct answer's position gives nothing away.
	options := []string{q.CorrectAnswer, q.Option1, q.Option2, q.Option3}
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return QuestionResponse{
		ID:           q.ID,
		QuestionText: q.QuestionText,
		Options:      options,
	}
}
