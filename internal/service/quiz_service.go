package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/greenworld/garden-backend/internal/model"
	"github.com/greenworld/garden-backend/internal/repository"
)

var ErrNoQuestions = errors.New("no questions found")

type QuizService interface {
	ListQuestions(ctx context.Context, skip, limit int) ([]model.Question, error)
	Score(ctx context.Context, skip, limit int, answers map[string]string) (int, error)
	ImportText(ctx context.Context, text string) (int, error)
}

type quizService struct {
	repo repository.QuestionRepository
}

func NewQuizService(repo repository.QuestionRepository) QuizService {
	return &quizService{repo: repo}
}

func clampPage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return skip, limit
}

func (s *quizService) ListQuestions(ctx context.Context, skip, limit int) ([]model.Question, error) {
	skip, limit = clampPage(skip, limit)
	return s.repo.List(ctx, skip, limit)
}

// Score compares the submitted answers against the same page window the
// client was served; the score is the number of exact matches.
func (s *quizService) Score(ctx context.Context, skip, limit int, answers map[string]string) (int, error) {
	skip, limit = clampPage(skip, limit)
	questions, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return 0, err
	}
	if len(questions) == 0 {
		return 0, ErrNoQuestions
	}
	correct := 0
	for _, q := range questions {
		if answers[strconv.FormatUint(q.ID, 10)] == q.CorrectAnswer {
			correct++
		}
	}
	return correct, nil
}

// ParseQuestionBlocks reads 6-line blocks: question, correct answer, three
// wrong options, blank separator. Trailing partial blocks are ignored.
func ParseQuestionBlocks(text string) []model.Question {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var out []model.Question
	for i := 0; i+5 < len(lines); i += 6 {
		q := strings.TrimSpace(lines[i])
		correct := strings.TrimSpace(lines[i+1])
		if q == "" || correct == "" {
			continue
		}
		out = append(out, model.Question{
			QuestionText:  q,
			CorrectAnswer: correct,
			Option1:       strings.TrimSpace(lines[i+2]),
			Option2:       strings.TrimSpace(lines[i+3]),
			Option3:       strings.TrimSpace(lines[i+4]),
		})
	}
	return out
}

func (s *quizService) ImportText(ctx context.Context, text string) (int, error) {
	questions := ParseQuestionBlocks(text)
	if len(questions) == 0 {
		return 0, ErrNoQuestions
	}
	if err := s.repo.CreateBatch(ctx, questions); err != nil {
		return 0, err
	}
	return len(questions), nil
}
