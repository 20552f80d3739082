package repository

import (
	"context"

	"github.com/greenworld/garden-backend/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	List(ctx context.Context, offset, limit int) ([]model.Question, error)
	CreateBatch(ctx context.Context, questions []model.Question) error
	SetDB(db *gorm.DB)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) List(ctx context.Context, offset, limit int) ([]model.Question, error) {
	var list []model.Question
	if err := r.db.WithContext(ctx).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *questionRepository) CreateBatch(ctx context.Context, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&questions).Error
}

func (r *questionRepository) SetDB(db *gorm.DB) {
	r.db = db
}
