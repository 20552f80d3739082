package repository

import (
	"context"

	"github.com/greenworld/garden-backend/internal/model"
	"gorm.io/gorm"
)

type TreeRepository interface {
	FindByID(ctx context.Context, id uint64) (*model.Tree, error)
	ListByOwner(ctx context.Context, userID uint64) ([]model.Tree, error)
	SetDB(db *gorm.DB)
}

type treeRepository struct {
	db *gorm.DB
}

func NewTreeRepository(db *gorm.DB) TreeRepository {
	return &treeRepository{db: db}
}

func (r *treeRepository) FindByID(ctx context.Context, id uint64) (*model.Tree, error) {
	var t model.Tree
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *treeRepository) ListByOwner(ctx context.Context, userID uint64) ([]model.Tree, error) {
	var list []model.Tree
	if err := r.db.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("id").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *treeRepository) SetDB(db *gorm.DB) {
	r.db = db
}
