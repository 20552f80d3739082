package repository

import (
	"context"

	"github.com/greenworld/garden-backend/internal/model"
	"gorm.io/gorm"
)

type CatalogRepository interface {
	List(ctx context.Context) ([]model.TreeCatalog, error)
	FindByID(ctx context.Context, id uint64) (*model.TreeCatalog, error)
	SeedIfEmpty(ctx context.Context, entries []model.TreeCatalog) (bool, error)
	SetDB(db *gorm.DB)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) List(ctx context.Context) ([]model.TreeCatalog, error) {
	var list []model.TreeCatalog
	if err := r.db.WithContext(ctx).
		Order("id").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *catalogRepository) FindByID(ctx context.Context, id uint64) (*model.TreeCatalog, error) {
	var entry model.TreeCatalog
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// SeedIfEmpty inserts entries only when the catalog has no rows at all, so
// restarts never duplicate the seed set. Returns whether anything was written.
func (r *catalogRepository) SeedIfEmpty(ctx context.Context, entries []model.TreeCatalog) (bool, error) {
	seeded := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.TreeCatalog{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := tx.Create(&entries).Error; err != nil {
			return err
		}
		seeded = true
		return nil
	})
	return seeded, err
}

func (r *catalogRepository) SetDB(db *gorm.DB) {
	r.db = db
}
