package service

import (
	"context"
	"errors"

	"github.com/greenworld/garden-backend/internal/model"
	"github.com/greenworld/garden-backend/internal/repository"
	"gorm.io/gorm"
)

type CatalogService interface {
	List(ctx context.Context) ([]model.TreeCatalog, error)
	Get(ctx context.Context, id uint64) (*model.TreeCatalog, error)
	SeedDefault(ctx context.Context) (bool, error)
}

type catalogService struct {
	repo repository.CatalogRepository
}

func NewCatalogService(repo repository.CatalogRepository) CatalogService {
	return &catalogService{repo: repo}
}

// DefaultCatalog is the archetype set planted on first startup.
func DefaultCatalog() []model.TreeCatalog {
	return []model.TreeCatalog{
		{Name: "Береза", Price: 25, Description: "Изящное дерево с белой корой"},
		{Name: "Дуб", Price: 50, Description: "Могучий и долговечный"},
		{Name: "Сосна", Price: 30, Description: "Вечнозеленое хвойное дерево"},
		{Name: "Клен", Price: 40, Description: "Дерево с красивыми резными листьями"},
	}
}

func (s *catalogService) List(ctx context.Context) ([]model.TreeCatalog, error) {
	return s.repo.List(ctx)
}

func (s *catalogService) Get(ctx context.Context, id uint64) (*model.TreeCatalog, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (s *catalogService) SeedDefault(ctx context.Context) (bool, error) {
	return s.repo.SeedIfEmpty(ctx, DefaultCatalog())
}
