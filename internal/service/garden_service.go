package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/greenworld/garden-backend/internal/model"
	"github.com/greenworld/garden-backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")
var ErrInsufficientFunds = errors.New("not enough coins")
var ErrMaxLevelReached = errors.New("tree at max level")
var ErrUpgradeNotReady = errors.New("upgrade not available yet")
var ErrInvalidAmount = errors.New("amount must be non-negative")
var ErrInvalidName = errors.New("name must be 1-100 characters")

// UpgradeCost scales off the tree's purchase-time price snapshot, not the
// catalog's current price: each level costs ~60% more than the previous one.
func UpgradeCost(price int64, lvl int) int64 {
	return int64(math.Round(float64(price) * math.Pow(1.6, float64(lvl-1))))
}

// UpgradeCooldown grows linearly with the level just reached.
func UpgradeCooldown(lvl int) time.Duration {
	return time.Duration(lvl) * 15 * time.Minute
}

type UpgradeResult struct {
	Lvl           int
	NextUpgradeAt time.Time
}

type GardenService interface {
	BuyAndPlant(ctx context.Context, userID, catalogID uint64, customName string) (*model.Tree, error)
	ListOwned(ctx context.Context, userID uint64) ([]model.Tree, error)
	GetOwned(ctx context.Context, userID, treeID uint64) (*model.Tree, error)
	UpdateTree(ctx context.Context, userID, treeID uint64, name *string, price *int64) (*model.Tree, error)
	Upgrade(ctx context.Context, userID, treeID uint64, useCoins bool) (*UpgradeResult, error)
}

type gardenService struct {
	store    repository.GardenStore
	catalog  repository.CatalogRepository
	treeRepo repository.TreeRepository
	notifier NotificationService
	log      *zap.Logger
	now      func() time.Time
}

func NewGardenService(store repository.GardenStore, catalog repository.CatalogRepository, treeRepo repository.TreeRepository, notifier NotificationService, log *zap.Logger) GardenService {
	return &gardenService{
		store:    store,
		catalog:  catalog,
		treeRepo: treeRepo,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

func (s *gardenService) BuyAndPlant(ctx context.Context, userID, catalogID uint64, customName string) (*model.Tree, error) {
	entry, err := s.catalog.FindByID(ctx, catalogID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	name := strings.TrimSpace(customName)
	if name == "" {
		name = entry.Name
	}
	if len([]rune(name)) > 100 {
		return nil, ErrInvalidName
	}

	var tree *model.Tree
	err = s.store.Atomic(ctx, func(tx repository.GardenStore) error {
		user, err := tx.UserForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if user.Coins < entry.Price {
			return ErrInsufficientFunds
		}
		if err := tx.DebitCoins(ctx, userID, entry.Price); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInsufficientFunds
			}
			return err
		}
		tree = &model.Tree{
			CreatedBy:  userID,
			TreeTypeID: entry.ID,
			Name:       name,
			Price:      entry.Price,
			Lvl:        1,
		}
		return tx.CreateTree(ctx, tree)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("tree purchased",
		zap.Uint64("user_id", userID),
		zap.Uint64("tree_id", tree.ID),
		zap.Int64("price", entry.Price))
	if s.notifier != nil {
		s.notifier.Notify(ctx, userID, fmt.Sprintf("Вы посадили дерево «%s»", tree.Name))
	}
	return tree, nil
}

func (s *gardenService) ListOwned(ctx context.Context, userID uint64) ([]model.Tree, error) {
	return s.treeRepo.ListByOwner(ctx, userID)
}

// GetOwned reports a foreign tree with the same error as a missing one, so a
// non-owner cannot probe which ids exist.
func (s *gardenService) GetOwned(ctx context.Context, userID, treeID uint64) (*model.Tree, error) {
	tree, err := s.treeRepo.FindByID(ctx, treeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if tree.CreatedBy != userID {
		return nil, ErrNotFound
	}
	return tree, nil
}

func (s *gardenService) UpdateTree(ctx context.Context, userID, treeID uint64, name *string, price *int64) (*model.Tree, error) {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" || len([]rune(trimmed)) > 100 {
			return nil, ErrInvalidName
		}
		name = &trimmed
	}
	if price != nil && *price < 0 {
		return nil, ErrInvalidAmount
	}

	var tree *model.Tree
	err := s.store.Atomic(ctx, func(tx repository.GardenStore) error {
		t, err := tx.TreeForUpdate(ctx, treeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if t.CreatedBy != userID {
			return ErrNotFound
		}
		if name != nil {
			t.Name = *name
		}
		if price != nil {
			t.Price = *price
		}
		if err := tx.SaveTree(ctx, t); err != nil {
			return err
		}
		tree = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// Upgrade applies one level transition. Check order is deliberate: a maxed
// tree rejects before any coin movement, and the cooldown is checked after the
// debit is staged so a cooldown failure rolls the debit back with the
// transaction instead of leaving it half-applied.
func (s *gardenService) Upgrade(ctx context.Context, userID, treeID uint64, useCoins bool) (*UpgradeResult, error) {
	var out UpgradeResult
	err := s.store.Atomic(ctx, func(tx repository.GardenStore) error {
		tree, err := tx.TreeForUpdate(ctx, treeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if tree.CreatedBy != userID {
			return ErrNotFound
		}
		user, err := tx.UserForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if tree.Lvl >= model.MaxTreeLevel {
			return ErrMaxLevelReached
		}

		if useCoins {
			cost := UpgradeCost(tree.Price, tree.Lvl)
			if user.Coins < cost {
				return ErrInsufficientFunds
			}
			if err := tx.DebitCoins(ctx, userID, cost); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrInsufficientFunds
				}
				return err
			}
		}

		now := s.now()
		if tree.NextUpgradeAt != nil && now.Before(*tree.NextUpgradeAt) {
			return ErrUpgradeNotReady
		}

		tree.Lvl++
		next := now.Add(UpgradeCooldown(tree.Lvl))
		tree.NextUpgradeAt = &next
		if err := tx.SaveTree(ctx, tree); err != nil {
			return err
		}
		out = UpgradeResult{Lvl: tree.Lvl, NextUpgradeAt: next}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("tree upgraded",
		zap.Uint64("user_id", userID),
		zap.Uint64("tree_id", treeID),
		zap.Int("lvl", out.Lvl))
	if s.notifier != nil {
		s.notifier.Notify(ctx, userID, fmt.Sprintf("Дерево #%d выросло до уровня %d", treeID, out.Lvl))
	}
	return &out, nil
}
