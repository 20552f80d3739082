package repository

import (
	"context"
	"errors"

	"github.com/greenworld/garden-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNegativeAmount = errors.New("ledger amount must be non-negative")

// GardenStore is the transactional surface of the coin economy. Every
// multi-step mutation (buy, upgrade, settlement, rename) goes through Atomic,
// which hands the closure a store bound to one database transaction: if the
// closure returns an error, nothing it staged survives.
//
// The *ForUpdate loads take a row-level exclusive lock so that two concurrent
// check-then-act sequences on the same user or tree serialize on the database.
type GardenStore interface {
	Atomic(ctx context.Context, fn func(tx GardenStore) error) error

	UserForUpdate(ctx context.Context, id uint64) (*model.User, error)
	TreeForUpdate(ctx context.Context, id uint64) (*model.Tree, error)

	CreditCoins(ctx context.Context, userID uint64, amount int64) error
	DebitCoins(ctx context.Context, userID uint64, amount int64) error

	CreateTree(ctx context.Context, t *model.Tree) error
	SaveTree(ctx context.Context, t *model.Tree) error
	CreateGameResult(ctx context.Context, res *model.GameResult) error

	SetDB(db *gorm.DB)
}

type gardenStore struct {
	db *gorm.DB
}

func NewGardenStore(db *gorm.DB) GardenStore {
	return &gardenStore{db: db}
}

func (s *gardenStore) Atomic(ctx context.Context, fn func(tx GardenStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gardenStore{db: tx})
	})
}

func (s *gardenStore) UserForUpdate(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *gardenStore) TreeForUpdate(ctx context.Context, id uint64) (*model.Tree, error) {
	var t model.Tree
	if err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *gardenStore) CreditCoins(ctx context.Context, userID uint64, amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	if amount == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("coins", gorm.Expr("coins + ?", amount)).Error
}

// DebitCoins subtracts amount with a balance guard in the statement itself;
// zero rows affected means the balance was short and nothing changed. A
// negative amount is refused outright: it would slip past the balance guard
// and credit the account instead.
func (s *gardenStore) DebitCoins(ctx context.Context, userID uint64, amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	if amount == 0 {
		return nil
	}
	res := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND coins >= ?", userID, amount).
		Update("coins", gorm.Expr("coins - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *gardenStore) CreateTree(ctx context.Context, t *model.Tree) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *gardenStore) SaveTree(ctx context.Context, t *model.Tree) error {
	return s.db.WithContext(ctx).Save(t).Error
}

func (s *gardenStore) CreateGameResult(ctx context.Context, res *model.GameResult) error {
	return s.db.WithContext(ctx).Create(res).Error
}

func (s *gardenStore) SetDB(db *gorm.DB) {
	s.db = db
}
