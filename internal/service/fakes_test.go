package service

import (
	"context"
	"errors"

	"github.com/greenworld/garden-backend/internal/model"
	"github.com/greenworld/garden-backend/internal/repository"
	"gorm.io/gorm"
)

var errInjected = errors.New("injected failure")

// fakeStore is an in-memory GardenStore (and TreeRepository) with real
// transaction semantics: Atomic snapshots the state and restores it when the
// closure fails, so rollback behavior is observable in tests.
type fakeStore struct {
	users   map[uint64]*model.User
	trees   map[uint64]*model.Tree
	results map[uint64]*model.GameResult

	nextTreeID   uint64
	nextResultID uint64

	failSaveTree bool
	failCredit   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   map[uint64]*model.User{},
		trees:   map[uint64]*model.Tree{},
		results: map[uint64]*model.GameResult{},
	}
}

func (s *fakeStore) addUser(u model.User) *model.User {
	cp := u
	s.users[cp.ID] = &cp
	return &cp
}

func (s *fakeStore) addTree(t model.Tree) *model.Tree {
	if t.ID == 0 {
		s.nextTreeID++
		t.ID = s.nextTreeID
	}
	cp := t
	s.trees[cp.ID] = &cp
	return &cp
}

func (s *fakeStore) snapshot() (map[uint64]*model.User, map[uint64]*model.Tree, map[uint64]*model.GameResult) {
	users := make(map[uint64]*model.User, len(s.users))
	for id, u := range s.users {
		cp := *u
		users[id] = &cp
	}
	trees := make(map[uint64]*model.Tree, len(s.trees))
	for id, t := range s.trees {
		cp := *t
		if t.NextUpgradeAt != nil {
			at := *t.NextUpgradeAt
			cp.NextUpgradeAt = &at
		}
		trees[id] = &cp
	}
	results := make(map[uint64]*model.GameResult, len(s.results))
	for id, r := range s.results {
		cp := *r
		results[id] = &cp
	}
	return users, trees, results
}

func (s *fakeStore) Atomic(ctx context.Context, fn func(tx repository.GardenStore) error) error {
	users, trees, results := s.snapshot()
	if err := fn(s); err != nil {
		s.users, s.trees, s.results = users, trees, results
		return err
	}
	return nil
}

func (s *fakeStore) UserForUpdate(ctx context.Context, id uint64) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeStore) TreeForUpdate(ctx context.Context, id uint64) (*model.Tree, error) {
	t, ok := s.trees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	if t.NextUpgradeAt != nil {
		at := *t.NextUpgradeAt
		cp.NextUpgradeAt = &at
	}
	return &cp, nil
}

func (s *fakeStore) CreditCoins(ctx context.Context, userID uint64, amount int64) error {
	if amount < 0 {
		return repository.ErrNegativeAmount
	}
	if s.failCredit {
		return errInjected
	}
	u, ok := s.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Coins += amount
	return nil
}

func (s *fakeStore) DebitCoins(ctx context.Context, userID uint64, amount int64) error {
	if amount < 0 {
		return repository.ErrNegativeAmount
	}
	u, ok := s.users[userID]
	if !ok || u.Coins < amount {
		return gorm.ErrRecordNotFound
	}
	u.Coins -= amount
	return nil
}

func (s *fakeStore) CreateTree(ctx context.Context, t *model.Tree) error {
	s.nextTreeID++
	t.ID = s.nextTreeID
	cp := *t
	s.trees[cp.ID] = &cp
	return nil
}

func (s *fakeStore) SaveTree(ctx context.Context, t *model.Tree) error {
	if s.failSaveTree {
		return errInjected
	}
	if _, ok := s.trees[t.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *t
	if t.NextUpgradeAt != nil {
		at := *t.NextUpgradeAt
		cp.NextUpgradeAt = &at
	}
	s.trees[cp.ID] = &cp
	return nil
}

func (s *fakeStore) CreateGameResult(ctx context.Context, res *model.GameResult) error {
	s.nextResultID++
	res.ID = s.nextResultID
	cp := *res
	s.results[cp.ID] = &cp
	return nil
}

// TreeRepository methods so one fake backs reads and writes alike.

func (s *fakeStore) FindByID(ctx context.Context, id uint64) (*model.Tree, error) {
	return s.TreeForUpdate(ctx, id)
}

func (s *fakeStore) ListByOwner(ctx context.Context, userID uint64) ([]model.Tree, error) {
	var list []model.Tree
	for id := uint64(1); id <= s.nextTreeID; id++ {
		if t, ok := s.trees[id]; ok && t.CreatedBy == userID {
			list = append(list, *t)
		}
	}
	return list, nil
}

func (s *fakeStore) SetDB(db *gorm.DB) {}

type fakeCatalog struct {
	entries []model.TreeCatalog
}

func (f *fakeCatalog) List(ctx context.Context) ([]model.TreeCatalog, error) {
	return append([]model.TreeCatalog(nil), f.entries...), nil
}

func (f *fakeCatalog) FindByID(ctx context.Context, id uint64) (*model.TreeCatalog, error) {
	for i := range f.entries {
		if f.entries[i].ID == id {
			cp := f.entries[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCatalog) SeedIfEmpty(ctx context.Context, entries []model.TreeCatalog) (bool, error) {
	if len(f.entries) > 0 {
		return false, nil
	}
	for i, e := range entries {
		e.ID = uint64(i + 1)
		f.entries = append(f.entries, e)
	}
	return true, nil
}

func (f *fakeCatalog) SetDB(db *gorm.DB) {}

type fakeUserRepo struct {
	users  map[uint64]*model.User
	nextID uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint64]*model.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *model.User) error {
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.users[cp.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Save(ctx context.Context, u *model.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *u
	f.users[cp.ID] = &cp
	return nil
}

func (f *fakeUserRepo) SetDB(db *gorm.DB) {}

type fakeQuestionRepo struct {
	questions []model.Question
}

func (f *fakeQuestionRepo) List(ctx context.Context, offset, limit int) ([]model.Question, error) {
	if offset >= len(f.questions) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.questions) {
		end = len(f.questions)
	}
	return append([]model.Question(nil), f.questions[offset:end]...), nil
}

func (f *fakeQuestionRepo) CreateBatch(ctx context.Context, questions []model.Question) error {
	for _, q := range questions {
		q.ID = uint64(len(f.questions) + 1)
		f.questions = append(f.questions, q)
	}
	return nil
}

func (f *fakeQuestionRepo) SetDB(db *gorm.DB) {}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) Notify(ctx context.Context, userID uint64, message string) {
	f.messages = append(f.messages, message)
}

func (f *fakeNotifier) List(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]model.Notification, int64, error) {
	return nil, 0, nil
}

func (f *fakeNotifier) MarkAllRead(ctx context.Context, userID uint64) error {
	return nil
}
