package service

import (
	"context"
	"testing"
	"time"

	"github.com/greenworld/garden-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testCatalog = &fakeCatalog{entries: []model.TreeCatalog{
	{ID: 1, Name: "Береза", Price: 25},
	{ID: 2, Name: "Дуб", Price: 50},
}}

func newTestGarden(store *fakeStore) *gardenService {
	svc := NewGardenService(store, testCatalog, store, &fakeNotifier{}, zap.NewNop()).(*gardenService)
	svc.now = func() time.Time { return time.Date(2025, 10, 14, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestUpgradeCost(t *testing.T) {
	tests := []struct {
		name  string
		price int64
		lvl   int
		want  int64
	}{
		{"level one", 50, 1, 50},
		{"level two", 50, 2, 80},
		{"level three", 50, 3, 128},
		{"level four rounds up", 50, 4, 205},
		{"other base", 25, 2, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UpgradeCost(tt.price, tt.lvl))
		})
	}
}

func TestBuyAndPlant(t *testing.T) {
	ctx := context.Background()

	t.Run("success snapshots price and debits coins", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(model.User{ID: 7, Coins: 50})
		svc := newTestGarden(store)

		tree, err := svc.BuyAndPlant(ctx, 7, 2, "")
		require.NoError(t, err)
		assert.Equal(t, "Дуб", tree.Name)
		assert.Equal(t, int64(50), tree.Price)
		assert.Equal(t, 1, tree.Lvl)
		assert.Nil(t, tree.NextUpgradeAt)
		assert.Equal(t, int64(0), store.users[7].Coins)
	})

	t.Run("custom name wins over catalog name", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(model.User{ID: 7, Coins: 100})
		svc := newTestGarden(store)

		tree, err := svc.BuyAndPlant(ctx, 7, 1, "Моя береза")
		require.NoError(t, err)
		assert.Equal(t, "Моя береза", tree.Name)
	})

	t.Run("insufficient funds leaves balance untouched", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(model.User{ID: 7, Coins: 49})
		svc := newTestGarden(store)

		_, err := svc.BuyAndPlant(ctx, 7, 2, "")
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Equal(t, int64(49), store.users[7].Coins)
		assert.Empty(t, store.trees)
	})

	t.Run("unknown catalog entry", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(model.User{ID: 7, Coins: 50})
		svc := newTestGarden(store)

		_, err := svc.BuyAndPlant(ctx, 7, 99, "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGetOwned(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.addUser(model.User{ID: 1})
	store.addUser(model.User{ID: 2})
	tree := store.addTree(model.Tree{CreatedBy: 2, TreeTypeID: 1, Name: "Дуб", Price: 50, Lvl: 1})
	svc := newTestGarden(store)

	t.Run("owner sees the tree", func(t *testing.T) {
		got, err := svc.GetOwned(ctx, 2, tree.ID)
		require.NoError(t, err)
		assert.Equal(t, tree.ID, got.ID)
	})

	t.Run("non-owner gets the same error as absence", func(t *testing.T) {
		_, errForeign := svc.GetOwned(ctx, 1, tree.ID)
		_, errMissing := svc.GetOwned(ctx, 1, 999)
		assert.ErrorIs(t, errForeign, ErrNotFound)
		assert.ErrorIs(t, errMissing, ErrNotFound)
	})
}

func TestUpdateTree(t *testing.T) {
	ctx := context.Background()

	setup := func() (*fakeStore, *gardenService, *model.Tree) {
		store := newFakeStore()
		store.addUser(model.User{ID: 1})
		tree := store.addTree(model.Tree{CreatedBy: 1, TreeTypeID: 2, Name: "Дуб", Price: 50, Lvl: 1})
		return store, newTestGarden(store), tree
	}

	t.Run("rename keeps price", func(t *testing.T) {
		_, svc, tree := setup()
		name := "Старый дуб"
		got, err := svc.UpdateTree(ctx, 1, tree.ID, &name, nil)
		require.NoError(t, err)
		assert.Equal(t, "Старый дуб", got.Name)
		assert.Equal(t, int64(50), got.Price)
	})

	t.Run("reprice keeps name", func(t *testing.T) {
		_, svc, tree := setup()
		price := int64(75)
		got, err := svc.UpdateTree(ctx, 1, tree.ID, nil, &price)
		require.NoError(t, err)
		assert.Equal(t, "Дуб", got.Name)
		assert.Equal(t, int64(75), got.Price)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		_, svc, tree := setup()
		price := int64(-1)
		_, err := svc.UpdateTree(ctx, 1, tree.ID, nil, &price)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("foreign tree is not found", func(t *testing.T) {
		_, svc, tree := setup()
		name := "x"
		_, err := svc.UpdateTree(ctx, 42, tree.ID, &name, nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUpgrade(t *testing.T) {
	ctx := context.Background()

	t.Run("success increments level and schedules cooldown", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(model.User{ID: 1, Coins: 50})
		tree := store.addTree(model.Tree{CreatedBy: 1, TreeTypeID: 2, Name: "Дуб", Price: 50, Lvl: 1})
		svc := newTestGarden(store)

		res, err := svc.Upgrade(ctx, 1, tree.ID, true)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Lvl)
		assert.Equal(t, svc.now().Add(30*time.Minute), res.NextUpgradeAt)
		assert.Equal(t, int64(0), store.users[1].Coins)
		assert.Equal(t, 2, store.trees[tree.ID].Lvl)
	})

	t.Run("without coins skips the debit", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(model.User{ID: 1, Coins: 0})
		tree := store.addTree(model.Tree{CreatedBy: 1, TreeTypeID: 2, Name: "Дуб", Price: 50, Lvl: 1})
		svc := newTestGarden(store)

		res, err := svc.Upgrade(ctx, 1, tree.ID, false)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Lvl)
		assert.Equal(t, int64(0), store.users[1].Coins)
	})

	t.Run("max level rejects before any debit", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(model.User{ID: 1, Coins: 1000})
		tree := store.addTree(model.Tree{CreatedBy: 1, TreeTypeID: 2, Name: "Дуб", Price: 50, Lvl: 5})
		svc := newTestGarden(store)

		_, err := svc.Upgrade(ctx, 1, tree.ID, true)
		assert.ErrorIs(t, err, ErrMaxLevelReached)
		assert.Equal(t, int64(1000), store.users[1].Coins)
		assert.Equal(t, 5, store.trees[tree.ID].Lvl)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(model.User{ID: 1, Coins: 49})
		tree := store.addTree(model.Tree{CreatedBy: 1, TreeTypeID: 2, Name: "Дуб", Price: 50, Lvl: 1})
		svc := newTestGarden(store)

		_, err := svc.Upgrade(ctx, 1, tree.ID, true)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Equal(t, int64(49), store.users[1].Coins)
		assert.Equal(t, 1, store.trees[tree.ID].Lvl)
	})

	t.Run("cooldown failure rolls the staged debit back", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(model.User{ID: 1, Coins: 500})
		svc := newTestGarden(store)
		notReady := svc.now().Add(10 * time.Minute)
		tree := store.addTree(model.Tree{CreatedBy: 1, TreeTypeID: 2, Name: "Дуб", Price: 50, Lvl: 2, NextUpgradeAt: &notReady})

		_, err := svc.Upgrade(ctx, 1, tree.ID, true)
		assert.ErrorIs(t, err, ErrUpgradeNotReady)
		assert.Equal(t, int64(500), store.users[1].Coins)
		assert.Equal(t, 2, store.trees[tree.ID].Lvl)
	})

	t.Run("elapsed cooldown allows the upgrade", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(model.User{ID: 1, Coins: 500})
		svc := newTestGarden(store)
		past := svc.now().Add(-time.Minute)
		tree := store.addTree(model.Tree{CreatedBy: 1, TreeTypeID: 2, Name: "Дуб", Price: 50, Lvl: 2, NextUpgradeAt: &past})

		res, err := svc.Upgrade(ctx, 1, tree.ID, true)
		require.NoError(t, err)
		assert.Equal(t, 3, res.Lvl)
		assert.Equal(t, svc.now().Add(45*time.Minute), res.NextUpgradeAt)
		assert.Equal(t, int64(500-80), store.users[1].Coins)
	})

	t.Run("foreign tree is not found", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(model.User{ID: 1, Coins: 500})
		store.addUser(model.User{ID: 2})
		tree := store.addTree(model.Tree{CreatedBy: 2, TreeTypeID: 2, Name: "Дуб", Price: 50, Lvl: 1})
		svc := newTestGarden(store)

		_, err := svc.Upgrade(ctx, 1, tree.ID, true)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("persistence failure after the debit leaves no partial state", func(t *testing.T) {
		store := newFakeStore()
		store.addUser(model.User{ID: 1, Coins: 50})
		tree := store.addTree(model.Tree{CreatedBy: 1, TreeTypeID: 2, Name: "Дуб", Price: 50, Lvl: 1})
		store.failSaveTree = true
		svc := newTestGarden(store)

		_, err := svc.Upgrade(ctx, 1, tree.ID, true)
		require.Error(t, err)
		assert.Equal(t, int64(50), store.users[1].Coins)
		assert.Equal(t, 1, store.trees[tree.ID].Lvl)
		assert.Nil(t, store.trees[tree.ID].NextUpgradeAt)
	})
}

// Walks the full economy loop: buy at exact balance, fail the first upgrade
// broke, earn coins through a settlement, upgrade, then hit the cooldown.
func TestEconomyScenario(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.addUser(model.User{ID: 1, Coins: 50})
	garden := newTestGarden(store)
	rewards := NewRewardService(store, zap.NewNop())

	tree, err := garden.BuyAndPlant(ctx, 1, 2, "")
	require.NoError(t, err)
	assert.Equal(t, 1, tree.Lvl)
	assert.Equal(t, int64(50), tree.Price)
	assert.Equal(t, int64(0), store.users[1].Coins)

	_, err = garden.Upgrade(ctx, 1, tree.ID, true)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = rewards.AwardCoins(ctx, 1, 50, GameResultPayload{Title: "quiz", Score: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(50), store.users[1].Coins)

	res, err := garden.Upgrade(ctx, 1, tree.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Lvl)
	assert.Equal(t, garden.now().Add(30*time.Minute), res.NextUpgradeAt)
	assert.Equal(t, int64(0), store.users[1].Coins)

	_, err = rewards.AwardCoins(ctx, 1, 1000, GameResultPayload{Title: "quiz", Score: 2000})
	require.NoError(t, err)
	_, err = garden.Upgrade(ctx, 1, tree.ID, true)
	assert.ErrorIs(t, err, ErrUpgradeNotReady)
}
