package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/greenworld/garden-backend/internal/model"
	"github.com/greenworld/garden-backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GameResultPayload carries the session fields persisted alongside the coin
// credit.
type GameResultPayload struct {
	Title       string
	Score       int
	DurationSec int
}

type RewardService interface {
	AwardCoins(ctx context.Context, userID uint64, coins int64, payload GameResultPayload) (*model.GameResult, error)
}

type rewardService struct {
	store repository.GardenStore
	log   *zap.Logger
}

func NewRewardService(store repository.GardenStore, log *zap.Logger) RewardService {
	return &rewardService{store: store, log: log}
}

// AwardCoins writes the GameResult row and credits the balance in one
// transaction; either both persist or neither does.
func (s *rewardService) AwardCoins(ctx context.Context, userID uint64, coins int64, payload GameResultPayload) (*model.GameResult, error) {
	if coins < 0 {
		return nil, ErrInvalidAmount
	}

	result := &model.GameResult{
		UserID:      userID,
		SessionID:   uuid.NewString(),
		Title:       payload.Title,
		Score:       payload.Score,
		DurationSec: payload.DurationSec,
	}
	err := s.store.Atomic(ctx, func(tx repository.GardenStore) error {
		if _, err := tx.UserForUpdate(ctx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.CreateGameResult(ctx, result); err != nil {
			return err
		}
		return tx.CreditCoins(ctx, userID, coins)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("coins awarded",
		zap.Uint64("user_id", userID),
		zap.Int64("coins", coins),
		zap.Uint64("result_id", result.ID))
	return result, nil
}
