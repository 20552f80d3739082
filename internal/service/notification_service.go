package service

import (
	"context"

	"github.com/greenworld/garden-backend/internal/model"
	"github.com/greenworld/garden-backend/internal/repository"
)

type NotificationService interface {
	Notify(ctx context.Context, userID uint64, message string)
	List(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]model.Notification, int64, error)
	MarkAllRead(ctx context.Context, userID uint64) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

// Notify is best-effort; it never fails the main flow.
func (s *notificationService) Notify(ctx context.Context, userID uint64, message string) {
	if userID == 0 || message == "" {
		return
	}
	_ = s.repo.Create(ctx, &model.Notification{UserID: userID, Message: message})
}

func (s *notificationService) List(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]model.Notification, int64, error) {
	list, err := s.repo.ListByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, 0, err
	}
	cnt, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return list, 0, err
	}
	return list, cnt, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uint64) error {
	return s.repo.MarkAllRead(ctx, userID)
}
