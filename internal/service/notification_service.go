package service

import (
	"context"

	"ovra/internal/models"
	"ovra/internal/repository"
)

// NotificationService provides notification listing and read tracking.
type NotificationService struct {
	notifRepo repository.NotificationRepository
}

func NewNotificationService(notifRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifRepo: notifRepo}
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error) {
	return s.notifRepo.GetForUser(ctx, userID, limit, offset)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	return s.notifRepo.MarkRead(ctx, userID, notificationID)
}

// MarkAllRead marks every unread notification and returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return s.notifRepo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.notifRepo.UnreadCount(ctx, userID)
}
