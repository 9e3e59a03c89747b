package services

import (
	"time"

	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/app/repositories"
	"github.com/shashiranjanraj/medicore/pkg/apperr"
)

// orderFeedWindow bounds the clinical-staff order activity feed.
const orderFeedWindow = 24 * time.Hour

// NotificationService reads and settles order notifications.
type NotificationService struct {
	notifications *repositories.NotificationRepository
}

func NewNotificationService() *NotificationService {
	return &NotificationService{
		notifications: repositories.NewNotificationRepository(),
	}
}

// ForUser returns the caller's notifications, newest first.
func (s *NotificationService) ForUser(userID uint) ([]models.OrderNotification, error) {
	items, err := s.notifications.ForUser(userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "notifications: list", err)
	}
	return items, nil
}

// UnreadForUser returns the caller's unread notifications, newest first.
func (s *NotificationService) UnreadForUser(userID uint) ([]models.OrderNotification, error) {
	items, err := s.notifications.UnreadForUser(userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "notifications: list unread", err)
	}
	return items, nil
}

// OrderActivity returns order notifications from the last 24 hours for
// the clinical-staff stream feed.
func (s *NotificationService) OrderActivity() ([]models.OrderNotification, error) {
	items, err := s.notifications.RecentOrderActivity(orderFeedWindow)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "notifications: order activity", err)
	}
	return items, nil
}

// MarkAllRead settles every unread notification of the user and reports
// how many were updated. Zero is not an error; the controller renders it
// as an informational response.
func (s *NotificationService) MarkAllRead(userID uint) (int64, error) {
	n, err := s.notifications.MarkAllRead(userID)
	if err != nil {
		return 0, apperr.Wrap(apperr.Internal, "notifications: mark read", err)
	}
	return n, nil
}
