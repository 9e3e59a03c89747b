package repositories

import (
	"time"

	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/pkg/orm"
)

// NotificationRepository handles database operations for OrderNotification.
type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

// ForUser returns the caller's notifications, newest first.
func (r *NotificationRepository) ForUser(userID uint) ([]models.OrderNotification, error) {
	var items []models.OrderNotification
	err := orm.DB().Model(&models.OrderNotification{}).
		Where("user_id = ?", userID).
		Order("id desc").
		Get(&items)
	return items, err
}

// UnreadForUser returns the caller's unread notifications, newest first.
func (r *NotificationRepository) UnreadForUser(userID uint) ([]models.OrderNotification, error) {
	var items []models.OrderNotification
	err := orm.DB().Model(&models.OrderNotification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Order("id desc").
		Get(&items)
	return items, err
}

// RecentOrderActivity returns notifications created within the window,
// regardless of recipient. Feeds the clinical-staff order stream.
func (r *NotificationRepository) RecentOrderActivity(window time.Duration) ([]models.OrderNotification, error) {
	var items []models.OrderNotification
	since := time.Now().Add(-window)
	err := orm.DB().Model(&models.OrderNotification{}).
		Where("created_at >= ?", since).
		Order("id desc").
		Get(&items)
	return items, err
}

// MarkAllRead stamps read_at on every unread notification of the user and
// reports how many rows changed. Zero means there was nothing unread.
func (r *NotificationRepository) MarkAllRead(userID uint) (int64, error) {
	return orm.DB().Model(&models.OrderNotification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Updates(map[string]interface{}{"read_at": time.Now()})
}
