package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/pkg/orm"
)

// OrderRepository handles database operations for Order and OutboxEntry.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// FindByID looks up an order by primary key.
func (r *OrderRepository) FindByID(id uint) (models.Order, error) {
	var order models.Order
	err := orm.DB().Model(&models.Order{}).Where("id = ?", id).First(&order)
	return order, err
}

// FindBySessionID looks up an order by its gateway checkout session id.
func (r *OrderRepository) FindBySessionID(sessionID string) (models.Order, error) {
	var order models.Order
	err := orm.DB().Model(&models.Order{}).
		Where("session_id = ?", sessionID).
		First(&order)
	return order, err
}

// ForUser returns the caller's orders, newest first, with pagination.
func (r *OrderRepository) ForUser(userID uint, page, limit int) ([]models.Order, orm.Pagination, error) {
	var orders []models.Order
	pagination, err := orm.DB().Model(&models.Order{}).
		Where("user_id = ?", userID).
		Order("id desc").
		GetWithPagination(&orders, page, limit)
	return orders, pagination, err
}

// CountForUser returns how many orders the user has placed. Cached by the
// profile read; invalidated through the outbox dispatcher.
func (r *OrderRepository) CountForUser(userID uint) (int64, error) {
	var n int64
	err := orm.DB().Model(&models.Order{}).
		Where("user_id = ?", userID).
		Count(&n)
	return n, err
}

// MarkPaid flips an unpaid order to paid inside tx and stamps PaidAt.
func (r *OrderRepository) MarkPaid(tx *gorm.DB, order *models.Order) error {
	now := time.Now()
	order.Status = models.OrderPaid
	order.PaidAt = &now
	return orm.With(tx).Save(order)
}

// PendingOutbox returns undispatched outbox entries, oldest first.
func (r *OrderRepository) PendingOutbox(limit int) ([]models.OutboxEntry, error) {
	var entries []models.OutboxEntry
	q := orm.DB().Model(&models.OutboxEntry{}).
		Where("dispatched_at IS NULL").
		Order("id asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Get(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// MarkDispatched stamps an outbox entry as delivered.
func (r *OrderRepository) MarkDispatched(entry *models.OutboxEntry) error {
	now := time.Now()
	entry.DispatchedAt = &now
	return orm.DB().Save(entry)
}

// BumpOutboxAttempts increments the retry counter after a failed delivery.
func (r *OrderRepository) BumpOutboxAttempts(entry *models.OutboxEntry) error {
	entry.Attempts++
	return orm.DB().Save(entry)
}
