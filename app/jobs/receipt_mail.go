// Package jobs defines background jobs processed by pkg/queue workers.
package jobs

import (
	"fmt"

	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/pkg/mail"
	"github.com/shashiranjanraj/medicore/pkg/orm"
	"github.com/shashiranjanraj/medicore/pkg/queue"
)

// ReceiptMailJob emails a payment receipt to the purchaser after an order
// is confirmed paid. Dispatched by the checkout service; retried by the
// queue on failure.
type ReceiptMailJob struct {
	OrderPK uint `json:"order_pk"`
}

// RegisterJobs makes every job type known to the queue for
// deserialization. Called once at boot.
func RegisterJobs() {
	queue.Register("jobs.ReceiptMailJob", func() queue.Job { return &ReceiptMailJob{} })
	queue.Register("jobs.WelcomeMailJob", func() queue.Job { return &WelcomeMailJob{} })
}

func (j ReceiptMailJob) Handle() error {
	var order models.Order
	if err := orm.DB().Model(&models.Order{}).Where("id = ?", j.OrderPK).First(&order); err != nil {
		return fmt.Errorf("receipt mail: load order %d: %w", j.OrderPK, err)
	}

	var user models.User
	if err := orm.DB().Model(&models.User{}).Where("id = ?", order.UserID).First(&user); err != nil {
		return fmt.Errorf("receipt mail: load user %d: %w", order.UserID, err)
	}

	body := fmt.Sprintf(
		"<h2>Payment received</h2>"+
			"<p>Dear %s,</p>"+
			"<p>We have received your payment of <strong>$%.2f</strong> for order "+
			"<strong>%s</strong>.</p>"+
			"<p>Thank you for choosing Medicore.</p>",
		order.FullName, order.Total, order.OrderID,
	)

	return mail.To(user.Email).
		Subject("Your Medicore payment receipt — " + order.OrderID).
		Body(body).
		Send()
}
