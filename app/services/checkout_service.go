package services

import (
	"context"
	"encoding/json"
	"math"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/medicore/app/jobs"
	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/app/repositories"
	"github.com/shashiranjanraj/medicore/config"
	"github.com/shashiranjanraj/medicore/pkg/apperr"
	"github.com/shashiranjanraj/medicore/pkg/database"
	"github.com/shashiranjanraj/medicore/pkg/logger"
	"github.com/shashiranjanraj/medicore/pkg/metrics"
	"github.com/shashiranjanraj/medicore/pkg/orm"
	"github.com/shashiranjanraj/medicore/pkg/payment"
	"github.com/shashiranjanraj/medicore/pkg/queue"
)

// CheckoutInput is the validated request body for placing an order.
type CheckoutInput struct {
	OfferID        uint   `json:"offer_id" validate:"required,numeric"`
	Quantity       int    `json:"quantity" validate:"required,integer,gte=1"`
	FullName       string `json:"full_name" validate:"required,max=255"`
	Gender         string `json:"gender" validate:"nullable,in=male,female,other"`
	NationalCardID string `json:"national_card_id" validate:"nullable,max=100"`
}

// CheckoutResult is returned to the caller after a session is opened and
// the order is committed.
type CheckoutResult struct {
	CheckoutURL string       `json:"checkout_url"`
	Order       models.Order `json:"order"`
}

// orderEvent is the outbox payload for order.placed and order.paid.
type orderEvent struct {
	OrderPK  uint    `json:"order_pk"`
	OrderID  string  `json:"order_id"`
	UserID   uint    `json:"user_id"`
	AdminIDs []uint  `json:"admin_ids,omitempty"`
	Total    float64 `json:"total"`
}

// CheckoutService places orders against the payment gateway and confirms
// payment after redirect.
type CheckoutService struct {
	gateway payment.Gateway
	orders  *repositories.OrderRepository
	users   *repositories.UserRepository
}

func NewCheckoutService(gw payment.Gateway) *CheckoutService {
	return &CheckoutService{
		gateway: gw,
		orders:  repositories.NewOrderRepository(),
		users:   repositories.NewUserRepository(),
	}
}

// Checkout opens a gateway session for the offer and commits the order,
// its admin notification fan-out and the order.placed outbox entry in a
// single transaction. Broadcast and cache invalidation run later via the
// outbox dispatcher, so a rolled-back transaction never leaks side effects.
func (s *CheckoutService) Checkout(ctx context.Context, userID uint, in CheckoutInput) (*CheckoutResult, error) {
	var offer models.Offer
	if err := orm.DB().Model(&models.Offer{}).Where("id = ?", in.OfferID).First(&offer); err != nil {
		if orm.IsNotFound(err) {
			return nil, apperr.New(apperr.NotFound, "offer not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "checkout: load offer", err)
	}

	orderID := models.NewOrderID()
	unitAmount := int64(math.Round(offer.TotalWithTax * 100))
	sess, err := s.gateway.CreateSession(ctx, payment.CreateSessionParams{
		ProductName:     offer.Name,
		UnitAmount:      unitAmount,
		Quantity:        in.Quantity,
		Currency:        "usd",
		SuccessURL:      config.PaymentSuccessURL(),
		CancelURL:       config.PaymentCancelURL(),
		ClientReference: orderID,
	})
	if err != nil {
		return nil, err
	}

	admins, err := s.users.Admins()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "checkout: load admins", err)
	}

	order := models.Order{
		OrderID:        orderID,
		UserID:         userID,
		OfferID:        offer.ID,
		Quantity:       in.Quantity,
		Total:          offer.TotalWithTax * float64(in.Quantity),
		Status:         models.OrderUnpaid,
		SessionID:      sess.ID,
		FullName:       in.FullName,
		Gender:         in.Gender,
		NationalCardID: in.NationalCardID,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := orm.With(tx).Create(&order); err != nil {
			return err
		}

		for _, admin := range admins {
			n := models.OrderNotification{
				UserID:  admin.ID,
				OrderID: order.ID,
				Title:   "New service order",
				Message: order.FullName + " placed order " + order.OrderID + " for " + offer.Name,
			}
			if err := orm.With(tx).Create(&n); err != nil {
				return err
			}
		}

		adminIDs := make([]uint, len(admins))
		for i, a := range admins {
			adminIDs[i] = a.ID
		}
		entry, err := newOutboxEntry(models.OutboxOrderPlaced, orderEvent{
			OrderPK:  order.ID,
			OrderID:  order.OrderID,
			UserID:   order.UserID,
			AdminIDs: adminIDs,
			Total:    order.Total,
		})
		if err != nil {
			return err
		}
		return orm.With(tx).Create(entry)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "checkout: persist order", err)
	}

	metrics.OrdersPlaced.Inc()
	logger.WithCtx(ctx).Info("order placed",
		"order_id", order.OrderID, "user_id", userID, "total", order.Total)

	return &CheckoutResult{CheckoutURL: sess.URL, Order: order}, nil
}

// ConfirmPayment settles the order matching the gateway session.
//
// The lookup treats the existence of an order for the session id as proof
// of payment; the session state is not re-verified with the gateway.
// Confirmation is idempotent: an already-paid order returns success with
// no side effects.
func (s *CheckoutService) ConfirmPayment(ctx context.Context, sessionID string) (*models.Order, error) {
	if sessionID == "" {
		return nil, apperr.New(apperr.Validation, "sessionId is required")
	}

	order, err := s.orders.FindBySessionID(sessionID)
	if err != nil {
		if orm.IsNotFound(err) {
			return nil, apperr.New(apperr.NotFound, "order not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "payment: load order", err)
	}

	if order.Paid() {
		return &order, nil
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.orders.MarkPaid(tx, &order); err != nil {
			return err
		}
		entry, err := newOutboxEntry(models.OutboxOrderPaid, orderEvent{
			OrderPK: order.ID,
			OrderID: order.OrderID,
			UserID:  order.UserID,
			Total:   order.Total,
		})
		if err != nil {
			return err
		}
		return orm.With(tx).Create(entry)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "payment: mark paid", err)
	}

	metrics.OrdersPaid.Inc()
	logger.WithCtx(ctx).Info("order paid", "order_id", order.OrderID, "user_id", order.UserID)

	if err := queue.Dispatch(jobs.ReceiptMailJob{OrderPK: order.ID}); err != nil {
		// Receipt mail is best-effort; the payment itself is committed.
		logger.WithCtx(ctx).Error("payment: enqueue receipt mail", "error", err)
	}

	return &order, nil
}

func newOutboxEntry(kind string, ev orderEvent) (*models.OutboxEntry, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return &models.OutboxEntry{Kind: kind, Payload: string(payload)}, nil
}
