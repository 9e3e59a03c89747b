package services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/app/services"
	"github.com/shashiranjanraj/medicore/pkg/apperr"
	"github.com/shashiranjanraj/medicore/pkg/database"
	"github.com/shashiranjanraj/medicore/pkg/payment"
)

// fakeGateway satisfies payment.Gateway without talking to the network.
type fakeGateway struct {
	created int
	last    payment.CreateSessionParams
}

func (f *fakeGateway) CreateSession(_ context.Context, p payment.CreateSessionParams) (*payment.Session, error) {
	f.created++
	f.last = p
	return &payment.Session{
		ID:            fmt.Sprintf("sess_test_%d", f.created),
		URL:           "https://gateway.test/pay",
		PaymentStatus: "unpaid",
		AmountTotal:   p.UnitAmount * int64(p.Quantity),
		Currency:      p.Currency,
	}, nil
}

func (f *fakeGateway) RetrieveSession(_ context.Context, id string) (*payment.Session, error) {
	return &payment.Session{ID: id, PaymentStatus: "paid"}, nil
}

func setupDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Department{},
		&models.Service{},
		&models.Offer{},
		&models.Order{},
		&models.OrderNotification{},
		&models.OutboxEntry{},
	))

	database.DB = db
}

func seedOffer(t *testing.T) models.Offer {
	t.Helper()

	dept := models.Department{Name: "Pathology", Slug: "pathology"}
	require.NoError(t, database.DB.Create(&dept).Error)
	svc := models.Service{Name: "Full Body Checkup", DepartmentID: dept.ID, BasePrice: 100}
	require.NoError(t, database.DB.Create(&svc).Error)

	offer := models.Offer{Name: "Annual Checkup Package", ServiceID: svc.ID, Price: 100, Discount: 10, Tax: 5}
	offer.ComputeTotal()
	require.NoError(t, database.DB.Create(&offer).Error)
	return offer
}

func seedUser(t *testing.T, email string, role models.Role) models.User {
	t.Helper()
	u := models.User{Name: strings.Split(email, "@")[0], Email: email, Password: "x", Role: role}
	require.NoError(t, database.DB.Create(&u).Error)
	return u
}

func TestCheckoutFansOutToEveryAdmin(t *testing.T) {
	setupDB(t)
	offer := seedOffer(t)
	patient := seedUser(t, "pat@example.com", models.RolePatient)
	admins := []models.User{
		seedUser(t, "admin1@example.com", models.RoleAdmin),
		seedUser(t, "admin2@example.com", models.RoleAdmin),
		seedUser(t, "admin3@example.com", models.RoleAdmin),
	}

	gw := &fakeGateway{}
	svc := services.NewCheckoutService(gw)

	res, err := svc.Checkout(context.Background(), patient.ID, services.CheckoutInput{
		OfferID:  offer.ID,
		Quantity: 2,
		FullName: "Pat Example",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://gateway.test/pay", res.CheckoutURL)
	assert.Equal(t, models.OrderUnpaid, res.Order.Status)
	assert.Regexp(t, `^ORD-\d+-[0-9a-f]{8}$`, res.Order.OrderID)
	assert.InDelta(t, 189.0, res.Order.Total, 0.0001, "2 x 94.50")

	// The gateway session carries the order id for reconciliation and the
	// per-unit price in cents.
	assert.Equal(t, res.Order.OrderID, gw.last.ClientReference)
	assert.EqualValues(t, 9450, gw.last.UnitAmount)

	// One notification per admin, all unread.
	var notes []models.OrderNotification
	require.NoError(t, database.DB.Find(&notes).Error)
	require.Len(t, notes, len(admins))
	for _, n := range notes {
		assert.Equal(t, res.Order.ID, n.OrderID)
		assert.Nil(t, n.ReadAt)
	}

	// Exactly one order.placed outbox entry, still undispatched.
	var entries []models.OutboxEntry
	require.NoError(t, database.DB.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, models.OutboxOrderPlaced, entries[0].Kind)
	assert.Nil(t, entries[0].DispatchedAt)
	assert.Contains(t, entries[0].Payload, res.Order.OrderID)
}

func TestCheckoutUnknownOffer(t *testing.T) {
	setupDB(t)
	patient := seedUser(t, "pat@example.com", models.RolePatient)

	svc := services.NewCheckoutService(&fakeGateway{})
	_, err := svc.Checkout(context.Background(), patient.ID, services.CheckoutInput{
		OfferID:  999,
		Quantity: 1,
		FullName: "Pat Example",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	setupDB(t)
	offer := seedOffer(t)
	patient := seedUser(t, "pat@example.com", models.RolePatient)
	seedUser(t, "admin@example.com", models.RoleAdmin)

	svc := services.NewCheckoutService(&fakeGateway{})
	res, err := svc.Checkout(context.Background(), patient.ID, services.CheckoutInput{
		OfferID:  offer.ID,
		Quantity: 1,
		FullName: "Pat Example",
	})
	require.NoError(t, err)

	first, err := svc.ConfirmPayment(context.Background(), res.Order.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, first.Status)
	require.NotNil(t, first.PaidAt)

	second, err := svc.ConfirmPayment(context.Background(), res.Order.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, second.Status)
	require.NotNil(t, second.PaidAt)
	assert.Equal(t, first.PaidAt.Unix(), second.PaidAt.Unix(), "second confirmation must not re-stamp")

	// One order.placed plus exactly one order.paid, never two.
	var paid int64
	require.NoError(t, database.DB.Model(&models.OutboxEntry{}).
		Where("kind = ?", models.OutboxOrderPaid).Count(&paid).Error)
	assert.EqualValues(t, 1, paid)
}

func TestConfirmPaymentRejectsBadSession(t *testing.T) {
	setupDB(t)

	svc := services.NewCheckoutService(&fakeGateway{})

	_, err := svc.ConfirmPayment(context.Background(), "")
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = svc.ConfirmPayment(context.Background(), "sess_unknown")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
