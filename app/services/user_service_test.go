package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/app/services"
	"github.com/shashiranjanraj/medicore/pkg/apperr"
)

func TestProfileIncludesOrderCount(t *testing.T) {
	setupDB(t)
	offer := seedOffer(t)
	patient := seedUser(t, "pat@example.com", models.RolePatient)
	other := seedUser(t, "other@example.com", models.RolePatient)
	seedUser(t, "admin@example.com", models.RoleAdmin)

	checkout := services.NewCheckoutService(&fakeGateway{})
	for i := 0; i < 2; i++ {
		_, err := checkout.Checkout(context.Background(), patient.ID, services.CheckoutInput{
			OfferID:  offer.ID,
			Quantity: 1,
			FullName: "Pat Example",
		})
		require.NoError(t, err)
	}

	svc := services.NewUserService()

	profile, err := svc.Profile(patient.ID)
	require.NoError(t, err)
	assert.Equal(t, patient.Email, profile.User.Email)
	assert.EqualValues(t, 2, profile.OrderCount)

	profile, err = svc.Profile(other.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, profile.OrderCount, "counts are per user")
}

func TestProfileUnknownUser(t *testing.T) {
	setupDB(t)

	svc := services.NewUserService()
	_, err := svc.Profile(999)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestChangeRoleRejectsUnknownRole(t *testing.T) {
	setupDB(t)
	patient := seedUser(t, "pat@example.com", models.RolePatient)

	svc := services.NewUserService()

	_, err := svc.ChangeRole(patient.ID, models.Role("superuser"))
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	user, err := svc.ChangeRole(patient.ID, models.RoleNurse)
	require.NoError(t, err)
	assert.Equal(t, models.RoleNurse, user.Role)
}
