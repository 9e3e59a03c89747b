package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/medicore/app/models"
)

func TestDeriveRolePrecedence(t *testing.T) {
	cases := []struct {
		name                                           string
		admin, doctor, nurse, pharmacist, laboratorist bool
		want                                           models.Role
	}{
		{"no flags means patient", false, false, false, false, false, models.RolePatient},
		{"only doctor", false, true, false, false, false, models.RoleDoctor},
		{"only nurse", false, false, true, false, false, models.RoleNurse},
		{"only pharmacist", false, false, false, true, false, models.RolePharmacist},
		{"only laboratorist", false, false, false, false, true, models.RoleLaboratorist},
		{"admin wins over doctor", true, true, false, false, false, models.RoleAdmin},
		{"doctor wins over nurse", false, true, true, false, false, models.RoleDoctor},
		{"nurse wins over pharmacist", false, false, true, true, false, models.RoleNurse},
		{"all flags set", true, true, true, true, true, models.RoleAdmin},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := models.DeriveRole(tc.admin, tc.doctor, tc.nurse, tc.pharmacist, tc.laboratorist)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []models.Role{
		models.RoleAdmin, models.RoleDoctor, models.RoleNurse,
		models.RolePharmacist, models.RoleLaboratorist, models.RolePatient,
	} {
		assert.True(t, r.Valid(), "role %s", r)
	}
	assert.False(t, models.Role("superuser").Valid())
	assert.False(t, models.Role("").Valid())
}

func TestClinicalStaff(t *testing.T) {
	assert.True(t, models.RoleDoctor.ClinicalStaff())
	assert.True(t, models.RoleNurse.ClinicalStaff())
	assert.True(t, models.RolePharmacist.ClinicalStaff())
	assert.True(t, models.RoleLaboratorist.ClinicalStaff())
	assert.False(t, models.RoleAdmin.ClinicalStaff())
	assert.False(t, models.RolePatient.ClinicalStaff())
}

func TestNewOrderIDFormat(t *testing.T) {
	id := models.NewOrderID()
	assert.Regexp(t, `^ORD-\d+-[0-9a-f]{8}$`, id)

	// Collisions should be practically impossible.
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		s := models.NewOrderID()
		assert.False(t, seen[s], "duplicate order id %s", s)
		seen[s] = true
	}
}

func TestOfferComputeTotal(t *testing.T) {
	offer := models.Offer{Price: 100, Discount: 10, Tax: 5}
	offer.ComputeTotal()
	// 100 - 10% = 90, +5% tax = 94.5
	assert.InDelta(t, 94.5, offer.TotalWithTax, 0.0001)

	plain := models.Offer{Price: 50}
	plain.ComputeTotal()
	assert.InDelta(t, 50, plain.TotalWithTax, 0.0001)
}
