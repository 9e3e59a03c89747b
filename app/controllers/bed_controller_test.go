package controllers_test

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/medicore/app/controllers"
	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/pkg/database"
)

func bedRouter() chi.Router {
	c := controllers.NewBedController()
	r := chi.NewRouter()
	r.Post("/add-bed-allotment", c.Add)
	r.Post("/update-bed-allotment/{id}", c.Update)
	r.Delete("/delete-bed-allotment/{id}", c.Delete)
	r.Get("/bed-allotment/{id}", c.Show)
	return r
}

func seedPatient(t *testing.T, email string) models.User {
	t.Helper()
	u := models.User{Name: "Pat", Email: email, Password: "x", Role: models.RolePatient}
	require.NoError(t, database.DB.Create(&u).Error)
	return u
}

func TestAddBedAllotment(t *testing.T) {
	setupDB(t)
	r := bedRouter()
	patient := seedPatient(t, "pat@example.com")

	rec := do(t, r, http.MethodPost, "/add-bed-allotment",
		`{"bed_number":"B-101","bed_type":"ICU","patient_email":"pat@example.com","allotment_date":"2026-08-28"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var bed models.BedAllotment
	require.NoError(t, database.DB.First(&bed).Error)
	assert.Equal(t, "B-101", bed.BedNumber)
	assert.Equal(t, patient.ID, bed.PatientID)
}

func TestAddBedAllotmentUnknownEmailIs406(t *testing.T) {
	setupDB(t)
	r := bedRouter()
	seedPatient(t, "pat@example.com")

	rec := do(t, r, http.MethodPost, "/add-bed-allotment",
		`{"bed_number":"B-101","patient_email":"nobody@example.com","allotment_date":"2026-08-28"}`)
	assert.Equal(t, http.StatusNotAcceptable, rec.Code, rec.Body.String())

	var n int64
	require.NoError(t, database.DB.Model(&models.BedAllotment{}).Count(&n).Error)
	assert.EqualValues(t, 0, n, "no row is written for an unknown patient")
}

func TestUpdateBedAllotmentUnknownEmailIs406(t *testing.T) {
	setupDB(t)
	r := bedRouter()
	patient := seedPatient(t, "pat@example.com")

	rec := do(t, r, http.MethodPost, "/add-bed-allotment",
		`{"bed_number":"B-101","patient_email":"pat@example.com","allotment_date":"2026-08-28"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, r, http.MethodPost, "/update-bed-allotment/1",
		`{"bed_number":"B-102","patient_email":"ghost@example.com","allotment_date":"2026-08-28"}`)
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)

	// The allotment is untouched.
	var bed models.BedAllotment
	require.NoError(t, database.DB.First(&bed).Error)
	assert.Equal(t, "B-101", bed.BedNumber)
	assert.Equal(t, patient.ID, bed.PatientID)
}

func TestBedAllotmentMissingEmailIsValidationError(t *testing.T) {
	setupDB(t)
	r := bedRouter()

	rec := do(t, r, http.MethodPost, "/add-bed-allotment",
		`{"bed_number":"B-101","allotment_date":"2026-08-28"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code, "an absent email is a validation failure, not a 406")

	body := decode(t, rec)
	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "patient_email")
}
