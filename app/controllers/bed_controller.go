package controllers

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/app/repositories"
	"github.com/shashiranjanraj/medicore/pkg/apperr"
	"github.com/shashiranjanraj/medicore/pkg/orm"
	"github.com/shashiranjanraj/medicore/pkg/response"
)

type BedController struct {
	users *repositories.UserRepository
}

func NewBedController() *BedController {
	return &BedController{users: repositories.NewUserRepository()}
}

type bedAllotmentInput struct {
	BedNumber     string `json:"bed_number" validate:"required,max=50"`
	BedType       string `json:"bed_type" validate:"nullable,max=100"`
	PatientEmail  string `json:"patient_email" validate:"required,email"`
	AllotmentDate string `json:"allotment_date" validate:"required,date"`
	DischargeDate string `json:"discharge_date" validate:"nullable,date"`
}

// Add allots a bed to a patient identified by email. An unknown email is
// an unknown-reference error (406), not a validation failure.
func (c *BedController) Add(w http.ResponseWriter, r *http.Request) {
	var in bedAllotmentInput
	if !bindJSON(w, r, &in) {
		return
	}

	patient, err := c.users.FindByEmail(in.PatientEmail)
	if err != nil {
		if orm.IsNotFound(err) {
			response.AppError(w, apperr.New(apperr.UnknownReference, "no patient registered with that email"))
			return
		}
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	allotmentDate, err := time.Parse("2006-01-02", in.AllotmentDate)
	if err != nil {
		response.ValidationError(w, map[string]string{"allotment_date": "allotment_date must be a valid date"})
		return
	}

	bed := models.BedAllotment{
		BedNumber:     in.BedNumber,
		BedType:       in.BedType,
		PatientID:     patient.ID,
		AllotmentDate: allotmentDate,
	}
	if in.DischargeDate != "" {
		if d, err := time.Parse("2006-01-02", in.DischargeDate); err == nil {
			bed.DischargeDate = &d
		}
	}

	if err := orm.DB().Create(&bed); err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Created(w, bed)
}

// Update modifies a bed allotment by id.
func (c *BedController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in bedAllotmentInput
	if !bindJSON(w, r, &in) {
		return
	}

	var bed models.BedAllotment
	if err := orm.DB().Model(&models.BedAllotment{}).Where("id = ?", id).First(&bed); err != nil {
		if orm.IsNotFound(err) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	patient, err := c.users.FindByEmail(in.PatientEmail)
	if err != nil {
		if orm.IsNotFound(err) {
			response.AppError(w, apperr.New(apperr.UnknownReference, "no patient registered with that email"))
			return
		}
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	bed.BedNumber = in.BedNumber
	bed.BedType = in.BedType
	bed.PatientID = patient.ID
	if d, err := time.Parse("2006-01-02", in.AllotmentDate); err == nil {
		bed.AllotmentDate = d
	}
	if in.DischargeDate != "" {
		if d, err := time.Parse("2006-01-02", in.DischargeDate); err == nil {
			bed.DischargeDate = &d
		}
	} else {
		bed.DischargeDate = nil
	}

	if err := orm.DB().Save(&bed); err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Success(w, bed)
}

// Delete removes a bed allotment by id.
func (c *BedController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	rows, err := orm.DB().Where("id = ?", id).Delete(&models.BedAllotment{})
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if rows == 0 {
		response.NotFound(w)
		return
	}
	response.Info(w, "bed allotment deleted")
}

// Show returns one bed allotment by id.
func (c *BedController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var bed models.BedAllotment
	if err := orm.DB().Model(&models.BedAllotment{}).Where("id = ?", id).First(&bed); err != nil {
		if orm.IsNotFound(err) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Success(w, bed)
}

// List returns bed allotments, paginated.
func (c *BedController) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)

	var beds []models.BedAllotment
	pagination, err := orm.DB().Model(&models.BedAllotment{}).
		Order("id desc").
		GetWithPagination(&beds, page, perPage)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Paginated(w, beds, pagination)
}

// Search filters bed allotments by substring over bed number and type.
func (c *BedController) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	page, perPage := pageParams(r)

	var beds []models.BedAllotment
	pagination, err := orm.DB().Model(&models.BedAllotment{}).
		Search(term, "bed_number", "bed_type").
		Order("id desc").
		GetWithPagination(&beds, page, perPage)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Paginated(w, beds, pagination)
}
