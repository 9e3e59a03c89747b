package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/pkg/orm"
	"github.com/shashiranjanraj/medicore/pkg/response"
)

type BloodBankController struct{}

func NewBloodBankController() *BloodBankController {
	return &BloodBankController{}
}

type bloodUnitInput struct {
	BloodGroup string `json:"blood_group" validate:"required,in=A+,A-,B+,B-,AB+,AB-,O+,O-"`
	Bags       int    `json:"bags" validate:"required,integer,gte=0"`
	Status     string `json:"status" validate:"nullable,in=available,reserved,expired"`
}

// Add records blood bank stock for a blood group.
func (c *BloodBankController) Add(w http.ResponseWriter, r *http.Request) {
	var in bloodUnitInput
	if !bindJSON(w, r, &in) {
		return
	}

	unit := models.BloodUnit{BloodGroup: in.BloodGroup, Bags: in.Bags, Status: in.Status}
	if unit.Status == "" {
		unit.Status = "available"
	}
	if err := orm.DB().Create(&unit); err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Created(w, unit)
}

// Update modifies a blood unit by id.
func (c *BloodBankController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in bloodUnitInput
	if !bindJSON(w, r, &in) {
		return
	}

	var unit models.BloodUnit
	if err := orm.DB().Model(&models.BloodUnit{}).Where("id = ?", id).First(&unit); err != nil {
		if orm.IsNotFound(err) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	unit.BloodGroup = in.BloodGroup
	unit.Bags = in.Bags
	if in.Status != "" {
		unit.Status = in.Status
	}
	if err := orm.DB().Save(&unit); err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Success(w, unit)
}

// Delete removes a blood unit by id.
func (c *BloodBankController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	rows, err := orm.DB().Where("id = ?", id).Delete(&models.BloodUnit{})
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if rows == 0 {
		response.NotFound(w)
		return
	}
	response.Info(w, "blood unit deleted")
}

// Show returns one blood unit by id.
func (c *BloodBankController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var unit models.BloodUnit
	if err := orm.DB().Model(&models.BloodUnit{}).Where("id = ?", id).First(&unit); err != nil {
		if orm.IsNotFound(err) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Success(w, unit)
}

// List returns blood bank stock, paginated.
func (c *BloodBankController) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)

	var units []models.BloodUnit
	pagination, err := orm.DB().Model(&models.BloodUnit{}).
		Order("id desc").
		GetWithPagination(&units, page, perPage)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Paginated(w, units, pagination)
}

// Search filters blood units by substring over the blood group column.
func (c *BloodBankController) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	page, perPage := pageParams(r)

	var units []models.BloodUnit
	pagination, err := orm.DB().Model(&models.BloodUnit{}).
		Search(term, "blood_group", "status").
		Order("id desc").
		GetWithPagination(&units, page, perPage)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Paginated(w, units, pagination)
}
