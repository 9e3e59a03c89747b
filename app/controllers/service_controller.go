package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/app/services"
	"github.com/shashiranjanraj/medicore/pkg/cache"
	"github.com/shashiranjanraj/medicore/pkg/orm"
	"github.com/shashiranjanraj/medicore/pkg/response"
)

type ServiceController struct{}

func NewServiceController() *ServiceController {
	return &ServiceController{}
}

type serviceInput struct {
	Name         string  `json:"name" validate:"required,max=255"`
	Description  string  `json:"description" validate:"nullable,max=1000"`
	DepartmentID uint    `json:"department_id" validate:"required,numeric"`
	BasePrice    float64 `json:"base_price" validate:"required,numeric,gte=0"`
	Active       bool    `json:"active" validate:"nullable,boolean"`
}

// Add creates a service under a department.
func (c *ServiceController) Add(w http.ResponseWriter, r *http.Request) {
	var in serviceInput
	if !bindJSON(w, r, &in) {
		return
	}

	var dept models.Department
	if err := orm.DB().Model(&models.Department{}).Where("id = ?", in.DepartmentID).First(&dept); err != nil {
		if orm.IsNotFound(err) {
			response.ValidationError(w, map[string]string{"department_id": "department does not exist"})
			return
		}
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	svc := models.Service{
		Name:         in.Name,
		Description:  in.Description,
		DepartmentID: in.DepartmentID,
		BasePrice:    in.BasePrice,
		Active:       in.Active,
	}
	if err := orm.DB().Create(&svc); err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	services.InvalidateService(svc.ID)
	response.Created(w, svc)
}

// Update modifies a service by id.
func (c *ServiceController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in serviceInput
	if !bindJSON(w, r, &in) {
		return
	}

	var svc models.Service
	if err := orm.DB().Model(&models.Service{}).Where("id = ?", id).First(&svc); err != nil {
		if orm.IsNotFound(err) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	svc.Name = in.Name
	svc.Description = in.Description
	svc.DepartmentID = in.DepartmentID
	svc.BasePrice = in.BasePrice
	svc.Active = in.Active
	if err := orm.DB().Save(&svc); err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	services.InvalidateService(svc.ID)
	response.Success(w, svc)
}

// Delete removes a service by id.
func (c *ServiceController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	rows, err := orm.DB().Where("id = ?", id).Delete(&models.Service{})
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if rows == 0 {
		response.NotFound(w)
		return
	}

	services.InvalidateService(id)
	response.Info(w, "service deleted")
}

// Show returns one service by id, served from cache when warm.
func (c *ServiceController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var svc models.Service
	err := cache.Remember(services.ServiceCacheKey(id), cache.Forever, &svc, func() (interface{}, error) {
		var s models.Service
		if err := orm.DB().Model(&models.Service{}).Where("id = ?", id).First(&s); err != nil {
			return nil, err
		}
		return &s, nil
	})
	if err != nil {
		if orm.IsNotFound(err) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Success(w, svc)
}

// List returns services, paginated.
func (c *ServiceController) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)

	var list []models.Service
	pagination, err := orm.DB().Model(&models.Service{}).
		Order("id desc").
		GetWithPagination(&list, page, perPage)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Paginated(w, list, pagination)
}

// Search filters services by substring over the name column.
func (c *ServiceController) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	page, perPage := pageParams(r)

	var list []models.Service
	pagination, err := orm.DB().Model(&models.Service{}).
		Search(term, "name", "description").
		Order("id desc").
		GetWithPagination(&list, page, perPage)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Paginated(w, list, pagination)
}
