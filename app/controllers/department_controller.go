package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/app/services"
	"github.com/shashiranjanraj/medicore/pkg/cache"
	"github.com/shashiranjanraj/medicore/pkg/orm"
	"github.com/shashiranjanraj/medicore/pkg/response"
)

// departmentPerPage locks the department listing to two rows per page to
// match the paginated card layout of the admin frontend.
const departmentPerPage = 2

type DepartmentController struct{}

func NewDepartmentController() *DepartmentController {
	return &DepartmentController{}
}

type departmentInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Slug        string `json:"slug" validate:"required,alpha_dash,max=255"`
	Description string `json:"description" validate:"nullable,max=1000"`
}

// slugTaken reports whether another department already owns the slug.
func slugTaken(slug string, excludeID uint) (bool, error) {
	var n int64
	err := orm.DB().Model(&models.Department{}).
		Where("slug = ? AND id <> ?", slug, excludeID).
		Count(&n)
	return n > 0, err
}

// Add creates a department. A duplicate slug is a field validation error,
// never a database failure.
func (c *DepartmentController) Add(w http.ResponseWriter, r *http.Request) {
	var in departmentInput
	if !bindJSON(w, r, &in) {
		return
	}

	taken, err := slugTaken(in.Slug, 0)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if taken {
		response.ValidationError(w, map[string]string{"slug": "slug is already in use"})
		return
	}

	dept := models.Department{Name: in.Name, Slug: in.Slug, Description: in.Description}
	if err := orm.DB().Create(&dept); err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	services.InvalidateDepartment(dept.ID)
	response.Created(w, dept)
}

// Update modifies a department by id.
func (c *DepartmentController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in departmentInput
	if !bindJSON(w, r, &in) {
		return
	}

	var dept models.Department
	if err := orm.DB().Model(&models.Department{}).Where("id = ?", id).First(&dept); err != nil {
		if orm.IsNotFound(err) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	taken, err := slugTaken(in.Slug, dept.ID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if taken {
		response.ValidationError(w, map[string]string{"slug": "slug is already in use"})
		return
	}

	dept.Name = in.Name
	dept.Slug = in.Slug
	dept.Description = in.Description
	if err := orm.DB().Save(&dept); err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	services.InvalidateDepartment(dept.ID)
	response.Success(w, dept)
}

// Delete removes a department by id.
func (c *DepartmentController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	rows, err := orm.DB().Where("id = ?", id).Delete(&models.Department{})
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if rows == 0 {
		response.NotFound(w)
		return
	}

	services.InvalidateDepartment(id)
	response.Info(w, "department deleted")
}

// Show returns one department by id, served from cache when warm.
func (c *DepartmentController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := paramID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var dept models.Department
	err := cache.Remember(services.DepartmentCacheKey(id), cache.Forever, &dept, func() (interface{}, error) {
		var d models.Department
		if err := orm.DB().Model(&models.Department{}).Where("id = ?", id).First(&d); err != nil {
			return nil, err
		}
		return &d, nil
	})
	if err != nil {
		if orm.IsNotFound(err) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Success(w, dept)
}

// List returns departments two per page.
func (c *DepartmentController) List(w http.ResponseWriter, r *http.Request) {
	page, _ := pageParams(r)

	var depts []models.Department
	pagination, err := orm.DB().Model(&models.Department{}).
		Order("id desc").
		GetWithPagination(&depts, page, departmentPerPage)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Paginated(w, depts, pagination)
}

// Search filters departments by substring over name and slug.
func (c *DepartmentController) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	page, perPage := pageParams(r)

	var depts []models.Department
	pagination, err := orm.DB().Model(&models.Department{}).
		Search(term, "name", "slug").
		Order("id desc").
		GetWithPagination(&depts, page, perPage)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Paginated(w, depts, pagination)
}
