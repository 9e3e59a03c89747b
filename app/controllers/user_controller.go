package controllers

import (
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/app/services"
	"github.com/shashiranjanraj/medicore/pkg/middleware"
	"github.com/shashiranjanraj/medicore/pkg/response"
)

type UserController struct {
	service *services.UserService
}

func NewUserController() *UserController {
	return &UserController{service: services.NewUserService()}
}

// Profile returns the authenticated user's profile.
func (c *UserController) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	profile, err := c.service.Profile(userID)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, profile)
}

// UpdateProfile applies profile changes for the authenticated user.
func (c *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in services.ProfileInput
	if !bindJSON(w, r, &in) {
		return
	}

	user, err := c.service.UpdateProfile(userID, in)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, user)
}

// List returns all users for the admin panel, paginated.
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)

	users, pagination, err := c.service.List(page, perPage)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Paginated(w, users, pagination)
}

// ChangeRole assigns a staff role to a user. Admin-only (enforced by the
// route). Accepts ?role= and ?user_id= query parameters.
func (c *UserController) ChangeRole(w http.ResponseWriter, r *http.Request) {
	role := models.Role(r.URL.Query().Get("role"))
	if !role.Valid() {
		response.ValidationError(w, map[string]string{"role": "role must be one of admin, doctor, nurse, pharmacist, laboratorist, patient"})
		return
	}

	rawID := r.URL.Query().Get("user_id")
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || id == 0 {
		response.ValidationError(w, map[string]string{"user_id": "user_id must be a positive integer"})
		return
	}

	user, err := c.service.ChangeRole(uint(id), role)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, user)
}
