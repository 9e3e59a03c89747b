package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/medicore/app/services"
	"github.com/shashiranjanraj/medicore/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{service: services.NewAuthService()}
}

// Register creates a patient account.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if !bindJSON(w, r, &in) {
		return
	}

	result, err := c.service.Register(in)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Created(w, result)
}

// Login verifies credentials and returns signed tokens.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if !bindJSON(w, r, &in) {
		return
	}

	result, err := c.service.Login(in)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, result)
}
