package services

import (
	"github.com/shashiranjanraj/medicore/app/jobs"
	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/app/repositories"
	"github.com/shashiranjanraj/medicore/pkg/apperr"
	"github.com/shashiranjanraj/medicore/pkg/auth"
	"github.com/shashiranjanraj/medicore/pkg/event"
	"github.com/shashiranjanraj/medicore/pkg/orm"
)

// RegisterInput is the validated body for account creation.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginInput is the validated body for signing in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult carries the signed tokens and the profile they belong to.
type AuthResult struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
	User         models.User `json:"user"`
}

// AuthService registers accounts and verifies credentials.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService() *AuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

// Register creates a patient account and returns signed tokens.
func (s *AuthService) Register(in RegisterInput) (*AuthResult, error) {
	if _, err := s.users.FindByEmail(in.Email); err == nil {
		return nil, apperr.New(apperr.Conflict, "email already registered")
	} else if !orm.IsNotFound(err) {
		return nil, apperr.Wrap(apperr.Internal, "auth: lookup email", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "auth: hash password", err)
	}

	user := models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Role:     models.RolePatient,
	}
	if err := s.users.Create(&user); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "auth: create user", err)
	}

	event.FireAsync(jobs.EventUserRegistered, user)

	return s.issueTokens(user)
}

// Login verifies the credentials and returns signed tokens.
func (s *AuthService) Login(in LoginInput) (*AuthResult, error) {
	user, err := s.users.FindByEmail(in.Email)
	if err != nil {
		if orm.IsNotFound(err) {
			return nil, apperr.New(apperr.Unauthorized, "invalid credentials")
		}
		return nil, apperr.Wrap(apperr.Internal, "auth: lookup email", err)
	}

	if !auth.CheckPassword(user.Password, in.Password) {
		return nil, apperr.New(apperr.Unauthorized, "invalid credentials")
	}

	return s.issueTokens(user)
}

func (s *AuthService) issueTokens(user models.User) (*AuthResult, error) {
	token, err := auth.GenerateToken(user.ID, user.Role.String())
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "auth: sign token", err)
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.Role.String())
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "auth: sign refresh token", err)
	}
	return &AuthResult{Token: token, RefreshToken: refresh, User: user}, nil
}
