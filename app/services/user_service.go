package services

import (
	"time"

	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/app/repositories"
	"github.com/shashiranjanraj/medicore/pkg/apperr"
	"github.com/shashiranjanraj/medicore/pkg/cache"
	"github.com/shashiranjanraj/medicore/pkg/orm"
)

// ProfileInput is the validated body for profile updates.
type ProfileInput struct {
	Name       string `json:"name" validate:"nullable,max=255"`
	Phone      string `json:"phone" validate:"nullable,max=50"`
	Address    string `json:"address" validate:"nullable,max=500"`
	Avatar     string `json:"avatar" validate:"nullable,max=500"`
	BloodGroup string `json:"blood_group" validate:"nullable,in=A+,A-,B+,B-,AB+,AB-,O+,O-"`
	BirthDate  string `json:"birth_date" validate:"nullable,date"`
}

// UserService manages profiles and role assignment.
type UserService struct {
	users  *repositories.UserRepository
	orders *repositories.OrderRepository
}

func NewUserService() *UserService {
	return &UserService{
		users:  repositories.NewUserRepository(),
		orders: repositories.NewOrderRepository(),
	}
}

// ProfileResult is the profile view: the user plus how many orders they
// have placed.
type ProfileResult struct {
	User       models.User `json:"user"`
	OrderCount int64       `json:"order_count"`
}

// Profile returns the user's profile, served from cache when warm. The
// order count has its own key, invalidated by the orders hook when the
// outbox dispatcher settles an order.
func (s *UserService) Profile(userID uint) (ProfileResult, error) {
	var result ProfileResult

	err := cache.Remember(keyUserProfile(userID), cache.Forever, &result.User, func() (interface{}, error) {
		u, err := s.users.FindByID(userID)
		if err != nil {
			return nil, err
		}
		return &u, nil
	})
	if err != nil {
		if orm.IsNotFound(err) {
			return result, apperr.New(apperr.NotFound, "user not found")
		}
		return result, apperr.Wrap(apperr.Internal, "users: load profile", err)
	}

	err = cache.Remember(keyUserOrderCount(userID), cache.Forever, &result.OrderCount, func() (interface{}, error) {
		n, err := s.orders.CountForUser(userID)
		if err != nil {
			return nil, err
		}
		return n, nil
	})
	if err != nil {
		return result, apperr.Wrap(apperr.Internal, "users: count orders", err)
	}

	return result, nil
}

// UpdateProfile applies the provided fields and invalidates the user's
// cached projections through the entity hook.
func (s *UserService) UpdateProfile(userID uint, in ProfileInput) (models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if orm.IsNotFound(err) {
			return user, apperr.New(apperr.NotFound, "user not found")
		}
		return user, apperr.Wrap(apperr.Internal, "users: load profile", err)
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Phone != "" {
		user.Phone = in.Phone
	}
	if in.Address != "" {
		user.Address = in.Address
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}
	if in.BloodGroup != "" {
		user.BloodGroup = in.BloodGroup
	}
	if in.BirthDate != "" {
		if t, err := time.Parse("2006-01-02", in.BirthDate); err == nil {
			user.BirthDate = &t
		}
	}

	if err := s.users.Update(&user); err != nil {
		return user, apperr.Wrap(apperr.Internal, "users: update profile", err)
	}

	InvalidateUser(userID)
	return user, nil
}

// ChangeRole assigns a staff role. Admin-gated by the route; the role is
// validated against the closed enum before touching the user.
func (s *UserService) ChangeRole(userID uint, role models.Role) (models.User, error) {
	if !role.Valid() {
		return models.User{}, apperr.New(apperr.Validation, "unknown role")
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		if orm.IsNotFound(err) {
			return user, apperr.New(apperr.NotFound, "user not found")
		}
		return user, apperr.Wrap(apperr.Internal, "users: load user", err)
	}

	user.Role = role
	if err := s.users.Update(&user); err != nil {
		return user, apperr.Wrap(apperr.Internal, "users: change role", err)
	}

	InvalidateUser(userID)
	return user, nil
}

// List returns users with pagination for the admin panel.
func (s *UserService) List(page, perPage int) ([]models.User, orm.Pagination, error) {
	users, pagination, err := s.users.All(page, perPage)
	if err != nil {
		return nil, pagination, apperr.Wrap(apperr.Internal, "users: list", err)
	}
	return users, pagination, nil
}
