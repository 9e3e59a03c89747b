package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/medicore/app/services"
	"github.com/shashiranjanraj/medicore/pkg/middleware"
	"github.com/shashiranjanraj/medicore/pkg/response"
)

type NotificationController struct {
	service *services.NotificationService
}

func NewNotificationController() *NotificationController {
	return &NotificationController{service: services.NewNotificationService()}
}

// List returns the caller's order notifications, newest first.
func (c *NotificationController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	items, err := c.service.ForUser(userID)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, items)
}

// MarkAllRead settles every unread notification of the caller. When there
// is nothing unread the response is informational, not an error.
func (c *NotificationController) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	n, err := c.service.MarkAllRead(userID)
	if err != nil {
		response.AppError(w, err)
		return
	}
	if n == 0 {
		response.Info(w, "no unread notifications")
		return
	}
	response.Success(w, map[string]int64{"updated": n})
}
