package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/medicore/app/repositories"
	"github.com/shashiranjanraj/medicore/app/services"
	"github.com/shashiranjanraj/medicore/pkg/middleware"
	"github.com/shashiranjanraj/medicore/pkg/response"
)

type OrderController struct {
	checkout *services.CheckoutService
	orders   *repositories.OrderRepository
}

func NewOrderController(checkout *services.CheckoutService) *OrderController {
	return &OrderController{
		checkout: checkout,
		orders:   repositories.NewOrderRepository(),
	}
}

// Checkout opens a gateway session and places the order.
func (c *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in services.CheckoutInput
	if !bindJSON(w, r, &in) {
		return
	}

	result, err := c.checkout.Checkout(r.Context(), userID, in)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Created(w, result)
}

// SuccessPayment confirms payment for the order matching ?sessionId=.
// Safe to call repeatedly: an already-paid order is acknowledged without
// side effects.
func (c *OrderController) SuccessPayment(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")

	order, err := c.checkout.ConfirmPayment(r.Context(), sessionID)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, order)
}

// MyOrders lists the caller's orders, newest first.
func (c *OrderController) MyOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	page, perPage := pageParams(r)
	orders, pagination, err := c.orders.ForUser(userID, page, perPage)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Paginated(w, orders, pagination)
}
