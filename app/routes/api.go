// Package routes wires every HTTP endpoint to its controller.
package routes

import (
	"github.com/shashiranjanraj/medicore/app/controllers"
	"github.com/shashiranjanraj/medicore/app/models"
	"github.com/shashiranjanraj/medicore/app/services"
	"github.com/shashiranjanraj/medicore/pkg/broadcast"
	"github.com/shashiranjanraj/medicore/pkg/middleware"
	"github.com/shashiranjanraj/medicore/pkg/payment"
	"github.com/shashiranjanraj/medicore/pkg/rbac"
	"github.com/shashiranjanraj/medicore/pkg/router"
	"github.com/shashiranjanraj/medicore/pkg/ws"
)

// Deps carries the shared singletons the routes need.
type Deps struct {
	Gateway payment.Gateway
	Hub     *broadcast.Hub
	WSHub   *ws.Hub
}

// Register mounts the full API surface under /api/v1.
func Register(r *router.Router, deps Deps) {
	authCtl := controllers.NewAuthController()
	userCtl := controllers.NewUserController()
	deptCtl := controllers.NewDepartmentController()
	svcCtl := controllers.NewServiceController()
	offerCtl := controllers.NewOfferController()
	bedCtl := controllers.NewBedController()
	bloodCtl := controllers.NewBloodBankController()
	orderCtl := controllers.NewOrderController(services.NewCheckoutService(deps.Gateway))
	notifCtl := controllers.NewNotificationController()
	streamCtl := controllers.NewStreamController(deps.Hub, deps.WSHub)

	api := r.Group("/api/v1")

	// Public.
	api.Post("/register", "auth.register", authCtl.Register)
	api.Post("/login", "auth.login", authCtl.Login)

	// Live feeds authenticate via ?token= inside the handler, not the
	// Authorization header — EventSource cannot set headers.
	api.Get("/sse", "stream.sse", streamCtl.SSE)
	api.Get("/ws", "stream.ws", streamCtl.WS)

	// Authenticated.
	authed := api.Group("", middleware.Auth)

	authed.Get("/profile", "users.profile", userCtl.Profile)
	authed.Post("/update-profile", "users.update", userCtl.UpdateProfile)

	authed.Post("/order-checkout", "orders.checkout", orderCtl.Checkout)
	authed.Post("/order-success-payment", "orders.confirm", orderCtl.SuccessPayment)
	authed.Get("/my-orders", "orders.mine", orderCtl.MyOrders)

	authed.Get("/order-notifications", "notifications.list", notifCtl.List)
	authed.Get("/read-order-notifications", "notifications.read", notifCtl.MarkAllRead)

	// Readable catalog for signed-in users.
	authed.Get("/departments", "departments.list", deptCtl.List)
	authed.Get("/department/{id}", "departments.show", deptCtl.Show)
	authed.Get("/search-departments", "departments.search", deptCtl.Search)
	authed.Get("/services", "services.list", svcCtl.List)
	authed.Get("/service/{id}", "services.show", svcCtl.Show)
	authed.Get("/search-services", "services.search", svcCtl.Search)
	authed.Get("/offers", "offers.list", offerCtl.List)
	authed.Get("/offer/{id}", "offers.show", offerCtl.Show)
	authed.Get("/search-offers", "offers.search", offerCtl.Search)

	// Admin-only management surface.
	admin := authed.Group("", rbac.HasRole(models.RoleAdmin.String()))

	admin.Get("/users", "users.list", userCtl.List)
	admin.Post("/change-user-role", "users.change_role", userCtl.ChangeRole)

	admin.Post("/add-department", "departments.add", deptCtl.Add)
	admin.Post("/update-department/{id}", "departments.update", deptCtl.Update)
	admin.Delete("/delete-department/{id}", "departments.delete", deptCtl.Delete)

	admin.Post("/add-service", "services.add", svcCtl.Add)
	admin.Post("/update-service/{id}", "services.update", svcCtl.Update)
	admin.Delete("/delete-service/{id}", "services.delete", svcCtl.Delete)

	admin.Post("/add-offer", "offers.add", offerCtl.Add)
	admin.Post("/update-offer/{id}", "offers.update", offerCtl.Update)
	admin.Delete("/delete-offer/{id}", "offers.delete", offerCtl.Delete)

	admin.Post("/add-bed-allotment", "beds.add", bedCtl.Add)
	admin.Post("/update-bed-allotment/{id}", "beds.update", bedCtl.Update)
	admin.Delete("/delete-bed-allotment/{id}", "beds.delete", bedCtl.Delete)
	admin.Get("/bed-allotments", "beds.list", bedCtl.List)
	admin.Get("/bed-allotment/{id}", "beds.show", bedCtl.Show)
	admin.Get("/search-bed-allotments", "beds.search", bedCtl.Search)

	admin.Post("/add-blood-unit", "blood.add", bloodCtl.Add)
	admin.Post("/update-blood-unit/{id}", "blood.update", bloodCtl.Update)
	admin.Delete("/delete-blood-unit/{id}", "blood.delete", bloodCtl.Delete)
	admin.Get("/blood-units", "blood.list", bloodCtl.List)
	admin.Get("/blood-unit/{id}", "blood.show", bloodCtl.Show)
	admin.Get("/search-blood-units", "blood.search", bloodCtl.Search)
}
