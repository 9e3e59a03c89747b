package server

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/medicore/app/routes"
	"github.com/shashiranjanraj/medicore/pkg/database"
	"github.com/shashiranjanraj/medicore/pkg/metrics"
	"github.com/shashiranjanraj/medicore/pkg/middleware"
	"github.com/shashiranjanraj/medicore/pkg/reqid"
	"github.com/shashiranjanraj/medicore/pkg/response"
	"github.com/shashiranjanraj/medicore/pkg/router"
)

// NewRouter builds the HTTP surface: global middleware stack, ops
// endpoints and the full API.
func NewRouter(deps routes.Deps) *router.Router {
	r := router.New()

	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)

	r.Get("/healthz", "ops.health", healthz)
	r.HandleFunc("/metrics", metrics.Handler())

	routes.Register(r, deps)
	return r
}

// healthz reports liveness plus a database ping.
func healthz(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"app": "ok", "database": "ok"}

	sqlDB, err := database.DB.DB()
	if err != nil || sqlDB.PingContext(r.Context()) != nil {
		status["database"] = "down"
		response.Error(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	response.Success(w, status)
}
