package routes

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AnshRaj112/reportguard-backend/internal/authz"
	"github.com/AnshRaj112/reportguard-backend/internal/handlers"
	"github.com/AnshRaj112/reportguard-backend/internal/middleware"
	"github.com/AnshRaj112/reportguard-backend/internal/models"
	"github.com/AnshRaj112/reportguard-backend/internal/services"
)

// Deps is everything the router needs.
type Deps struct {
	Reports  *services.ReportService
	Profiles *services.ProfileService
	Audit    services.AuditLog
	Hub      *services.EventHub
	Auth     *middleware.Auth

	AllowedOrigins []string
	RequestTimeout time.Duration

	// Production enables security headers, host check and in-process rate
	// limits. Otherwise Limiter, when set, rate limits through Redis.
	Production  bool
	AllowedHost string
	Limiter     *middleware.RedisLimiter
}

func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(d.AllowedOrigins))

	// Health and metrics (no rate limit)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		switch {
		case d.Production:
			for _, mw := range middleware.ProductionSecurity(d.AllowedHost) {
				r.Use(mw)
			}
			log.Println("✅ Production security enabled (security headers, per-IP + submission rate limiting)")
		case d.Limiter != nil:
			r.Use(d.Limiter.Middleware)
		}

		r.Route("/api", func(r chi.Router) {
			if d.RequestTimeout > 0 {
				r.Use(chimw.Timeout(d.RequestTimeout))
			}
			SetupAPIRoutes(r, d)
		})

		events := handlers.NewEventsHandler(d.Hub, d.AllowedOrigins)
		r.With(d.Auth.VerifyAuthTokenOrQuery, d.Auth.RequireRoles(authz.AdminRoles...)).
			Get("/ws/reports", events.Stream)
	})

	return r
}

// SetupAPIRoutes mounts the /api routes on r.
func SetupAPIRoutes(r chi.Router, d Deps) {
	reports := handlers.NewReportHandler(d.Reports)
	users := handlers.NewUserHandler(d.Profiles)
	audit := handlers.NewAuditHandler(d.Audit)

	// Public report routes
	r.Post("/userReports", reports.Submit)
	r.Get("/userReports", reports.List)
	r.Get("/allUserReports", reports.List)
	r.Get("/suspendedUsers", reports.ListSuspended)
	r.Get("/bannedUsers", reports.ListBanned)

	// Reporter soft-delete (identity only; ownership checked by the service)
	r.With(d.Auth.VerifyAuthToken).Delete("/userReports/{id}", reports.Trash)

	// Public user routes
	r.Post("/users", users.Register)
	r.Get("/users/{uid}", users.Get)

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(d.Auth.VerifyAuthToken, d.Auth.RequireRoles(authz.AdminRoles...))

		r.Delete("/admin/userReports/{id}", reports.AdminDelete)
		r.Get("/trashedReports", reports.ListTrashed)
		r.Patch("/trashedReports/{id}/restore", reports.Restore)
		r.Delete("/trashedReports/{id}/permanent", reports.Purge)
		r.Post("/trashedReports/bulk-action", reports.Bulk)

		r.Get("/users", users.List)
		r.Patch("/users/{uid}/status", users.UpdateStatus)
		r.Delete("/users/{uid}", users.Delete)

		r.Get("/admin/audit", audit.List)
	})

	// Superadmin routes
	r.With(d.Auth.VerifyAuthToken, d.Auth.RequireRoles(models.RoleSuperAdmin)).
		Patch("/users/{uid}/role", users.UpdateRole)
}
