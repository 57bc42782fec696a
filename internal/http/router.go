// Package http wires the feature handlers into the chi router.
package http

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authsvc "github.com/rentora/rentora/internal/auth"
	"github.com/rentora/rentora/internal/config"
	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/http/features/activity"
	"github.com/rentora/rentora/internal/http/features/admin"
	"github.com/rentora/rentora/internal/http/features/applications"
	"github.com/rentora/rentora/internal/http/features/auth"
	"github.com/rentora/rentora/internal/http/features/health"
	"github.com/rentora/rentora/internal/http/features/properties"
	"github.com/rentora/rentora/internal/http/middleware"
	"github.com/rentora/rentora/internal/httputil"
	"github.com/rentora/rentora/internal/metrics"
	"github.com/rentora/rentora/internal/presence"
	"github.com/rentora/rentora/internal/repository"
	"github.com/rentora/rentora/internal/service"
)

// RouterConfig holds everything the router needs.
type RouterConfig struct {
	Logger *slog.Logger
	Config *config.Config
	DB     *sql.DB

	Users *repository.UsersRepository

	Passwords *authsvc.PasswordService
	Sessions  *authsvc.SessionService
	MFA       *authsvc.MFAService // nil when not configured

	Applications *service.ApplicationService
	Properties   *service.PropertyService
	Activity     *service.ActivityService

	Presence *presence.Service // nil when not configured

	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
}

// NewRouter builds the HTTP router with the full middleware stack.
func NewRouter(rc RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recover(rc.Logger))
	r.Use(middleware.Logging(rc.Logger))
	if rc.Metrics != nil {
		r.Use(middleware.Metrics(rc.Metrics))
	}
	r.Use(middleware.SecurityHeaders(rc.Config.SecurityHeaders))
	r.Use(middleware.RequestSizeLimit(rc.Config.MaxRequestBodySize))

	limiters := middleware.CreateRateLimiters(rc.Config.RateLimit, rc.Logger)
	requireAuth := middleware.Auth(rc.Sessions)

	cookies := httputil.DefaultCookieConfig()

	healthHandler := health.NewHandler(rc.DB)
	authHandler := auth.NewHandler(rc.Logger, rc.Passwords, rc.Sessions, rc.MFA, rc.Activity, cookies)
	applicationsHandler := applications.NewHandler(rc.Logger, rc.Applications, rc.Metrics)
	propertiesHandler := properties.NewHandler(rc.Logger, rc.Properties)
	activityHandler := activity.NewHandler(rc.Logger, rc.Activity, rc.Presence)
	adminHandler := admin.NewHandler(rc.Logger, rc.Users, rc.Activity)

	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	if rc.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(rc.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(limiters["auth"])
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
				r.Post("/refresh", authHandler.Refresh)
				r.Post("/logout", authHandler.Logout)
			})

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", authHandler.Me)
				r.Post("/logout-all", authHandler.LogoutAll)
				r.Post("/change-password", authHandler.ChangePassword)
				r.Post("/mfa/setup", authHandler.MFASetup)
				r.Post("/mfa/enable", authHandler.MFAEnable)
				r.Post("/mfa/disable", authHandler.MFADisable)
			})
		})

		r.Route("/properties", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(limiters["read"])
				r.Get("/", propertiesHandler.Search)
				r.Get("/{id}", propertiesHandler.GetByID)
			})

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, limiters["read"])
				r.Get("/mine", propertiesHandler.ListMine)
			})

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, middleware.RequireRole(domain.RoleLandlord, domain.RoleAdmin), limiters["write"])
				r.Post("/", propertiesHandler.Create)
				r.Put("/{id}", propertiesHandler.Update)
				r.Delete("/{id}", propertiesHandler.Delete)
			})
		})

		r.Route("/property-applications", func(r chi.Router) {
			r.Use(requireAuth)

			r.Group(func(r chi.Router) {
				r.Use(limiters["read"])
				r.Get("/", applicationsHandler.ListForProperty)
				r.Get("/tenant/{tenantID}", applicationsHandler.ListForTenant)
				r.Get("/{id}", applicationsHandler.GetByID)
			})

			r.Group(func(r chi.Router) {
				r.Use(limiters["write"])
				r.Post("/", applicationsHandler.Submit)
				r.Put("/{id}", applicationsHandler.UpdateStatus)
				r.Delete("/{id}", applicationsHandler.Remove)
			})
		})

		r.Route("/presence", func(r chi.Router) {
			r.Use(requireAuth, limiters["write"])
			r.Post("/heartbeat", activityHandler.Heartbeat)
			r.Get("/{userID}", activityHandler.Online)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth, middleware.RequireRole(domain.RoleAdmin), limiters["read"])
			r.Get("/activity", activityHandler.Recent)
			r.Get("/users", adminHandler.ListUsers)
			r.Get("/users/{id}", adminHandler.GetUser)
			r.Delete("/users/{id}", adminHandler.DeleteUser)
		})
	})

	return r
}
