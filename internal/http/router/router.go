package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/yogigan/go-user-auth-service/internal/domain"
	"github.com/yogigan/go-user-auth-service/internal/http/handler"
	"github.com/yogigan/go-user-auth-service/internal/http/middleware"
	"github.com/yogigan/go-user-auth-service/internal/http/response"
)

// Dependencies collects everything the route table needs. Wiring lives in the
// di package; this file only decides which handler sits on which path.
type Dependencies struct {
	Auth          *handler.AuthHandler
	Session       *handler.SessionHandler
	Registration  *handler.RegistrationHandler
	Role          *handler.RoleHandler
	User          *handler.UserHandler
	Health        *handler.HealthHandler
	Authenticator *middleware.Authenticator
	Limiter       middleware.Limiter
	Writer        *response.Writer
	Log           *slog.Logger
}

func New(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(deps.Log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RateLimit(deps.Limiter, deps.Writer, deps.Log,
		middleware.LimitRule{Prefix: "/api/v1/login"},
		middleware.LimitRule{Method: http.MethodPost, Prefix: "/api/v1/registration"},
	))
	r.Use(deps.Authenticator.Handler)

	requireAdmin := middleware.RequireAuthority(deps.Writer, domain.RoleAdmin.String())

	r.Get("/health", deps.Health.Live)
	r.Get("/health/ready", deps.Health.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/login", deps.Auth.Login)

		r.Route("/registration", func(r chi.Router) {
			r.Post("/", deps.Registration.Register)
			r.Get("/", deps.Registration.Confirm)
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/refresh-token", deps.Session.Refresh)
			r.Get("/user-me", deps.Session.UserMe)
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/", deps.User.List)
			r.Post("/", deps.User.Create)
			r.Get("/{username}", deps.User.Get)
		})

		r.Route("/role", func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/", deps.Role.List)
			r.Post("/", deps.Role.Create)
			r.Post("/add-to-user", deps.Role.AddToUser)
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		deps.Writer.JSON(w, req, http.StatusNotFound, "Resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		deps.Writer.JSON(w, req, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})
	return r
}
