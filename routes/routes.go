package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/itassets/domain-api/app"
	"github.com/itassets/domain-api/handlers"
	"github.com/itassets/domain-api/middleware"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check endpoint, no auth
	r.Get("/health", handlers.HealthCheck)

	// Domain management: authentication gate first, then the ownership
	// authorizer, then the handler. Targeted routes mount the authorizer
	// inside the {id} subrouter so the path parameter is already bound
	// when the decision runs.
	r.Route("/api/v1/domains", func(r chi.Router) {
		r.Use(deps.AuthMiddleware.RequireAuth)

		r.Group(func(r chi.Router) {
			r.Use(deps.PermissionMiddleware.RequirePermission)
			r.Post("/", deps.DomainHandler.HandleCreateDomain)
			r.Get("/", deps.DomainHandler.HandleListDomains)
			r.Get("/type/{recordType}", deps.DomainHandler.HandleListDomainsByType)
			r.Get("/status/{status}", deps.DomainHandler.HandleListDomainsByStatus)
		})

		r.Route("/{id}", func(r chi.Router) {
			r.Use(deps.PermissionMiddleware.RequirePermission)
			r.Get("/", deps.DomainHandler.HandleGetDomain)
			r.Put("/", deps.DomainHandler.HandleUpdateDomain)
			r.Delete("/", deps.DomainHandler.HandleDeleteDomain)
			r.Patch("/status", deps.DomainHandler.HandleUpdateDomainStatus)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":404,"message":"endpoint not found"}`))
	})

	return r
}
