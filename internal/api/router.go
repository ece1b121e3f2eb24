package api

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/cors"
)

// NewRouter builds the chi router with all routes configured.
// Health, auth (except /me), and external data routes are unauthenticated;
// destination and image routes require a bearer token resolved against the
// identity provider. Rate limiting is global: 60 requests per minute per IP.
func NewRouter(h *Handlers, verifier TokenVerifier, corsOrigins []string, db, redisClient Pinger, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(httprate.LimitByIP(60, time.Minute))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler)

	r.Get("/api/health", HealthHandlerFunc(db, redisClient, log))

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Post("/forgot-password", h.ForgotPassword)

		r.Group(func(r chi.Router) {
			r.Use(RequireUser(verifier, log))
			r.Get("/me", h.Me)
		})
	})

	r.Route("/api/external", func(r chi.Router) {
		r.Get("/countries", h.ListCountries)
		r.Get("/countries/{code}", h.GetCountry)
		r.Get("/regions", h.ListRegions)
		r.Get("/unsplash/{query}", h.SearchPhotos)
	})

	r.Group(func(r chi.Router) {
		r.Use(RequireUser(verifier, log))

		r.Route("/api/destinations", func(r chi.Router) {
			r.Get("/", h.ListDestinations)
			r.Post("/", h.CreateDestination)
			r.Get("/search", h.SearchDestinations)
			r.Get("/{id}", h.GetDestination)
			r.Put("/{id}", h.UpdateDestination)
			r.Delete("/{id}", h.DeleteDestination)
		})

		r.Route("/api/images", func(r chi.Router) {
			r.Post("/presigned-url", h.CreatePresignedURL)
			r.Post("/upload", h.UploadImage)
		})
	})

	return r
}
