// Package api implements the HTTP surface of the Wanderlist backend.
// Handlers depend only on the capability interfaces in interfaces.go, so any
// compliant database, object store, or provider client can be substituted
// without touching handler logic.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	repo      DestinationRepo
	store     ObjectStore
	auth      IdentityProvider
	countries CountryCatalog
	photos    PhotoSearch
	cache     CountryCache

	frontendURL string
	photosReady bool

	log *slog.Logger
}

// Options configures handler behavior beyond its injected collaborators.
type Options struct {
	// FrontendURL is where password-reset emails redirect back to.
	FrontendURL string

	// PhotosConfigured reports whether a photo API key was provided; when
	// false the photo search route answers with a configuration error.
	PhotosConfigured bool
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(
	repo DestinationRepo,
	store ObjectStore,
	auth IdentityProvider,
	countries CountryCatalog,
	photos PhotoSearch,
	cache CountryCache,
	opts Options,
	log *slog.Logger,
) *Handlers {
	return &Handlers{
		repo:        repo,
		store:       store,
		auth:        auth,
		countries:   countries,
		photos:      photos,
		cache:       cache,
		frontendURL: opts.FrontendURL,
		photosReady: opts.PhotosConfigured,
		log:         log,
	}
}

// Pinger reports backend connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlerFunc returns an http.HandlerFunc that checks database and
// redis connectivity. Returns 200 when both respond, 503 otherwise.
func HealthHandlerFunc(db, redis Pinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		dbStatus := "ok"
		redisStatus := "ok"

		if err := db.Ping(ctx); err != nil {
			log.Error("health check: db ping failed", "err", err)
			dbStatus = "error"
			status = http.StatusServiceUnavailable
		}

		if err := redis.Ping(ctx); err != nil {
			log.Error("health check: redis ping failed", "err", err)
			redisStatus = "error"
			status = http.StatusServiceUnavailable
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}

		writeJSON(w, status, map[string]string{
			"status": overall,
			"db":     dbStatus,
			"redis":  redisStatus,
		})
	}
}
