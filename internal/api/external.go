package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wanderlist/api/internal/external"
)

// countryList returns the country catalog, preferring the cache. Cache
// failures are logged and fall through to the upstream fetch.
func (h *Handlers) countryList(ctx context.Context) ([]external.Country, error) {
	cached, err := h.cache.Get(ctx)
	if err != nil {
		h.log.Warn("country cache get failed", "err", err)
	}
	if cached != nil {
		return cached, nil
	}

	countries, err := h.countries.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.cache.Set(ctx, countries); err != nil {
		h.log.Warn("country cache set failed", "err", err)
	}
	return countries, nil
}

// ListCountries handles GET /api/external/countries.
func (h *Handlers) ListCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.countryList(r.Context())
	if err != nil {
		h.log.Error("fetch countries failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch countries data")
		return
	}

	writeJSON(w, http.StatusOK, countries)
}

// GetCountry handles GET /api/external/countries/{code}.
func (h *Handlers) GetCountry(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	country, err := h.countries.FetchByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, external.ErrCountryNotFound) {
			writeError(w, http.StatusNotFound, "Country not found")
			return
		}
		h.log.Error("fetch country failed", "code", code, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch country data")
		return
	}

	writeJSON(w, http.StatusOK, country)
}

// ListRegions handles GET /api/external/regions.
func (h *Handlers) ListRegions(w http.ResponseWriter, r *http.Request) {
	countries, err := h.countryList(r.Context())
	if err != nil {
		h.log.Error("fetch regions failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch regions data")
		return
	}

	writeJSON(w, http.StatusOK, external.Regions(countries))
}

// SearchPhotos handles GET /api/external/unsplash/{query}.
// Upstream auth and rate-limit rejections get distinct messages so an
// operator can tell a bad key from a spent quota; both are still 500s
// because neither is the caller's fault.
func (h *Handlers) SearchPhotos(w http.ResponseWriter, r *http.Request) {
	if !h.photosReady {
		writeError(w, http.StatusInternalServerError, "Unsplash API key not configured")
		return
	}

	query := chi.URLParam(r, "query")
	page := intQueryParam(r, "page", 1)
	perPage := intQueryParam(r, "per_page", 10)

	result, err := h.photos.Search(r.Context(), query, page, perPage)
	if err != nil {
		switch {
		case errors.Is(err, external.ErrPhotoKeyInvalid):
			writeError(w, http.StatusInternalServerError, "Invalid Unsplash API key")
		case errors.Is(err, external.ErrPhotoRateLimited):
			writeError(w, http.StatusInternalServerError, "Unsplash API rate limit exceeded")
		default:
			h.log.Error("photo search failed", "query", query, "err", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch images from Unsplash")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// intQueryParam parses a positive integer query parameter, returning fallback
// for absent or unparsable values.
func intQueryParam(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
