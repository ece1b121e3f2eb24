package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wanderlist/api/internal/destination"
	"github.com/wanderlist/api/internal/identity"
	"github.com/wanderlist/api/internal/objectstore"
)

// currentUser returns the authenticated user injected by RequireUser.
// Missing identity means a route was wired without the middleware; treat it
// as unauthenticated rather than panicking.
func currentUser(w http.ResponseWriter, r *http.Request) (identity.User, bool) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No token provided")
	}
	return u, ok
}

// destinationID parses the {id} path parameter as a UUID.
func destinationID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeValidationError(w, []destination.FieldError{{Field: "id", Message: "Invalid destination ID format"}})
		return uuid.Nil, false
	}
	return id, true
}

// decodeDraft decodes and validates a destination request body.
func decodeDraft(w http.ResponseWriter, r *http.Request) (destination.Draft, bool) {
	var draft destination.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return destination.Draft{}, false
	}
	if errs := draft.Validate(); errs != nil {
		writeValidationError(w, errs)
		return destination.Draft{}, false
	}
	return draft, true
}

// ListDestinations handles GET /api/destinations.
func (h *Handlers) ListDestinations(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	dests, err := h.repo.ListByUser(r.Context(), user.ID)
	if err != nil {
		h.log.Error("list destinations failed", "user", user.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch destinations")
		return
	}

	writeJSON(w, http.StatusOK, dests)
}

// GetDestination handles GET /api/destinations/{id}.
func (h *Handlers) GetDestination(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := destinationID(w, r)
	if !ok {
		return
	}

	dest, err := h.repo.GetByID(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, destination.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Destination not found")
			return
		}
		h.log.Error("get destination failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch destination")
		return
	}

	writeJSON(w, http.StatusOK, dest)
}

// CreateDestination handles POST /api/destinations.
// The owning user is always the authenticated caller; a user_id in the body,
// if any, is ignored.
func (h *Handlers) CreateDestination(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	draft, ok := decodeDraft(w, r)
	if !ok {
		return
	}

	imageURLs := []string{}
	if draft.ImageURLs != nil {
		imageURLs = *draft.ImageURLs
	}

	created, err := h.repo.Create(r.Context(), destination.Destination{
		UserID:    user.ID,
		Name:      draft.Name,
		Country:   draft.Country,
		Notes:     draft.Notes,
		Visited:   draft.IsVisited(),
		Category:  draft.Category,
		Region:    draft.Region,
		ImageURLs: imageURLs,
	})
	if err != nil {
		h.log.Error("create destination failed", "user", user.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to create destination")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// UpdateDestination handles PUT /api/destinations/{id}.
// Provided fields replace the stored record wholesale, except image_urls:
// when omitted from the body, the stored value is retained (an explicit empty
// list clears it). The fetch-then-write below is not transactional; a
// concurrent delete between the two statements can no-op the update.
func (h *Handlers) UpdateDestination(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := destinationID(w, r)
	if !ok {
		return
	}
	draft, ok := decodeDraft(w, r)
	if !ok {
		return
	}

	existing, err := h.repo.GetByID(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, destination.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Destination not found")
			return
		}
		h.log.Error("update fetch failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to update destination")
		return
	}

	imageURLs := existing.ImageURLs
	if draft.ImageURLs != nil {
		imageURLs = *draft.ImageURLs
	}

	updated, err := h.repo.Update(r.Context(), destination.Destination{
		ID:        id,
		UserID:    user.ID,
		Name:      draft.Name,
		Country:   draft.Country,
		Notes:     draft.Notes,
		Visited:   draft.IsVisited(),
		Category:  draft.Category,
		Region:    draft.Region,
		ImageURLs: imageURLs,
	})
	if err != nil {
		if errors.Is(err, destination.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Destination not found")
			return
		}
		h.log.Error("update destination failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to update destination")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteDestination handles DELETE /api/destinations/{id}.
// All stored images are deleted from object storage concurrently,
// best-effort: failures are logged and never abort the operation or surface
// to the caller.
func (h *Handlers) DeleteDestination(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := destinationID(w, r)
	if !ok {
		return
	}

	dest, err := h.repo.GetByID(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, destination.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Destination not found")
			return
		}
		h.log.Error("delete fetch failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete destination")
		return
	}

	g := new(errgroup.Group)
	for _, imageURL := range dest.ImageURLs {
		key := objectstore.KeyFromURL(imageURL)
		g.Go(func() error {
			if err := h.store.Remove(r.Context(), key); err != nil {
				h.log.Warn("image delete failed", "key", key, "err", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := h.repo.Delete(r.Context(), user.ID, id); err != nil && !errors.Is(err, destination.ErrNotFound) {
		h.log.Error("delete destination failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete destination")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SearchDestinations handles GET /api/destinations/search.
func (h *Handlers) SearchDestinations(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := destination.SearchFilter{
		Query:    q.Get("q"),
		Region:   q.Get("region"),
		Category: q.Get("category"),
	}
	if q.Has("visited") {
		visited := q.Get("visited") == "true"
		filter.Visited = &visited
	}

	dests, err := h.repo.Search(r.Context(), user.ID, filter)
	if err != nil {
		h.log.Error("search destinations failed", "user", user.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to search destinations")
		return
	}

	writeJSON(w, http.StatusOK, dests)
}
