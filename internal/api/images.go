package api

import (
	"encoding/json"
	"net/http"

	"github.com/wanderlist/api/internal/objectstore"
)

// allowedImageTypes is the content-type allow-list for image uploads.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

type presignRequest struct {
	ContentType string `json:"contentType"`
	FileName    string `json:"fileName"`
}

type presignResponse struct {
	PresignedURL string `json:"presignedUrl"`
	Key          string `json:"key"`
	URL          string `json:"url"`
}

// CreatePresignedURL handles POST /api/images/presigned-url.
// The image bytes never pass through this server: the client uploads
// directly to object storage with the returned URL, then attaches the public
// URL to a destination.
func (h *Handlers) CreatePresignedURL(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req presignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ContentType == "" || req.FileName == "" {
		writeError(w, http.StatusBadRequest, "Content type and file name are required")
		return
	}
	if !allowedImageTypes[req.ContentType] {
		writeError(w, http.StatusBadRequest, "Invalid content type. Only JPEG, PNG, WebP, and GIF are allowed")
		return
	}

	key := objectstore.BuildKey(user.ID, req.FileName)

	presignedURL, err := h.store.PresignUpload(r.Context(), key, req.ContentType)
	if err != nil {
		h.log.Error("presign upload failed", "key", key, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate presigned URL")
		return
	}

	writeJSON(w, http.StatusOK, presignResponse{
		PresignedURL: presignedURL,
		Key:          key,
		URL:          h.store.PublicURL(key),
	})
}

// UploadImage handles POST /api/images/upload.
// Direct uploads are intentionally unimplemented; presigned URLs keep image
// bytes off this server entirely.
func (h *Handlers) UploadImage(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotImplemented, "Direct upload not implemented. Use presigned URL endpoint instead.")
}
