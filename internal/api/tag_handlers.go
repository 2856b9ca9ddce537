package api

import (
	"net/http"

	"github.com/noteful/noteful/internal/auth"
)

// ListTags handles GET /v3/tags - returns the caller's tags sorted by name.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	result, err := h.tags.List(r.Context(), user.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetTag handles GET /v3/tags/{id}.
func (h *Handler) GetTag(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	tag, err := h.tags.Get(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tag)
}

// CreateTag handles POST /v3/tags.
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	var params nameRequest
	if err := decodeBody(r, &params); err != nil {
		h.writeError(w, err)
		return
	}

	tag, err := h.tags.Create(r.Context(), user.ID, params.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Location", Prefix+"/tags/"+tag.ID)
	writeJSON(w, http.StatusCreated, tag)
}

// UpdateTag handles PUT /v3/tags/{id}. Success answers 201.
func (h *Handler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	var params nameRequest
	if err := decodeBody(r, &params); err != nil {
		h.writeError(w, err)
		return
	}

	tag, err := h.tags.Update(r.Context(), user.ID, r.PathValue("id"), params.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tag)
}

// DeleteTag handles DELETE /v3/tags/{id}. Any note that carried the tag keeps
// its other tags.
func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	if err := h.tags.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
