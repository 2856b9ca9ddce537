package api

import (
	"net/http"

	"github.com/noteful/noteful/internal/auth"
)

type nameRequest struct {
	Name string `json:"name"`
}

// ListFolders handles GET /v3/folders - returns the caller's folders sorted
// by name.
func (h *Handler) ListFolders(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	result, err := h.folders.List(r.Context(), user.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetFolder handles GET /v3/folders/{id}.
func (h *Handler) GetFolder(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	folder, err := h.folders.Get(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, folder)
}

// CreateFolder handles POST /v3/folders.
func (h *Handler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	var params nameRequest
	if err := decodeBody(r, &params); err != nil {
		h.writeError(w, err)
		return
	}

	folder, err := h.folders.Create(r.Context(), user.ID, params.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Location", Prefix+"/folders/"+folder.ID)
	writeJSON(w, http.StatusCreated, folder)
}

// UpdateFolder handles PUT /v3/folders/{id}. Success answers 201.
func (h *Handler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	var params nameRequest
	if err := decodeBody(r, &params); err != nil {
		h.writeError(w, err)
		return
	}

	folder, err := h.folders.Update(r.Context(), user.ID, r.PathValue("id"), params.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, folder)
}

// DeleteFolder handles DELETE /v3/folders/{id}. Notes that referenced the
// folder survive with their folder cleared.
func (h *Handler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	if err := h.folders.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
