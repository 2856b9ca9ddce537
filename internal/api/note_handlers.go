package api

import (
	"net/http"

	"github.com/noteful/noteful/internal/auth"
	"github.com/noteful/noteful/internal/notes"
)

// ListNotes handles GET /v3/notes - returns every note of the caller matching
// the optional searchTerm/folderId/tagId filter. A search term orders results
// by descending relevance. No pagination: all matches come back.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	query := r.URL.Query()

	filter := notes.ListFilter{
		SearchTerm: query.Get("searchTerm"),
		FolderID:   query.Get("folderId"),
		TagID:      query.Get("tagId"),
	}

	result, err := h.notes.List(r.Context(), user.ID, filter)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetNote handles GET /v3/notes/{id} - returns a single note with its folder
// and tag references populated.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	note, err := h.notes.Get(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// CreateNote handles POST /v3/notes - creates a note owned by the caller.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	var params notes.CreateNoteParams
	if err := decodeBody(r, &params); err != nil {
		h.writeError(w, err)
		return
	}

	note, err := h.notes.Create(r.Context(), user.ID, params)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Location", Prefix+"/notes/"+note.ID)
	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PUT /v3/notes/{id} - replaces a note's fields.
// Success answers 201, matching the observed behavior of the system this
// replaces.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	var params notes.CreateNoteParams
	if err := decodeBody(r, &params); err != nil {
		h.writeError(w, err)
		return
	}

	note, err := h.notes.Update(r.Context(), user.ID, r.PathValue("id"), params)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, note)
}

// DeleteNote handles DELETE /v3/notes/{id}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	if err := h.notes.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
