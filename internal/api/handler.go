// Package api exposes the versioned HTTP surface. Handlers decode input,
// delegate to the domain services, and map typed errors to wire responses.
package api

import (
	"net/http"

	"github.com/noteful/noteful/internal/auth"
	"github.com/noteful/noteful/internal/folders"
	"github.com/noteful/noteful/internal/notes"
	"github.com/noteful/noteful/internal/tags"
)

// Prefix is the version prefix every route lives under.
const Prefix = "/v3"

// Handler wraps the domain services and provides HTTP handlers.
type Handler struct {
	users   *auth.UserService
	issuer  *auth.TokenIssuer
	notes   *notes.Service
	folders *folders.Service
	tags    *tags.Service
	devMode bool
}

// NewHandler creates a new API handler over the given services.
func NewHandler(users *auth.UserService, issuer *auth.TokenIssuer, notesSvc *notes.Service, foldersSvc *folders.Service, tagsSvc *tags.Service, devMode bool) *Handler {
	return &Handler{
		users:   users,
		issuer:  issuer,
		notes:   notesSvc,
		folders: foldersSvc,
		tags:    tagsSvc,
		devMode: devMode,
	}
}

// RegisterRoutes registers all routes on the given mux. Everything except
// signup and login sits behind the bearer-auth middleware.
func (h *Handler) RegisterRoutes(mux *http.ServeMux, authed *auth.Middleware) {
	// Public endpoints
	mux.HandleFunc("POST "+Prefix+"/users", h.CreateUser)
	mux.HandleFunc("POST "+Prefix+"/login", h.Login)

	protect := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, authed.RequireAuth(fn))
	}

	protect("POST "+Prefix+"/refresh", h.Refresh)

	protect("GET "+Prefix+"/notes", h.ListNotes)
	protect("GET "+Prefix+"/notes/{id}", h.GetNote)
	protect("POST "+Prefix+"/notes", h.CreateNote)
	protect("PUT "+Prefix+"/notes/{id}", h.UpdateNote)
	protect("DELETE "+Prefix+"/notes/{id}", h.DeleteNote)

	protect("GET "+Prefix+"/folders", h.ListFolders)
	protect("GET "+Prefix+"/folders/{id}", h.GetFolder)
	protect("POST "+Prefix+"/folders", h.CreateFolder)
	protect("PUT "+Prefix+"/folders/{id}", h.UpdateFolder)
	protect("DELETE "+Prefix+"/folders/{id}", h.DeleteFolder)

	protect("GET "+Prefix+"/tags", h.ListTags)
	protect("GET "+Prefix+"/tags/{id}", h.GetTag)
	protect("POST "+Prefix+"/tags", h.CreateTag)
	protect("PUT "+Prefix+"/tags/{id}", h.UpdateTag)
	protect("DELETE "+Prefix+"/tags/{id}", h.DeleteTag)
}
