package api

import (
	"net/http"

	"github.com/noteful/noteful/internal/auth"
)

// CreateUser handles POST /v3/users - signs up a new account.
// The response never carries the credential digest.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var params auth.RegisterParams
	if err := decodeBody(r, &params); err != nil {
		h.writeError(w, err)
		return
	}

	user, err := h.users.Register(r.Context(), params)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Location", Prefix+"/users/"+user.ID)
	writeJSON(w, http.StatusCreated, user)
}

// loginRequest is the request body for login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// tokenResponse carries a signed auth token.
type tokenResponse struct {
	AuthToken string `json:"authToken"`
}

// Login handles POST /v3/login - verifies credentials and issues a token.
// Every failure mode answers the same 401 so usernames cannot be probed.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "Incorrect username or password"})
		return
	}

	user, err := h.users.VerifyLogin(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	token, err := h.issuer.Issue(user)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AuthToken: token})
}

// Refresh handles POST /v3/refresh - exchanges a valid token for a fresh one.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	token, err := h.issuer.Issue(user)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AuthToken: token})
}
