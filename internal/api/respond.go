package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/noteful/noteful/internal/errs"
	"github.com/noteful/noteful/internal/obs"
)

// ErrorResponse is the JSON body of every error answer.
type ErrorResponse struct {
	Message string `json:"message"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError recovers any error at the request boundary and maps it to a
// status plus {message} body. Unexpected errors answer 500 with the message
// suppressed outside development mode, so store internals never leak.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	code := errs.CodeOf(err)
	status := errs.HTTPStatus(code)
	message := errs.MessageOf(err)

	if status == http.StatusInternalServerError {
		obs.Pkg("api").Error("internal_error", "err", err)
		if h.devMode {
			message = err.Error()
		}
	}

	writeJSON(w, status, ErrorResponse{Message: message})
}

// decodeBody decodes a JSON request body into dst. A field of the wrong JSON
// type answers the field-specific validation message; anything else undecodable
// is a plain bad request.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return errs.Wrap(errs.InvalidArgument,
				fmt.Sprintf("%s must be a string", typeErr.Field), err)
		}
		return errs.Wrap(errs.MissingField, "invalid request body", err)
	}
	return nil
}
