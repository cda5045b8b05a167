package utils

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/andrewpaige1/flashdeck-api/apperror"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	StatusCode int       `json:"statusCode"`
	Message    string    `json:"message"`
	Error      string    `json:"error"`
	Timestamp  time.Time `json:"timestamp"`
	Path       string    `json:"path"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	json.NewEncoder(w).Encode(v)
}

// WriteError maps err onto its status code. Unclassified errors are reported
// as a generic internal error.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperror.KindOf(err)
	WriteJSON(w, kind.Status(), ErrorResponse{
		StatusCode: kind.Status(),
		Message:    apperror.Message(err),
		Error:      kind.String(),
		Timestamp:  time.Now().UTC(),
		Path:       r.URL.Path,
	})
}
