package middleware

import (
	"net/http"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/andrewpaige1/flashdeck-api/utils"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with an id, reusing the caller's one when
// present, and echoes it in the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			generated, err := gonanoid.New()
			if err != nil {
				utils.WriteError(w, r, err)
				return
			}
			id = generated
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(utils.WithRequestID(r.Context(), id)))
	})
}
