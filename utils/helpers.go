package utils

import (
	"context"
	"net/http"
	"strconv"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"

	"github.com/andrewpaige1/flashdeck-api/apperror"
	"github.com/andrewpaige1/flashdeck-api/auth"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// GetClaims returns the claims the auth guard attached to the request.
func GetClaims(r *http.Request) (*auth.Claims, bool) {
	claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*auth.Claims)
	return claims, ok && claims != nil
}

// GetUserID returns the id of the authenticated user.
func GetUserID(r *http.Request) (uint, bool) {
	claims, ok := GetClaims(r)
	if !ok {
		return 0, false
	}
	id, err := claims.UserID()
	if err != nil {
		return 0, false
	}
	return id, true
}

// ParseID reads a numeric path value.
func ParseID(r *http.Request, name string) (uint, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("%s must be a positive integer", name)
	}
	return uint(id), nil
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
