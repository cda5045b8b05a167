package middleware

import (
	"context"
	"errors"
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"

	"github.com/andrewpaige1/flashdeck-api/apperror"
	"github.com/andrewpaige1/flashdeck-api/auth"
	"github.com/andrewpaige1/flashdeck-api/utils"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

// EnsureValidToken rejects requests without a valid bearer token. The
// verified *auth.Claims are stored under jwtmiddleware.ContextKey{}.
func EnsureValidToken(tokens TokenVerifier) func(http.Handler) http.Handler {
	validate := func(_ context.Context, token string) (interface{}, error) {
		claims, err := tokens.VerifyToken(token)
		if err != nil {
			return nil, err
		}
		if _, err := claims.UserID(); err != nil {
			return nil, err
		}
		return claims, nil
	}

	guard := jwtmiddleware.New(
		validate,
		jwtmiddleware.WithErrorHandler(authErrorHandler),
		jwtmiddleware.WithValidateOnOptions(false),
	)
	return guard.CheckJWT
}

func authErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, jwtmiddleware.ErrJWTMissing) {
		utils.WriteError(w, r, apperror.Unauthorized("Unauthorized"))
		return
	}
	utils.WriteError(w, r, apperror.Unauthorized("Invalid token"))
}
