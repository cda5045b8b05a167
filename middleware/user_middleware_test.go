package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/flashdeck-api/auth"
	"github.com/andrewpaige1/flashdeck-api/utils"
)

func protectedEcho(tokens *auth.TokenManager) http.Handler {
	return EnsureValidToken(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := utils.GetUserID(r)
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]uint{"userId": id})
	}))
}

func TestEnsureValidTokenAcceptsBearer(t *testing.T) {
	tokens := auth.NewTokenManager("secret", "flashdeck-api", "1h")
	token, err := tokens.CreateToken(9, "nine@example.com")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/decks", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protectedEcho(tokens).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]uint
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, uint(9), body["userId"])
}

func TestEnsureValidTokenRejects(t *testing.T) {
	tokens := auth.NewTokenManager("secret", "flashdeck-api", "1h")
	foreign, err := auth.NewTokenManager("other", "flashdeck-api", "1h").CreateToken(9, "nine@example.com")
	require.NoError(t, err)

	cases := map[string]string{
		"missing":      "",
		"wrong scheme": "Basic dXNlcjpwYXNz",
		"garbage":      "Bearer not-a-jwt",
		"wrong secret": "Bearer " + foreign,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/decks", nil)
			if header != "" {
				r.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			protectedEcho(tokens).ServeHTTP(w, r)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			var body utils.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, http.StatusUnauthorized, body.StatusCode)
			assert.Equal(t, "/decks", body.Path)
		})
	}
}
