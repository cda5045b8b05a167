package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andrewpaige1/flashdeck-api/auth"
	"github.com/andrewpaige1/flashdeck-api/config"
	"github.com/andrewpaige1/flashdeck-api/handlers"
	"github.com/andrewpaige1/flashdeck-api/models"
	"github.com/andrewpaige1/flashdeck-api/services"
	"github.com/andrewpaige1/flashdeck-api/testutil"
	"github.com/andrewpaige1/flashdeck-api/utils"
)

type api struct {
	t      *testing.T
	server *httptest.Server
}

func newAPI(t *testing.T) *api {
	t.Helper()
	db := testutil.NewDB(t)
	log := zap.NewNop()

	users := services.NewUserService(db, "salt", log)
	authService := services.NewAuthService(users, auth.NewTokenManager("secret", "flashdeck-api", "7d"), log)
	h := handlers.NewHandler(users, authService, services.NewDeckService(db, log), services.NewCardService(db, log), log)

	server := httptest.NewServer(h.Router(config.CORSConfig{Origin: "false"}))
	t.Cleanup(server.Close)
	return &api{t: t, server: server}
}

// do sends body as JSON and decodes the response into out when out is not nil.
func (a *api) do(method, path, token string, body, out any) int {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.server.Client().Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// register creates a user and logs them in.
func (a *api) register(email string) (uint, string) {
	a.t.Helper()
	var user models.User
	status := a.do(http.MethodPost, "/users", "", map[string]string{
		"email":    email,
		"password": "password123",
		"name":     strings.Split(email, "@")[0],
	}, &user)
	require.Equal(a.t, http.StatusCreated, status)

	var login models.AuthResponse
	status = a.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	}, &login)
	require.Equal(a.t, http.StatusOK, status)
	return user.ID, login.AccessToken
}

func TestSharedDeckCardLifecycle(t *testing.T) {
	a := newAPI(t)
	_, alice := a.register("alice@example.com")
	_, bob := a.register("bob@example.com")

	var deck models.DeckResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/decks", alice, map[string]any{"name": "Geography"}, &deck))

	require.Equal(t, http.StatusNoContent, a.do(http.MethodPost, fmt.Sprintf("/decks/%d/users", deck.ID), alice,
		map[string]string{"email": "bob@example.com"}, nil))

	var card models.CardResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, fmt.Sprintf("/cards/deck/%d", deck.ID), alice,
		map[string]string{"question": "Capital of France?", "answer": "Paris"}, &card))

	var read models.CardResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, fmt.Sprintf("/cards/%d", card.ID), bob, nil, &read))
	assert.Equal(t, "Paris", read.Answer)

	var denied utils.ErrorResponse
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodDelete, fmt.Sprintf("/cards/%d", card.ID), bob, nil, &denied))
	assert.Equal(t, http.StatusForbidden, denied.StatusCode)
	assert.Equal(t, "Forbidden", denied.Error)
	assert.Equal(t, fmt.Sprintf("/cards/%d", card.ID), denied.Path)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, fmt.Sprintf("/cards/%d", card.ID), alice, nil, nil))
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, fmt.Sprintf("/cards/%d", card.ID), alice, nil, nil))
}

func TestLeaveDeckOverHTTP(t *testing.T) {
	a := newAPI(t)
	_, alice := a.register("alice@example.com")
	bobID, bob := a.register("bob@example.com")

	var deck models.DeckResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/decks", alice, map[string]any{"name": "Shared"}, &deck))
	require.Equal(t, http.StatusNoContent, a.do(http.MethodPost, fmt.Sprintf("/decks/%d/users", deck.ID), alice,
		map[string]string{"email": "bob@example.com"}, nil))

	var result models.LeaveDeckResult
	require.Equal(t, http.StatusOK, a.do(http.MethodDelete, fmt.Sprintf("/decks/%d/leave", deck.ID), alice, nil, &result))
	assert.False(t, result.DeckDeleted)
	require.NotNil(t, result.NewAdminID)
	assert.Equal(t, bobID, *result.NewAdminID)

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, fmt.Sprintf("/decks/%d", deck.ID), alice, nil, nil))

	require.Equal(t, http.StatusOK, a.do(http.MethodDelete, fmt.Sprintf("/decks/%d/leave", deck.ID), bob, nil, &result))
	assert.True(t, result.DeckDeleted)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, fmt.Sprintf("/decks/%d", deck.ID), bob, nil, nil))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newAPI(t)

	var body utils.ErrorResponse
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/decks", "", nil, &body))
	assert.Equal(t, "/decks", body.Path)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/auth/profile", "not-a-token", nil, nil))
}

func TestAuthEndpoints(t *testing.T) {
	a := newAPI(t)
	id, token := a.register("alice@example.com")

	var profile models.UserSummary
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/auth/profile", token, nil, &profile))
	assert.Equal(t, id, profile.ID)
	assert.Equal(t, "alice@example.com", profile.Email)

	var verify struct {
		Valid bool `json:"valid"`
		User  struct {
			ID    uint   `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
		ExpiresAt string `json:"expiresAt"`
	}
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/auth/verify", token, nil, &verify))
	assert.True(t, verify.Valid)
	assert.Equal(t, id, verify.User.ID)
	assert.NotEmpty(t, verify.ExpiresAt)

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/auth/login", "",
		map[string]string{"email": "alice@example.com", "password": "wrong-password"}, nil))
}

func TestCreateUserValidation(t *testing.T) {
	a := newAPI(t)

	var body utils.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/users", "",
		map[string]string{"email": "not-an-email", "password": "password123"}, &body))
	assert.Contains(t, body.Message, "email")

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/users", "",
		map[string]string{"email": "short@example.com", "password": "123"}, nil))

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/users", "",
		map[string]string{"email": "nocreds@example.com"}, nil))

	a.register("dupe@example.com")
	assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, "/users", "",
		map[string]string{"email": "dupe@example.com", "password": "password123"}, nil))
}

func TestBadPathAndBody(t *testing.T) {
	a := newAPI(t)
	_, token := a.register("alice@example.com")

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/decks/abc", token, nil, nil))
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/cards/deck/0", token, nil, nil))
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/decks", token, map[string]any{"name": ""}, nil))
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/decks", token,
		map[string]any{"name": "Deck", "unexpected": true}, nil))
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/decks/1/users", token,
		map[string]string{"email": "bob@example.com", "role": "owner"}, nil))
}

func TestMetricsEndpoint(t *testing.T) {
	a := newAPI(t)
	a.do(http.MethodGet, "/decks", "", nil, nil)

	resp, err := a.server.Client().Get(a.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `http_requests_total{method="GET",path="GET /decks",status_code="401"}`)
}

func TestUpdateCardRejectsBlankAndZeroValues(t *testing.T) {
	a := newAPI(t)
	_, token := a.register("alice@example.com")

	var deck models.DeckResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/decks", token, map[string]any{"name": "Deck"}, &deck))
	var card models.CardResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, fmt.Sprintf("/cards/deck/%d", deck.ID), token,
		map[string]string{"question": "Q", "answer": "A"}, &card))
	path := fmt.Sprintf("/cards/%d", card.ID)

	for name, body := range map[string]map[string]any{
		"blank question": {"question": ""},
		"blank answer":   {"answer": ""},
		"zero deck":      {"deckId": 0},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPatch, path, token, body, nil))
		})
	}

	var got models.CardResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, path, token, nil, &got))
	assert.Equal(t, "Q", got.Question)
	assert.Equal(t, "A", got.Answer)
	assert.Equal(t, deck.ID, got.DeckID)
}

func TestCreateDeckRejectsZeroParent(t *testing.T) {
	a := newAPI(t)
	_, token := a.register("alice@example.com")

	var body utils.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/decks", token,
		map[string]any{"name": "Child", "parentDeckId": 0}, &body))
	assert.Contains(t, body.Message, "parentDeckId")
}

func TestUpdateCardNotes(t *testing.T) {
	a := newAPI(t)
	_, token := a.register("alice@example.com")

	var deck models.DeckResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/decks", token, map[string]any{"name": "Deck"}, &deck))
	var card models.CardResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, fmt.Sprintf("/cards/deck/%d", deck.ID), token,
		map[string]string{"question": "Q", "answer": "A", "notes": "hint"}, &card))
	path := fmt.Sprintf("/cards/%d", card.ID)

	var updated models.CardResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodPatch, path, token, map[string]any{"answer": "B"}, &updated))
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "hint", *updated.Notes)

	require.Equal(t, http.StatusOK, a.do(http.MethodPatch, path, token, map[string]any{"notes": nil}, &updated))
	assert.Nil(t, updated.Notes)
	assert.Equal(t, "B", updated.Answer)

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPatch, path, token,
		map[string]any{"notes": strings.Repeat("x", 1001)}, nil))
}
