package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andrewpaige1/flashdeck-api/config"
	"github.com/andrewpaige1/flashdeck-api/middleware"
)

// Routes registers every endpoint. Protected routes go through the bearer
// guard; the rest are public.
func (h *Handler) Routes() *http.ServeMux {
	authMiddleware := middleware.EnsureValidToken(h.auth)
	protected := func(f http.HandlerFunc) http.Handler { return authMiddleware(f) }

	mux := http.NewServeMux()

	// Users
	mux.HandleFunc("POST /users", h.CreateUser)

	// Auth
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.Handle("GET /auth/profile", protected(h.Profile))
	mux.Handle("POST /auth/verify", protected(h.VerifyToken))

	// Decks
	mux.Handle("GET /decks", protected(h.GetUserDecks))
	mux.Handle("POST /decks", protected(h.CreateDeck))
	mux.Handle("GET /decks/{id}", protected(h.GetDeckByID))
	mux.Handle("DELETE /decks/{id}", protected(h.DeleteDeck))
	mux.Handle("POST /decks/{id}/users", protected(h.AddUserToDeck))
	mux.Handle("DELETE /decks/{id}/users/{userId}", protected(h.RemoveUserFromDeck))
	mux.Handle("DELETE /decks/{id}/leave", protected(h.LeaveDeck))

	// Cards
	mux.Handle("POST /cards/deck/{deckId}", protected(h.CreateCard))
	mux.Handle("GET /cards/deck/{deckId}", protected(h.GetCardsByDeck))
	mux.Handle("GET /cards/{cardId}", protected(h.GetCardByID))
	mux.Handle("PATCH /cards/{cardId}", protected(h.UpdateCard))
	mux.Handle("DELETE /cards/{cardId}", protected(h.DeleteCard))

	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

// Router wraps the routes with the server-wide middleware.
func (h *Handler) Router(cors config.CORSConfig) http.Handler {
	return middleware.Chain(
		middleware.Metrics(h.Routes()),
		middleware.CORS(cors),
		middleware.RequestID,
		middleware.Logging(h.logger),
	)
}
