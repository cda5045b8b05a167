package handlers

import (
	"net/http"

	"github.com/andrewpaige1/flashdeck-api/apperror"
	"github.com/andrewpaige1/flashdeck-api/services"
	"github.com/andrewpaige1/flashdeck-api/utils"
)

type createDeckRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=255"`
	Description  *string `json:"description" validate:"omitempty,max=1000"`
	IsPublic     *bool   `json:"isPublic"`
	ParentDeckID *uint   `json:"parentDeckId" validate:"omitnil,gt=0"`
}

type addUserToDeckRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=admin member"`
}

// requireUser returns the authenticated user id or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (uint, bool) {
	userID, ok := utils.GetUserID(r)
	if !ok {
		utils.WriteError(w, r, apperror.Unauthorized("Unauthorized"))
	}
	return userID, ok
}

func (h *Handler) GetUserDecks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	decks, err := h.decks.GetUserDecks(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, decks)
}

func (h *Handler) GetDeckByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	deckID, err := utils.ParseID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	deck, err := h.decks.GetDeckByID(r.Context(), userID, deckID)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, deck)
}

func (h *Handler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req createDeckRequest
	if err := h.decode(r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	deck, err := h.decks.CreateDeck(r.Context(), userID, services.CreateDeckInput{
		Name:         req.Name,
		Description:  req.Description,
		IsPublic:     req.IsPublic,
		ParentDeckID: req.ParentDeckID,
	})
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, deck)
}

func (h *Handler) AddUserToDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	deckID, err := utils.ParseID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	var req addUserToDeckRequest
	if err := h.decode(r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	if err := h.decks.AddUserToDeck(r.Context(), userID, deckID, req.Email, req.Role); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveUserFromDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	deckID, err := utils.ParseID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	targetID, err := utils.ParseID(r, "userId")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	if err := h.decks.RemoveUserFromDeck(r.Context(), userID, deckID, targetID); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) LeaveDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	deckID, err := utils.ParseID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	result, err := h.decks.LeaveDeck(r.Context(), userID, deckID)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	deckID, err := utils.ParseID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	if err := h.decks.DeleteDeck(r.Context(), userID, deckID); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
