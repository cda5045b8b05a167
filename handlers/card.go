package handlers

import (
	"net/http"

	"github.com/andrewpaige1/flashdeck-api/services"
	"github.com/andrewpaige1/flashdeck-api/utils"
)

type createCardRequest struct {
	Question string  `json:"question" validate:"required,min=1,max=2000"`
	Answer   string  `json:"answer" validate:"required,min=1,max=2000"`
	Notes    *string `json:"notes" validate:"omitempty,max=1000"`
}

// updateCardRequest is a partial update. An explicit "notes": null clears the
// notes; an absent field leaves them alone.
type updateCardRequest struct {
	Question *string        `json:"question" validate:"omitnil,min=1,max=2000"`
	Answer   *string        `json:"answer" validate:"omitnil,min=1,max=2000"`
	Notes    optionalString `json:"notes" validate:"omitempty,max=1000"`
	DeckID   *uint          `json:"deckId" validate:"omitnil,gt=0"`
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	deckID, err := utils.ParseID(r, "deckId")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	var req createCardRequest
	if err := h.decode(r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	card, err := h.cards.CreateCard(r.Context(), userID, deckID, services.CreateCardInput{
		Question: req.Question,
		Answer:   req.Answer,
		Notes:    req.Notes,
	})
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, card)
}

func (h *Handler) GetCardsByDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	deckID, err := utils.ParseID(r, "deckId")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	cards, err := h.cards.GetCardsByDeck(r.Context(), userID, deckID)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, cards)
}

func (h *Handler) GetCardByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	cardID, err := utils.ParseID(r, "cardId")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	card, err := h.cards.GetCardByID(r.Context(), userID, cardID)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, card)
}

func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	cardID, err := utils.ParseID(r, "cardId")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	var req updateCardRequest
	if err := h.decode(r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	card, err := h.cards.UpdateCard(r.Context(), userID, cardID, services.UpdateCardInput{
		Question:   req.Question,
		Answer:     req.Answer,
		Notes:      req.Notes.Value,
		ClearNotes: req.Notes.Set && req.Notes.Value == nil,
		DeckID:     req.DeckID,
	})
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, card)
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	cardID, err := utils.ParseID(r, "cardId")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	if err := h.cards.DeleteCard(r.Context(), userID, cardID); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
