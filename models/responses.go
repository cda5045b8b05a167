package models

import "time"

// UserSummary is the public slice of a user embedded in other responses.
type UserSummary struct {
	ID    uint    `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

func NewUserSummary(u User) UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Name: u.Name}
}

type MembershipResponse struct {
	ID     uint        `json:"id"`
	UserID uint        `json:"userId"`
	DeckID uint        `json:"deckId"`
	Role   string      `json:"role"`
	User   UserSummary `json:"user"`
}

// DeckSummary is a deck without its relations. It is used for sub-decks and
// the parent deck inside a DeckResponse.
type DeckSummary struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	IsPublic     bool      `json:"isPublic"`
	ParentDeckID *uint     `json:"parentDeckId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewDeckSummary(d Deck) DeckSummary {
	return DeckSummary{
		ID:           d.ID,
		Name:         d.Name,
		Description:  d.Description,
		IsPublic:     d.IsPublic,
		ParentDeckID: d.ParentDeckID,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type DeckResponse struct {
	DeckSummary
	UserDecks  []MembershipResponse `json:"userDecks"`
	SubDecks   []DeckSummary        `json:"subDecks"`
	ParentDeck *DeckSummary         `json:"parentDeck"`
}

// NewDeckResponse builds the response for d. UserDecks (with User) and
// SubDecks must already be loaded; parent may be nil.
func NewDeckResponse(d Deck, parent *Deck) DeckResponse {
	resp := DeckResponse{
		DeckSummary: NewDeckSummary(d),
		UserDecks:   make([]MembershipResponse, 0, len(d.UserDecks)),
		SubDecks:    make([]DeckSummary, 0, len(d.SubDecks)),
	}
	for _, ud := range d.UserDecks {
		resp.UserDecks = append(resp.UserDecks, MembershipResponse{
			ID:     ud.ID,
			UserID: ud.UserID,
			DeckID: ud.DeckID,
			Role:   ud.Role,
			User:   NewUserSummary(ud.User),
		})
	}
	for _, sub := range d.SubDecks {
		resp.SubDecks = append(resp.SubDecks, NewDeckSummary(sub))
	}
	if parent != nil {
		summary := NewDeckSummary(*parent)
		resp.ParentDeck = &summary
	}
	return resp
}

// LeaveDeckResult describes what happened when a member left a deck.
type LeaveDeckResult struct {
	DeckDeleted bool   `json:"deckDeleted"`
	Message     string `json:"message"`
	NewAdminID  *uint  `json:"newAdminId,omitempty"`
}

type CardResponse struct {
	ID            uint      `json:"id"`
	Question      string    `json:"question"`
	Answer        string    `json:"answer"`
	Notes         *string   `json:"notes"`
	DeckID        uint      `json:"deckId"`
	CreatedByID   *uint     `json:"createdById"`
	CreatedByName *string   `json:"createdByName"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewCardResponse builds the response for c. CreatedBy is optional.
func NewCardResponse(c Card) CardResponse {
	resp := CardResponse{
		ID:          c.ID,
		Question:    c.Question,
		Answer:      c.Answer,
		Notes:       c.Notes,
		DeckID:      c.DeckID,
		CreatedByID: c.CreatedByID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.CreatedBy != nil {
		resp.CreatedByName = c.CreatedBy.Name
	}
	return resp
}

// AuthResponse is returned by a successful login.
type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	User        UserSummary `json:"user"`
}
