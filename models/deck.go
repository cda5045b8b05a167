package models

import "time"

// Deck is a named collection of cards. Decks form a tree through
// ParentDeckID; deleting a deck removes its whole subtree.
type Deck struct {
	ID           uint    `gorm:"primaryKey"`
	Name         string  `gorm:"not null;size:255"`
	Description  *string `gorm:"size:1000"`
	IsPublic     bool    `gorm:"not null;default:false"`
	ParentDeckID *uint   `gorm:"index"`

	SubDecks  []Deck     `gorm:"foreignKey:ParentDeckID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserDecks []UserDeck `gorm:"foreignKey:DeckID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Cards     []Card     `gorm:"foreignKey:DeckID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
