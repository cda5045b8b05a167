package models

import "time"

// Card represents an individual flashcard
type Card struct {
	ID       uint    `gorm:"primaryKey"`
	Question string  `gorm:"not null;size:2000"`
	Answer   string  `gorm:"not null;size:2000"`
	Notes    *string `gorm:"size:1000"`

	DeckID      uint  `gorm:"not null;index"`
	CreatedByID *uint `gorm:"index"`
	CreatedBy   *User `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
