package models

import "time"

const (
	ProviderEmail  = "email"
	ProviderApple  = "apple"
	ProviderGoogle = "google"
)

// User represents an account. Password holds the salted SHA-256 digest and is
// nil for accounts created through an external provider.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password  *string   `gorm:"size:255" json:"-"`
	Name      *string   `gorm:"size:255" json:"name"`
	AppleID   *string   `gorm:"uniqueIndex;size:255" json:"appleId"`
	GoogleID  *string   `gorm:"uniqueIndex;size:255" json:"googleId"`
	Provider  string    `gorm:"not null;size:20;default:email" json:"provider"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
