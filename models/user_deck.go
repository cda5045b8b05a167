package models

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// ValidRole reports whether role is one of the deck roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember
}

// UserDeck is a membership: it grants a user a role on a deck. CreatedAt is
// the join time and decides who gets promoted when the last admin leaves.
type UserDeck struct {
	ID     uint   `gorm:"primaryKey"`
	UserID uint   `gorm:"not null;uniqueIndex:idx_user_deck"`
	DeckID uint   `gorm:"not null;uniqueIndex:idx_user_deck;index"`
	Role   string `gorm:"not null;size:20;default:member"`

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
