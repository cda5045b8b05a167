package services

import (
	"errors"
	"slices"

	"gorm.io/gorm"

	"github.com/andrewpaige1/flashdeck-api/apperror"
	"github.com/andrewpaige1/flashdeck-api/models"
)

var anyRole = []string{models.RoleAdmin, models.RoleMember}

// findMembership returns the membership of userID in deckID, or nil.
func findMembership(tx *gorm.DB, userID, deckID uint) (*models.UserDeck, error) {
	var membership models.UserDeck
	err := tx.Where("user_id = ? AND deck_id = ?", userID, deckID).First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// requireDeckRole checks that userID holds one of roles on deckID. A missing
// membership is NotFound so non-members cannot learn that the deck exists.
func requireDeckRole(tx *gorm.DB, userID, deckID uint, roles ...string) (*models.UserDeck, error) {
	if len(roles) == 0 {
		roles = anyRole
	}
	membership, err := findMembership(tx, userID, deckID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, apperror.NotFound("Deck not found or access denied")
	}
	if !slices.Contains(roles, membership.Role) {
		return nil, apperror.Forbidden("Insufficient permissions to perform this action")
	}
	return membership, nil
}

func deckExists(tx *gorm.DB, deckID uint) (bool, error) {
	var count int64
	if err := tx.Model(&models.Deck{}).Where("id = ?", deckID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// canModifyCard reports whether the holder of membership may change card.
func canModifyCard(card models.Card, membership *models.UserDeck) bool {
	if membership == nil {
		return false
	}
	if membership.Role == models.RoleAdmin {
		return true
	}
	return card.CreatedByID != nil && *card.CreatedByID == membership.UserID
}
