package services

import (
	"gorm.io/gorm"

	"github.com/andrewpaige1/flashdeck-api/models"
)

// collectDeckTree returns rootID and the ids of all its descendants, walking
// parent_deck_id breadth first.
func collectDeckTree(tx *gorm.DB, rootID uint) ([]uint, error) {
	ids := []uint{rootID}
	seen := map[uint]bool{rootID: true}
	frontier := []uint{rootID}

	for len(frontier) > 0 {
		var children []uint
		if err := tx.Model(&models.Deck{}).Where("parent_deck_id IN ?", frontier).Pluck("id", &children).Error; err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, id := range children {
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
			frontier = append(frontier, id)
		}
	}
	return ids, nil
}

// deleteDeckTree removes a deck, every descendant deck, and their cards and
// memberships. It must run inside a transaction.
func deleteDeckTree(tx *gorm.DB, rootID uint) (int, error) {
	ids, err := collectDeckTree(tx, rootID)
	if err != nil {
		return 0, err
	}
	if err := tx.Where("deck_id IN ?", ids).Delete(&models.Card{}).Error; err != nil {
		return 0, err
	}
	if err := tx.Where("deck_id IN ?", ids).Delete(&models.UserDeck{}).Error; err != nil {
		return 0, err
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.Deck{}).Error; err != nil {
		return 0, err
	}
	return len(ids), nil
}
