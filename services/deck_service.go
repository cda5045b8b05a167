package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrewpaige1/flashdeck-api/apperror"
	"github.com/andrewpaige1/flashdeck-api/models"
)

type CreateDeckInput struct {
	Name         string
	Description  *string
	IsPublic     *bool
	ParentDeckID *uint
}

// DeckService manages decks and who may use them.
type DeckService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewDeckService(db *gorm.DB, logger *zap.Logger) *DeckService {
	return &DeckService{db: db, logger: logger.Named("deck")}
}

// GetUserDecks lists every deck userID is a member of, newest first.
func (s *DeckService) GetUserDecks(ctx context.Context, userID uint) ([]models.DeckResponse, error) {
	s.logger.Info("Fetching all decks for user", zap.Uint("userID", userID))

	db := s.db.WithContext(ctx)
	memberOf := db.Model(&models.UserDeck{}).Select("deck_id").Where("user_id = ?", userID)

	var decks []models.Deck
	err := preloadDeckRelations(db).
		Where("id IN (?)", memberOf).
		Order("created_at DESC, id DESC").
		Find(&decks).Error
	if err != nil {
		s.logger.Error("Failed to fetch decks", zap.Uint("userID", userID), zap.Error(err))
		return nil, translateDBError(err, "Deck not found")
	}

	parents, err := loadParents(db, decks)
	if err != nil {
		s.logger.Error("Failed to fetch parent decks", zap.Uint("userID", userID), zap.Error(err))
		return nil, translateDBError(err, "Deck not found")
	}

	resp := make([]models.DeckResponse, 0, len(decks))
	for _, d := range decks {
		var parent *models.Deck
		if d.ParentDeckID != nil {
			parent = parents[*d.ParentDeckID]
		}
		resp = append(resp, models.NewDeckResponse(d, parent))
	}
	return resp, nil
}

// CreateDeck creates a deck with userID as its only admin. Creating a
// sub-deck requires admin on the parent.
func (s *DeckService) CreateDeck(ctx context.Context, userID uint, in CreateDeckInput) (*models.DeckResponse, error) {
	s.logger.Info("Creating new deck", zap.Uint("userID", userID))

	var resp *models.DeckResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.ParentDeckID != nil {
			if _, err := requireDeckRole(tx, userID, *in.ParentDeckID, models.RoleAdmin); err != nil {
				return err
			}
		}

		deck := models.Deck{
			Name:         in.Name,
			Description:  in.Description,
			IsPublic:     in.IsPublic != nil && *in.IsPublic,
			ParentDeckID: in.ParentDeckID,
		}
		if err := tx.Create(&deck).Error; err != nil {
			return err
		}

		membership := models.UserDeck{UserID: userID, DeckID: deck.ID, Role: models.RoleAdmin}
		if err := tx.Create(&membership).Error; err != nil {
			return err
		}

		var err error
		resp, err = loadDeckResponse(tx, deck.ID)
		return err
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperror.Wrap(apperror.KindValidation, err, "Invalid parent deck ID")
		}
		if apperror.KindOf(err) == apperror.KindInternal {
			s.logger.Error("Failed to create deck", zap.Uint("userID", userID), zap.Error(err))
		}
		return nil, translateDBError(err, "Deck not found")
	}

	s.logger.Info("Created deck", zap.Uint("deckID", resp.ID), zap.Uint("userID", userID))
	return resp, nil
}

// AddUserToDeck adds the user with email to deckID. Only admins may add
// members; role defaults to member.
func (s *DeckService) AddUserToDeck(ctx context.Context, requesterID, deckID uint, email, role string) error {
	s.logger.Info("Adding user to deck",
		zap.String("email", email), zap.Uint("deckID", deckID), zap.Uint("requesterID", requesterID))

	if role == "" {
		role = models.RoleMember
	}
	if !models.ValidRole(role) {
		return apperror.Validation("role must be one of: %s, %s", models.RoleAdmin, models.RoleMember)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireDeckRole(tx, requesterID, deckID, models.RoleAdmin); err != nil {
			return err
		}

		var user models.User
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			return translateDBError(err, fmt.Sprintf("User with email %s not found", email))
		}

		existing, err := findMembership(tx, user.ID, deckID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.Conflict("User is already a member of this deck")
		}

		return tx.Create(&models.UserDeck{UserID: user.ID, DeckID: deckID, Role: role}).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Wrap(apperror.KindConflict, err, "User is already a member of this deck")
		}
		if apperror.KindOf(err) == apperror.KindInternal {
			s.logger.Error("Failed to add user to deck", zap.Uint("deckID", deckID), zap.Error(err))
		}
		return translateDBError(err, "Deck not found")
	}

	s.logger.Info("Added user to deck", zap.String("email", email), zap.Uint("deckID", deckID), zap.String("role", role))
	return nil
}

// GetDeckByID returns deckID if userID is a member of it.
func (s *DeckService) GetDeckByID(ctx context.Context, userID, deckID uint) (*models.DeckResponse, error) {
	s.logger.Info("Fetching deck", zap.Uint("deckID", deckID), zap.Uint("userID", userID))

	db := s.db.WithContext(ctx)
	if _, err := requireDeckRole(db, userID, deckID); err != nil {
		return nil, translateDBError(err, "Deck not found")
	}

	resp, err := loadDeckResponse(db, deckID)
	if err != nil {
		return nil, translateDBError(err, "Deck not found")
	}
	return resp, nil
}

// RemoveUserFromDeck removes targetID from deckID. Only admins may remove
// members, and nobody may remove themselves this way.
func (s *DeckService) RemoveUserFromDeck(ctx context.Context, requesterID, deckID, targetID uint) error {
	s.logger.Info("Removing user from deck",
		zap.Uint("targetID", targetID), zap.Uint("deckID", deckID), zap.Uint("requesterID", requesterID))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireDeckRole(tx, requesterID, deckID, models.RoleAdmin); err != nil {
			return err
		}

		target, err := findMembership(tx, targetID, deckID)
		if err != nil {
			return err
		}
		if target == nil {
			return apperror.NotFound("User is not a member of this deck")
		}
		if requesterID == targetID {
			return apperror.Validation("Use leave deck endpoint to remove yourself from a deck")
		}

		return tx.Delete(&models.UserDeck{}, target.ID).Error
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			s.logger.Error("Failed to remove user from deck", zap.Uint("deckID", deckID), zap.Error(err))
		}
		return translateDBError(err, "Deck not found")
	}

	s.logger.Info("Removed user from deck", zap.Uint("targetID", targetID), zap.Uint("deckID", deckID))
	return nil
}

// LeaveDeck removes userID from deckID. If nobody is left the deck is
// deleted; if no admin is left the earliest-joined remaining member becomes
// admin.
func (s *DeckService) LeaveDeck(ctx context.Context, userID, deckID uint) (*models.LeaveDeckResult, error) {
	s.logger.Info("User leaving deck", zap.Uint("userID", userID), zap.Uint("deckID", deckID))

	var result models.LeaveDeckResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var memberships []models.UserDeck
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("deck_id = ?", deckID).
			Order("created_at ASC, id ASC").
			Find(&memberships).Error
		if err != nil {
			return err
		}

		var leaving *models.UserDeck
		remaining := make([]models.UserDeck, 0, len(memberships))
		for i := range memberships {
			if memberships[i].UserID == userID {
				leaving = &memberships[i]
				continue
			}
			remaining = append(remaining, memberships[i])
		}
		if leaving == nil {
			return apperror.NotFound("User is not a member of this deck")
		}

		if err := tx.Delete(&models.UserDeck{}, leaving.ID).Error; err != nil {
			return err
		}

		if len(remaining) == 0 {
			removed, err := deleteDeckTree(tx, deckID)
			if err != nil {
				return err
			}
			s.logger.Info("Deck deleted as no users remain", zap.Uint("deckID", deckID), zap.Int("decksRemoved", removed))
			result = models.LeaveDeckResult{
				DeckDeleted: true,
				Message:     "Left deck and deck was deleted as no users remained",
			}
			return nil
		}

		for _, m := range remaining {
			if m.Role == models.RoleAdmin {
				result = models.LeaveDeckResult{Message: "Successfully left the deck"}
				return nil
			}
		}

		promoted := remaining[0]
		err = tx.Model(&models.UserDeck{}).Where("id = ?", promoted.ID).Update("role", models.RoleAdmin).Error
		if err != nil {
			return err
		}
		s.logger.Info("Promoted user to admin", zap.Uint("userID", promoted.UserID), zap.Uint("deckID", deckID))

		newAdminID := promoted.UserID
		result = models.LeaveDeckResult{
			Message:    fmt.Sprintf("Left deck and user %d was promoted to admin", newAdminID),
			NewAdminID: &newAdminID,
		}
		return nil
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			s.logger.Error("Failed to leave deck", zap.Uint("deckID", deckID), zap.Error(err))
		}
		return nil, translateDBError(err, "Deck not found")
	}

	s.logger.Info("User left deck", zap.Uint("userID", userID), zap.Uint("deckID", deckID))
	return &result, nil
}

// DeleteDeck deletes deckID and all its sub-decks and cards. Only admins may
// delete a deck.
func (s *DeckService) DeleteDeck(ctx context.Context, userID, deckID uint) error {
	s.logger.Info("Deleting deck", zap.Uint("deckID", deckID), zap.Uint("userID", userID))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := requireDeckRole(tx, userID, deckID, models.RoleAdmin); err != nil {
			return err
		}
		removed, err := deleteDeckTree(tx, deckID)
		if err != nil {
			return err
		}
		s.logger.Info("Deleted deck tree", zap.Uint("deckID", deckID), zap.Int("decksRemoved", removed))
		return nil
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			s.logger.Error("Failed to delete deck", zap.Uint("deckID", deckID), zap.Error(err))
		}
		return translateDBError(err, "Deck not found")
	}
	return nil
}

func preloadDeckRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("UserDecks", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("UserDecks.User").
		Preload("SubDecks", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		})
}

func loadDeckResponse(db *gorm.DB, deckID uint) (*models.DeckResponse, error) {
	var deck models.Deck
	if err := preloadDeckRelations(db).First(&deck, deckID).Error; err != nil {
		return nil, err
	}

	parents, err := loadParents(db, []models.Deck{deck})
	if err != nil {
		return nil, err
	}

	var parent *models.Deck
	if deck.ParentDeckID != nil {
		parent = parents[*deck.ParentDeckID]
	}
	resp := models.NewDeckResponse(deck, parent)
	return &resp, nil
}

func loadParents(db *gorm.DB, decks []models.Deck) (map[uint]*models.Deck, error) {
	var ids []uint
	for _, d := range decks {
		if d.ParentDeckID != nil {
			ids = append(ids, *d.ParentDeckID)
		}
	}
	parents := make(map[uint]*models.Deck, len(ids))
	if len(ids) == 0 {
		return parents, nil
	}

	var found []models.Deck
	if err := db.Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	for i := range found {
		parents[found[i].ID] = &found[i]
	}
	return parents, nil
}
