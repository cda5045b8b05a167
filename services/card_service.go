package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andrewpaige1/flashdeck-api/apperror"
	"github.com/andrewpaige1/flashdeck-api/models"
)

type CreateCardInput struct {
	Question string
	Answer   string
	Notes    *string
}

// UpdateCardInput holds the fields to change. Nil fields are left alone;
// ClearNotes removes the notes and setting DeckID moves the card.
type UpdateCardInput struct {
	Question   *string
	Answer     *string
	Notes      *string
	ClearNotes bool
	DeckID     *uint
}

func (in UpdateCardInput) empty() bool {
	return in.Question == nil && in.Answer == nil && in.Notes == nil && !in.ClearNotes && in.DeckID == nil
}

// CardService manages cards. Access to a card always goes through the
// membership of its deck.
type CardService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewCardService(db *gorm.DB, logger *zap.Logger) *CardService {
	return &CardService{db: db, logger: logger.Named("card")}
}

// requireCardDeckAccess checks that userID is a member of deckID. Unlike deck
// reads, a non-member of an existing deck gets Forbidden.
func (s *CardService) requireCardDeckAccess(tx *gorm.DB, userID, deckID uint) (*models.UserDeck, error) {
	membership, err := findMembership(tx, userID, deckID)
	if err != nil {
		return nil, err
	}
	if membership != nil {
		return membership, nil
	}

	exists, err := deckExists(tx, deckID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NotFound("Deck with ID %d not found", deckID)
	}
	s.logger.Warn("User does not have access to deck", zap.Uint("userID", userID), zap.Uint("deckID", deckID))
	return nil, apperror.Forbidden("You do not have access to this deck")
}

// CreateCard adds a card to deckID on behalf of userID.
func (s *CardService) CreateCard(ctx context.Context, userID, deckID uint, in CreateCardInput) (*models.CardResponse, error) {
	s.logger.Info("Creating new card", zap.Uint("deckID", deckID), zap.Uint("userID", userID))

	db := s.db.WithContext(ctx)
	if _, err := s.requireCardDeckAccess(db, userID, deckID); err != nil {
		return nil, translateDBError(err, "Deck not found")
	}

	card := models.Card{
		Question:    in.Question,
		Answer:      in.Answer,
		Notes:       in.Notes,
		DeckID:      deckID,
		CreatedByID: &userID,
	}
	if err := db.Create(&card).Error; err != nil {
		s.logger.Error("Failed to create card", zap.Uint("deckID", deckID), zap.Error(err))
		return nil, translateDBError(err, "Deck not found")
	}

	resp, err := s.loadCard(db, card.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Successfully created card", zap.Uint("cardID", card.ID))
	return resp, nil
}

// GetCardsByDeck lists the cards of deckID, newest first.
func (s *CardService) GetCardsByDeck(ctx context.Context, userID, deckID uint) ([]models.CardResponse, error) {
	s.logger.Info("Fetching cards for deck", zap.Uint("deckID", deckID), zap.Uint("userID", userID))

	db := s.db.WithContext(ctx)
	if _, err := s.requireCardDeckAccess(db, userID, deckID); err != nil {
		return nil, translateDBError(err, "Deck not found")
	}

	var cards []models.Card
	err := db.Preload("CreatedBy").
		Where("deck_id = ?", deckID).
		Order("created_at DESC, id DESC").
		Find(&cards).Error
	if err != nil {
		s.logger.Error("Failed to fetch cards", zap.Uint("deckID", deckID), zap.Error(err))
		return nil, translateDBError(err, "Deck not found")
	}

	resp := make([]models.CardResponse, 0, len(cards))
	for _, c := range cards {
		resp = append(resp, models.NewCardResponse(c))
	}
	s.logger.Info("Found cards for deck", zap.Int("count", len(resp)), zap.Uint("deckID", deckID))
	return resp, nil
}

// GetCardByID returns cardID if userID is a member of its deck.
func (s *CardService) GetCardByID(ctx context.Context, userID, cardID uint) (*models.CardResponse, error) {
	s.logger.Info("Fetching card", zap.Uint("cardID", cardID), zap.Uint("userID", userID))

	db := s.db.WithContext(ctx)
	card, err := s.findCard(db, cardID)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireCardDeckAccess(db, userID, card.DeckID); err != nil {
		return nil, translateDBError(err, "Deck not found")
	}
	return s.loadCard(db, cardID)
}

// UpdateCard changes cardID. Only its creator or a deck admin may do so, and
// moving it requires membership in the destination deck.
func (s *CardService) UpdateCard(ctx context.Context, userID, cardID uint, in UpdateCardInput) (*models.CardResponse, error) {
	s.logger.Info("Updating card", zap.Uint("cardID", cardID), zap.Uint("userID", userID))

	if in.empty() {
		return nil, apperror.Validation("At least one field must be provided to update the card")
	}

	var resp *models.CardResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		card, err := s.findCard(tx, cardID)
		if err != nil {
			return err
		}
		membership, err := s.requireCardDeckAccess(tx, userID, card.DeckID)
		if err != nil {
			return err
		}
		if !canModifyCard(*card, membership) {
			s.logger.Warn("User may not update card", zap.Uint("userID", userID), zap.Uint("cardID", cardID))
			return apperror.Forbidden("You can only update cards you created or if you are an admin of the deck")
		}

		updates := map[string]any{}
		if in.Question != nil {
			updates["question"] = *in.Question
		}
		if in.Answer != nil {
			updates["answer"] = *in.Answer
		}
		if in.Notes != nil {
			updates["notes"] = *in.Notes
		} else if in.ClearNotes {
			updates["notes"] = nil
		}
		if in.DeckID != nil && *in.DeckID != card.DeckID {
			target, err := findMembership(tx, userID, *in.DeckID)
			if err != nil {
				return err
			}
			if target == nil {
				s.logger.Warn("User may not move card to deck",
					zap.Uint("userID", userID), zap.Uint("cardID", cardID), zap.Uint("deckID", *in.DeckID))
				return apperror.Forbidden("You do not have access to the target deck")
			}
			updates["deck_id"] = *in.DeckID
		}

		if len(updates) > 0 {
			if err := tx.Model(card).Updates(updates).Error; err != nil {
				return err
			}
		}

		resp, err = s.loadCard(tx, cardID)
		return err
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			s.logger.Error("Failed to update card", zap.Uint("cardID", cardID), zap.Error(err))
		}
		return nil, translateDBError(err, "Card not found")
	}

	s.logger.Info("Successfully updated card", zap.Uint("cardID", cardID))
	return resp, nil
}

// DeleteCard removes cardID. Only its creator or a deck admin may do so.
func (s *CardService) DeleteCard(ctx context.Context, userID, cardID uint) error {
	s.logger.Info("Deleting card", zap.Uint("cardID", cardID), zap.Uint("userID", userID))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		card, err := s.findCard(tx, cardID)
		if err != nil {
			return err
		}
		membership, err := s.requireCardDeckAccess(tx, userID, card.DeckID)
		if err != nil {
			return err
		}
		if !canModifyCard(*card, membership) {
			s.logger.Warn("User may not delete card", zap.Uint("userID", userID), zap.Uint("cardID", cardID))
			return apperror.Forbidden("You can only delete cards you created or if you are an admin of the deck")
		}
		return tx.Delete(&models.Card{}, cardID).Error
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			s.logger.Error("Failed to delete card", zap.Uint("cardID", cardID), zap.Error(err))
		}
		return translateDBError(err, "Card not found")
	}

	s.logger.Info("Successfully deleted card", zap.Uint("cardID", cardID))
	return nil
}

func (s *CardService) findCard(db *gorm.DB, cardID uint) (*models.Card, error) {
	var card models.Card
	err := db.First(&card, cardID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn("Card not found", zap.Uint("cardID", cardID))
		return nil, apperror.NotFound("Card with ID %d not found", cardID)
	}
	if err != nil {
		return nil, translateDBError(err, "Card not found")
	}
	return &card, nil
}

func (s *CardService) loadCard(db *gorm.DB, cardID uint) (*models.CardResponse, error) {
	var card models.Card
	if err := db.Preload("CreatedBy").First(&card, cardID).Error; err != nil {
		return nil, translateDBError(err, "Card not found")
	}
	resp := models.NewCardResponse(card)
	return &resp, nil
}
