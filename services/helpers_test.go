package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andrewpaige1/flashdeck-api/auth"
	"github.com/andrewpaige1/flashdeck-api/models"
	"github.com/andrewpaige1/flashdeck-api/services"
	"github.com/andrewpaige1/flashdeck-api/testutil"
)

const testSalt = "test-salt"

type fixture struct {
	db    *gorm.DB
	users *services.UserService
	auth  *services.AuthService
	decks *services.DeckService
	cards *services.CardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	log := zap.NewNop()
	users := services.NewUserService(db, testSalt, log)
	return &fixture{
		db:    db,
		users: users,
		auth:  services.NewAuthService(users, auth.NewTokenManager("secret", "flashdeck-api", "7d"), log),
		decks: services.NewDeckService(db, log),
		cards: services.NewCardService(db, log),
	}
}

func ptr[T any](v T) *T { return &v }

func (f *fixture) user(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := f.users.CreateUser(context.Background(), services.CreateUserInput{
		Email:    email,
		Password: ptr("password123"),
		Name:     ptr(email),
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) deck(t *testing.T, owner *models.User, name string) *models.DeckResponse {
	t.Helper()
	d, err := f.decks.CreateDeck(context.Background(), owner.ID, services.CreateDeckInput{Name: name})
	require.NoError(t, err)
	return d
}

func (f *fixture) addMember(t *testing.T, admin *models.User, deckID uint, member *models.User, role string) {
	t.Helper()
	require.NoError(t, f.decks.AddUserToDeck(context.Background(), admin.ID, deckID, member.Email, role))
}

func (f *fixture) membership(t *testing.T, userID, deckID uint) *models.UserDeck {
	t.Helper()
	var memberships []models.UserDeck
	require.NoError(t, f.db.Where("user_id = ? AND deck_id = ?", userID, deckID).Find(&memberships).Error)
	if len(memberships) == 0 {
		return nil
	}
	return &memberships[0]
}
