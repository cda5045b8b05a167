package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/andrewpaige1/flashdeck-api/apperror"
	"github.com/andrewpaige1/flashdeck-api/auth"
	"github.com/andrewpaige1/flashdeck-api/models"
)

// AuthService checks credentials and issues and verifies access tokens.
type AuthService struct {
	users  *UserService
	tokens *auth.TokenManager
	logger *zap.Logger
}

func NewAuthService(users *UserService, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger.Named("auth")}
}

// ValidateUser returns the user whose email and password match. Any mismatch,
// including accounts without a password, is Unauthorized.
func (s *AuthService) ValidateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Password == nil || !s.users.VerifyPassword(password, *user.Password) {
		s.logger.Warn("Invalid login attempt", zap.String("email", email))
		return nil, apperror.Unauthorized("Invalid credentials")
	}
	return user, nil
}

// Login validates the credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	user, err := s.ValidateUser(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.CreateToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("Failed to create token", zap.Uint("userID", user.ID), zap.Error(err))
		return nil, apperror.Internal(err)
	}

	s.logger.Info("User logged in", zap.Uint("userID", user.ID))
	return &models.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		User:        models.NewUserSummary(*user),
	}, nil
}

// VerifyToken returns the claims of a valid token. The reason a token is
// rejected is logged but never returned.
func (s *AuthService) VerifyToken(token string) (*auth.Claims, error) {
	claims, err := s.tokens.VerifyToken(token)
	if err != nil {
		s.logger.Debug("Rejected token", zap.Error(err))
		return nil, apperror.Unauthorized("Invalid token")
	}
	return claims, nil
}

// Profile loads the user a token was issued to.
func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.UserSummary, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.Unauthorized("User no longer exists")
	}
	summary := models.NewUserSummary(*user)
	return &summary, nil
}
