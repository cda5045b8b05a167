package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andrewpaige1/flashdeck-api/apperror"
	"github.com/andrewpaige1/flashdeck-api/auth"
	"github.com/andrewpaige1/flashdeck-api/models"
)

type CreateUserInput struct {
	Email    string
	Password *string
	Name     *string
	AppleID  *string
	GoogleID *string
	Provider string
}

// UserService creates and looks up accounts.
type UserService struct {
	db     *gorm.DB
	salt   string
	logger *zap.Logger
}

func NewUserService(db *gorm.DB, passwordSalt string, logger *zap.Logger) *UserService {
	return &UserService{db: db, salt: passwordSalt, logger: logger.Named("user")}
}

// CreateUser registers a new account. At least one of password, Apple id or
// Google id must be given.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	s.logger.Info("Creating new user", zap.String("email", in.Email))

	if isBlank(in.Password) && isBlank(in.AppleID) && isBlank(in.GoogleID) {
		return nil, apperror.Validation("Either password or external provider ID (Apple/Google) must be provided")
	}

	user := models.User{
		Email:    in.Email,
		Name:     in.Name,
		AppleID:  blankToNil(in.AppleID),
		GoogleID: blankToNil(in.GoogleID),
		Provider: in.Provider,
	}
	if user.Provider == "" {
		user.Provider = models.ProviderEmail
	}
	if !isBlank(in.Password) {
		hash := auth.HashPassword(*in.Password, s.salt)
		user.Password = &hash
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkUnique(tx, user); err != nil {
			return err
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			s.logger.Warn("Duplicate user", zap.String("email", in.Email), zap.Error(err))
			return nil, apperror.Conflict("User already exists")
		}
		if apperror.Is(err, apperror.KindConflict) {
			return nil, err
		}
		s.logger.Error("Failed to create user", zap.String("email", in.Email), zap.Error(err))
		return nil, translateDBError(err, "User not found")
	}

	s.logger.Info("Successfully created user", zap.Uint("userID", user.ID))
	return &user, nil
}

func (s *UserService) checkUnique(tx *gorm.DB, user models.User) error {
	checks := []struct {
		column  string
		value   *string
		message string
	}{
		{"email", &user.Email, "User with this email already exists"},
		{"apple_id", user.AppleID, "User with this Apple ID already exists"},
		{"google_id", user.GoogleID, "User with this Google ID already exists"},
	}
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		var count int64
		if err := tx.Model(&models.User{}).Where(c.column+" = ?", *c.value).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperror.Conflict(c.message)
		}
	}
	return nil
}

// FindByEmail returns the user with email, or nil if there is none.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("Failed to find user by email", zap.Error(err))
		return nil, translateDBError(err, "User not found")
	}
	return &user, nil
}

// FindByID returns the user with id, or nil if there is none.
func (s *UserService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("Failed to find user by ID", zap.Uint("userID", id), zap.Error(err))
		return nil, translateDBError(err, "User not found")
	}
	return &user, nil
}

func (s *UserService) VerifyPassword(password, hash string) bool {
	return auth.VerifyPassword(password, hash, s.salt)
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}

func blankToNil(s *string) *string {
	if isBlank(s) {
		return nil
	}
	return s
}
