package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/andrewpaige1/flashdeck-api/models"
)

const sqliteScheme = "sqlite://"

// Dialector picks the gorm driver from the shape of the database URL.
// "sqlite://<dsn>" and "file:" URLs use SQLite, everything else Postgres.
func Dialector(databaseURL string) gorm.Dialector {
	switch {
	case strings.HasPrefix(databaseURL, sqliteScheme):
		return sqlite.Open(strings.TrimPrefix(databaseURL, sqliteScheme))
	case strings.HasPrefix(databaseURL, "file:"):
		return sqlite.Open(databaseURL)
	default:
		return postgres.Open(databaseURL)
	}
}

// Connect opens the connection pool. Storage errors are translated into
// gorm's sentinel errors (ErrDuplicatedKey, ErrForeignKeyViolated).
func Connect(cfg *Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(Dialector(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	log.Info("Connected to database", zap.String("dialect", db.Dialector.Name()))
	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Deck{}, &models.UserDeck{}, &models.Card{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Close releases the underlying pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.Info
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	default:
		return logger.Warn
	}
}
