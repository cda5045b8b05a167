package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andrewpaige1/flashdeck-api/auth"
	"github.com/andrewpaige1/flashdeck-api/config"
	"github.com/andrewpaige1/flashdeck-api/handlers"
	"github.com/andrewpaige1/flashdeck-api/services"
)

const shutdownTimeout = 10 * time.Second

func init() {
	// Load .env file if not in production environment
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
		}
	}
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

var rootCmd = &cobra.Command{
	Use:           "flashdeck-api",
	Short:         "Flashcard deck API server",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(cfg *config.Config, logger *zap.Logger, db *gorm.DB) error {
			if err := config.Migrate(db); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, logger, db)
		})
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(cfg *config.Config, logger *zap.Logger, db *gorm.DB) error {
			if err := config.Migrate(db); err != nil {
				return err
			}
			logger.Info("Database schema is up to date")
			return nil
		})
	},
}

// withApp loads configuration, builds the logger and opens the database for
// the duration of fn.
func withApp(fn func(cfg *config.Config, logger *zap.Logger, db *gorm.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	db, err := config.Connect(cfg, logger)
	if err != nil {
		logger.Error("Could not connect to database", zap.Error(err))
		return err
	}
	defer func() {
		if err := config.Close(db); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}()

	return fn(cfg, logger, db)
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger, db *gorm.DB) error {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiresIn)
	users := services.NewUserService(db, cfg.PasswordSalt, logger)
	h := handlers.NewHandler(
		users,
		services.NewAuthService(users, tokens, logger),
		services.NewDeckService(db, logger),
		services.NewCardService(db, logger),
		logger,
	)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h.Router(cfg.CORS),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("addr", server.Addr), zap.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
