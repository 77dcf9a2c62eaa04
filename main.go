package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"shopcart/internal/config"
	"shopcart/internal/database"
	"shopcart/internal/repositories"
	"shopcart/internal/server"
	"shopcart/internal/services"
	"shopcart/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	// A .env file is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := config.NewLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	deps := server.Dependencies{
		Auth:   cfg.Auth,
		Logger: logger,
	}
	if cfg.Database.Driver == "memory" {
		products, cart, users := repositories.NewMemoryRepositories()
		deps.Products, deps.Cart, deps.Users = products, cart, users
		logger.Warn().Msg("using in-memory storage, data is lost on exit")
	} else {
		db, err := database.Open(cfg.Database, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize database")
		}
		defer func() {
			if err := database.Close(db); err != nil {
				logger.Error().Err(err).Msg("failed to close database")
			}
		}()
		deps.Products = repositories.NewGORMProductRepository(db)
		deps.Cart = repositories.NewGORMCartRepository(db)
		deps.Users = repositories.NewGORMUserRepository(db)
	}

	// --- Events ---
	if cfg.RabbitMQ.Enabled {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
		}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
		}
		defer mqClient.Close()
		deps.Events = mqClient

		if err := mqClient.ConsumeEvents(ctx, rabbitmq.LogEvents(logger)); err != nil {
			logger.Error().Err(err).Msg("failed to start RabbitMQ consumer")
		}
	}

	app := server.New(deps)

	if cfg.Auth.AdminUsername != "" {
		seedAdmin(ctx, app.Auth, cfg.Auth, logger)
	}

	// --- Start HTTP Server ---
	go func() {
		logger.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Fiber.Listen(cfg.Server.Port); err != nil {
			logger.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down server")

	if err := app.Fiber.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("error during Fiber shutdown")
	}
	logger.Info().Msg("server gracefully stopped")
}

// seedAdmin makes sure the configured admin account exists.
func seedAdmin(ctx context.Context, authService *services.AuthService, cfg config.AuthConfig, logger zerolog.Logger) {
	created, err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		logger.Fatal().Err(err).Str("username", cfg.AdminUsername).Msg("failed to seed admin user")
	}
	if created {
		logger.Info().Str("username", cfg.AdminUsername).Msg("admin user created")
	}
}
