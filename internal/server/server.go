// Package server assembles the Fiber application from its dependencies.
package server

import (
	"errors"
	"time"

	"shopcart/internal/config"
	"shopcart/internal/handlers"
	"shopcart/internal/middleware"
	"shopcart/internal/repositories"
	"shopcart/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// Dependencies are the collaborators the HTTP application is built from.
type Dependencies struct {
	Products repositories.ProductRepository
	Cart     repositories.CartRepository
	Users    repositories.UserRepository
	Events   services.EventPublisher // optional
	Auth     config.AuthConfig
	Logger   zerolog.Logger
}

// App is the assembled application.
type App struct {
	Fiber *fiber.App
	Auth  *services.AuthService
}

// New wires services, handlers and routes.
func New(deps Dependencies) *App {
	logger := deps.Logger

	productService := services.NewProductService(deps.Products, deps.Events, logger)
	cartService := services.NewCartService(deps.Cart, deps.Products, deps.Events, logger)
	authService := services.NewAuthService(deps.Users, deps.Auth.JWTSecret, deps.Auth.TokenTTL)

	productHandler := handlers.NewProductHandler(productService, logger)
	cartHandler := handlers.NewCartHandler(cartService, logger)
	authHandler := handlers.NewAuthHandler(authService, logger)

	app := fiber.New(fiber.Config{
		AppName:      "shopping-cart-api",
		ErrorHandler: errorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(logger))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to the Shopping Cart API",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	api := app.Group("/api", middleware.Authenticate(authService, logger))
	authHandler.RegisterRoutes(api)
	productHandler.RegisterRoutes(api)
	cartHandler.RegisterRoutes(api)

	return &App{Fiber: app, Auth: authService}
}

// errorHandler renders errors that escape the handlers, such as unknown routes.
func errorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			logger.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		}
		return c.Status(code).JSON(fiber.Map{"error": message})
	}
}
