package handlers

import (
	"shopcart/internal/middleware"
	"shopcart/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// CartHandler handles HTTP requests for cart items.
type CartHandler struct {
	service *services.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the cart routes. Reads are public, writes
// require an authenticated caller.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetItems)
	cartRoutes.Post("/", middleware.RequireAuthenticated(), h.HandleAddItem)
	cartRoutes.Get("/:id", h.HandleGetItemByID)
	cartRoutes.Put("/:id", middleware.RequireAuthenticated(), h.HandleUpdateItem)
	cartRoutes.Delete("/:id", middleware.RequireAuthenticated(), h.HandleDeleteItem)
}

// HandleGetItems lists every cart item.
func (h *CartHandler) HandleGetItems(c *fiber.Ctx) error {
	items, err := h.service.GetAllItems(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	out := make([]CartItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, newCartItemResponse(item))
	}
	return c.JSON(out)
}

// HandleGetItemByID retrieves a single cart item.
func (h *CartHandler) HandleGetItemByID(c *fiber.Ctx) error {
	item, err := h.service.GetItemByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newCartItemResponse(*item))
}

// HandleAddItem adds a product to the cart, merging with an existing item.
// Both the create and the merge case answer 201.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var in services.AddItemInput
	if err := c.BodyParser(&in); err != nil {
		return respondParseError(c, err)
	}

	item, err := h.service.AddItem(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newCartItemResponse(*item))
}

// HandleUpdateItem sets the quantity of a cart item.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var in services.UpdateItemInput
	if err := c.BodyParser(&in); err != nil {
		return respondParseError(c, err)
	}

	item, err := h.service.UpdateItemQuantity(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newCartItemResponse(*item))
}

// HandleDeleteItem removes a cart item.
func (h *CartHandler) HandleDeleteItem(c *fiber.Ctx) error {
	if err := h.service.RemoveItem(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
