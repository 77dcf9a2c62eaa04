package handlers

import (
	"encoding/json"
	"errors"

	"shopcart/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

var kindStatus = map[models.ErrorKind]int{
	models.KindValidation:   fiber.StatusBadRequest,
	models.KindNotFound:     fiber.StatusNotFound,
	models.KindUnauthorized: fiber.StatusUnauthorized,
	models.KindForbidden:    fiber.StatusForbidden,
	models.KindConflict:     fiber.StatusConflict,
}

// respondError writes err as {"error": ...}. Anything that is not a
// DomainError is logged and reported as a 500.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	if de, ok := models.AsDomainError(err); ok {
		status, known := kindStatus[de.Kind]
		if !known {
			status = fiber.StatusBadRequest
		}
		body := fiber.Map{"error": de.Message}
		if len(de.Fields) > 0 {
			body["errors"] = de.Fields
		}
		if status == fiber.StatusUnauthorized || status == fiber.StatusForbidden {
			logger.Warn().Str("method", c.Method()).Str("path", c.Path()).Int("status", status).Msg("request rejected")
		}
		return c.Status(status).JSON(body)
	}

	logger.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}

// respondParseError reports a body that could not be decoded.
func respondParseError(c *fiber.Ctx, err error) error {
	body := fiber.Map{"error": "Invalid request body"}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		body["errors"] = map[string]string{
			typeErr.Field: "Invalid type, expected " + typeErr.Type.String(),
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(body)
}
