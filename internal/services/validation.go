package services

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"shopcart/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	msgFieldRequired   = "This field is required."
	msgInvalidProduct  = "Invalid product data."
	msgInvalidCartItem = "Invalid cart item data."

	priceMaxDigits        = 10
	priceMaxDecimalPlaces = 2
)

// ProductInput is the writable part of a product, as received from clients.
// Stock and Description are optional; Price is checked by ValidateProductInput.
type ProductInput struct {
	Name           string           `json:"name" validate:"required,max=255"`
	Category       string           `json:"category" validate:"required,max=255"`
	Price          *decimal.Decimal `json:"price"`
	ImageThumbnail string           `json:"image_thumbnail" validate:"required,url,max=200"`
	ImageMobile    string           `json:"image_mobile" validate:"required,url,max=200"`
	ImageTablet    string           `json:"image_tablet" validate:"required,url,max=200"`
	ImageDesktop   string           `json:"image_desktop" validate:"required,url,max=200"`
	Stock          *int             `json:"stock"`
	Description    *string          `json:"description"`
}

// newValidator returns a validator that reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateProductInput checks in and returns a validation DomainError listing
// every violated field, or nil.
func ValidateProductInput(v *validator.Validate, in ProductInput) error {
	fields := make(map[string]string)

	if err := v.Struct(in); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("failed to validate product: %w", err)
		}
		for _, e := range validationErrors {
			fields[e.Field()] = tagMessage(e)
		}
	}

	switch {
	case in.Price == nil:
		fields["price"] = msgFieldRequired
	case in.Price.IsNegative():
		fields["price"] = "Ensure this value is greater than or equal to 0."
	case !in.Price.Equal(in.Price.Truncate(priceMaxDecimalPlaces)):
		fields["price"] = fmt.Sprintf("Ensure that there are no more than %d decimal places.", priceMaxDecimalPlaces)
	case len(in.Price.Truncate(0).String()) > priceMaxDigits-priceMaxDecimalPlaces:
		fields["price"] = fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.", priceMaxDigits-priceMaxDecimalPlaces)
	}

	stockInvalid := in.Stock != nil && *in.Stock < 0
	if stockInvalid {
		fields["stock"] = models.MsgStockNegative
	}

	if len(fields) == 0 {
		return nil
	}
	message := msgInvalidProduct
	if stockInvalid {
		message = models.MsgStockNegative
	}
	return models.NewValidationError(message, fields)
}

func tagMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return msgFieldRequired
	case "url":
		return "Enter a valid URL."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", e.Param())
	default:
		return fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
}

// ParseQuantity converts a decoded JSON value into a positive quantity.
// Integral numbers and numeric strings are accepted.
func ParseQuantity(raw interface{}) (int, error) {
	notInteger := models.NewValidationError(models.MsgQuantityNotInteger,
		map[string]string{"quantity": models.MsgQuantityNotInteger})

	var quantity int
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt32 || v < math.MinInt32 {
			return 0, notInteger
		}
		quantity = int(v)
	case int:
		quantity = v
	case json.Number:
		n, err := strconv.Atoi(v.String())
		if err != nil {
			return 0, notInteger
		}
		quantity = n
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, notInteger
		}
		quantity = n
	default:
		return 0, notInteger
	}

	if quantity <= 0 {
		return 0, models.NewValidationError(models.MsgQuantityNotPositive,
			map[string]string{"quantity": models.MsgQuantityNotPositive})
	}
	return quantity, nil
}
