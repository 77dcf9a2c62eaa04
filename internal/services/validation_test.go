package services

import (
	"encoding/json"
	"testing"

	"shopcart/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseInput() ProductInput {
	price := decimal.RequireFromString("10.00")
	return ProductInput{
		Name:           "Test Product",
		Category:       "Test Category",
		Price:          &price,
		ImageThumbnail: "http://example.com/thumbnail.jpg",
		ImageMobile:    "http://example.com/mobile.jpg",
		ImageTablet:    "http://example.com/tablet.jpg",
		ImageDesktop:   "http://example.com/desktop.jpg",
	}
}

func TestValidateProductInput(t *testing.T) {
	v := newValidator()
	negative := -1
	zero := 0

	tests := []struct {
		name    string
		mutate  func(*ProductInput)
		message string
		fields  map[string]string
	}{
		{name: "valid without stock", mutate: func(*ProductInput) {}},
		{name: "valid with zero stock", mutate: func(in *ProductInput) { in.Stock = &zero }},
		{
			name:    "negative stock",
			mutate:  func(in *ProductInput) { in.Stock = &negative },
			message: "Stock cannot be negative",
			fields:  map[string]string{"stock": "Stock cannot be negative"},
		},
		{
			name:    "missing name and price",
			mutate:  func(in *ProductInput) { in.Name = ""; in.Price = nil },
			message: msgInvalidProduct,
			fields:  map[string]string{"name": msgFieldRequired, "price": msgFieldRequired},
		},
		{
			name:    "bad url",
			mutate:  func(in *ProductInput) { in.ImageMobile = "not a url" },
			message: msgInvalidProduct,
			fields:  map[string]string{"image_mobile": "Enter a valid URL."},
		},
		{
			name: "negative price",
			mutate: func(in *ProductInput) {
				p := decimal.RequireFromString("-0.01")
				in.Price = &p
			},
			message: msgInvalidProduct,
			fields:  map[string]string{"price": "Ensure this value is greater than or equal to 0."},
		},
		{
			name: "too many decimal places",
			mutate: func(in *ProductInput) {
				p := decimal.RequireFromString("1.005")
				in.Price = &p
			},
			message: msgInvalidProduct,
			fields:  map[string]string{"price": "Ensure that there are no more than 2 decimal places."},
		},
		{
			name: "too many integer digits",
			mutate: func(in *ProductInput) {
				p := decimal.RequireFromString("123456789")
				in.Price = &p
			},
			message: msgInvalidProduct,
			fields:  map[string]string{"price": "Ensure that there are no more than 8 digits before the decimal point."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			tt.mutate(&in)

			err := ValidateProductInput(v, in)
			if tt.message == "" {
				assert.NoError(t, err)
				return
			}
			de, ok := models.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, models.KindValidation, de.Kind)
			assert.Equal(t, tt.message, de.Message)
			assert.Equal(t, tt.fields, de.Fields)
		})
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name    string
		raw     interface{}
		want    int
		message string
	}{
		{name: "json number", raw: float64(3), want: 3},
		{name: "numeric string", raw: " 7 ", want: 7},
		{name: "json.Number", raw: json.Number("4"), want: 4},
		{name: "fraction", raw: 2.5, message: models.MsgQuantityNotInteger},
		{name: "word", raw: "two", message: models.MsgQuantityNotInteger},
		{name: "missing", raw: nil, message: models.MsgQuantityNotInteger},
		{name: "bool", raw: true, message: models.MsgQuantityNotInteger},
		{name: "zero", raw: float64(0), message: models.MsgQuantityNotPositive},
		{name: "negative string", raw: "-3", message: models.MsgQuantityNotPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuantity(tt.raw)
			if tt.message == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}
