package handlers

import "shopcart/internal/models"

// ProductResponse is the JSON representation of a product.
type ProductResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Price          string  `json:"price"`
	ImageThumbnail string  `json:"image_thumbnail"`
	ImageMobile    string  `json:"image_mobile"`
	ImageTablet    string  `json:"image_tablet"`
	ImageDesktop   string  `json:"image_desktop"`
	Stock          int     `json:"stock"`
	Description    *string `json:"description"`
	IsInStock      bool    `json:"is_in_stock"`
}

// CartItemResponse is the JSON representation of a cart item.
type CartItemResponse struct {
	ID         string          `json:"id"`
	Product    ProductResponse `json:"product"`
	Quantity   int             `json:"quantity"`
	TotalPrice string          `json:"total_price"`
}

func newProductResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Category:       p.Category,
		Price:          p.Price.StringFixed(2),
		ImageThumbnail: p.ImageThumbnail,
		ImageMobile:    p.ImageMobile,
		ImageTablet:    p.ImageTablet,
		ImageDesktop:   p.ImageDesktop,
		Stock:          p.Stock,
		Description:    p.Description,
		IsInStock:      p.IsInStock(),
	}
}

func newCartItemResponse(i models.CartItem) CartItemResponse {
	return CartItemResponse{
		ID:         i.ID,
		Product:    newProductResponse(i.Product),
		Quantity:   i.Quantity,
		TotalPrice: i.TotalPrice().StringFixed(2),
	}
}
