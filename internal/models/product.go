package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog entry that can be placed into the cart.
type Product struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name           string          `json:"name" gorm:"type:varchar(255);not null;index"`
	Category       string          `json:"category" gorm:"type:varchar(255);not null"`
	Price          decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	ImageThumbnail string          `json:"image_thumbnail" gorm:"type:varchar(200)"`
	ImageMobile    string          `json:"image_mobile" gorm:"type:varchar(200)"`
	ImageTablet    string          `json:"image_tablet" gorm:"type:varchar(200)"`
	ImageDesktop   string          `json:"image_desktop" gorm:"type:varchar(200)"`
	Stock          int             `json:"stock" gorm:"not null;default:0"`
	Description    *string         `json:"description"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// IsInStock reports whether at least one unit is available.
func (p Product) IsInStock() bool {
	return p.Stock > 0
}
