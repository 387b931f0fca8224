package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product sort keys accepted by the catalog.
const (
	SortPriceLow    = "price-low"
	SortPriceHigh   = "price-high"
	SortRating      = "rating"
	SortNameAsc     = "name-asc"
	SortNameDesc    = "name-desc"
	SortNewArrivals = "new-arrivals"
)

// Product represents a sneaker in the store.
// Products are never hard-deleted; IsActive=false hides them from the storefront.
type Product struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name          string    `json:"name" gorm:"type:varchar(100);index" validate:"required,min=3,max=100"`
	Description   string    `json:"description" validate:"omitempty,max=1000"`
	Price         float64   `json:"price" validate:"required,gt=0"`
	OriginalPrice float64   `json:"original_price" validate:"gte=0"`
	Category      string    `json:"category" gorm:"type:varchar(100);index" validate:"required"`
	Brand         string    `json:"brand" gorm:"type:varchar(100);index"`
	Rating        float64   `json:"rating" validate:"gte=0,lte=5"`
	Reviews       int       `json:"reviews" validate:"gte=0"`
	Colors        []string  `json:"colors" gorm:"serializer:json"`
	ColorCodes    []string  `json:"color_codes" gorm:"serializer:json"`
	Sizes         []float64 `json:"sizes" gorm:"serializer:json"`
	Image         string    `json:"image"`
	Images        []string  `json:"images" gorm:"serializer:json"`
	Features      []string  `json:"features" gorm:"serializer:json"`
	Material      string    `json:"material"`
	Weight        string    `json:"weight"`
	Stock         int       `json:"stock" validate:"gte=0"`
	InStock       bool      `json:"in_stock"` // Cached Stock > 0, kept in sync on every write
	Trending      bool      `json:"trending"`
	IsNew         bool      `json:"new"`
	IsActive      bool      `json:"is_active" gorm:"index"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BeforeCreate assigns an ID when none is set.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// BeforeSave keeps InStock consistent with Stock.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.InStock = p.Stock > 0
	return nil
}

// Purchasable reports whether qty units of the product can be sold right now.
func (p *Product) Purchasable(qty int) bool {
	return p.IsActive && p.InStock && p.Stock >= qty
}

// ProductFilter drives the storefront listing pipeline.
type ProductFilter struct {
	Search   string
	Category string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
	Sort     string
}

// ProductSuggestion is the compact search-as-you-type payload.
type ProductSuggestion struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Brand string  `json:"brand"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}
