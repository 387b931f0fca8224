package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem is one line of a user's cart. (UserID, ProductID) is unique.
type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);uniqueIndex:idx_cart_user_product"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);uniqueIndex:idx_cart_user_product"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// CartLine is a cart item joined with its live product.
type CartLine struct {
	CartItem
	Product     *Product `json:"product"`
	Subtotal    float64  `json:"subtotal"`
	IsAvailable bool     `json:"is_available"`
}

// CartView is the full cart as shown to the user.
// MissingProductIDs lists cart items whose product row no longer exists;
// those items are left out of Items.
type CartView struct {
	Items             []CartLine `json:"items"`
	CartTotal         float64    `json:"cart_total"`
	CartCount         int        `json:"cart_count"`
	MissingProductIDs []string   `json:"-"`
}

// WishlistItem marks a product saved for later. (UserID, ProductID) is unique.
type WishlistItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);uniqueIndex:idx_wishlist_user_product"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);uniqueIndex:idx_wishlist_user_product"`
	CreatedAt time.Time `json:"created_at"`
}

func (w *WishlistItem) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return nil
}
