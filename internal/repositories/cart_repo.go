package repositories

import (
	"context"

	"sneakerhead/internal/models"
)

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	GetByUserID(ctx context.Context, userID string) ([]models.CartItem, error)
	GetItem(ctx context.Context, userID, productID string) (*models.CartItem, error)
	AddItem(ctx context.Context, userID, productID string, qty int) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, productID string, qty int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) (int64, error)
	Count(ctx context.Context, userID string) (int, error)
	Total(ctx context.Context, userID string) (float64, error)
}

// WishlistRepository defines the interface for wishlist data access.
type WishlistRepository interface {
	GetByUserID(ctx context.Context, userID string) ([]models.WishlistItem, error)
	Add(ctx context.Context, userID, productID string) (created bool, err error)
	Remove(ctx context.Context, userID, productID string) (removed bool, err error)
	Exists(ctx context.Context, userID, productID string) (bool, error)
}
