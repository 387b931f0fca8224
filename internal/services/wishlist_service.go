package services

import (
	"context"

	"sneakerhead/internal/models"
	"sneakerhead/internal/repositories"
)

// WishlistLine is a saved product.
type WishlistLine struct {
	models.WishlistItem
	Product *models.Product `json:"product"`
}

// WishlistService keeps the per-user set of saved products.
type WishlistService struct {
	store *repositories.Store
	cart  *CartService
}

func NewWishlistService(store *repositories.Store, cart *CartService) *WishlistService {
	return &WishlistService{store: store, cart: cart}
}

// Add saves an active product; adding it twice is not an error.
func (s *WishlistService) Add(ctx context.Context, userID, productID string) (bool, error) {
	product, err := s.store.Products.GetByID(ctx, productID)
	if err != nil {
		return false, notFound(err)
	}
	if !product.IsActive {
		return false, &StockError{ProductID: product.ID, ProductName: product.Name, Err: ErrProductUnavailable}
	}
	return s.store.Wishlists.Add(ctx, userID, productID)
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID string) error {
	removed, err := s.store.Wishlists.Remove(ctx, userID, productID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

// List returns saved products, newest first. Vanished products are skipped.
func (s *WishlistService) List(ctx context.Context, userID string) ([]WishlistLine, error) {
	items, err := s.store.Wishlists.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.store.Products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]WishlistLine, 0, len(items))
	for _, item := range items {
		if p, ok := products[item.ProductID]; ok {
			out = append(out, WishlistLine{WishlistItem: item, Product: &p})
		}
	}
	return out, nil
}

// MoveToCart adds one unit to the cart; the cart drops the wishlist entry.
func (s *WishlistService) MoveToCart(ctx context.Context, userID, productID string) (*CartSummary, error) {
	exists, err := s.store.Wishlists.Exists(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	return s.cart.Add(ctx, userID, productID, 1)
}
