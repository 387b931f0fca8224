package repositories

import (
	"context"
	"fmt"
	"time"

	"sneakerhead/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

func (r *GORMCartRepository) GetByUserID(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	return items, nil
}

func (r *GORMCartRepository) GetItem(ctx context.Context, userID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		return nil, wrapErr(err, "cart item for product %s", productID)
	}
	return &item, nil
}

// AddItem inserts the line or adds qty onto the existing one in a single upsert.
func (r *GORMCartRepository) AddItem(ctx context.Context, userID, productID string, qty int) (*models.CartItem, error) {
	item := models.CartItem{UserID: userID, ProductID: productID, Quantity: qty}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + ?", qty),
			"updated_at": time.Now(),
		}),
	}).Create(&item).Error
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}
	return r.GetItem(ctx, userID, productID)
}

// UpdateQuantity sets the line's quantity; qty <= 0 removes it and returns a nil item.
func (r *GORMCartRepository) UpdateQuantity(ctx context.Context, userID, productID string, qty int) (*models.CartItem, error) {
	if qty <= 0 {
		return nil, r.RemoveItem(ctx, userID, productID)
	}
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", qty)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("cart item for product %s: %w", productID, ErrNotFound)
	}
	return r.GetItem(ctx, userID, productID)
}

func (r *GORMCartRepository) RemoveItem(ctx context.Context, userID, productID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item for product %s: %w", productID, ErrNotFound)
	}
	return nil
}

// Clear empties the cart and reports how many lines were dropped.
func (r *GORMCartRepository) Clear(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Count sums quantities across every line. An empty user ID counts as zero.
func (r *GORMCartRepository) Count(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("user_id = ?", userID).
		Scan(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count cart items: %w", err)
	}
	return int(count), nil
}

// Total is sum(price * quantity) over lines whose product is still active.
func (r *GORMCartRepository) Total(ctx context.Context, userID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Select("COALESCE(SUM(products.price * cart_items.quantity), 0)").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ? AND products.is_active = ?", userID, true).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute cart total: %w", err)
	}
	return total, nil
}

// GORMWishlistRepository is a GORM implementation of WishlistRepository.
type GORMWishlistRepository struct {
	db *gorm.DB
}

func NewGORMWishlistRepository(db *gorm.DB) *GORMWishlistRepository {
	return &GORMWishlistRepository{db: db}
}

func (r *GORMWishlistRepository) GetByUserID(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist: %w", err)
	}
	return items, nil
}

// Add is idempotent; created is false when the product was already saved.
func (r *GORMWishlistRepository) Add(ctx context.Context, userID, productID string) (bool, error) {
	item := models.WishlistItem{UserID: userID, ProductID: productID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&item)
	if res.Error != nil {
		return false, fmt.Errorf("failed to add wishlist item: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GORMWishlistRepository) Remove(ctx context.Context, userID, productID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to remove wishlist item: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GORMWishlistRepository) Exists(ctx context.Context, userID, productID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check wishlist: %w", err)
	}
	return count > 0, nil
}
