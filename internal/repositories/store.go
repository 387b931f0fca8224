package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles every repository over a single connection or transaction.
type Store struct {
	db *gorm.DB

	Products   ProductRepository
	Categories CategoryRepository
	Users      UserRepository
	Carts      CartRepository
	Wishlists  WishlistRepository
	Addresses  AddressRepository
	Orders     OrderRepository
}

// NewStore wires the GORM repositories over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Products:   NewGORMProductRepository(db),
		Categories: NewGORMCategoryRepository(db),
		Users:      NewGORMUserRepository(db),
		Carts:      NewGORMCartRepository(db),
		Wishlists:  NewGORMWishlistRepository(db),
		Addresses:  NewGORMAddressRepository(db),
		Orders:     NewGORMOrderRepository(db),
	}
}

// Transaction runs fn with a Store bound to one database transaction.
// Returning an error from fn rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
