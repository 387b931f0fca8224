package repositories

import (
	"context"

	"sneakerhead/internal/models"
)

// AddressRepository defines the interface for address book access.
// Every write keeps at most one default address per user.
type AddressRepository interface {
	GetByUserID(ctx context.Context, userID string) ([]models.Address, error)
	GetByID(ctx context.Context, id string) (*models.Address, error)
	GetForUser(ctx context.Context, id, userID string) (*models.Address, error)
	GetDefault(ctx context.Context, userID string) (*models.Address, error)
	Create(ctx context.Context, address *models.Address) error
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, id, userID string) error
	SetDefault(ctx context.Context, id, userID string) (*models.Address, error)
	Count(ctx context.Context, userID string) (int64, error)
}
