package repositories

import (
	"context"
	"time"

	"sneakerhead/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	RecordLogin(ctx context.Context, id string, at time.Time) (*models.User, error)
	ToggleActive(ctx context.Context, id string) (*models.User, error)
	ListCustomers(ctx context.Context, search string, page models.PageRequest) ([]models.User, int64, error)
	CountCustomers(ctx context.Context) (total, active int64, err error)
}
