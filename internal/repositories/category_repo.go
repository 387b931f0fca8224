package repositories

import (
	"context"

	"sneakerhead/internal/models"
)

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]models.Category, error)
	ListActive(ctx context.Context) ([]models.Category, error)
	AdminList(ctx context.Context, search string, page models.PageRequest) ([]models.Category, int64, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) (*models.Category, error) // soft delete
	Count(ctx context.Context) (int64, error)
}
