package repositories

import (
	"context"

	"sneakerhead/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) (*models.Product, error) // soft delete
	ToggleActive(ctx context.Context, id string) (*models.Product, error)

	List(ctx context.Context, filter models.ProductFilter, page models.PageRequest) ([]models.Product, int64, error)
	AdminList(ctx context.Context, search string, page models.PageRequest) ([]models.Product, int64, error)
	ListActive(ctx context.Context, limit int) ([]models.Product, error)
	ListTrending(ctx context.Context) ([]models.Product, error)
	ListNew(ctx context.Context) ([]models.Product, error)
	Related(ctx context.Context, productID, category string, limit int) ([]models.Product, error)
	Search(ctx context.Context, query string, limit int) ([]models.Product, error)
	Brands(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (total, active int64, err error)

	DecrementStock(ctx context.Context, id string, qty int) error
	RestoreStock(ctx context.Context, id string, qty int) error
}
