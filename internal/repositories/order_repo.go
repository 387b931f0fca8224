package repositories

import (
	"context"

	"sneakerhead/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetForUser(ctx context.Context, id, userID string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	// UpdateStatus applies updates only while the order is still in one of
	// the expected statuses and returns ErrConflict otherwise.
	UpdateStatus(ctx context.Context, id string, expected []models.OrderStatus, updates map[string]interface{}) error
	List(ctx context.Context, filter models.OrderFilter, page models.PageRequest) ([]models.Order, int64, error)
	Recent(ctx context.Context, userID string, limit int) ([]models.Order, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	Stats(ctx context.Context) (*models.OrderStats, error)
	NextSequence(ctx context.Context, year int) (int, error)
}
