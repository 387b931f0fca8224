package repositories

import (
	"context"
	"fmt"

	"sneakerhead/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.id ASC")
	})
}

func orderOrder(sortBy string) string {
	switch sortBy {
	case models.OrderSortTotal:
		return "total DESC, created_at DESC, id ASC"
	case models.OrderSortStatus:
		return "status ASC, created_at DESC, id ASC"
	default:
		return "created_at DESC, id ASC"
	}
}

func (r *GORMOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).Scopes(withItems).Order("created_at DESC, id ASC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Scopes(withItems).First(&order, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err, "order with ID %s", id)
	}
	return &order, nil
}

// GetForUser only matches an order owned by userID.
func (r *GORMOrderRepository) GetForUser(ctx context.Context, id, userID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Scopes(withItems).
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		return nil, wrapErr(err, "order with ID %s", id)
	}
	return &order, nil
}

// Create inserts the order together with its items.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id string, expected []models.OrderStatus, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status IN ?", id, expected).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s: %w", id, ErrConflict)
	}
	return nil
}

// List filters by owner, status and a free-text search over the order
// number, the shipping name and the status.
func (r *GORMOrderRepository) List(ctx context.Context, filter models.OrderFilter, page models.PageRequest) ([]models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where(
			"LOWER(order_number) LIKE ? OR LOWER(shipping_name) LIKE ? OR LOWER(status) LIKE ?",
			p, p, p,
		)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}
	var orders []models.Order
	err := q.Scopes(withItems).Order(orderOrder(filter.SortBy)).Scopes(paginate(page)).Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

func (r *GORMOrderRepository) Recent(ctx context.Context, userID string, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Scopes(withItems).
		Where("user_id = ?", userID).
		Order("created_at DESC, id ASC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get recent orders: %w", err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// Stats counts orders per status; revenue only includes delivered orders.
func (r *GORMOrderRepository) Stats(ctx context.Context) (*models.OrderStats, error) {
	var rows []struct {
		Status models.OrderStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate orders: %w", err)
	}

	stats := &models.OrderStats{ByStatus: make(map[models.OrderStatus]int64, len(models.OrderStatuses))}
	for _, s := range models.OrderStatuses {
		stats.ByStatus[s] = 0
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
	}

	err = r.db.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0)").
		Where("status = ?", models.OrderStatusDelivered).
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return stats, nil
}

// NextSequence bumps and returns the per-year order counter. The first call
// for a year returns 1.
func (r *GORMOrderRepository) NextSequence(ctx context.Context, year int) (int, error) {
	seq := models.OrderSequence{Year: year, Value: 1}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "year"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value": gorm.Expr("order_sequences.value + 1"),
		}),
	}).Create(&seq).Error
	if err != nil {
		return 0, fmt.Errorf("failed to bump order sequence: %w", err)
	}
	if err := r.db.WithContext(ctx).First(&seq, "year = ?", year).Error; err != nil {
		return 0, wrapErr(err, "order sequence for %d", year)
	}
	return seq.Value, nil
}
