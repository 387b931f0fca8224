package repositories

import (
	"context"
	"fmt"
	"strings"

	"sneakerhead/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// likePattern lower-cases term and wraps it for a substring LIKE match.
func likePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}

// searchScope matches name, brand, description or category.
func searchScope(query string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		p := likePattern(query)
		return db.Where(
			"LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?",
			p, p, p, p,
		)
	}
}

func activeScope(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

func paginate(page models.PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		limit := page.Limit
		if limit > models.MaxPageLimit {
			limit = models.MaxPageLimit
		}
		offset, ok := page.Offset()
		if !ok {
			return db.Where("1 = 0")
		}
		return db.Offset(offset).Limit(limit)
	}
}

// productOrder maps a catalog sort key to an ORDER BY clause.
// Ties fall back to creation time and then id.
func productOrder(sort string) string {
	switch sort {
	case models.SortPriceLow:
		return "price ASC, created_at ASC, id ASC"
	case models.SortPriceHigh:
		return "price DESC, created_at ASC, id ASC"
	case models.SortRating:
		return "rating DESC, created_at ASC, id ASC"
	case models.SortNameAsc:
		return "LOWER(name) ASC, id ASC"
	case models.SortNameDesc:
		return "LOWER(name) DESC, id ASC"
	case models.SortNewArrivals:
		return "created_at DESC, id ASC"
	default:
		return "created_at ASC, id ASC"
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err, "product with ID %s", id)
	}
	return &product, nil
}

// GetByIDs loads the given products keyed by ID. Missing IDs are absent from the map.
func (r *GORMProductRepository) GetByIDs(ctx context.Context, ids []string) (map[string]models.Product, error) {
	out := make(map[string]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products by IDs: %w", err)
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update overwrites every editable column of an existing product.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	product.InStock = product.Stock > 0
	res := r.db.WithContext(ctx).Model(product).Select("*").Omit("id", "created_at").Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for update: %w", product.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMProductRepository) setActive(ctx context.Context, id string, active func(current bool) bool) (*models.Product, error) {
	var product *models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Product
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			return wrapErr(err, "product with ID %s", id)
		}
		p.IsActive = active(p.IsActive)
		if err := tx.Model(&p).Update("is_active", p.IsActive).Error; err != nil {
			return fmt.Errorf("failed to update product status: %w", err)
		}
		product = &p
		return nil
	})
	return product, err
}

// Delete soft-deletes a product by marking it inactive.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) (*models.Product, error) {
	return r.setActive(ctx, id, func(bool) bool { return false })
}

// ToggleActive flips the product's IsActive flag.
func (r *GORMProductRepository) ToggleActive(ctx context.Context, id string) (*models.Product, error) {
	return r.setActive(ctx, id, func(current bool) bool { return !current })
}

// List runs the storefront pipeline: active only, search, category, price range,
// brand, sort, then pagination.
func (r *GORMProductRepository) List(ctx context.Context, filter models.ProductFilter, page models.PageRequest) ([]models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{}).Scopes(activeScope)
	if filter.Search != "" {
		q = q.Scopes(searchScope(filter.Search))
	}
	if filter.Category != "" && !strings.EqualFold(filter.Category, "all") {
		q = q.Where("LOWER(category) = ?", strings.ToLower(filter.Category))
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Brand != "" {
		q = q.Where("LOWER(brand) = ?", strings.ToLower(filter.Brand))
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	if err := q.Order(productOrder(filter.Sort)).Scopes(paginate(page)).Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// AdminList lists active and inactive products, newest first.
func (r *GORMProductRepository) AdminList(ctx context.Context, search string, page models.PageRequest) ([]models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if search != "" {
		q = q.Scopes(searchScope(search))
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}
	var products []models.Product
	if err := q.Order("created_at DESC, id ASC").Scopes(paginate(page)).Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// ListActive returns up to limit active products; limit <= 0 means all.
func (r *GORMProductRepository) ListActive(ctx context.Context, limit int) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Scopes(activeScope).Order("created_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list active products: %w", err)
	}
	return products, nil
}

func (r *GORMProductRepository) listFlag(ctx context.Context, column string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Scopes(activeScope).
		Where(column+" = ?", true).
		Order("created_at ASC, id ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s products: %w", column, err)
	}
	return products, nil
}

// ListTrending returns active products flagged trending.
func (r *GORMProductRepository) ListTrending(ctx context.Context) ([]models.Product, error) {
	return r.listFlag(ctx, "trending")
}

// ListNew returns active products flagged new.
func (r *GORMProductRepository) ListNew(ctx context.Context) ([]models.Product, error) {
	return r.listFlag(ctx, "is_new")
}

// Related returns other active products of the same category.
func (r *GORMProductRepository) Related(ctx context.Context, productID, category string, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Scopes(activeScope).
		Where("id <> ? AND category = ?", productID, category).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get related products: %w", err)
	}
	return products, nil
}

// Search matches active products; limit <= 0 means all matches.
func (r *GORMProductRepository) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Scopes(activeScope, searchScope(query)).Order("created_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// Brands returns the distinct brands of active products.
func (r *GORMProductRepository) Brands(ctx context.Context) ([]string, error) {
	var brands []string
	err := r.db.WithContext(ctx).Model(&models.Product{}).Scopes(activeScope).
		Where("brand <> ?", "").
		Distinct().Order("brand ASC").
		Pluck("brand", &brands).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get brands: %w", err)
	}
	return brands, nil
}

// Count returns the number of all and of active products.
func (r *GORMProductRepository) Count(ctx context.Context) (int64, int64, error) {
	var total, active int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count products: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Scopes(activeScope).Count(&active).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count active products: %w", err)
	}
	return total, active, nil
}

// DecrementStock removes qty units in a single conditional update. It returns
// ErrConflict when the product is inactive or has fewer than qty units left.
func (r *GORMProductRepository) DecrementStock(ctx context.Context, id string, qty int) error {
	res := r.db.WithContext(ctx).Session(&gorm.Session{SkipHooks: true}).
		Model(&models.Product{}).
		Where("id = ? AND is_active = ? AND stock >= ?", id, true, qty).
		Updates(map[string]interface{}{
			"stock":    gorm.Expr("stock - ?", qty),
			"in_stock": gorm.Expr("stock - ? > 0", qty),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock for product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("stock for product %s: %w", id, ErrConflict)
	}
	return nil
}

// RestoreStock puts qty units back on the shelf.
func (r *GORMProductRepository) RestoreStock(ctx context.Context, id string, qty int) error {
	res := r.db.WithContext(ctx).Session(&gorm.Session{SkipHooks: true}).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock":    gorm.Expr("stock + ?", qty),
			"in_stock": true,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to restore stock for product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for stock restore: %w", id, ErrNotFound)
	}
	return nil
}
