package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sneakerhead/internal/models"
	"sneakerhead/internal/repositories"
	"sneakerhead/internal/validation"

	"github.com/go-playground/validator/v10"
)

const (
	homeFeaturedCount = 4
	relatedLimit      = 4
	suggestionLimit   = 5
	minSuggestQuery   = 2
)

// HomeView is the storefront landing content.
type HomeView struct {
	Featured []models.Product `json:"featured"`
	Trending []models.Product `json:"trending"`
	New      []models.Product `json:"new"`
}

// ProductDetail is a product page: the product and its related items.
type ProductDetail struct {
	Product *models.Product  `json:"product"`
	Related []models.Product `json:"related"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo     repositories.ProductRepository
	validate *validator.Validate
	pageSize int
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, pageSize int) *ProductService {
	return &ProductService{
		repo:     repo,
		validate: validation.New(),
		pageSize: pageSize,
	}
}

func notFound(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// List runs the catalog pipeline and pages the result.
func (s *ProductService) List(ctx context.Context, filter models.ProductFilter, req models.PageRequest) (models.Page[models.Product], error) {
	req = req.Normalize(s.pageSize)
	products, total, err := s.repo.List(ctx, filter, req)
	if err != nil {
		return models.Page[models.Product]{}, err
	}
	return models.NewPage(products, total, req), nil
}

// Home returns the first few active products plus the trending and new ones.
func (s *ProductService) Home(ctx context.Context) (*HomeView, error) {
	featured, err := s.repo.ListActive(ctx, homeFeaturedCount)
	if err != nil {
		return nil, err
	}
	trending, err := s.repo.ListTrending(ctx)
	if err != nil {
		return nil, err
	}
	fresh, err := s.repo.ListNew(ctx)
	if err != nil {
		return nil, err
	}
	return &HomeView{Featured: featured, Trending: trending, New: fresh}, nil
}

// Brands lists the distinct brands on sale.
func (s *ProductService) Brands(ctx context.Context) ([]string, error) {
	return s.repo.Brands(ctx)
}

// GetProductByID retrieves a product for admin use, active or not.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return product, nil
}

// Get retrieves an active product for the storefront.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrNotFound
	}
	return product, nil
}

// Detail is Get plus related products from the same category.
func (s *ProductService) Detail(ctx context.Context, id string) (*ProductDetail, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	related, err := s.repo.Related(ctx, product.ID, product.Category, relatedLimit)
	if err != nil {
		return nil, err
	}
	return &ProductDetail{Product: product, Related: related}, nil
}

// Suggest returns compact matches for search-as-you-type.
func (s *ProductService) Suggest(ctx context.Context, query string) ([]models.ProductSuggestion, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minSuggestQuery {
		return []models.ProductSuggestion{}, nil
	}
	products, err := s.repo.Search(ctx, query, suggestionLimit)
	if err != nil {
		return nil, err
	}
	out := make([]models.ProductSuggestion, 0, len(products))
	for _, p := range products {
		out = append(out, models.ProductSuggestion{ID: p.ID, Name: p.Name, Brand: p.Brand, Price: p.Price, Image: p.Image})
	}
	return out, nil
}

// AdminList pages over every product, active or not.
func (s *ProductService) AdminList(ctx context.Context, search string, req models.PageRequest, pageSize int) (models.Page[models.Product], error) {
	req = req.Normalize(pageSize)
	products, total, err := s.repo.AdminList(ctx, strings.TrimSpace(search), req)
	if err != nil {
		return models.Page[models.Product]{}, err
	}
	return models.NewPage(products, total, req), nil
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// CreateProduct validates and stores a new product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	product.Category = strings.TrimSpace(product.Category)
	if err := validation.Struct(s.validate, product); err != nil {
		return err
	}
	product.ID = ""
	product.IsActive = true
	product.InStock = product.Stock > 0
	if product.Image == "" && len(product.Images) > 0 {
		product.Image = product.Images[0]
	}
	return s.repo.Create(ctx, product)
}

// UpdateProduct overwrites an existing product with the given fields.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, product *models.Product) (*models.Product, error) {
	existing, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Name = strings.TrimSpace(product.Name)
	product.Category = strings.TrimSpace(product.Category)
	if err := validation.Struct(s.validate, product); err != nil {
		return nil, err
	}
	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt
	product.IsActive = existing.IsActive
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, notFound(err)
	}
	return product, nil
}

// ToggleStatus flips a product between active and hidden.
func (s *ProductService) ToggleStatus(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.ToggleActive(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return product, nil
}

// DeleteProduct soft-deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", notFound(err))
	}
	return nil
}

// Counts returns the number of all and of active products.
func (s *ProductService) Counts(ctx context.Context) (int64, int64, error) {
	return s.repo.Count(ctx)
}
