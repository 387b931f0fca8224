package services

import (
	"context"
	"strings"

	"sneakerhead/internal/models"
	"sneakerhead/internal/repositories"
	"sneakerhead/internal/validation"

	"github.com/go-playground/validator/v10"
)

// CategoryInput is the admin category form.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"required,max=500"`
	IsActive    *bool  `json:"is_active"`
}

// CategoryService manages product categories.
type CategoryService struct {
	repo     repositories.CategoryRepository
	validate *validator.Validate
}

func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo, validate: validation.New()}
}

func (s *CategoryService) ListActive(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListActive(ctx)
}

func (s *CategoryService) AdminList(ctx context.Context, search string, req models.PageRequest, pageSize int) (models.Page[models.Category], error) {
	req = req.Normalize(pageSize)
	categories, total, err := s.repo.AdminList(ctx, strings.TrimSpace(search), req)
	if err != nil {
		return models.Page[models.Category]{}, err
	}
	return models.NewPage(categories, total, req), nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return category, nil
}

// Create adds an active category. Names are unique case-insensitively.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByName(ctx, in.Name); err == nil {
		return nil, validation.NewError("name", "Category already exists")
	}
	category := &models.Category{Name: in.Name, Description: in.Description, IsActive: true}
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if other, err := s.repo.GetByName(ctx, in.Name); err == nil && other.ID != category.ID {
		return nil, validation.NewError("name", "Category already exists")
	}
	category.Name = in.Name
	category.Description = in.Description
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, notFound(err)
	}
	return category, nil
}

// Delete hides the category; it is never removed.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	return nil
}

func (s *CategoryService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
