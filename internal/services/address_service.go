package services

import (
	"context"
	"strings"

	"sneakerhead/internal/models"
	"sneakerhead/internal/repositories"
	"sneakerhead/internal/validation"

	"github.com/go-playground/validator/v10"
)

// AddressInput is the address form.
type AddressInput struct {
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Phone        string `json:"phone" validate:"required,phone"`
	AddressLine1 string `json:"address_line1" validate:"required,max=200"`
	AddressLine2 string `json:"address_line2" validate:"omitempty,max=200"`
	City         string `json:"city" validate:"required,max=100"`
	State        string `json:"state" validate:"required,max=100"`
	ZipCode      string `json:"zip_code" validate:"required,max=20"`
	Country      string `json:"country" validate:"required,max=100"`
	IsDefault    bool   `json:"is_default"`
}

func (in *AddressInput) trim() {
	for _, f := range []*string{&in.Name, &in.Phone, &in.AddressLine1, &in.AddressLine2, &in.City, &in.State, &in.ZipCode, &in.Country} {
		*f = strings.TrimSpace(*f)
	}
}

func (in AddressInput) apply(a *models.Address) {
	a.Name = in.Name
	a.Phone = validation.NormalizePhone(in.Phone)
	a.AddressLine1 = in.AddressLine1
	a.AddressLine2 = in.AddressLine2
	a.City = in.City
	a.State = in.State
	a.ZipCode = in.ZipCode
	a.Country = in.Country
	a.IsDefault = in.IsDefault
}

// AddressService manages a user's address book.
type AddressService struct {
	repo     repositories.AddressRepository
	validate *validator.Validate
}

func NewAddressService(repo repositories.AddressRepository) *AddressService {
	return &AddressService{repo: repo, validate: validation.New()}
}

// List returns the default address first, then the rest oldest first.
func (s *AddressService) List(ctx context.Context, userID string) ([]models.Address, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Get returns an address owned by userID.
func (s *AddressService) Get(ctx context.Context, userID, id string) (*models.Address, error) {
	address, err := s.repo.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return address, nil
}

func (s *AddressService) Create(ctx context.Context, userID string, in AddressInput) (*models.Address, error) {
	in.trim()
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}
	address := &models.Address{UserID: userID}
	in.apply(address)
	if err := s.repo.Create(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *AddressService) Update(ctx context.Context, userID, id string, in AddressInput) (*models.Address, error) {
	in.trim()
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}
	address, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	in.apply(address)
	if err := s.repo.Update(ctx, address); err != nil {
		return nil, notFound(err)
	}
	return address, nil
}

func (s *AddressService) Delete(ctx context.Context, userID, id string) error {
	return notFound(s.repo.Delete(ctx, id, userID))
}

func (s *AddressService) SetDefault(ctx context.Context, userID, id string) (*models.Address, error) {
	address, err := s.repo.SetDefault(ctx, id, userID)
	if err != nil {
		return nil, notFound(err)
	}
	return address, nil
}
