package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address is a saved shipping address. At most one address per user is the default.
type Address struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID       string    `json:"user_id" gorm:"type:varchar(36);index"`
	Name         string    `json:"name" validate:"required,min=2,max=100"`
	Phone        string    `json:"phone" validate:"required,phone"`
	AddressLine1 string    `json:"address_line1" validate:"required,max=200"`
	AddressLine2 string    `json:"address_line2" validate:"omitempty,max=200"`
	City         string    `json:"city" validate:"required,max=100"`
	State        string    `json:"state" validate:"required,max=100"`
	ZipCode      string    `json:"zip_code" validate:"required,max=20"`
	Country      string    `json:"country" validate:"required,max=100"`
	IsDefault    bool      `json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// Snapshot copies the shipping fields for embedding in an order.
func (a *Address) Snapshot() ShippingAddress {
	return ShippingAddress{
		Name:         a.Name,
		Phone:        a.Phone,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		ZipCode:      a.ZipCode,
		Country:      a.Country,
	}
}

// ShippingAddress is the point-in-time address copy stored on an order.
type ShippingAddress struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
	Country      string `json:"country"`
}
