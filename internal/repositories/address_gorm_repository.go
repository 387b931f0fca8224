package repositories

import (
	"context"
	"errors"
	"fmt"

	"sneakerhead/internal/models"

	"gorm.io/gorm"
)

// GORMAddressRepository is a GORM implementation of AddressRepository.
type GORMAddressRepository struct {
	db *gorm.DB
}

func NewGORMAddressRepository(db *gorm.DB) *GORMAddressRepository {
	return &GORMAddressRepository{db: db}
}

func (r *GORMAddressRepository) GetByUserID(ctx context.Context, userID string) ([]models.Address, error) {
	var addresses []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC, id ASC").
		Find(&addresses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get addresses: %w", err)
	}
	return addresses, nil
}

func (r *GORMAddressRepository) GetByID(ctx context.Context, id string) (*models.Address, error) {
	var address models.Address
	if err := r.db.WithContext(ctx).First(&address, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err, "address with ID %s", id)
	}
	return &address, nil
}

// GetForUser only matches an address owned by userID.
func (r *GORMAddressRepository) GetForUser(ctx context.Context, id, userID string) (*models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&address).Error
	if err != nil {
		return nil, wrapErr(err, "address with ID %s", id)
	}
	return &address, nil
}

func (r *GORMAddressRepository) GetDefault(ctx context.Context, userID string) (*models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).Where("user_id = ? AND is_default = ?", userID, true).First(&address).Error
	if err != nil {
		return nil, wrapErr(err, "default address for user %s", userID)
	}
	return &address, nil
}

// demoteOthers clears the default flag on every other address of userID.
func demoteOthers(tx *gorm.DB, userID, keepID string) error {
	q := tx.Model(&models.Address{}).Where("user_id = ? AND is_default = ?", userID, true)
	if keepID != "" {
		q = q.Where("id <> ?", keepID)
	}
	if err := q.Update("is_default", false).Error; err != nil {
		return fmt.Errorf("failed to demote default addresses: %w", err)
	}
	return nil
}

func (r *GORMAddressRepository) Create(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := demoteOthers(tx, address.UserID, ""); err != nil {
				return err
			}
		}
		if err := tx.Create(address).Error; err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}
		return nil
	})
}

// Update rewrites every address field of an address owned by address.UserID.
func (r *GORMAddressRepository) Update(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := demoteOthers(tx, address.UserID, address.ID); err != nil {
				return err
			}
		}
		res := tx.Model(&models.Address{}).
			Where("id = ? AND user_id = ?", address.ID, address.UserID).
			Select("name", "phone", "address_line1", "address_line2", "city", "state", "zip_code", "country", "is_default").
			Updates(address)
		if res.Error != nil {
			return fmt.Errorf("failed to update address: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("address with ID %s not found for update: %w", address.ID, ErrNotFound)
		}
		return nil
	})
}

// Delete removes the address. When it was the default, the oldest remaining
// address of the user becomes the new default.
func (r *GORMAddressRepository) Delete(ctx context.Context, id, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var address models.Address
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&address).Error; err != nil {
			return wrapErr(err, "address with ID %s", id)
		}
		if err := tx.Delete(&address).Error; err != nil {
			return fmt.Errorf("failed to delete address: %w", err)
		}
		if !address.IsDefault {
			return nil
		}

		var next models.Address
		err := tx.Where("user_id = ?", userID).Order("created_at ASC, id ASC").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to find replacement default: %w", err)
		}
		if err := tx.Model(&next).Update("is_default", true).Error; err != nil {
			return fmt.Errorf("failed to promote default address: %w", err)
		}
		return nil
	})
}

// SetDefault checks ownership before touching any other address.
func (r *GORMAddressRepository) SetDefault(ctx context.Context, id, userID string) (*models.Address, error) {
	var address models.Address
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&address).Error; err != nil {
			return wrapErr(err, "address with ID %s", id)
		}
		if err := demoteOthers(tx, userID, id); err != nil {
			return err
		}
		if err := tx.Model(&address).Update("is_default", true).Error; err != nil {
			return fmt.Errorf("failed to set default address: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *GORMAddressRepository) Count(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Address{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count addresses: %w", err)
	}
	return count, nil
}
