package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sneakerhead/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{db: db}
}

// Create creates a new user in the database. Emails are stored lower-cased.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by email address, case-insensitively.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, wrapErr(err, "user with email %s", email)
	}
	return &user, nil
}

// GetByID retrieves a user by ID.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err, "user with ID %s", id)
	}
	return &user, nil
}

// Update writes the editable profile fields.
func (r *GORMUserRepository) Update(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).Model(user).
		Select("name", "phone", "profile_image", "date_of_birth", "gender").
		Updates(user)
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s not found for update: %w", user.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMUserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return fmt.Errorf("failed to update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// RecordLogin stamps last_login and bumps login_count, returning the fresh row.
func (r *GORMUserRepository) RecordLogin(ctx context.Context, id string, at time.Time) (*models.User, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_login":  at,
			"login_count": gorm.Expr("login_count + 1"),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to record login: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

// ToggleActive flips is_active on a customer account. Admin accounts are not matched.
func (r *GORMUserRepository) ToggleActive(ctx context.Context, id string) (*models.User, error) {
	var user *models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Where("id = ? AND is_admin = ?", id, false).First(&u).Error; err != nil {
			return wrapErr(err, "customer with ID %s", id)
		}
		u.IsActive = !u.IsActive
		if err := tx.Model(&u).Update("is_active", u.IsActive).Error; err != nil {
			return fmt.Errorf("failed to update user status: %w", err)
		}
		user = &u
		return nil
	})
	return user, err
}

// ListCustomers pages over non-admin users, newest first.
func (r *GORMUserRepository) ListCustomers(ctx context.Context, search string, page models.PageRequest) ([]models.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.User{}).Where("is_admin = ?", false)
	if search != "" {
		p := likePattern(search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", p, p, p)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}
	var users []models.User
	if err := q.Order("created_at DESC, id ASC").Scopes(paginate(page)).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (r *GORMUserRepository) CountCustomers(ctx context.Context) (int64, int64, error) {
	var total, active int64
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.User{}).Where("is_admin = ?", false)
	}
	if err := base().Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count users: %w", err)
	}
	if err := base().Where("is_active = ?", true).Count(&active).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count active users: %w", err)
	}
	return total, active, nil
}
