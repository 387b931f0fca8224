package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultProfileImage is used for accounts without an uploaded avatar.
const DefaultProfileImage = "/images/default-avatar.svg"

// User represents a customer or an administrator.
type User struct {
	ID            string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name          string     `json:"name" gorm:"type:varchar(50)"`
	Email         string     `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	Password      string     `json:"-" gorm:"type:varchar(255)"`
	Phone         string     `json:"phone" gorm:"type:varchar(32)"`
	ProfileImage  string     `json:"profile_image"`
	DateOfBirth   *time.Time `json:"date_of_birth"`
	Gender        string     `json:"gender" gorm:"type:varchar(16)"`
	IsActive      bool       `json:"is_active" gorm:"index"`
	IsAdmin       bool       `json:"is_admin" gorm:"index"`
	EmailVerified bool       `json:"email_verified"`
	LastLogin     *time.Time `json:"last_login"`
	LoginCount    int        `json:"login_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// SessionUser is the explicit allow-list of user fields carried in the session.
// It never contains credentials.
type SessionUser struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	ProfileImage  string     `json:"profile_image"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	Gender        string     `json:"gender,omitempty"`
	IsActive      bool       `json:"is_active"`
	IsAdmin       bool       `json:"is_admin"`
	EmailVerified bool       `json:"email_verified"`
	LoginTime     time.Time  `json:"login_time"`
	LoginCount    int        `json:"login_count"`
}

// NewSessionUser copies the session allow-list out of u.
func NewSessionUser(u *User, loginTime time.Time) SessionUser {
	image := u.ProfileImage
	if image == "" {
		image = DefaultProfileImage
	}
	return SessionUser{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		ProfileImage:  image,
		DateOfBirth:   u.DateOfBirth,
		Gender:        u.Gender,
		IsActive:      u.IsActive,
		IsAdmin:       u.IsAdmin,
		EmailVerified: u.EmailVerified,
		LoginTime:     loginTime,
		LoginCount:    u.LoginCount,
	}
}
