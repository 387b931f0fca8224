package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sneakerhead/internal/models"
	"sneakerhead/internal/repositories"
	"sneakerhead/internal/validation"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SignupInput is the registration form.
type SignupInput struct {
	Name            string `json:"name" validate:"required,min=2,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"omitempty,phone"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"omitempty,eqfield=Password"`
}

// ProfileInput holds the editable profile fields.
type ProfileInput struct {
	Name        string     `json:"name" validate:"required,min=2,max=50"`
	Phone       string     `json:"phone" validate:"omitempty,phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      string     `json:"gender" validate:"omitempty,oneof=male female other"`
}

// ChangePasswordInput is the password change form.
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// Session is an authenticated user plus the signed token carrying it.
type Session struct {
	User  models.SessionUser `json:"user"`
	Token string             `json:"-"`
}

type sessionClaims struct {
	User models.SessionUser `json:"user"`
	jwt.StandardClaims
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	validate  *validator.Validate
	log       *zap.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		validate:  validation.New(),
		log:       log,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Register creates a customer account and opens a session for it.
func (s *AuthService) Register(ctx context.Context, in SignupInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := s.now()
	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		Password:     hashed,
		Phone:        validation.NormalizePhone(in.Phone),
		ProfileImage: models.DefaultProfileImage,
		IsActive:     true,
		LastLogin:    &now,
		LoginCount:   1,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	s.log.Info("user registered", zap.String("user_id", user.ID))
	return s.newSession(user)
}

// authenticate checks, in order: known email, active account, matching password.
func (s *AuthService) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, validation.NewError("email", "Email and password are required")
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) login(ctx context.Context, user *models.User) (*Session, error) {
	updated, err := s.userRepo.RecordLogin(ctx, user.ID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	return s.newSession(updated)
}

// Login authenticates a customer. Admin accounts are refused here.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin {
		return nil, ErrAdminAccount
	}
	return s.login(ctx, user)
}

// AdminLogin authenticates an active administrator.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin {
		return nil, ErrInvalidCredentials
	}
	return s.login(ctx, user)
}

// CreateAdmin provisions an administrator account.
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	in := SignupInput{Name: strings.TrimSpace(name), Email: normalizeEmail(email), Password: password}
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:          in.Name,
		Email:         in.Email,
		Password:      hashed,
		ProfileImage:  models.DefaultProfileImage,
		IsActive:      true,
		IsAdmin:       true,
		EmailVerified: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return user, nil
}

// Profile returns the stored user behind a session.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile saves the profile fields and reissues the session.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Gender = strings.ToLower(strings.TrimSpace(in.Gender))
	if err := validation.Struct(s.validate, in); err != nil {
		return nil, err
	}

	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Name = in.Name
	user.Phone = validation.NormalizePhone(in.Phone)
	user.DateOfBirth = in.DateOfBirth
	user.Gender = in.Gender
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.newSession(user)
}

// ChangePassword verifies the current password before storing the new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error {
	if err := validation.Struct(s.validate, in); err != nil {
		return err
	}
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}
	hashed, err := hashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

func (s *AuthService) newSession(user *models.User) (*Session, error) {
	now := s.now()
	su := models.NewSessionUser(user, now)
	token, err := s.IssueToken(su)
	if err != nil {
		return nil, err
	}
	return &Session{User: su, Token: token}, nil
}

// IssueToken signs the session allow-list into an HS256 JWT.
func (s *AuthService) IssueToken(user models.SessionUser) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		User: user,
		StandardClaims: jwt.StandardClaims{
			Subject:   user.ID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.tokenTTL).Unix(),
		},
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a session token, returning the session user.
func (s *AuthService) ValidateToken(tokenString string) (*models.SessionUser, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.User.ID == "" {
		return nil, ErrInvalidToken
	}
	return &claims.User, nil
}
