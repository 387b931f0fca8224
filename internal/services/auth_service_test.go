package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"sneakerhead/internal/models"
	"sneakerhead/internal/repositories"
	"sneakerhead/internal/services"
	"sneakerhead/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockUserRepository) RecordLogin(ctx context.Context, id string, at time.Time) (*models.User, error) {
	args := m.Called(ctx, id, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ToggleActive(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ListCustomers(ctx context.Context, search string, page models.PageRequest) ([]models.User, int64, error) {
	args := m.Called(ctx, search, page)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) CountCustomers(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

const testSecret = "test-secret"

func newAuthService(repo *MockUserRepository) *services.AuthService {
	return services.NewAuthService(repo, testSecret, time.Hour, zap.NewNop())
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newAuthService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "jane@example.com").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = "u1"
	}).Return(nil).Once()

	session, err := service.Register(ctx, services.SignupInput{
		Name:     "Jane Doe",
		Email:    "  Jane@Example.com ",
		Phone:    "+1 (555) 123-4567",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", session.User.ID)
	assert.Equal(t, "jane@example.com", session.User.Email)
	assert.Equal(t, "+15551234567", session.User.Phone)
	assert.Equal(t, models.DefaultProfileImage, session.User.ProfileImage)
	assert.NotEmpty(t, session.Token)

	created := mockRepo.Calls[1].Arguments.Get(1).(*models.User)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret1")))
	assert.True(t, created.IsActive)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterRejects(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newAuthService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "taken@example.com").Return(&models.User{ID: "u0"}, nil).Once()
	_, err := service.Register(ctx, services.SignupInput{Name: "Jane", Email: "taken@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, services.ErrEmailTaken)

	_, err = service.Register(ctx, services.SignupInput{Name: "J", Email: "bad", Password: "123"})
	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")

	_, err = service.Register(ctx, services.SignupInput{Name: "Jane", Email: "jane@example.com", Password: "secret1", ConfirmPassword: "other"})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "confirm_password")

	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	user := &models.User{ID: "u1", Name: "Jane", Email: "jane@example.com", Password: hashed(t, "secret1"), IsActive: true}

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := newAuthService(mockRepo)
		logged := *user
		logged.LoginCount = 3
		mockRepo.On("GetByEmail", ctx, "jane@example.com").Return(user, nil).Once()
		mockRepo.On("RecordLogin", ctx, "u1", mock.AnythingOfType("time.Time")).Return(&logged, nil).Once()

		session, err := service.Login(ctx, "JANE@example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, 3, session.User.LoginCount)

		parsed, err := service.ValidateToken(session.Token)
		require.NoError(t, err)
		assert.Equal(t, "u1", parsed.ID)
		assert.Equal(t, "jane@example.com", parsed.Email)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown email and wrong password look the same", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := newAuthService(mockRepo)
		mockRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, repositories.ErrNotFound).Once()
		mockRepo.On("GetByEmail", ctx, "jane@example.com").Return(user, nil).Once()

		_, err := service.Login(ctx, "nobody@example.com", "secret1")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		_, err = service.Login(ctx, "jane@example.com", "wrong")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		mockRepo.AssertNotCalled(t, "RecordLogin", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("inactive", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := newAuthService(mockRepo)
		inactive := *user
		inactive.IsActive = false
		mockRepo.On("GetByEmail", ctx, "jane@example.com").Return(&inactive, nil).Once()

		_, err := service.Login(ctx, "jane@example.com", "secret1")
		assert.ErrorIs(t, err, services.ErrAccountInactive)
	})

	t.Run("admin refused on storefront", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := newAuthService(mockRepo)
		admin := *user
		admin.IsAdmin = true
		mockRepo.On("GetByEmail", ctx, "jane@example.com").Return(&admin, nil).Twice()
		mockRepo.On("RecordLogin", ctx, "u1", mock.AnythingOfType("time.Time")).Return(&admin, nil).Once()

		_, err := service.Login(ctx, "jane@example.com", "secret1")
		assert.ErrorIs(t, err, services.ErrAdminAccount)

		session, err := service.AdminLogin(ctx, "jane@example.com", "secret1")
		require.NoError(t, err)
		assert.True(t, session.User.IsAdmin)
	})

	t.Run("missing fields", func(t *testing.T) {
		service := newAuthService(new(MockUserRepository))
		_, err := service.Login(ctx, "", "")
		var verr *validation.Error
		assert.True(t, errors.As(err, &verr))
	})
}

func TestAuthService_ValidateTokenRejectsForeignSignature(t *testing.T) {
	service := newAuthService(new(MockUserRepository))
	other := services.NewAuthService(new(MockUserRepository), "another-secret", time.Hour, zap.NewNop())

	token, err := other.IssueToken(models.SessionUser{ID: "u1"})
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
	_, err = service.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestAuthService_ValidateTokenRejectsExpired(t *testing.T) {
	service := services.NewAuthService(new(MockUserRepository), testSecret, -time.Minute, zap.NewNop())
	token, err := service.IssueToken(models.SessionUser{ID: "u1"})
	require.NoError(t, err)
	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	service := newAuthService(mockRepo)
	user := &models.User{ID: "u1", Password: hashed(t, "secret1"), IsActive: true}
	mockRepo.On("GetByID", ctx, "u1").Return(user, nil)

	err := service.ChangePassword(ctx, "u1", services.ChangePasswordInput{CurrentPassword: "nope", NewPassword: "newpass", ConfirmPassword: "newpass"})
	assert.ErrorIs(t, err, services.ErrWrongPassword)

	err = service.ChangePassword(ctx, "u1", services.ChangePasswordInput{CurrentPassword: "secret1", NewPassword: "newpass", ConfirmPassword: "other"})
	var verr *validation.Error
	assert.True(t, errors.As(err, &verr))

	mockRepo.On("UpdatePassword", ctx, "u1", mock.AnythingOfType("string")).Return(nil).Once()
	err = service.ChangePassword(ctx, "u1", services.ChangePasswordInput{CurrentPassword: "secret1", NewPassword: "newpass", ConfirmPassword: "newpass"})
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	service := newAuthService(mockRepo)
	user := &models.User{ID: "u1", Name: "Jane", Email: "jane@example.com", IsActive: true}
	mockRepo.On("GetByID", ctx, "u1").Return(user, nil)
	mockRepo.On("Update", ctx, user).Return(nil).Once()

	session, err := service.UpdateProfile(ctx, "u1", services.ProfileInput{Name: "Jane Roe", Gender: "Female"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", session.User.Name)
	assert.Equal(t, "female", session.User.Gender)

	_, err = service.UpdateProfile(ctx, "u1", services.ProfileInput{Name: "Jane", Gender: "robot"})
	var verr *validation.Error
	assert.True(t, errors.As(err, &verr))
	mockRepo.AssertExpectations(t)
}
