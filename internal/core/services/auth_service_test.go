package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/aegis-helpdesk/internal/core/errors"
	"github.com/lorrc/aegis-helpdesk/internal/core/mocks"
	"github.com/lorrc/aegis-helpdesk/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockProfileRepo := mocks.NewMockProfileRepository()
		mockAuthRepo := mocks.NewMockAuthorizationRepository()
		svc := services.NewAuthService(mockProfileRepo, mockAuthRepo)

		profileID := uuid.New()
		mockProfileRepo.On("GetByEmail", ctx, "newuser@example.com").
			Return(nil, apperrors.ErrUserNotFound)
		mockProfileRepo.On("Create", ctx, mock.AnythingOfType("*domain.Profile")).
			Return(&domain.Profile{
				ID:        profileID,
				FullName:  "New User",
				Email:     "newuser@example.com",
				CreatedAt: time.Now(),
			}, nil)
		mockAuthRepo.On("AssignRole", ctx, profileID, "agent").Return(nil)

		profile, err := svc.Register(ctx, "New User", "NewUser@Example.com", "Password123")

		require.NoError(t, err)
		assert.Equal(t, "New User", profile.FullName)
		assert.Equal(t, []string{"agent"}, profile.Roles)
		mockProfileRepo.AssertExpectations(t)
		mockAuthRepo.AssertExpectations(t)
	})

	t.Run("user already exists", func(t *testing.T) {
		mockProfileRepo := mocks.NewMockProfileRepository()
		mockAuthRepo := mocks.NewMockAuthorizationRepository()
		svc := services.NewAuthService(mockProfileRepo, mockAuthRepo)

		mockProfileRepo.On("GetByEmail", ctx, "existing@example.com").
			Return(&domain.Profile{ID: uuid.New(), Email: "existing@example.com"}, nil)

		profile, err := svc.Register(ctx, "Existing User", "existing@example.com", "Password123")

		assert.Nil(t, profile)
		assert.ErrorIs(t, err, apperrors.ErrUserExists)
		mockProfileRepo.AssertNotCalled(t, "Create")
	})

	t.Run("weak password", func(t *testing.T) {
		mockProfileRepo := mocks.NewMockProfileRepository()
		mockAuthRepo := mocks.NewMockAuthorizationRepository()
		svc := services.NewAuthService(mockProfileRepo, mockAuthRepo)

		profile, err := svc.Register(ctx, "Weak User", "weak@example.com", "short")

		assert.Nil(t, profile)
		var validationErr *apperrors.ValidationErrors
		assert.True(t, errors.As(err, &validationErr))
		mockProfileRepo.AssertNotCalled(t, "GetByEmail")
	})

	t.Run("role already assigned is not an error", func(t *testing.T) {
		mockProfileRepo := mocks.NewMockProfileRepository()
		mockAuthRepo := mocks.NewMockAuthorizationRepository()
		svc := services.NewAuthService(mockProfileRepo, mockAuthRepo)

		profileID := uuid.New()
		mockProfileRepo.On("GetByEmail", ctx, "again@example.com").
			Return(nil, apperrors.ErrUserNotFound)
		mockProfileRepo.On("Create", ctx, mock.AnythingOfType("*domain.Profile")).
			Return(&domain.Profile{ID: profileID, FullName: "Again", Email: "again@example.com"}, nil)
		mockAuthRepo.On("AssignRole", ctx, profileID, "agent").Return(apperrors.ErrRoleAlreadyAssigned)

		profile, err := svc.Register(ctx, "Again", "again@example.com", "Password123")

		require.NoError(t, err)
		assert.Equal(t, profileID, profile.ID)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hashed, err := domain.HashPassword("Password123")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		mockProfileRepo := mocks.NewMockProfileRepository()
		svc := services.NewAuthService(mockProfileRepo, mocks.NewMockAuthorizationRepository())

		expected := &domain.Profile{ID: uuid.New(), Email: "user@example.com", HashedPassword: hashed}
		mockProfileRepo.On("GetByEmail", ctx, "user@example.com").Return(expected, nil)

		profile, err := svc.Login(ctx, "User@Example.com", "Password123")

		require.NoError(t, err)
		assert.Equal(t, expected.ID, profile.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockProfileRepo := mocks.NewMockProfileRepository()
		svc := services.NewAuthService(mockProfileRepo, mocks.NewMockAuthorizationRepository())

		mockProfileRepo.On("GetByEmail", ctx, "user@example.com").
			Return(&domain.Profile{ID: uuid.New(), HashedPassword: hashed}, nil)

		profile, err := svc.Login(ctx, "user@example.com", "WrongPassword1")

		assert.Nil(t, profile)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown email does not leak existence", func(t *testing.T) {
		mockProfileRepo := mocks.NewMockProfileRepository()
		svc := services.NewAuthService(mockProfileRepo, mocks.NewMockAuthorizationRepository())

		mockProfileRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, apperrors.ErrUserNotFound)

		_, err := svc.Login(ctx, "ghost@example.com", "Password123")

		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := services.NewAuthService(mocks.NewMockProfileRepository(), mocks.NewMockAuthorizationRepository())

		_, err := svc.Login(ctx, "", "Password123")
		assert.ErrorIs(t, err, apperrors.ErrEmailRequired)

		_, err = svc.Login(ctx, "user@example.com", "")
		assert.ErrorIs(t, err, apperrors.ErrPasswordRequired)
	})
}
