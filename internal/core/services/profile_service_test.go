package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/aegis-helpdesk/internal/core/errors"
	"github.com/lorrc/aegis-helpdesk/internal/core/mocks"
	"github.com/lorrc/aegis-helpdesk/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProfileService_GetProfile(t *testing.T) {
	ctx := context.Background()
	profileID := uuid.New()

	profileRepo := mocks.NewMockProfileRepository()
	authz := mocks.NewMockAuthorizationService()
	svc := services.NewProfileService(profileRepo, mocks.NewMockTeamRepository(), mocks.NewMockAuthorizationRepository(), authz)

	profileRepo.On("GetByID", ctx, profileID).Return(&domain.Profile{ID: profileID, FullName: "Maria"}, nil)
	authz.On("GetRoles", ctx, profileID).Return([]string{"manager"}, nil)

	profile, err := svc.GetProfile(ctx, profileID)

	require.NoError(t, err)
	assert.Equal(t, []string{"manager"}, profile.Roles)
}

func TestProfileService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	profileID := uuid.New()
	teamID := uuid.New()

	t.Run("unknown team", func(t *testing.T) {
		profileRepo := mocks.NewMockProfileRepository()
		teamRepo := mocks.NewMockTeamRepository()
		svc := services.NewProfileService(profileRepo, teamRepo, mocks.NewMockAuthorizationRepository(), mocks.NewMockAuthorizationService())

		teamRepo.On("GetByID", ctx, teamID).Return(nil, apperrors.ErrTeamNotFound)

		_, err := svc.UpdateProfile(ctx, profileID, domain.ProfileUpdateParams{FullName: "Maria", TeamID: &teamID})

		assert.ErrorIs(t, err, apperrors.ErrTeamNotFound)
		profileRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success", func(t *testing.T) {
		profileRepo := mocks.NewMockProfileRepository()
		teamRepo := mocks.NewMockTeamRepository()
		authz := mocks.NewMockAuthorizationService()
		svc := services.NewProfileService(profileRepo, teamRepo, mocks.NewMockAuthorizationRepository(), authz)

		params := domain.ProfileUpdateParams{FullName: "Maria Silva", TeamID: &teamID}
		teamRepo.On("GetByID", ctx, teamID).Return(&domain.Team{ID: teamID, Name: "Support"}, nil)
		profileRepo.On("Update", ctx, profileID, params).Return(&domain.Profile{ID: profileID}, nil)
		profileRepo.On("GetByID", ctx, profileID).
			Return(&domain.Profile{ID: profileID, FullName: "Maria Silva", TeamID: &teamID, TeamName: "Support"}, nil)
		authz.On("GetRoles", ctx, profileID).Return([]string{"agent"}, nil)

		profile, err := svc.UpdateProfile(ctx, profileID, params)

		require.NoError(t, err)
		assert.Equal(t, "Support", profile.TeamName)
	})
}

func TestProfileService_SetRole(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()
	targetID := uuid.New()

	t.Run("admin sets role", func(t *testing.T) {
		profileRepo := mocks.NewMockProfileRepository()
		authRepo := mocks.NewMockAuthorizationRepository()
		authz := mocks.NewMockAuthorizationService()
		svc := services.NewProfileService(profileRepo, mocks.NewMockTeamRepository(), authRepo, authz)

		authz.On("Can", ctx, adminID, "admin:access").Return(true, nil)
		profileRepo.On("GetByID", ctx, targetID).Return(&domain.Profile{ID: targetID}, nil)
		authRepo.On("SetUserRole", ctx, targetID, "manager").Return(nil)

		require.NoError(t, svc.SetRole(ctx, adminID, targetID, domain.RoleManager))
		authRepo.AssertExpectations(t)
	})

	t.Run("non admin forbidden", func(t *testing.T) {
		authz := mocks.NewMockAuthorizationService()
		svc := services.NewProfileService(mocks.NewMockProfileRepository(), mocks.NewMockTeamRepository(),
			mocks.NewMockAuthorizationRepository(), authz)

		authz.On("Can", ctx, adminID, "admin:access").Return(false, nil)

		assert.ErrorIs(t, svc.SetRole(ctx, adminID, targetID, domain.RoleAdmin), apperrors.ErrForbidden)
	})

	t.Run("invalid role", func(t *testing.T) {
		authz := mocks.NewMockAuthorizationService()
		svc := services.NewProfileService(mocks.NewMockProfileRepository(), mocks.NewMockTeamRepository(),
			mocks.NewMockAuthorizationRepository(), authz)

		authz.On("Can", ctx, adminID, "admin:access").Return(true, nil)

		assert.ErrorIs(t, svc.SetRole(ctx, adminID, targetID, domain.Role("root")), apperrors.ErrInvalidRole)
	})
}
