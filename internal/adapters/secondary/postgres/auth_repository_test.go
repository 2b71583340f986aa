package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	apperrors "github.com/lorrc/aegis-helpdesk/internal/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizationRepository_RolesAndPermissions(t *testing.T) {
	ctx := context.Background()
	resetDB(t)
	repo := NewAuthorizationRepository(testPool)
	profile := createTestProfile(t, ctx, "Agent")

	perms, err := repo.GetUserPermissions(ctx, profile.ID)
	require.NoError(t, err)
	assert.Empty(t, perms)

	require.NoError(t, repo.AssignRole(ctx, profile.ID, "agent"))
	assert.ErrorIs(t, repo.AssignRole(ctx, profile.ID, "agent"), apperrors.ErrRoleAlreadyAssigned)

	perms, err = repo.GetUserPermissions(ctx, profile.ID)
	require.NoError(t, err)
	assert.Contains(t, perms, "tickets:read")
	assert.NotContains(t, perms, "admin:access")

	roles, err := repo.GetUserRoles(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"agent"}, roles)
}

func TestAuthorizationRepository_AssignRole_Errors(t *testing.T) {
	ctx := context.Background()
	resetDB(t)
	repo := NewAuthorizationRepository(testPool)
	profile := createTestProfile(t, ctx, "Agent")

	assert.ErrorIs(t, repo.AssignRole(ctx, profile.ID, "overlord"), apperrors.ErrInvalidRole)
	assert.ErrorIs(t, repo.AssignRole(ctx, uuid.New(), "agent"), apperrors.ErrUserNotFound)
}

func TestAuthorizationRepository_SetUserRole(t *testing.T) {
	ctx := context.Background()
	resetDB(t)
	repo := NewAuthorizationRepository(testPool)
	profile := createTestProfile(t, ctx, "Promoted")

	require.NoError(t, repo.AssignRole(ctx, profile.ID, "agent"))
	require.NoError(t, repo.SetUserRole(ctx, profile.ID, "admin"))

	roles, err := repo.GetUserRoles(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, roles)

	perms, err := repo.GetUserPermissions(ctx, profile.ID)
	require.NoError(t, err)
	assert.Contains(t, perms, "admin:access")

	// A failed replacement leaves the previous role in place.
	assert.ErrorIs(t, repo.SetUserRole(ctx, profile.ID, "overlord"), apperrors.ErrInvalidRole)
	roles, err = repo.GetUserRoles(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, roles)
}
