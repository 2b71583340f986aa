package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/aegis-helpdesk/internal/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamRepository_CreateGetList(t *testing.T) {
	ctx := context.Background()
	resetDB(t)
	repo := NewTeamRepository(testPool)
	manager := createTestProfile(t, ctx, "Maria")

	team, err := domain.NewTeam(domain.TeamParams{Name: "Infra", Description: "Servers", ManagerID: &manager.ID})
	require.NoError(t, err)
	created, err := repo.Create(ctx, team)
	require.NoError(t, err)
	require.NotNil(t, created.ManagerID)
	assert.Equal(t, manager.ID, *created.ManagerID)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Infra", found.Name)
	assert.Equal(t, "Servers", found.Description)

	createTestTeam(t, ctx, "Billing")
	teams, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "Billing", teams[0].Name)

	dup, err := domain.NewTeam(domain.TeamParams{Name: "Infra"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, apperrors.ErrTeamExists)

	missing := uuid.New()
	orphan, err := domain.NewTeam(domain.TeamParams{Name: "Orphan", ManagerID: &missing})
	require.NoError(t, err)
	_, err = repo.Create(ctx, orphan)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrTeamNotFound)
}

func TestTeamRepository_Members(t *testing.T) {
	ctx := context.Background()
	resetDB(t)
	repo := NewTeamRepository(testPool)

	team := createTestTeam(t, ctx, "Helpdesk")
	other := createTestTeam(t, ctx, "Other")
	alice := createTestProfile(t, ctx, "Alice")
	bob := createTestProfile(t, ctx, "Bob")

	member, err := repo.AddMember(ctx, &domain.TeamMember{
		ID:        uuid.New(),
		TeamID:    team.ID,
		ProfileID: alice.ID,
		Role:      domain.TeamRoleMember,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", member.FullName)
	assert.Equal(t, alice.Email, member.Email)

	_, err = repo.AddMember(ctx, &domain.TeamMember{ID: uuid.New(), TeamID: team.ID, ProfileID: alice.ID, Role: domain.TeamRoleMember})
	assert.ErrorIs(t, err, apperrors.ErrMemberExists)

	_, err = repo.AddMember(ctx, &domain.TeamMember{ID: uuid.New(), TeamID: uuid.New(), ProfileID: bob.ID, Role: domain.TeamRoleMember})
	assert.ErrorIs(t, err, apperrors.ErrTeamNotFound)

	_, err = repo.AddMember(ctx, &domain.TeamMember{ID: uuid.New(), TeamID: team.ID, ProfileID: uuid.New(), Role: domain.TeamRoleMember})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = repo.AddMember(ctx, &domain.TeamMember{ID: uuid.New(), TeamID: other.ID, ProfileID: bob.ID, Role: domain.TeamRoleMember})
	require.NoError(t, err)

	members, err := repo.ListMembers(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)

	all, err := repo.ListAllMembers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = repo.GetMember(ctx, other.ID, member.ID)
	assert.ErrorIs(t, err, apperrors.ErrMemberNotFound)

	manages, err := repo.ManagesAnyTeam(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, manages)

	promoted, err := repo.UpdateMemberRole(ctx, team.ID, member.ID, domain.TeamRoleManager)
	require.NoError(t, err)
	assert.Equal(t, domain.TeamRoleManager, promoted.Role)

	manages, err = repo.ManagesAnyTeam(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, manages)

	require.NoError(t, repo.RemoveMember(ctx, team.ID, member.ID))
	assert.ErrorIs(t, repo.RemoveMember(ctx, team.ID, member.ID), apperrors.ErrMemberNotFound)

	_, err = repo.UpdateMemberRole(ctx, team.ID, member.ID, domain.TeamRoleMember)
	assert.ErrorIs(t, err, apperrors.ErrMemberNotFound)
}

func TestTeamRepository_ManagesAnyTeam_DesignatedManager(t *testing.T) {
	ctx := context.Background()
	resetDB(t)
	repo := NewTeamRepository(testPool)
	manager := createTestProfile(t, ctx, "Boss")

	team, err := domain.NewTeam(domain.TeamParams{Name: "Ops", ManagerID: &manager.ID})
	require.NoError(t, err)
	_, err = repo.Create(ctx, team)
	require.NoError(t, err)

	manages, err := repo.ManagesAnyTeam(ctx, manager.ID)
	require.NoError(t, err)
	assert.True(t, manages)
}
