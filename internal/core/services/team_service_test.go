package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/aegis-helpdesk/internal/core/errors"
	"github.com/lorrc/aegis-helpdesk/internal/core/mocks"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
	"github.com/lorrc/aegis-helpdesk/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTeamService() (ports.TeamService, *mocks.MockTeamRepository, *mocks.MockDashboardRepository, *mocks.MockAuthorizationService) {
	teamRepo := mocks.NewMockTeamRepository()
	dashboardRepo := mocks.NewMockDashboardRepository()
	authz := mocks.NewMockAuthorizationService()
	return services.NewTeamService(teamRepo, dashboardRepo, authz), teamRepo, dashboardRepo, authz
}

func TestTeamService_CreateTeam(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("manager joins as member", func(t *testing.T) {
		svc, teamRepo, _, authz := newTeamService()
		managerID := uuid.New()

		authz.On("Can", ctx, actorID, "teams:create").Return(true, nil)
		teamRepo.On("Create", ctx, mock.AnythingOfType("*domain.Team")).
			Return(&domain.Team{ID: uuid.New(), Name: "Network", ManagerID: &managerID}, nil)
		teamRepo.On("AddMember", ctx, mock.MatchedBy(func(m *domain.TeamMember) bool {
			return m.ProfileID == managerID && m.Role == domain.TeamRoleManager
		})).Return(&domain.TeamMember{}, nil)

		team, err := svc.CreateTeam(ctx, actorID, domain.TeamParams{Name: "Network", ManagerID: &managerID})

		require.NoError(t, err)
		assert.Equal(t, "Network", team.Name)
		teamRepo.AssertExpectations(t)
	})

	t.Run("name required", func(t *testing.T) {
		svc, teamRepo, _, authz := newTeamService()

		authz.On("Can", ctx, actorID, "teams:create").Return(true, nil)

		_, err := svc.CreateTeam(ctx, actorID, domain.TeamParams{Name: ""})

		var validationErr *apperrors.ValidationErrors
		require.ErrorAs(t, err, &validationErr)
		teamRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestTeamService_ListTeams(t *testing.T) {
	ctx := context.Background()
	viewerID := uuid.New()
	network := &domain.Team{ID: uuid.New(), Name: "Network"}
	support := &domain.Team{ID: uuid.New(), Name: "Support"}

	svc, teamRepo, dashboardRepo, authz := newTeamService()
	authz.On("Can", ctx, viewerID, "teams:read").Return(true, nil)
	teamRepo.On("List", ctx).Return([]*domain.Team{network, support}, nil)
	teamRepo.On("ListAllMembers", ctx).Return([]*domain.TeamMember{
		{TeamID: network.ID, ProfileID: uuid.New(), Role: domain.TeamRoleMember},
	}, nil)
	dashboardRepo.On("ListTeamsWithTickets", ctx).Return([]domain.TeamTickets{
		{TeamID: network.ID, TeamName: "Network", Statuses: []domain.TicketStatus{
			domain.StatusOpen, domain.StatusResolved, domain.StatusClosed, domain.StatusInProgress,
		}},
		{TeamID: support.ID, TeamName: "Support"},
	}, nil)

	overviews, err := svc.ListTeams(ctx, viewerID)

	require.NoError(t, err)
	require.Len(t, overviews, 2)
	assert.Len(t, overviews[0].Members, 1)
	assert.Equal(t, domain.StatusCounts{Total: 4, Open: 2, InProgress: 1, Resolved: 2}, overviews[0].Counts)
	assert.Equal(t, 50, overviews[0].Counts.CompletionPercent())
	assert.NotNil(t, overviews[1].Members)
	assert.Empty(t, overviews[1].Members)
	assert.Zero(t, overviews[1].Counts.Total)

	t.Run("get unknown team", func(t *testing.T) {
		_, err := svc.GetTeam(ctx, uuid.New(), viewerID)
		assert.ErrorIs(t, err, apperrors.ErrTeamNotFound)
	})
}

func TestTeamService_AddMember(t *testing.T) {
	ctx := context.Background()
	teamManager := uuid.New()
	team := &domain.Team{ID: uuid.New(), Name: "Network", ManagerID: &teamManager}

	t.Run("team manager adds a member", func(t *testing.T) {
		svc, teamRepo, _, authz := newTeamService()
		profileID := uuid.New()

		teamRepo.On("GetByID", ctx, team.ID).Return(team, nil)
		authz.On("Can", ctx, teamManager, "teams:manage").Return(false, nil)
		teamRepo.On("ListMembers", ctx, team.ID).Return([]*domain.TeamMember{}, nil)
		teamRepo.On("AddMember", ctx, mock.AnythingOfType("*domain.TeamMember")).
			Return(&domain.TeamMember{TeamID: team.ID, ProfileID: profileID, Role: domain.TeamRoleMember}, nil)

		member, err := svc.AddMember(ctx, ports.AddMemberParams{TeamID: team.ID, ProfileID: profileID, ActorID: teamManager})

		require.NoError(t, err)
		assert.Equal(t, domain.TeamRoleMember, member.Role)
	})

	t.Run("team manager cannot appoint managers", func(t *testing.T) {
		svc, teamRepo, _, authz := newTeamService()

		teamRepo.On("GetByID", ctx, team.ID).Return(team, nil)
		authz.On("Can", ctx, teamManager, "teams:manage").Return(false, nil)
		teamRepo.On("ListMembers", ctx, team.ID).Return([]*domain.TeamMember{}, nil)

		_, err := svc.AddMember(ctx, ports.AddMemberParams{
			TeamID:    team.ID,
			ProfileID: uuid.New(),
			Role:      domain.TeamRoleManager,
			ActorID:   teamManager,
		})

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		teamRepo.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything)
	})

	t.Run("outsider is forbidden", func(t *testing.T) {
		svc, teamRepo, _, authz := newTeamService()
		outsider := uuid.New()

		teamRepo.On("GetByID", ctx, team.ID).Return(team, nil)
		authz.On("Can", ctx, outsider, "teams:manage").Return(false, nil)
		teamRepo.On("ListMembers", ctx, team.ID).Return([]*domain.TeamMember{}, nil)

		_, err := svc.AddMember(ctx, ports.AddMemberParams{TeamID: team.ID, ProfileID: uuid.New(), ActorID: outsider})

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("duplicate member", func(t *testing.T) {
		svc, teamRepo, _, authz := newTeamService()
		admin := uuid.New()

		teamRepo.On("GetByID", ctx, team.ID).Return(team, nil)
		authz.On("Can", ctx, admin, "teams:manage").Return(true, nil)
		teamRepo.On("AddMember", ctx, mock.AnythingOfType("*domain.TeamMember")).Return(nil, apperrors.ErrMemberExists)

		_, err := svc.AddMember(ctx, ports.AddMemberParams{TeamID: team.ID, ProfileID: uuid.New(), ActorID: admin})

		assert.ErrorIs(t, err, apperrors.ErrMemberExists)
	})

	t.Run("invalid role", func(t *testing.T) {
		svc, _, _, _ := newTeamService()

		_, err := svc.AddMember(ctx, ports.AddMemberParams{TeamID: team.ID, Role: "owner", ActorID: teamManager})

		assert.ErrorIs(t, err, apperrors.ErrInvalidTeamRole)
	})
}

func TestTeamService_UpdateMemberRole(t *testing.T) {
	ctx := context.Background()
	teamID, memberID := uuid.New(), uuid.New()

	t.Run("requires teams:manage", func(t *testing.T) {
		svc, teamRepo, _, authz := newTeamService()
		actor := uuid.New()

		authz.On("Can", ctx, actor, "teams:manage").Return(false, nil)

		_, err := svc.UpdateMemberRole(ctx, actor, teamID, memberID, domain.TeamRoleManager)

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		teamRepo.AssertNotCalled(t, "UpdateMemberRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("admin promotes", func(t *testing.T) {
		svc, teamRepo, _, authz := newTeamService()
		admin := uuid.New()

		authz.On("Can", ctx, admin, "teams:manage").Return(true, nil)
		teamRepo.On("UpdateMemberRole", ctx, teamID, memberID, domain.TeamRoleManager).
			Return(&domain.TeamMember{ID: memberID, Role: domain.TeamRoleManager}, nil)

		member, err := svc.UpdateMemberRole(ctx, admin, teamID, memberID, domain.TeamRoleManager)

		require.NoError(t, err)
		assert.Equal(t, domain.TeamRoleManager, member.Role)
	})
}

func TestTeamService_RemoveMember(t *testing.T) {
	ctx := context.Background()
	admin := uuid.New()
	team := &domain.Team{ID: uuid.New(), Name: "Network"}
	memberID := uuid.New()

	svc, teamRepo, _, authz := newTeamService()
	teamRepo.On("GetByID", ctx, team.ID).Return(team, nil)
	authz.On("Can", ctx, admin, "teams:manage").Return(true, nil)
	teamRepo.On("GetMember", ctx, team.ID, memberID).Return(nil, apperrors.ErrMemberNotFound)

	err := svc.RemoveMember(ctx, admin, team.ID, memberID)

	assert.ErrorIs(t, err, apperrors.ErrMemberNotFound)
	teamRepo.AssertNotCalled(t, "RemoveMember", mock.Anything, mock.Anything, mock.Anything)
}
