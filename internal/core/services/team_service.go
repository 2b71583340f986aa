package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/aegis-helpdesk/internal/core/errors"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

// TeamService manages teams and their memberships.
type TeamService struct {
	teamRepo      ports.TeamRepository
	dashboardRepo ports.DashboardRepository
	authzSvc      ports.AuthorizationService
}

var _ ports.TeamService = (*TeamService)(nil)

// NewTeamService creates a new team service.
func NewTeamService(
	teamRepo ports.TeamRepository,
	dashboardRepo ports.DashboardRepository,
	authzSvc ports.AuthorizationService,
) ports.TeamService {
	return &TeamService{
		teamRepo:      teamRepo,
		dashboardRepo: dashboardRepo,
		authzSvc:      authzSvc,
	}
}

// CreateTeam creates a team. A designated manager also joins as a member.
func (s *TeamService) CreateTeam(ctx context.Context, actorID uuid.UUID, params domain.TeamParams) (*domain.Team, error) {
	if err := requirePermission(ctx, s.authzSvc, actorID, "teams:create"); err != nil {
		return nil, err
	}

	team, err := domain.NewTeam(params)
	if err != nil {
		return nil, err
	}

	created, err := s.teamRepo.Create(ctx, team)
	if err != nil {
		return nil, err
	}

	if created.ManagerID != nil {
		_, err := s.teamRepo.AddMember(ctx, &domain.TeamMember{
			ID:        uuid.New(),
			TeamID:    created.ID,
			ProfileID: *created.ManagerID,
			Role:      domain.TeamRoleManager,
		})
		if err != nil {
			return nil, err
		}
	}

	return created, nil
}

// GetTeam returns a team with its members and ticket counts.
func (s *TeamService) GetTeam(ctx context.Context, teamID, viewerID uuid.UUID) (*domain.TeamOverview, error) {
	overviews, err := s.ListTeams(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	for _, overview := range overviews {
		if overview.Team.ID == teamID {
			return overview, nil
		}
	}
	return nil, apperrors.ErrTeamNotFound
}

// ListTeams returns every team ordered by name with members and counts.
func (s *TeamService) ListTeams(ctx context.Context, viewerID uuid.UUID) ([]*domain.TeamOverview, error) {
	if err := requirePermission(ctx, s.authzSvc, viewerID, "teams:read"); err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	members, err := s.teamRepo.ListAllMembers(ctx)
	if err != nil {
		return nil, err
	}
	membersByTeam := make(map[uuid.UUID][]*domain.TeamMember, len(teams))
	for _, member := range members {
		membersByTeam[member.TeamID] = append(membersByTeam[member.TeamID], member)
	}

	teamTickets, err := s.dashboardRepo.ListTeamsWithTickets(ctx)
	if err != nil {
		return nil, err
	}
	countsByTeam := make(map[uuid.UUID]domain.StatusCounts, len(teamTickets))
	for _, aggregate := range domain.SummarizeTeams(teamTickets) {
		countsByTeam[aggregate.TeamID] = aggregate.Counts
	}

	overviews := make([]*domain.TeamOverview, 0, len(teams))
	for _, team := range teams {
		teamMembers := membersByTeam[team.ID]
		if teamMembers == nil {
			teamMembers = []*domain.TeamMember{}
		}
		overviews = append(overviews, &domain.TeamOverview{
			Team:    team,
			Members: teamMembers,
			Counts:  countsByTeam[team.ID],
		})
	}

	return overviews, nil
}

// AddMember adds a profile to a team. Only holders of teams:manage may
// appoint another manager.
func (s *TeamService) AddMember(ctx context.Context, params ports.AddMemberParams) (*domain.TeamMember, error) {
	role := params.Role
	if role == "" {
		role = domain.TeamRoleMember
	}
	if _, ok := domain.ParseTeamRole(string(role)); !ok {
		return nil, apperrors.ErrInvalidTeamRole
	}

	if err := s.requireTeamManager(ctx, params.ActorID, params.TeamID); err != nil {
		return nil, err
	}
	if role == domain.TeamRoleManager {
		if err := requirePermission(ctx, s.authzSvc, params.ActorID, "teams:manage"); err != nil {
			return nil, err
		}
	}

	return s.teamRepo.AddMember(ctx, &domain.TeamMember{
		ID:        uuid.New(),
		TeamID:    params.TeamID,
		ProfileID: params.ProfileID,
		Role:      role,
	})
}

// UpdateMemberRole changes a member's role within a team. Admin only.
func (s *TeamService) UpdateMemberRole(ctx context.Context, actorID, teamID, memberID uuid.UUID, role domain.TeamRole) (*domain.TeamMember, error) {
	if _, ok := domain.ParseTeamRole(string(role)); !ok {
		return nil, apperrors.ErrInvalidTeamRole
	}

	if err := requirePermission(ctx, s.authzSvc, actorID, "teams:manage"); err != nil {
		return nil, err
	}

	return s.teamRepo.UpdateMemberRole(ctx, teamID, memberID, role)
}

// RemoveMember removes a membership from a team.
func (s *TeamService) RemoveMember(ctx context.Context, actorID, teamID, memberID uuid.UUID) error {
	if err := s.requireTeamManager(ctx, actorID, teamID); err != nil {
		return err
	}

	if _, err := s.teamRepo.GetMember(ctx, teamID, memberID); err != nil {
		return err
	}

	return s.teamRepo.RemoveMember(ctx, teamID, memberID)
}

// requireTeamManager allows holders of teams:manage and the team's own managers.
func (s *TeamService) requireTeamManager(ctx context.Context, actorID, teamID uuid.UUID) error {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return err
	}

	canManageAll, err := s.authzSvc.Can(ctx, actorID, "teams:manage")
	if err != nil {
		return err
	}
	if canManageAll {
		return nil
	}

	members, err := s.teamRepo.ListMembers(ctx, teamID)
	if err != nil {
		return err
	}
	if !team.IsManagedBy(actorID, members) {
		return apperrors.ErrForbidden
	}
	return nil
}
