package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
)

// ProfileRepository defines the persistence port for profiles.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	List(ctx context.Context) ([]*domain.Profile, error)
	Update(ctx context.Context, id uuid.UUID, params domain.ProfileUpdateParams) (*domain.Profile, error)
}

// AuthorizationRepository defines the persistence port for RBAC data.
type AuthorizationRepository interface {
	GetUserPermissions(ctx context.Context, userID uuid.UUID) ([]string, error)
	GetUserRoles(ctx context.Context, userID uuid.UUID) ([]string, error)
	AssignRole(ctx context.Context, userID uuid.UUID, role string) error
	SetUserRole(ctx context.Context, userID uuid.UUID, role string) error
}

// TicketFilter narrows a ticket listing.
type TicketFilter struct {
	Status   *domain.TicketStatus
	Priority *domain.TicketPriority
	TeamID   *uuid.UUID
	Limit    int
	Offset   int
}

// TicketRepository defines the persistence port for tickets.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error)
	Update(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]*domain.Ticket, error)
}

// InteractionRepository defines the persistence port for interactions.
type InteractionRepository interface {
	Create(ctx context.Context, interaction *domain.Interaction) (*domain.Interaction, error)
	// ListByTicketID returns interactions ordered by creation time ascending.
	ListByTicketID(ctx context.Context, ticketID uuid.UUID) ([]*domain.Interaction, error)
}

// TeamRepository defines the persistence port for teams and memberships.
type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) (*domain.Team, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error)
	List(ctx context.Context) ([]*domain.Team, error)
	ListMembers(ctx context.Context, teamID uuid.UUID) ([]*domain.TeamMember, error)
	ListAllMembers(ctx context.Context) ([]*domain.TeamMember, error)
	AddMember(ctx context.Context, member *domain.TeamMember) (*domain.TeamMember, error)
	GetMember(ctx context.Context, teamID, memberID uuid.UUID) (*domain.TeamMember, error)
	UpdateMemberRole(ctx context.Context, teamID, memberID uuid.UUID, role domain.TeamRole) (*domain.TeamMember, error)
	RemoveMember(ctx context.Context, teamID, memberID uuid.UUID) error
	// ManagesAnyTeam reports whether the profile manages at least one team.
	ManagesAnyTeam(ctx context.Context, profileID uuid.UUID) (bool, error)
}

// CustomFieldRepository defines the persistence port for custom fields.
type CustomFieldRepository interface {
	Create(ctx context.Context, field *domain.CustomField) (*domain.CustomField, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CustomField, error)
	Update(ctx context.Context, field *domain.CustomField) (*domain.CustomField, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ListApplicable returns global fields plus those of teamID, by order index.
	ListApplicable(ctx context.Context, teamID *uuid.UUID) ([]*domain.CustomField, error)
	ListValues(ctx context.Context, ticketID uuid.UUID) ([]*domain.CustomFieldValue, error)
	UpsertValue(ctx context.Context, value *domain.CustomFieldValue) (*domain.CustomFieldValue, error)
}

// TicketEventRepository defines the persistence port for the ticket audit log.
type TicketEventRepository interface {
	Create(ctx context.Context, event *domain.Event) (*domain.Event, error)
	ListByTicketID(ctx context.Context, ticketID uuid.UUID, afterID int64, limit int) ([]*domain.Event, error)
}

// DashboardRepository fetches the raw inputs of the dashboard aggregation.
type DashboardRepository interface {
	ListTicketStatuses(ctx context.Context) ([]domain.TicketStatus, error)
	// ListTeamsWithTickets returns every team, ordered by name, with the
	// statuses of its tickets.
	ListTeamsWithTickets(ctx context.Context) ([]domain.TeamTickets, error)
	CountTeams(ctx context.Context) (int, error)
}

// DashboardCache stores computed dashboard results for a short time.
// Get methods return found=false on a miss.
type DashboardCache interface {
	GetOverview(ctx context.Context) (*domain.DashboardOverview, bool, error)
	SetOverview(ctx context.Context, overview *domain.DashboardOverview, ttl time.Duration) error
	GetTeamStats(ctx context.Context) ([]domain.TeamAggregate, bool, error)
	SetTeamStats(ctx context.Context, stats []domain.TeamAggregate, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// EventBroadcaster defines the port for pushing real-time events.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}
