package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
)

// AuthService defines the port for authentication business logic.
type AuthService interface {
	Register(ctx context.Context, fullName, email, password string) (*domain.Profile, error)
	Login(ctx context.Context, email, password string) (*domain.Profile, error)
}

// AuthorizationService defines the port for checking user permissions.
type AuthorizationService interface {
	Can(ctx context.Context, userID uuid.UUID, permission string) (bool, error)
	GetPermissions(ctx context.Context, userID uuid.UUID) ([]string, error)
	GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// ProfileService defines the port for profile management.
type ProfileService interface {
	GetProfile(ctx context.Context, profileID uuid.UUID) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, profileID uuid.UUID, params domain.ProfileUpdateParams) (*domain.Profile, error)
	ListProfiles(ctx context.Context, actorID uuid.UUID) ([]*domain.Profile, error)
	SetRole(ctx context.Context, actorID, profileID uuid.UUID, role domain.Role) error
}

// CreateTicketParams defines the required input for creating a new ticket.
type CreateTicketParams struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	PrimaryType string
	Type        string
	TeamID      *uuid.UUID
	ActorID     uuid.UUID
}

// UpdateTicketParams changes any subset of the mutable ticket fields.
// ClearTeam and ClearAssignee remove the reference when set.
type UpdateTicketParams struct {
	TicketID      uuid.UUID
	ActorID       uuid.UUID
	Status        *domain.TicketStatus
	Priority      *domain.TicketPriority
	TeamID        *uuid.UUID
	ClearTeam     bool
	AssigneeID    *uuid.UUID
	ClearAssignee bool
}

// ListTicketsParams defines the input for listing tickets.
type ListTicketsParams struct {
	ViewerID uuid.UUID
	Limit    int
	Offset   int
	Status   *domain.TicketStatus
	Priority *domain.TicketPriority
	TeamID   *uuid.UUID
}

// ListTicketEventsParams defines the input for listing ticket events.
type ListTicketEventsParams struct {
	TicketID uuid.UUID
	ViewerID uuid.UUID
	AfterID  int64
	Limit    int
}

// NotificationParams defines the input for sending a notification.
type NotificationParams struct {
	RecipientUserID uuid.UUID
	Subject         string
	Message         string
	TicketID        uuid.UUID
}

// TicketService defines the core business operations for managing tickets.
type TicketService interface {
	CreateTicket(ctx context.Context, params CreateTicketParams) (*domain.Ticket, error)
	GetTicket(ctx context.Context, ticketID, viewerID uuid.UUID) (*domain.Ticket, error)
	UpdateTicket(ctx context.Context, params UpdateTicketParams) (*domain.Ticket, error)
	ListTickets(ctx context.Context, params ListTicketsParams) ([]*domain.Ticket, error)
	Shutdown()
}

// AddInteractionParams defines the input for posting an interaction.
type AddInteractionParams struct {
	TicketID uuid.UUID
	ActorID  uuid.UUID
	Content  string
}

// InteractionService defines the port for ticket interactions.
type InteractionService interface {
	AddInteraction(ctx context.Context, params AddInteractionParams) (*domain.Interaction, error)
	ListInteractions(ctx context.Context, ticketID, viewerID uuid.UUID) ([]*domain.Interaction, error)
	SummarizeHistory(ctx context.Context, ticketID, viewerID uuid.UUID) ([]domain.AuthorSummary, error)
	Shutdown()
}

// EventService defines the port for ticket event queries.
type EventService interface {
	ListTicketEvents(ctx context.Context, params ListTicketEventsParams) ([]*domain.Event, error)
}

// AddMemberParams defines the input for adding a profile to a team.
type AddMemberParams struct {
	TeamID    uuid.UUID
	ProfileID uuid.UUID
	Role      domain.TeamRole
	ActorID   uuid.UUID
}

// TeamService defines the port for team management.
type TeamService interface {
	CreateTeam(ctx context.Context, actorID uuid.UUID, params domain.TeamParams) (*domain.Team, error)
	GetTeam(ctx context.Context, teamID, viewerID uuid.UUID) (*domain.TeamOverview, error)
	ListTeams(ctx context.Context, viewerID uuid.UUID) ([]*domain.TeamOverview, error)
	AddMember(ctx context.Context, params AddMemberParams) (*domain.TeamMember, error)
	UpdateMemberRole(ctx context.Context, actorID, teamID, memberID uuid.UUID, role domain.TeamRole) (*domain.TeamMember, error)
	RemoveMember(ctx context.Context, actorID, teamID, memberID uuid.UUID) error
}

// SetFieldValueParams defines the input for setting a ticket's field value.
type SetFieldValueParams struct {
	TicketID uuid.UUID
	FieldID  uuid.UUID
	Value    string
	ActorID  uuid.UUID
}

// CustomFieldService defines the port for custom field management.
type CustomFieldService interface {
	ListFields(ctx context.Context, viewerID uuid.UUID, teamID *uuid.UUID) ([]*domain.CustomField, error)
	CreateField(ctx context.Context, actorID uuid.UUID, params domain.CustomFieldParams) (*domain.CustomField, error)
	UpdateField(ctx context.Context, actorID, fieldID uuid.UUID, params domain.CustomFieldParams) (*domain.CustomField, error)
	DeleteField(ctx context.Context, actorID, fieldID uuid.UUID) error
	GetTicketFields(ctx context.Context, ticketID, viewerID uuid.UUID) ([]domain.TicketField, error)
	SetTicketFieldValue(ctx context.Context, params SetFieldValueParams) (*domain.CustomFieldValue, error)
}

// DashboardService defines the port for the dashboard aggregation.
type DashboardService interface {
	GetOverview(ctx context.Context, viewerID uuid.UUID) (*domain.DashboardOverview, error)
	GetTeamStats(ctx context.Context, viewerID uuid.UUID) ([]domain.TeamAggregate, error)
	Invalidate(ctx context.Context)
}

// Notifier defines the port for sending asynchronous notifications.
type Notifier interface {
	Notify(ctx context.Context, params NotificationParams)
}

// TransactionManager defines the port for running atomic operations.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
