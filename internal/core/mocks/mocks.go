package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// MockProfileRepository is a mock implementation of ports.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

var _ ports.ProfileRepository = (*MockProfileRepository)(nil)

func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{}
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) List(ctx context.Context) ([]*domain.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, id uuid.UUID, params domain.ProfileUpdateParams) (*domain.Profile, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

// MockAuthorizationRepository is a mock implementation of ports.AuthorizationRepository
type MockAuthorizationRepository struct {
	mock.Mock
}

var _ ports.AuthorizationRepository = (*MockAuthorizationRepository)(nil)

func NewMockAuthorizationRepository() *MockAuthorizationRepository {
	return &MockAuthorizationRepository{}
}

func (m *MockAuthorizationRepository) GetUserPermissions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAuthorizationRepository) GetUserRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAuthorizationRepository) AssignRole(ctx context.Context, userID uuid.UUID, role string) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *MockAuthorizationRepository) SetUserRole(ctx context.Context, userID uuid.UUID, role string) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

// MockTicketRepository is a mock implementation of ports.TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

var _ ports.TicketRepository = (*MockTicketRepository)(nil)

func NewMockTicketRepository() *MockTicketRepository {
	return &MockTicketRepository{}
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	args := m.Called(ctx, ticket)
	if fn, ok := args.Get(0).(func(context.Context, *domain.Ticket) *domain.Ticket); ok {
		return fn(ctx, ticket), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Update(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	args := m.Called(ctx, ticket)
	if fn, ok := args.Get(0).(func(context.Context, *domain.Ticket) *domain.Ticket); ok {
		return fn(ctx, ticket), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketRepository) List(ctx context.Context, filter ports.TicketFilter) ([]*domain.Ticket, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Ticket), args.Error(1)
}

// MockInteractionRepository is a mock implementation of ports.InteractionRepository
type MockInteractionRepository struct {
	mock.Mock
}

var _ ports.InteractionRepository = (*MockInteractionRepository)(nil)

func NewMockInteractionRepository() *MockInteractionRepository {
	return &MockInteractionRepository{}
}

func (m *MockInteractionRepository) Create(ctx context.Context, interaction *domain.Interaction) (*domain.Interaction, error) {
	args := m.Called(ctx, interaction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interaction), args.Error(1)
}

func (m *MockInteractionRepository) ListByTicketID(ctx context.Context, ticketID uuid.UUID) ([]*domain.Interaction, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Interaction), args.Error(1)
}

// MockTeamRepository is a mock implementation of ports.TeamRepository
type MockTeamRepository struct {
	mock.Mock
}

var _ ports.TeamRepository = (*MockTeamRepository)(nil)

func NewMockTeamRepository() *MockTeamRepository {
	return &MockTeamRepository{}
}

func (m *MockTeamRepository) Create(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	args := m.Called(ctx, team)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *MockTeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *MockTeamRepository) List(ctx context.Context) ([]*domain.Team, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Team), args.Error(1)
}

func (m *MockTeamRepository) ListMembers(ctx context.Context, teamID uuid.UUID) ([]*domain.TeamMember, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TeamMember), args.Error(1)
}

func (m *MockTeamRepository) ListAllMembers(ctx context.Context) ([]*domain.TeamMember, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TeamMember), args.Error(1)
}

func (m *MockTeamRepository) AddMember(ctx context.Context, member *domain.TeamMember) (*domain.TeamMember, error) {
	args := m.Called(ctx, member)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TeamMember), args.Error(1)
}

func (m *MockTeamRepository) GetMember(ctx context.Context, teamID, memberID uuid.UUID) (*domain.TeamMember, error) {
	args := m.Called(ctx, teamID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TeamMember), args.Error(1)
}

func (m *MockTeamRepository) UpdateMemberRole(ctx context.Context, teamID, memberID uuid.UUID, role domain.TeamRole) (*domain.TeamMember, error) {
	args := m.Called(ctx, teamID, memberID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TeamMember), args.Error(1)
}

func (m *MockTeamRepository) RemoveMember(ctx context.Context, teamID, memberID uuid.UUID) error {
	args := m.Called(ctx, teamID, memberID)
	return args.Error(0)
}

func (m *MockTeamRepository) ManagesAnyTeam(ctx context.Context, profileID uuid.UUID) (bool, error) {
	args := m.Called(ctx, profileID)
	return args.Bool(0), args.Error(1)
}

// MockCustomFieldRepository is a mock implementation of ports.CustomFieldRepository
type MockCustomFieldRepository struct {
	mock.Mock
}

var _ ports.CustomFieldRepository = (*MockCustomFieldRepository)(nil)

func NewMockCustomFieldRepository() *MockCustomFieldRepository {
	return &MockCustomFieldRepository{}
}

func (m *MockCustomFieldRepository) Create(ctx context.Context, field *domain.CustomField) (*domain.CustomField, error) {
	args := m.Called(ctx, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomField), args.Error(1)
}

func (m *MockCustomFieldRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CustomField, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomField), args.Error(1)
}

func (m *MockCustomFieldRepository) Update(ctx context.Context, field *domain.CustomField) (*domain.CustomField, error) {
	args := m.Called(ctx, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomField), args.Error(1)
}

func (m *MockCustomFieldRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCustomFieldRepository) ListApplicable(ctx context.Context, teamID *uuid.UUID) ([]*domain.CustomField, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CustomField), args.Error(1)
}

func (m *MockCustomFieldRepository) ListValues(ctx context.Context, ticketID uuid.UUID) ([]*domain.CustomFieldValue, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CustomFieldValue), args.Error(1)
}

func (m *MockCustomFieldRepository) UpsertValue(ctx context.Context, value *domain.CustomFieldValue) (*domain.CustomFieldValue, error) {
	args := m.Called(ctx, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomFieldValue), args.Error(1)
}

// MockTicketEventRepository is a mock implementation of ports.TicketEventRepository
type MockTicketEventRepository struct {
	mock.Mock
}

var _ ports.TicketEventRepository = (*MockTicketEventRepository)(nil)

func NewMockTicketEventRepository() *MockTicketEventRepository {
	return &MockTicketEventRepository{}
}

func (m *MockTicketEventRepository) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockTicketEventRepository) ListByTicketID(ctx context.Context, ticketID uuid.UUID, afterID int64, limit int) ([]*domain.Event, error) {
	args := m.Called(ctx, ticketID, afterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Event), args.Error(1)
}

// MockDashboardRepository is a mock implementation of ports.DashboardRepository
type MockDashboardRepository struct {
	mock.Mock
}

var _ ports.DashboardRepository = (*MockDashboardRepository)(nil)

func NewMockDashboardRepository() *MockDashboardRepository {
	return &MockDashboardRepository{}
}

func (m *MockDashboardRepository) ListTicketStatuses(ctx context.Context) ([]domain.TicketStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TicketStatus), args.Error(1)
}

func (m *MockDashboardRepository) ListTeamsWithTickets(ctx context.Context) ([]domain.TeamTickets, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TeamTickets), args.Error(1)
}

func (m *MockDashboardRepository) CountTeams(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockDashboardCache is a mock implementation of ports.DashboardCache
type MockDashboardCache struct {
	mock.Mock
}

var _ ports.DashboardCache = (*MockDashboardCache)(nil)

func NewMockDashboardCache() *MockDashboardCache {
	return &MockDashboardCache{}
}

func (m *MockDashboardCache) GetOverview(ctx context.Context) (*domain.DashboardOverview, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.DashboardOverview), args.Bool(1), args.Error(2)
}

func (m *MockDashboardCache) SetOverview(ctx context.Context, overview *domain.DashboardOverview, ttl time.Duration) error {
	args := m.Called(ctx, overview, ttl)
	return args.Error(0)
}

func (m *MockDashboardCache) GetTeamStats(ctx context.Context) ([]domain.TeamAggregate, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]domain.TeamAggregate), args.Bool(1), args.Error(2)
}

func (m *MockDashboardCache) SetTeamStats(ctx context.Context, stats []domain.TeamAggregate, ttl time.Duration) error {
	args := m.Called(ctx, stats, ttl)
	return args.Error(0)
}

func (m *MockDashboardCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockAuthService is a mock implementation of ports.AuthService
type MockAuthService struct {
	mock.Mock
}

var _ ports.AuthService = (*MockAuthService)(nil)

func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) Register(ctx context.Context, fullName, email, password string) (*domain.Profile, error) {
	args := m.Called(ctx, fullName, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.Profile, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

// MockAuthorizationService is a mock implementation of ports.AuthorizationService
type MockAuthorizationService struct {
	mock.Mock
}

var _ ports.AuthorizationService = (*MockAuthorizationService)(nil)

func NewMockAuthorizationService() *MockAuthorizationService {
	return &MockAuthorizationService{}
}

func (m *MockAuthorizationService) Can(ctx context.Context, userID uuid.UUID, permission string) (bool, error) {
	args := m.Called(ctx, userID, permission)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthorizationService) GetPermissions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAuthorizationService) GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockProfileService is a mock implementation of ports.ProfileService
type MockProfileService struct {
	mock.Mock
}

var _ ports.ProfileService = (*MockProfileService)(nil)

func NewMockProfileService() *MockProfileService {
	return &MockProfileService{}
}

func (m *MockProfileService) GetProfile(ctx context.Context, profileID uuid.UUID) (*domain.Profile, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, profileID uuid.UUID, params domain.ProfileUpdateParams) (*domain.Profile, error) {
	args := m.Called(ctx, profileID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileService) ListProfiles(ctx context.Context, actorID uuid.UUID) ([]*domain.Profile, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Profile), args.Error(1)
}

func (m *MockProfileService) SetRole(ctx context.Context, actorID, profileID uuid.UUID, role domain.Role) error {
	args := m.Called(ctx, actorID, profileID, role)
	return args.Error(0)
}

// MockTicketService is a mock implementation of ports.TicketService
type MockTicketService struct {
	mock.Mock
}

var _ ports.TicketService = (*MockTicketService)(nil)

func NewMockTicketService() *MockTicketService {
	return &MockTicketService{}
}

func (m *MockTicketService) CreateTicket(ctx context.Context, params ports.CreateTicketParams) (*domain.Ticket, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketService) GetTicket(ctx context.Context, ticketID, viewerID uuid.UUID) (*domain.Ticket, error) {
	args := m.Called(ctx, ticketID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketService) UpdateTicket(ctx context.Context, params ports.UpdateTicketParams) (*domain.Ticket, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketService) ListTickets(ctx context.Context, params ports.ListTicketsParams) ([]*domain.Ticket, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Ticket), args.Error(1)
}

func (m *MockTicketService) Shutdown() {}

// MockInteractionService is a mock implementation of ports.InteractionService
type MockInteractionService struct {
	mock.Mock
}

var _ ports.InteractionService = (*MockInteractionService)(nil)

func NewMockInteractionService() *MockInteractionService {
	return &MockInteractionService{}
}

func (m *MockInteractionService) AddInteraction(ctx context.Context, params ports.AddInteractionParams) (*domain.Interaction, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Interaction), args.Error(1)
}

func (m *MockInteractionService) ListInteractions(ctx context.Context, ticketID, viewerID uuid.UUID) ([]*domain.Interaction, error) {
	args := m.Called(ctx, ticketID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Interaction), args.Error(1)
}

func (m *MockInteractionService) SummarizeHistory(ctx context.Context, ticketID, viewerID uuid.UUID) ([]domain.AuthorSummary, error) {
	args := m.Called(ctx, ticketID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuthorSummary), args.Error(1)
}

func (m *MockInteractionService) Shutdown() {}

// MockEventService is a mock implementation of ports.EventService
type MockEventService struct {
	mock.Mock
}

var _ ports.EventService = (*MockEventService)(nil)

func NewMockEventService() *MockEventService {
	return &MockEventService{}
}

func (m *MockEventService) ListTicketEvents(ctx context.Context, params ports.ListTicketEventsParams) ([]*domain.Event, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Event), args.Error(1)
}

// MockTeamService is a mock implementation of ports.TeamService
type MockTeamService struct {
	mock.Mock
}

var _ ports.TeamService = (*MockTeamService)(nil)

func NewMockTeamService() *MockTeamService {
	return &MockTeamService{}
}

func (m *MockTeamService) CreateTeam(ctx context.Context, actorID uuid.UUID, params domain.TeamParams) (*domain.Team, error) {
	args := m.Called(ctx, actorID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *MockTeamService) GetTeam(ctx context.Context, teamID, viewerID uuid.UUID) (*domain.TeamOverview, error) {
	args := m.Called(ctx, teamID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TeamOverview), args.Error(1)
}

func (m *MockTeamService) ListTeams(ctx context.Context, viewerID uuid.UUID) ([]*domain.TeamOverview, error) {
	args := m.Called(ctx, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TeamOverview), args.Error(1)
}

func (m *MockTeamService) AddMember(ctx context.Context, params ports.AddMemberParams) (*domain.TeamMember, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TeamMember), args.Error(1)
}

func (m *MockTeamService) UpdateMemberRole(ctx context.Context, actorID, teamID, memberID uuid.UUID, role domain.TeamRole) (*domain.TeamMember, error) {
	args := m.Called(ctx, actorID, teamID, memberID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TeamMember), args.Error(1)
}

func (m *MockTeamService) RemoveMember(ctx context.Context, actorID, teamID, memberID uuid.UUID) error {
	args := m.Called(ctx, actorID, teamID, memberID)
	return args.Error(0)
}

// MockCustomFieldService is a mock implementation of ports.CustomFieldService
type MockCustomFieldService struct {
	mock.Mock
}

var _ ports.CustomFieldService = (*MockCustomFieldService)(nil)

func NewMockCustomFieldService() *MockCustomFieldService {
	return &MockCustomFieldService{}
}

func (m *MockCustomFieldService) ListFields(ctx context.Context, viewerID uuid.UUID, teamID *uuid.UUID) ([]*domain.CustomField, error) {
	args := m.Called(ctx, viewerID, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CustomField), args.Error(1)
}

func (m *MockCustomFieldService) CreateField(ctx context.Context, actorID uuid.UUID, params domain.CustomFieldParams) (*domain.CustomField, error) {
	args := m.Called(ctx, actorID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomField), args.Error(1)
}

func (m *MockCustomFieldService) UpdateField(ctx context.Context, actorID, fieldID uuid.UUID, params domain.CustomFieldParams) (*domain.CustomField, error) {
	args := m.Called(ctx, actorID, fieldID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomField), args.Error(1)
}

func (m *MockCustomFieldService) DeleteField(ctx context.Context, actorID, fieldID uuid.UUID) error {
	args := m.Called(ctx, actorID, fieldID)
	return args.Error(0)
}

func (m *MockCustomFieldService) GetTicketFields(ctx context.Context, ticketID, viewerID uuid.UUID) ([]domain.TicketField, error) {
	args := m.Called(ctx, ticketID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TicketField), args.Error(1)
}

func (m *MockCustomFieldService) SetTicketFieldValue(ctx context.Context, params ports.SetFieldValueParams) (*domain.CustomFieldValue, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomFieldValue), args.Error(1)
}

// MockDashboardService is a mock implementation of ports.DashboardService
type MockDashboardService struct {
	mock.Mock
}

var _ ports.DashboardService = (*MockDashboardService)(nil)

func NewMockDashboardService() *MockDashboardService {
	return &MockDashboardService{}
}

func (m *MockDashboardService) GetOverview(ctx context.Context, viewerID uuid.UUID) (*domain.DashboardOverview, error) {
	args := m.Called(ctx, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardOverview), args.Error(1)
}

func (m *MockDashboardService) GetTeamStats(ctx context.Context, viewerID uuid.UUID) ([]domain.TeamAggregate, error) {
	args := m.Called(ctx, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TeamAggregate), args.Error(1)
}

func (m *MockDashboardService) Invalidate(ctx context.Context) {
	m.Called(ctx)
}

// MockNotifier is a mock implementation of ports.Notifier
type MockNotifier struct {
	mock.Mock
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Notify(ctx context.Context, params ports.NotificationParams) {
	m.Called(ctx, params)
}

// MockEventBroadcaster is a mock implementation of ports.EventBroadcaster
type MockEventBroadcaster struct {
	mock.Mock
}

func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

func (m *MockEventBroadcaster) Broadcast(event domain.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockTransactionManager runs the callback directly on the caller's context.
type MockTransactionManager struct {
	Calls int
}

var _ ports.TransactionManager = (*MockTransactionManager)(nil)

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	return fn(ctx)
}
