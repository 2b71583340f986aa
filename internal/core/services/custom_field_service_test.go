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

type customFieldDeps struct {
	fieldRepo *mocks.MockCustomFieldRepository
	teamRepo  *mocks.MockTeamRepository
	eventRepo *mocks.MockTicketEventRepository
	ticketSvc *mocks.MockTicketService
	authz     *mocks.MockAuthorizationService
}

func newCustomFieldService() (ports.CustomFieldService, customFieldDeps) {
	deps := customFieldDeps{
		fieldRepo: mocks.NewMockCustomFieldRepository(),
		teamRepo:  mocks.NewMockTeamRepository(),
		eventRepo: mocks.NewMockTicketEventRepository(),
		ticketSvc: mocks.NewMockTicketService(),
		authz:     mocks.NewMockAuthorizationService(),
	}
	svc := services.NewCustomFieldService(deps.fieldRepo, deps.teamRepo, deps.eventRepo,
		deps.ticketSvc, deps.authz, mocks.NewMockTransactionManager())
	return svc, deps
}

func TestCustomFieldService_CreateField(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()
	params := domain.CustomFieldParams{
		Key:     "impact",
		Label:   "Impact",
		Type:    domain.FieldSelect,
		Options: []string{"low", "high"},
	}

	t.Run("fields:manage holder creates", func(t *testing.T) {
		svc, deps := newCustomFieldService()

		deps.authz.On("Can", ctx, actorID, "fields:manage").Return(true, nil)
		deps.fieldRepo.On("Create", ctx, mock.AnythingOfType("*domain.CustomField")).
			Return(&domain.CustomField{ID: uuid.New(), Key: "impact"}, nil)

		field, err := svc.CreateField(ctx, actorID, params)

		require.NoError(t, err)
		assert.Equal(t, "impact", field.Key)
		deps.teamRepo.AssertNotCalled(t, "ManagesAnyTeam", mock.Anything, mock.Anything)
	})

	t.Run("team manager creates", func(t *testing.T) {
		svc, deps := newCustomFieldService()

		deps.authz.On("Can", ctx, actorID, "fields:manage").Return(false, nil)
		deps.teamRepo.On("ManagesAnyTeam", ctx, actorID).Return(true, nil)
		deps.fieldRepo.On("Create", ctx, mock.AnythingOfType("*domain.CustomField")).
			Return(&domain.CustomField{ID: uuid.New(), Key: "impact"}, nil)

		_, err := svc.CreateField(ctx, actorID, params)

		require.NoError(t, err)
	})

	t.Run("plain agent is forbidden", func(t *testing.T) {
		svc, deps := newCustomFieldService()

		deps.authz.On("Can", ctx, actorID, "fields:manage").Return(false, nil)
		deps.teamRepo.On("ManagesAnyTeam", ctx, actorID).Return(false, nil)

		_, err := svc.CreateField(ctx, actorID, params)

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		deps.fieldRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown team", func(t *testing.T) {
		svc, deps := newCustomFieldService()
		teamID := uuid.New()
		scoped := params
		scoped.TeamID = &teamID

		deps.authz.On("Can", ctx, actorID, "fields:manage").Return(true, nil)
		deps.teamRepo.On("GetByID", ctx, teamID).Return(nil, apperrors.ErrTeamNotFound)

		_, err := svc.CreateField(ctx, actorID, scoped)

		assert.ErrorIs(t, err, apperrors.ErrTeamNotFound)
	})
}

func TestCustomFieldService_SetTicketFieldValue(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()
	teamID := uuid.New()
	ticket := &domain.Ticket{ID: uuid.New(), TeamID: &teamID}

	t.Run("stores the normalized value and records an event", func(t *testing.T) {
		svc, deps := newCustomFieldService()
		field := &domain.CustomField{ID: uuid.New(), Key: "tags", Label: "Tags", Type: domain.FieldMultiselect,
			Options: []string{"vpn", "wifi", "email"}}

		deps.authz.On("Can", ctx, actorID, "tickets:update").Return(true, nil)
		deps.ticketSvc.On("GetTicket", ctx, ticket.ID, actorID).Return(ticket, nil)
		deps.fieldRepo.On("GetByID", ctx, field.ID).Return(field, nil)
		deps.fieldRepo.On("UpsertValue", ctx, mock.MatchedBy(func(v *domain.CustomFieldValue) bool {
			return v.Value == "vpn,email" && v.TicketID == ticket.ID && v.FieldID == field.ID
		})).Return(&domain.CustomFieldValue{FieldID: field.ID, Value: "vpn,email"}, nil)
		deps.eventRepo.On("Create", ctx, eventOfType(domain.EventFieldValueSet)).Return(&domain.Event{ID: 9}, nil)

		value, err := svc.SetTicketFieldValue(ctx, ports.SetFieldValueParams{
			TicketID: ticket.ID,
			FieldID:  field.ID,
			Value:    " vpn , email ",
			ActorID:  actorID,
		})

		require.NoError(t, err)
		assert.Equal(t, "vpn,email", value.Value)
		deps.fieldRepo.AssertExpectations(t)
		deps.eventRepo.AssertExpectations(t)
	})

	t.Run("field of another team does not apply", func(t *testing.T) {
		svc, deps := newCustomFieldService()
		otherTeam := uuid.New()
		field := &domain.CustomField{ID: uuid.New(), Key: "rack", Label: "Rack", Type: domain.FieldText, TeamID: &otherTeam}

		deps.authz.On("Can", ctx, actorID, "tickets:update").Return(true, nil)
		deps.ticketSvc.On("GetTicket", ctx, ticket.ID, actorID).Return(ticket, nil)
		deps.fieldRepo.On("GetByID", ctx, field.ID).Return(field, nil)

		_, err := svc.SetTicketFieldValue(ctx, ports.SetFieldValueParams{TicketID: ticket.ID, FieldID: field.ID, Value: "A1", ActorID: actorID})

		assert.ErrorIs(t, err, apperrors.ErrFieldNotApplicable)
	})

	t.Run("invalid number", func(t *testing.T) {
		svc, deps := newCustomFieldService()
		field := &domain.CustomField{ID: uuid.New(), Key: "seats", Label: "Seats", Type: domain.FieldNumber}

		deps.authz.On("Can", ctx, actorID, "tickets:update").Return(true, nil)
		deps.ticketSvc.On("GetTicket", ctx, ticket.ID, actorID).Return(ticket, nil)
		deps.fieldRepo.On("GetByID", ctx, field.ID).Return(field, nil)

		_, err := svc.SetTicketFieldValue(ctx, ports.SetFieldValueParams{TicketID: ticket.ID, FieldID: field.ID, Value: "many", ActorID: actorID})

		assert.ErrorIs(t, err, apperrors.ErrInvalidFieldValue)
		deps.fieldRepo.AssertNotCalled(t, "UpsertValue", mock.Anything, mock.Anything)
	})
}

func TestCustomFieldService_GetTicketFields(t *testing.T) {
	ctx := context.Background()
	viewerID := uuid.New()
	ticket := &domain.Ticket{ID: uuid.New()}
	withValue := &domain.CustomField{ID: uuid.New(), Key: "asset", OrderIndex: 0}
	withoutValue := &domain.CustomField{ID: uuid.New(), Key: "site", OrderIndex: 1}

	svc, deps := newCustomFieldService()
	deps.ticketSvc.On("GetTicket", ctx, ticket.ID, viewerID).Return(ticket, nil)
	deps.fieldRepo.On("ListApplicable", ctx, (*uuid.UUID)(nil)).Return([]*domain.CustomField{withValue, withoutValue}, nil)
	deps.fieldRepo.On("ListValues", ctx, ticket.ID).Return([]*domain.CustomFieldValue{
		{FieldID: withValue.ID, Value: "LT-0042"},
	}, nil)

	fields, err := svc.GetTicketFields(ctx, ticket.ID, viewerID)

	require.NoError(t, err)
	require.Len(t, fields, 2)
	require.NotNil(t, fields[0].Value)
	assert.Equal(t, "LT-0042", fields[0].Value.Value)
	assert.Nil(t, fields[1].Value)
}
