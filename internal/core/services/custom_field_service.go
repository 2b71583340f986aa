package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/aegis-helpdesk/internal/core/errors"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

// CustomFieldService manages field definitions and ticket values.
type CustomFieldService struct {
	fieldRepo ports.CustomFieldRepository
	teamRepo  ports.TeamRepository
	eventRepo ports.TicketEventRepository
	ticketSvc ports.TicketService
	authzSvc  ports.AuthorizationService
	txManager ports.TransactionManager
}

var _ ports.CustomFieldService = (*CustomFieldService)(nil)

// NewCustomFieldService creates a new custom field service.
func NewCustomFieldService(
	fieldRepo ports.CustomFieldRepository,
	teamRepo ports.TeamRepository,
	eventRepo ports.TicketEventRepository,
	ticketSvc ports.TicketService,
	authzSvc ports.AuthorizationService,
	txManager ports.TransactionManager,
) ports.CustomFieldService {
	return &CustomFieldService{
		fieldRepo: fieldRepo,
		teamRepo:  teamRepo,
		eventRepo: eventRepo,
		ticketSvc: ticketSvc,
		authzSvc:  authzSvc,
		txManager: txManager,
	}
}

// ListFields returns the global fields plus those of teamID.
func (s *CustomFieldService) ListFields(ctx context.Context, viewerID uuid.UUID, teamID *uuid.UUID) ([]*domain.CustomField, error) {
	if err := requirePermission(ctx, s.authzSvc, viewerID, "tickets:read"); err != nil {
		return nil, err
	}

	return s.fieldRepo.ListApplicable(ctx, teamID)
}

// CreateField defines a new field.
func (s *CustomFieldService) CreateField(ctx context.Context, actorID uuid.UUID, params domain.CustomFieldParams) (*domain.CustomField, error) {
	if err := s.requireFieldManager(ctx, actorID); err != nil {
		return nil, err
	}

	field, err := domain.NewCustomField(params)
	if err != nil {
		return nil, err
	}

	if field.TeamID != nil {
		if _, err := s.teamRepo.GetByID(ctx, *field.TeamID); err != nil {
			return nil, err
		}
	}

	return s.fieldRepo.Create(ctx, field)
}

// UpdateField replaces a field definition, keeping its id and creation time.
func (s *CustomFieldService) UpdateField(ctx context.Context, actorID, fieldID uuid.UUID, params domain.CustomFieldParams) (*domain.CustomField, error) {
	if err := s.requireFieldManager(ctx, actorID); err != nil {
		return nil, err
	}

	existing, err := s.fieldRepo.GetByID(ctx, fieldID)
	if err != nil {
		return nil, err
	}

	field, err := domain.NewCustomField(params)
	if err != nil {
		return nil, err
	}
	field.ID = existing.ID
	field.CreatedAt = existing.CreatedAt

	if field.TeamID != nil {
		if _, err := s.teamRepo.GetByID(ctx, *field.TeamID); err != nil {
			return nil, err
		}
	}

	return s.fieldRepo.Update(ctx, field)
}

// DeleteField removes a field definition and its stored values.
func (s *CustomFieldService) DeleteField(ctx context.Context, actorID, fieldID uuid.UUID) error {
	if err := s.requireFieldManager(ctx, actorID); err != nil {
		return err
	}

	return s.fieldRepo.Delete(ctx, fieldID)
}

// GetTicketFields pairs every field applicable to the ticket with its value.
func (s *CustomFieldService) GetTicketFields(ctx context.Context, ticketID, viewerID uuid.UUID) ([]domain.TicketField, error) {
	ticket, err := s.ticketSvc.GetTicket(ctx, ticketID, viewerID)
	if err != nil {
		return nil, err
	}

	fields, err := s.fieldRepo.ListApplicable(ctx, ticket.TeamID)
	if err != nil {
		return nil, err
	}

	values, err := s.fieldRepo.ListValues(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	valuesByField := make(map[uuid.UUID]*domain.CustomFieldValue, len(values))
	for _, value := range values {
		valuesByField[value.FieldID] = value
	}

	result := make([]domain.TicketField, 0, len(fields))
	for _, field := range fields {
		result = append(result, domain.TicketField{
			Field: field,
			Value: valuesByField[field.ID],
		})
	}
	return result, nil
}

// SetTicketFieldValue validates and stores a field value on a ticket.
func (s *CustomFieldService) SetTicketFieldValue(ctx context.Context, params ports.SetFieldValueParams) (*domain.CustomFieldValue, error) {
	if err := requirePermission(ctx, s.authzSvc, params.ActorID, "tickets:update"); err != nil {
		return nil, err
	}

	ticket, err := s.ticketSvc.GetTicket(ctx, params.TicketID, params.ActorID)
	if err != nil {
		return nil, err
	}

	field, err := s.fieldRepo.GetByID(ctx, params.FieldID)
	if err != nil {
		return nil, err
	}
	if !field.AppliesTo(ticket.TeamID) {
		return nil, apperrors.ErrFieldNotApplicable
	}

	normalized, err := field.NormalizeValue(params.Value)
	if err != nil {
		return nil, err
	}

	var stored *domain.CustomFieldValue
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		stored, err = s.fieldRepo.UpsertValue(txCtx, &domain.CustomFieldValue{
			ID:       uuid.New(),
			TicketID: ticket.ID,
			FieldID:  field.ID,
			Value:    normalized,
		})
		if err != nil {
			return err
		}

		_, err = recordEvent(txCtx, s.eventRepo, ticket.ID, params.ActorID, domain.EventFieldValueSet,
			domain.FieldValueChange{
				FieldID:  field.ID.String(),
				FieldKey: field.Key,
				Value:    normalized,
			})
		return err
	})
	if err != nil {
		return nil, err
	}

	return stored, nil
}

// requireFieldManager allows holders of fields:manage and any team manager.
func (s *CustomFieldService) requireFieldManager(ctx context.Context, actorID uuid.UUID) error {
	allowed, err := s.authzSvc.Can(ctx, actorID, "fields:manage")
	if err != nil {
		return err
	}
	if allowed {
		return nil
	}

	managesTeam, err := s.teamRepo.ManagesAnyTeam(ctx, actorID)
	if err != nil {
		return err
	}
	if !managesTeam {
		return apperrors.ErrForbidden
	}
	return nil
}
