package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/aegis-helpdesk/internal/core/errors"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

// TicketService implements business logic for ticket management
type TicketService struct {
	ticketRepo  ports.TicketRepository
	eventRepo   ports.TicketEventRepository
	authzSvc    ports.AuthorizationService
	txManager   ports.TransactionManager
	notifier    ports.Notifier
	broadcaster ports.EventBroadcaster
	dashboard   ports.DashboardService
	wg          sync.WaitGroup
}

var _ ports.TicketService = (*TicketService)(nil)

// NewTicketService creates a new ticket service
func NewTicketService(
	ticketRepo ports.TicketRepository,
	eventRepo ports.TicketEventRepository,
	authzSvc ports.AuthorizationService,
	txManager ports.TransactionManager,
	notifier ports.Notifier,
	broadcaster ports.EventBroadcaster,
	dashboard ports.DashboardService,
) ports.TicketService {
	return &TicketService{
		ticketRepo:  ticketRepo,
		eventRepo:   eventRepo,
		authzSvc:    authzSvc,
		txManager:   txManager,
		notifier:    notifier,
		broadcaster: broadcaster,
		dashboard:   dashboard,
	}
}

// CreateTicket handles the use case for submitting a new ticket
func (s *TicketService) CreateTicket(ctx context.Context, params ports.CreateTicketParams) (*domain.Ticket, error) {
	// 1. Authorization Check
	if err := requirePermission(ctx, s.authzSvc, params.ActorID, "tickets:create"); err != nil {
		return nil, err
	}

	// 2. Create domain entity with validation
	ticket, err := domain.NewTicket(domain.TicketParams{
		Title:       params.Title,
		Description: params.Description,
		Priority:    params.Priority,
		PrimaryType: params.PrimaryType,
		Type:        params.Type,
		TeamID:      params.TeamID,
		CreatedBy:   params.ActorID,
	})
	if err != nil {
		return nil, err
	}

	// 3. Persist the ticket and its creation event atomically
	var created *domain.Ticket
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.ticketRepo.Create(txCtx, ticket)
		if err != nil {
			return err
		}

		_, err = recordEvent(txCtx, s.eventRepo, created.ID, params.ActorID,
			domain.EventTicketCreated, domain.NewTicketSnapshot(created))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dashboard.Invalidate(ctx)

	return created, nil
}

// GetTicket retrieves a specific ticket with authorization
func (s *TicketService) GetTicket(ctx context.Context, ticketID, viewerID uuid.UUID) (*domain.Ticket, error) {
	if err := requirePermission(ctx, s.authzSvc, viewerID, "tickets:read"); err != nil {
		return nil, err
	}

	return s.ticketRepo.GetByID(ctx, ticketID)
}

// UpdateTicket applies any subset of status, priority, team and assignee
// changes. Each changed attribute is written to the audit log.
func (s *TicketService) UpdateTicket(ctx context.Context, params ports.UpdateTicketParams) (*domain.Ticket, error) {
	if err := requirePermission(ctx, s.authzSvc, params.ActorID, "tickets:update"); err != nil {
		return nil, err
	}

	if params.Status == nil && params.Priority == nil && params.TeamID == nil &&
		!params.ClearTeam && params.AssigneeID == nil && !params.ClearAssignee {
		return nil, apperrors.ErrNoChanges
	}

	var (
		updated       *domain.Ticket
		statusChanged bool
		teamChanged   bool
	)
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		ticket, err := s.ticketRepo.GetByID(txCtx, params.TicketID)
		if err != nil {
			return err
		}

		type change struct {
			eventType domain.EventType
			payload   domain.FieldChange
		}
		var changes []change

		if params.Status != nil {
			from := ticket.Status
			changed, err := ticket.SetStatus(*params.Status)
			if err != nil {
				return err
			}
			if changed {
				statusChanged = true
				changes = append(changes, change{domain.EventStatusChanged,
					domain.NewStringChange(string(from), string(ticket.Status))})
			}
		}

		if params.Priority != nil {
			from := ticket.Priority
			changed, err := ticket.SetPriority(*params.Priority)
			if err != nil {
				return err
			}
			if changed {
				changes = append(changes, change{domain.EventPriorityChanged,
					domain.NewStringChange(string(from), string(ticket.Priority))})
			}
		}

		if params.TeamID != nil || params.ClearTeam {
			from := ticket.TeamID
			if ticket.SetTeam(params.TeamID) {
				teamChanged = true
				changes = append(changes, change{domain.EventTeamChanged,
					domain.NewUUIDChange(from, ticket.TeamID)})
			}
		}

		if params.AssigneeID != nil || params.ClearAssignee {
			from := ticket.AssignedTo
			if ticket.Assign(params.AssigneeID) {
				changes = append(changes, change{domain.EventAssigneeChanged,
					domain.NewUUIDChange(from, ticket.AssignedTo)})
			}
		}

		if len(changes) == 0 {
			updated = ticket
			return nil
		}

		updated, err = s.ticketRepo.Update(txCtx, ticket)
		if err != nil {
			return err
		}

		for _, c := range changes {
			if _, err := recordEvent(txCtx, s.eventRepo, ticket.ID, params.ActorID, c.eventType, c.payload); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if statusChanged || teamChanged {
		s.dashboard.Invalidate(ctx)
	}

	if statusChanged {
		if !updated.IsCreatedBy(params.ActorID) {
			s.notifyStatusUpdate(updated)
		}
		s.broadcastTicketUpdate(updated, params.ActorID)
	}

	return updated, nil
}

// ListTickets retrieves tickets newest first. It fetches one row more than
// requested so callers can tell whether another page exists.
func (s *TicketService) ListTickets(ctx context.Context, params ports.ListTicketsParams) ([]*domain.Ticket, error) {
	if err := requirePermission(ctx, s.authzSvc, params.ViewerID, "tickets:read"); err != nil {
		return nil, err
	}

	return s.ticketRepo.List(ctx, ports.TicketFilter{
		Status:   params.Status,
		Priority: params.Priority,
		TeamID:   params.TeamID,
		Limit:    params.Limit + 1,
		Offset:   params.Offset,
	})
}

// notifyStatusUpdate emails the creator about a status change
func (s *TicketService) notifyStatusUpdate(ticket *domain.Ticket) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// Use background context since the HTTP request may be done
		s.notifier.Notify(context.Background(), ports.NotificationParams{
			RecipientUserID: ticket.CreatedBy,
			Subject:         fmt.Sprintf("Your ticket status has been updated: %s", ticket.Title),
			Message:         fmt.Sprintf("The status of your ticket '%s' was changed to %s.", ticket.Title, ticket.Status),
			TicketID:        ticket.ID,
		})
	}()
}

// broadcastTicketUpdate pushes the new ticket state to the ticket's room
func (s *TicketService) broadcastTicketUpdate(ticket *domain.Ticket, actorID uuid.UUID) {
	payload, err := marshalEventPayload(domain.NewTicketSnapshot(ticket))
	if err != nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.broadcaster.Broadcast(domain.Event{
			TicketID:  ticket.ID,
			Type:      domain.EventTicketUpdated,
			Payload:   payload,
			ActorID:   actorID,
			CreatedAt: ticket.UpdatedAt,
		})
	}()
}

// Shutdown waits for pending notifications and broadcasts.
func (s *TicketService) Shutdown() {
	s.wg.Wait()
}
