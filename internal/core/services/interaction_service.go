package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

// InteractionService implements the business logic for ticket interactions.
type InteractionService struct {
	interactionRepo ports.InteractionRepository
	eventRepo       ports.TicketEventRepository
	ticketSvc       ports.TicketService
	authzSvc        ports.AuthorizationService
	txManager       ports.TransactionManager
	notifier        ports.Notifier
	broadcaster     ports.EventBroadcaster
	wg              sync.WaitGroup
}

// Ensure implementation matches the interface.
var _ ports.InteractionService = (*InteractionService)(nil)

// NewInteractionService creates a new service for interaction logic.
func NewInteractionService(
	interactionRepo ports.InteractionRepository,
	eventRepo ports.TicketEventRepository,
	ticketSvc ports.TicketService,
	authzSvc ports.AuthorizationService,
	txManager ports.TransactionManager,
	notifier ports.Notifier,
	broadcaster ports.EventBroadcaster,
) ports.InteractionService {
	return &InteractionService{
		interactionRepo: interactionRepo,
		eventRepo:       eventRepo,
		ticketSvc:       ticketSvc,
		authzSvc:        authzSvc,
		txManager:       txManager,
		notifier:        notifier,
		broadcaster:     broadcaster,
	}
}

// AddInteraction posts a comment on a ticket.
func (s *InteractionService) AddInteraction(ctx context.Context, params ports.AddInteractionParams) (*domain.Interaction, error) {
	// 1. Check permission to create interactions.
	if err := requirePermission(ctx, s.authzSvc, params.ActorID, "interactions:create"); err != nil {
		return nil, err
	}

	// 2. The ticket must be visible to the author.
	ticket, err := s.ticketSvc.GetTicket(ctx, params.TicketID, params.ActorID)
	if err != nil {
		return nil, err
	}

	// 3. Create the domain entity.
	interaction, err := domain.NewInteraction(domain.InteractionParams{
		TicketID: params.TicketID,
		AuthorID: params.ActorID,
		Content:  params.Content,
	})
	if err != nil {
		return nil, err
	}

	// 4. Persist the interaction with its audit entry.
	var created *domain.Interaction
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.interactionRepo.Create(txCtx, interaction)
		if err != nil {
			return err
		}

		_, err = recordEvent(txCtx, s.eventRepo, created.TicketID, params.ActorID,
			domain.EventInteractionAdded, domain.NewInteractionSnapshot(created))
		return err
	})
	if err != nil {
		return nil, err
	}

	// 5. Notify the creator unless they wrote it.
	if !ticket.IsCreatedBy(params.ActorID) {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.notifier.Notify(context.Background(), ports.NotificationParams{
				RecipientUserID: ticket.CreatedBy,
				Subject:         fmt.Sprintf("New reply on your ticket: %s", ticket.Title),
				Message:         fmt.Sprintf("%s replied to your ticket '%s'.", created.AuthorName, ticket.Title),
				TicketID:        ticket.ID,
			})
		}()
	}

	// 6. Broadcast real-time event.
	if payload, err := marshalEventPayload(domain.NewInteractionSnapshot(created)); err == nil {
		event := domain.Event{
			TicketID:  created.TicketID,
			Type:      domain.EventInteractionAdded,
			Payload:   payload,
			ActorID:   params.ActorID,
			CreatedAt: created.CreatedAt,
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			_ = s.broadcaster.Broadcast(event)
		}()
	}

	return created, nil
}

// ListInteractions returns a ticket's interactions oldest first.
func (s *InteractionService) ListInteractions(ctx context.Context, ticketID, viewerID uuid.UUID) ([]*domain.Interaction, error) {
	if err := requirePermission(ctx, s.authzSvc, viewerID, "interactions:read"); err != nil {
		return nil, err
	}

	if _, err := s.ticketSvc.GetTicket(ctx, ticketID, viewerID); err != nil {
		return nil, err
	}

	return s.interactionRepo.ListByTicketID(ctx, ticketID)
}

// SummarizeHistory groups a ticket's interactions by author.
func (s *InteractionService) SummarizeHistory(ctx context.Context, ticketID, viewerID uuid.UUID) ([]domain.AuthorSummary, error) {
	interactions, err := s.ListInteractions(ctx, ticketID, viewerID)
	if err != nil {
		return nil, err
	}

	return domain.SummarizeInteractions(interactions), nil
}

// Shutdown waits for pending notifications and broadcasts.
func (s *InteractionService) Shutdown() {
	s.wg.Wait()
}
