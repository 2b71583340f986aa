package services

import (
	"context"

	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

// DefaultEventLimit bounds an event page when the caller gives no limit.
const DefaultEventLimit = 50

// EventService handles ticket event queries.
type EventService struct {
	eventRepo ports.TicketEventRepository
	ticketSvc ports.TicketService
}

var _ ports.EventService = (*EventService)(nil)

// NewEventService creates a new event service.
func NewEventService(
	eventRepo ports.TicketEventRepository,
	ticketSvc ports.TicketService,
) ports.EventService {
	return &EventService{
		eventRepo: eventRepo,
		ticketSvc: ticketSvc,
	}
}

// ListTicketEvents retrieves events for a ticket after the given cursor.
func (s *EventService) ListTicketEvents(ctx context.Context, params ports.ListTicketEventsParams) ([]*domain.Event, error) {
	// Reuse ticket service authorization logic.
	if _, err := s.ticketSvc.GetTicket(ctx, params.TicketID, params.ViewerID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultEventLimit
	}
	afterID := params.AfterID
	if afterID < 0 {
		afterID = 0
	}

	return s.eventRepo.ListByTicketID(ctx, params.TicketID, afterID, limit)
}
