package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

func marshalEventPayload(payload any) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal event payload: %w", err)
	}
	return json.RawMessage(data), nil
}

// recordEvent appends an entry to the ticket audit log.
func recordEvent(
	ctx context.Context,
	eventRepo ports.TicketEventRepository,
	ticketID, actorID uuid.UUID,
	eventType domain.EventType,
	payload any,
) (*domain.Event, error) {
	data, err := marshalEventPayload(payload)
	if err != nil {
		return nil, err
	}

	return eventRepo.Create(ctx, &domain.Event{
		TicketID:  ticketID,
		Type:      eventType,
		Payload:   data,
		ActorID:   actorID,
		CreatedAt: time.Now().UTC(),
	})
}
