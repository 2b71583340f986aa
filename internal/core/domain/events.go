package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType defines the type of ticket event.
type EventType string

const (
	EventTicketCreated    EventType = "TICKET_CREATED"
	EventTicketUpdated    EventType = "TICKET_UPDATED"
	EventStatusChanged    EventType = "STATUS_CHANGED"
	EventPriorityChanged  EventType = "PRIORITY_CHANGED"
	EventTeamChanged      EventType = "TEAM_CHANGED"
	EventAssigneeChanged  EventType = "ASSIGNEE_CHANGED"
	EventInteractionAdded EventType = "INTERACTION_ADDED"
	EventFieldValueSet    EventType = "FIELD_VALUE_SET"
	EventPong             EventType = "PONG"
)

// Event is both a row of the ticket audit log and the payload sent over
// WebSocket. TicketID routes it to the ticket's room.
type Event struct {
	ID        int64           `json:"id,omitempty"`
	TicketID  uuid.UUID       `json:"ticketId"`
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	ActorID   uuid.UUID       `json:"actorId"`
	CreatedAt time.Time       `json:"createdAt"`
}
