package domain

import (
	"time"

	"github.com/google/uuid"
)

// TicketSnapshot matches the API response shape for tickets.
type TicketSnapshot struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	PrimaryType string  `json:"primaryType"`
	Type        string  `json:"type"`
	TeamID      *string `json:"teamId"`
	CreatedBy   string  `json:"createdBy"`
	AssignedTo  *string `json:"assignedTo"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// InteractionSnapshot matches the API response shape for interactions.
type InteractionSnapshot struct {
	ID         string `json:"id"`
	TicketID   string `json:"ticketId"`
	AuthorID   string `json:"authorId"`
	AuthorName string `json:"authorName"`
	Type       string `json:"type"`
	Content    string `json:"content"`
	CreatedAt  string `json:"createdAt"`
}

// FieldChange records a single attribute change on a ticket.
type FieldChange struct {
	From *string `json:"from"`
	To   *string `json:"to"`
}

// FieldValueChange records a custom field value being set.
type FieldValueChange struct {
	FieldID  string `json:"fieldId"`
	FieldKey string `json:"fieldKey"`
	Value    string `json:"value"`
}

// NewTicketSnapshot builds a ticket snapshot from a domain ticket.
func NewTicketSnapshot(ticket *Ticket) TicketSnapshot {
	return TicketSnapshot{
		ID:          ticket.ID.String(),
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      string(ticket.Status),
		Priority:    string(ticket.Priority),
		PrimaryType: ticket.PrimaryType,
		Type:        ticket.Type,
		TeamID:      uuidString(ticket.TeamID),
		CreatedBy:   ticket.CreatedBy.String(),
		AssignedTo:  uuidString(ticket.AssignedTo),
		CreatedAt:   ticket.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   ticket.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// NewInteractionSnapshot builds an interaction snapshot.
func NewInteractionSnapshot(interaction *Interaction) InteractionSnapshot {
	return InteractionSnapshot{
		ID:         interaction.ID.String(),
		TicketID:   interaction.TicketID.String(),
		AuthorID:   interaction.AuthorID.String(),
		AuthorName: interaction.AuthorName,
		Type:       string(interaction.Type),
		Content:    interaction.Content,
		CreatedAt:  interaction.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// NewStringChange records a change between two plain values.
func NewStringChange(from, to string) FieldChange {
	return FieldChange{From: &from, To: &to}
}

// NewUUIDChange records a change between two optional references.
func NewUUIDChange(from, to *uuid.UUID) FieldChange {
	return FieldChange{From: uuidString(from), To: uuidString(to)}
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	value := id.String()
	return &value
}
