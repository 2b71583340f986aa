package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/lorrc/aegis-helpdesk/internal/core/errors"
)

// Ticket validation constants
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 10000
	MaxTypeLength        = 100
)

// TicketStatus represents the possible states of a ticket.
type TicketStatus string

const (
	StatusOpen             TicketStatus = "open"
	StatusInProgress       TicketStatus = "in_progress"
	StatusAwaitingCustomer TicketStatus = "awaiting_customer"
	StatusResolved         TicketStatus = "resolved"
	StatusClosed           TicketStatus = "closed"
)

// TicketStatuses lists every canonical status in lifecycle order.
var TicketStatuses = []TicketStatus{
	StatusOpen,
	StatusInProgress,
	StatusAwaitingCustomer,
	StatusResolved,
	StatusClosed,
}

// Values written by the legacy front-end.
var statusAliases = map[string]TicketStatus{
	"aberto":             StatusOpen,
	"em_andamento":       StatusInProgress,
	"aguardando_cliente": StatusAwaitingCustomer,
	"resolvido":          StatusResolved,
	"fechado":            StatusClosed,
}

// TicketPriority represents the urgency of a ticket.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
	PriorityUrgent TicketPriority = "urgent"
)

// TicketPriorities lists every canonical priority from lowest to highest.
var TicketPriorities = []TicketPriority{
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
	PriorityUrgent,
}

var priorityAliases = map[string]TicketPriority{
	"baixa":   PriorityLow,
	"media":   PriorityMedium,
	"média":   PriorityMedium,
	"alta":    PriorityHigh,
	"urgente": PriorityUrgent,
}

func normalizeEnum(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

// ParseTicketStatus maps a raw status to its canonical value. Matching is
// case-insensitive, treats '-' and ' ' as '_', and accepts legacy aliases.
func ParseTicketStatus(raw string) (TicketStatus, bool) {
	s := normalizeEnum(raw)
	for _, status := range TicketStatuses {
		if string(status) == s {
			return status, true
		}
	}
	if status, ok := statusAliases[s]; ok {
		return status, true
	}
	return "", false
}

// IsValid reports whether s is a canonical status value.
func (s TicketStatus) IsValid() bool {
	for _, status := range TicketStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ParseTicketPriority maps a raw priority to its canonical value.
func ParseTicketPriority(raw string) (TicketPriority, bool) {
	p := normalizeEnum(raw)
	for _, priority := range TicketPriorities {
		if string(priority) == p {
			return priority, true
		}
	}
	if priority, ok := priorityAliases[p]; ok {
		return priority, true
	}
	return "", false
}

// IsValid reports whether p is a canonical priority value.
func (p TicketPriority) IsValid() bool {
	for _, priority := range TicketPriorities {
		if p == priority {
			return true
		}
	}
	return false
}

// Ticket is the core domain entity.
type Ticket struct {
	ID          uuid.UUID
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	PrimaryType string
	Type        string
	TeamID      *uuid.UUID
	CreatedBy   uuid.UUID
	AssignedTo  *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Display names resolved by the read queries.
	CreatorName  string
	AssigneeName string
	TeamName     string
}

// TicketParams holds the input for creating a ticket.
type TicketParams struct {
	Title       string
	Description string
	Priority    TicketPriority
	PrimaryType string
	Type        string
	TeamID      *uuid.UUID
	CreatedBy   uuid.UUID
}

// Validate checks the ticket parameters and collects every field problem.
func (p *TicketParams) Validate() error {
	errs := apperrors.NewValidationErrors()

	title := strings.TrimSpace(p.Title)
	if title == "" {
		errs.Add("title", "Title is required")
	} else if len(title) > MaxTitleLength {
		errs.Add("title", "Title must be 255 characters or less")
	}

	if len(p.Description) > MaxDescriptionLength {
		errs.Add("description", "Description must be 10000 characters or less")
	}

	if p.Priority != "" && !p.Priority.IsValid() {
		errs.Add("priority", "Invalid priority")
	}

	if len(p.PrimaryType) > MaxTypeLength {
		errs.Add("primaryType", "Primary type must be 100 characters or less")
	}
	if len(p.Type) > MaxTypeLength {
		errs.Add("type", "Type must be 100 characters or less")
	}

	if p.CreatedBy == uuid.Nil {
		errs.Add("createdBy", "Creator is required")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// NewTicket is a factory function to create a valid new ticket.
func NewTicket(params TicketParams) (*Ticket, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	priority := params.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	now := time.Now().UTC()
	return &Ticket{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(params.Title),
		Description: params.Description,
		Status:      StatusOpen,
		Priority:    priority,
		PrimaryType: params.PrimaryType,
		Type:        params.Type,
		TeamID:      params.TeamID,
		CreatedBy:   params.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SetStatus moves the ticket to any valid status and reports whether it changed.
func (t *Ticket) SetStatus(status TicketStatus) (bool, error) {
	if !status.IsValid() {
		return false, apperrors.ErrInvalidStatus
	}
	if t.Status == status {
		return false, nil
	}
	t.Status = status
	t.touch()
	return true, nil
}

// SetPriority changes the ticket priority and reports whether it changed.
func (t *Ticket) SetPriority(priority TicketPriority) (bool, error) {
	if !priority.IsValid() {
		return false, apperrors.ErrInvalidPriority
	}
	if t.Priority == priority {
		return false, nil
	}
	t.Priority = priority
	t.touch()
	return true, nil
}

// SetTeam routes the ticket to a team. A nil team removes the routing.
func (t *Ticket) SetTeam(teamID *uuid.UUID) bool {
	if sameUUID(t.TeamID, teamID) {
		return false
	}
	t.TeamID = teamID
	t.TeamName = ""
	t.touch()
	return true
}

// Assign sets or clears the assignee of the ticket.
func (t *Ticket) Assign(assigneeID *uuid.UUID) bool {
	if sameUUID(t.AssignedTo, assigneeID) {
		return false
	}
	t.AssignedTo = assigneeID
	t.AssigneeName = ""
	t.touch()
	return true
}

// IsCreatedBy checks whether the profile opened the ticket.
func (t *Ticket) IsCreatedBy(profileID uuid.UUID) bool {
	return t.CreatedBy == profileID
}

// IsAssignedTo checks whether the profile is working the ticket.
func (t *Ticket) IsAssignedTo(profileID uuid.UUID) bool {
	return t.AssignedTo != nil && *t.AssignedTo == profileID
}

func (t *Ticket) touch() {
	t.UpdatedAt = time.Now().UTC()
}

func sameUUID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
