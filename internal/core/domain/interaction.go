package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/lorrc/aegis-helpdesk/internal/core/errors"
)

// MaxContentLength caps the size of an interaction body.
const MaxContentLength = 5000

// InteractionType classifies an entry in a ticket's history.
type InteractionType string

const (
	InteractionComment InteractionType = "comment"
)

// Interaction is a message recorded against a ticket.
type Interaction struct {
	ID         uuid.UUID
	TicketID   uuid.UUID
	AuthorID   uuid.UUID
	AuthorName string
	Type       InteractionType
	Content    string
	CreatedAt  time.Time
}

// InteractionParams holds the input for creating an interaction.
type InteractionParams struct {
	TicketID uuid.UUID
	AuthorID uuid.UUID
	Content  string
}

// Validate validates the interaction parameters.
func (p *InteractionParams) Validate() error {
	errs := apperrors.NewValidationErrors()

	if p.TicketID == uuid.Nil {
		errs.Add("ticketId", "Ticket ID is required")
	}
	if p.AuthorID == uuid.Nil {
		errs.Add("authorId", "Author ID is required")
	}

	content := strings.TrimSpace(p.Content)
	if content == "" {
		errs.Add("content", "Content is required")
	} else if len(content) > MaxContentLength {
		errs.Add("content", "Content must be 5000 characters or less")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// NewInteraction creates a validated comment interaction.
func NewInteraction(params InteractionParams) (*Interaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return &Interaction{
		ID:        uuid.New(),
		TicketID:  params.TicketID,
		AuthorID:  params.AuthorID,
		Type:      InteractionComment,
		Content:   strings.TrimSpace(params.Content),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// AuthorSummary is one row of a ticket's participation history.
type AuthorSummary struct {
	AuthorName        string
	AuthorID          uuid.UUID // author of the first interaction under AuthorName
	Count             int
	LastInteractionAt time.Time
}

// SummarizeInteractions groups interactions by author display name.
// Input must be ordered by time ascending. Rows come out in order of first
// appearance, and each row's timestamp is that of the last interaction seen.
// Two accounts sharing a display name collapse into a single row.
func SummarizeInteractions(interactions []*Interaction) []AuthorSummary {
	summaries := make([]AuthorSummary, 0)
	index := make(map[string]int)

	for _, interaction := range interactions {
		if i, ok := index[interaction.AuthorName]; ok {
			summaries[i].Count++
			summaries[i].LastInteractionAt = interaction.CreatedAt
			continue
		}
		index[interaction.AuthorName] = len(summaries)
		summaries = append(summaries, AuthorSummary{
			AuthorName:        interaction.AuthorName,
			AuthorID:          interaction.AuthorID,
			Count:             1,
			LastInteractionAt: interaction.CreatedAt,
		})
	}

	return summaries
}
