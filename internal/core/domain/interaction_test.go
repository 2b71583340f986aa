package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/aegis-helpdesk/internal/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInteraction(t *testing.T) {
	ticketID := uuid.New()
	authorID := uuid.New()

	t.Run("valid comment", func(t *testing.T) {
		interaction, err := domain.NewInteraction(domain.InteractionParams{
			TicketID: ticketID,
			AuthorID: authorID,
			Content:  "  printer is back online  ",
		})
		require.NoError(t, err)
		assert.Equal(t, "printer is back online", interaction.Content)
		assert.Equal(t, domain.InteractionComment, interaction.Type)
		assert.NotEqual(t, uuid.Nil, interaction.ID)
	})

	t.Run("blank content", func(t *testing.T) {
		_, err := domain.NewInteraction(domain.InteractionParams{TicketID: ticketID, AuthorID: authorID, Content: "   "})
		var validationErr *apperrors.ValidationErrors
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Errors, "content")
	})

	t.Run("content too long", func(t *testing.T) {
		_, err := domain.NewInteraction(domain.InteractionParams{
			TicketID: ticketID,
			AuthorID: authorID,
			Content:  strings.Repeat("x", domain.MaxContentLength+1),
		})
		require.Error(t, err)
	})
}

func at(seconds int) time.Time {
	return time.Date(2024, 3, 1, 9, 0, seconds, 0, time.UTC)
}

func interaction(name string, seconds int) *domain.Interaction {
	return &domain.Interaction{
		ID:         uuid.New(),
		AuthorID:   uuid.New(),
		AuthorName: name,
		CreatedAt:  at(seconds),
	}
}

func TestSummarizeInteractions(t *testing.T) {
	t.Run("groups by display name in order of first appearance", func(t *testing.T) {
		first := interaction("A", 1)
		input := []*domain.Interaction{first, interaction("B", 2), interaction("A", 3)}

		summary := domain.SummarizeInteractions(input)
		require.Len(t, summary, 2)

		assert.Equal(t, "A", summary[0].AuthorName)
		assert.Equal(t, 2, summary[0].Count)
		assert.Equal(t, at(3), summary[0].LastInteractionAt)
		assert.Equal(t, first.AuthorID, summary[0].AuthorID)

		assert.Equal(t, "B", summary[1].AuthorName)
		assert.Equal(t, 1, summary[1].Count)
		assert.Equal(t, at(2), summary[1].LastInteractionAt)
	})

	t.Run("empty input yields empty summary", func(t *testing.T) {
		summary := domain.SummarizeInteractions(nil)
		assert.NotNil(t, summary)
		assert.Empty(t, summary)
	})

	t.Run("accounts sharing a name collapse", func(t *testing.T) {
		summary := domain.SummarizeInteractions([]*domain.Interaction{
			interaction("Maria", 1),
			interaction("Maria", 2),
		})
		require.Len(t, summary, 1)
		assert.Equal(t, 2, summary[0].Count)
	})

	t.Run("counts add up to input length", func(t *testing.T) {
		input := []*domain.Interaction{
			interaction("A", 1), interaction("B", 2), interaction("C", 3),
			interaction("B", 4), interaction("A", 5), interaction("A", 6),
		}
		total := 0
		for _, row := range domain.SummarizeInteractions(input) {
			total += row.Count
		}
		assert.Equal(t, len(input), total)
	})

	t.Run("idempotent", func(t *testing.T) {
		input := []*domain.Interaction{interaction("A", 1), interaction("B", 2), interaction("A", 3)}
		assert.Equal(t, domain.SummarizeInteractions(input), domain.SummarizeInteractions(input))
	})
}
