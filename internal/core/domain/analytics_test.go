package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statuses(values ...string) []domain.TicketStatus {
	out := make([]domain.TicketStatus, 0, len(values))
	for _, v := range values {
		out = append(out, domain.TicketStatus(v))
	}
	return out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		status string
		want   domain.StatusBucket
	}{
		{"open", domain.BucketOpen},
		{"in_progress", domain.BucketOpen},
		{"in-progress", domain.BucketOpen},
		{"aberto", domain.BucketOpen},
		{"em_andamento", domain.BucketOpen},
		{"resolved", domain.BucketResolved},
		{"closed", domain.BucketResolved},
		{"fechado", domain.BucketResolved},
		{"RESOLVIDO", domain.BucketResolved},
		{"awaiting_customer", domain.BucketNone},
		{"aguardando_cliente", domain.BucketNone},
		{"archived", domain.BucketNone},
		{"", domain.BucketNone},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Classify(domain.TicketStatus(tt.status)))
		})
	}
}

func TestSummarizeStatuses(t *testing.T) {
	t.Run("empty input yields zeros", func(t *testing.T) {
		assert.Equal(t, domain.StatusCounts{}, domain.SummarizeStatuses(nil))
		assert.Equal(t, domain.StatusCounts{}, domain.SummarizeStatuses([]domain.TicketStatus{}))
	})

	t.Run("mixed spellings", func(t *testing.T) {
		counts := domain.SummarizeStatuses(statuses("open", "in-progress", "resolved", "fechado"))
		assert.Equal(t, 4, counts.Total)
		assert.Equal(t, 2, counts.Open)
		assert.Equal(t, 1, counts.InProgress)
		assert.Equal(t, 2, counts.Resolved)
	})

	t.Run("awaiting customer only counts toward total", func(t *testing.T) {
		counts := domain.SummarizeStatuses(statuses("awaiting_customer", "open", "closed"))
		assert.Equal(t, 3, counts.Total)
		assert.Equal(t, 1, counts.Open)
		assert.Equal(t, 1, counts.Resolved)
		assert.Less(t, counts.Open+counts.Resolved, counts.Total)
	})

	t.Run("unknown status only counts toward total", func(t *testing.T) {
		counts := domain.SummarizeStatuses(statuses("mystery"))
		assert.Equal(t, domain.StatusCounts{Total: 1}, counts)
	})
}

func TestSummarizeStatuses_Bounds(t *testing.T) {
	inputs := [][]domain.TicketStatus{
		statuses("open", "open", "resolved"),
		statuses("closed", "awaiting_customer"),
		statuses("in_progress", "aguardando_cliente", "bogus", "resolvido"),
		statuses("open", "in_progress", "resolved", "closed"),
	}

	for _, input := range inputs {
		counts := domain.SummarizeStatuses(input)
		assert.LessOrEqual(t, counts.Open+counts.Resolved, counts.Total)

		hasUnbucketed := false
		for _, s := range input {
			if domain.Classify(s) == domain.BucketNone {
				hasUnbucketed = true
			}
		}
		assert.Equal(t, !hasUnbucketed, counts.Open+counts.Resolved == counts.Total)
	}
}

func TestSummarizeStatuses_Idempotent(t *testing.T) {
	input := statuses("open", "awaiting_customer", "closed", "in_progress")
	first := domain.SummarizeStatuses(input)
	second := domain.SummarizeStatuses(input)
	assert.Equal(t, first, second)
}

func TestSummarizeTickets(t *testing.T) {
	tickets := []*domain.Ticket{
		{Status: domain.StatusOpen},
		{Status: domain.StatusResolved},
		{Status: domain.StatusAwaitingCustomer},
	}
	assert.Equal(t, domain.StatusCounts{Total: 3, Open: 1, Resolved: 1}, domain.SummarizeTickets(tickets))
}

func TestStatusCounts_CompletionPercent(t *testing.T) {
	assert.Equal(t, 0, domain.StatusCounts{}.CompletionPercent())
	assert.Equal(t, 50, domain.StatusCounts{Total: 4, Resolved: 2}.CompletionPercent())
	assert.Equal(t, 67, domain.StatusCounts{Total: 3, Resolved: 2}.CompletionPercent())
	assert.Equal(t, 100, domain.StatusCounts{Total: 1, Resolved: 1}.CompletionPercent())
}

func TestSummarizeTeams(t *testing.T) {
	support := uuid.New()
	infra := uuid.New()
	idle := uuid.New()

	teams := []domain.TeamTickets{
		{TeamID: support, TeamName: "Support", Statuses: statuses("open", "closed", "resolved")},
		{TeamID: idle, TeamName: "Idle"},
		{TeamID: infra, TeamName: "Infra", Statuses: statuses("in_progress")},
	}

	aggregates := domain.SummarizeTeams(teams)
	require.Len(t, aggregates, 3)

	assert.Equal(t, support, aggregates[0].TeamID)
	assert.Equal(t, domain.StatusCounts{Total: 3, Open: 1, Resolved: 2}, aggregates[0].Counts)

	assert.Equal(t, "Idle", aggregates[1].TeamName)
	assert.Equal(t, domain.StatusCounts{}, aggregates[1].Counts)

	assert.Equal(t, infra, aggregates[2].TeamID)
	assert.Equal(t, domain.StatusCounts{Total: 1, Open: 1, InProgress: 1}, aggregates[2].Counts)
}

func TestSummarizeTeams_Empty(t *testing.T) {
	aggregates := domain.SummarizeTeams(nil)
	assert.NotNil(t, aggregates)
	assert.Empty(t, aggregates)
}
