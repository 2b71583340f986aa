package domain

import (
	"math"

	"github.com/google/uuid"
)

// StatusBucket is the dashboard category a ticket status falls into.
type StatusBucket int

const (
	BucketNone StatusBucket = iota
	BucketOpen
	BucketResolved
)

// Classify maps a status to its dashboard bucket. Awaiting-customer and
// unrecognised values belong to no bucket but still count toward totals.
func Classify(status TicketStatus) StatusBucket {
	canonical, ok := ParseTicketStatus(string(status))
	if !ok {
		return BucketNone
	}
	switch canonical {
	case StatusOpen, StatusInProgress:
		return BucketOpen
	case StatusResolved, StatusClosed:
		return BucketResolved
	default:
		return BucketNone
	}
}

// StatusCounts is the aggregate of a set of tickets.
// Open+Resolved never exceeds Total.
type StatusCounts struct {
	Total      int
	Open       int
	InProgress int // subset of Open
	Resolved   int
}

// CompletionPercent is the rounded share of resolved tickets, 0 when empty.
func (c StatusCounts) CompletionPercent() int {
	if c.Total == 0 {
		return 0
	}
	return int(math.Round(float64(c.Resolved) / float64(c.Total) * 100))
}

// SummarizeStatuses folds ticket statuses into counts.
func SummarizeStatuses(statuses []TicketStatus) StatusCounts {
	var counts StatusCounts
	for _, status := range statuses {
		counts.Total++
		switch Classify(status) {
		case BucketOpen:
			counts.Open++
			if canonical, _ := ParseTicketStatus(string(status)); canonical == StatusInProgress {
				counts.InProgress++
			}
		case BucketResolved:
			counts.Resolved++
		}
	}
	return counts
}

// SummarizeTickets is SummarizeStatuses over full ticket entities.
func SummarizeTickets(tickets []*Ticket) StatusCounts {
	statuses := make([]TicketStatus, 0, len(tickets))
	for _, ticket := range tickets {
		statuses = append(statuses, ticket.Status)
	}
	return SummarizeStatuses(statuses)
}

// TeamTickets is a team with the statuses of the tickets routed to it.
type TeamTickets struct {
	TeamID   uuid.UUID
	TeamName string
	Statuses []TicketStatus
}

// TeamAggregate holds the counts for a single team.
type TeamAggregate struct {
	TeamID   uuid.UUID
	TeamName string
	Counts   StatusCounts
}

// SummarizeTeams returns one aggregate per input team, in input order.
// Teams without tickets yield zero counts.
func SummarizeTeams(teams []TeamTickets) []TeamAggregate {
	aggregates := make([]TeamAggregate, 0, len(teams))
	for _, team := range teams {
		aggregates = append(aggregates, TeamAggregate{
			TeamID:   team.TeamID,
			TeamName: team.TeamName,
			Counts:   SummarizeStatuses(team.Statuses),
		})
	}
	return aggregates
}

// DashboardOverview is the headline dashboard payload.
type DashboardOverview struct {
	Counts     StatusCounts
	TotalTeams int
}
