package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

// DashboardRepository reads the raw ticket statuses the dashboard folds.
type DashboardRepository struct {
	pool      *pgxpool.Pool
	txManager *TransactionManager
}

var _ ports.DashboardRepository = (*DashboardRepository)(nil)

// NewDashboardRepository creates a new dashboard repository.
func NewDashboardRepository(pool *pgxpool.Pool) ports.DashboardRepository {
	return &DashboardRepository{
		pool:      pool,
		txManager: NewTransactionManager(pool),
	}
}

// ListTicketStatuses returns the status of every ticket.
func (r *DashboardRepository) ListTicketStatuses(ctx context.Context) ([]domain.TicketStatus, error) {
	rows, err := GetDBTX(ctx, r.pool).Query(ctx, `SELECT status FROM tickets`)
	if err != nil {
		return nil, fmt.Errorf("list ticket statuses: %w", err)
	}
	defer rows.Close()

	statuses := make([]domain.TicketStatus, 0)
	for rows.Next() {
		var status string
		if err := rows.Scan(&status); err != nil {
			return nil, err
		}
		statuses = append(statuses, domain.TicketStatus(status))
	}
	return statuses, rows.Err()
}

// ListTeamsWithTickets returns every team, ordered by name, with the
// statuses of its tickets. Both reads share one snapshot.
func (r *DashboardRepository) ListTeamsWithTickets(ctx context.Context) ([]domain.TeamTickets, error) {
	var teams []domain.TeamTickets

	err := r.txManager.WithReadOnlyTransaction(ctx, func(txCtx context.Context) error {
		db := GetDBTX(txCtx, r.pool)

		teamRows, err := db.Query(txCtx, `SELECT id, name FROM teams ORDER BY name, id`)
		if err != nil {
			return fmt.Errorf("list teams: %w", err)
		}
		index := make(map[uuid.UUID]int)
		teams = make([]domain.TeamTickets, 0)
		for teamRows.Next() {
			var team domain.TeamTickets
			if err := teamRows.Scan(&team.TeamID, &team.TeamName); err != nil {
				teamRows.Close()
				return err
			}
			team.Statuses = []domain.TicketStatus{}
			index[team.TeamID] = len(teams)
			teams = append(teams, team)
		}
		teamRows.Close()
		if err := teamRows.Err(); err != nil {
			return err
		}

		ticketRows, err := db.Query(txCtx, `SELECT team_id, status FROM tickets WHERE team_id IS NOT NULL`)
		if err != nil {
			return fmt.Errorf("list team ticket statuses: %w", err)
		}
		defer ticketRows.Close()
		for ticketRows.Next() {
			var (
				teamID uuid.UUID
				status string
			)
			if err := ticketRows.Scan(&teamID, &status); err != nil {
				return err
			}
			if i, ok := index[teamID]; ok {
				teams[i].Statuses = append(teams[i].Statuses, domain.TicketStatus(status))
			}
		}
		return ticketRows.Err()
	})
	if err != nil {
		return nil, err
	}

	return teams, nil
}

// CountTeams returns the number of teams.
func (r *DashboardRepository) CountTeams(ctx context.Context) (int, error) {
	var count int
	if err := GetDBTX(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM teams`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count teams: %w", err)
	}
	return count, nil
}
