package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/aegis-helpdesk/internal/core/errors"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

// TicketRepository is the secondary adapter for ticket persistence.
type TicketRepository struct {
	pool *pgxpool.Pool
}

// Ensure TicketRepository implements the ports.TicketRepository interface.
var _ ports.TicketRepository = (*TicketRepository)(nil)

// NewTicketRepository creates a new ticket repository.
func NewTicketRepository(pool *pgxpool.Pool) ports.TicketRepository {
	return &TicketRepository{pool: pool}
}

const ticketSelect = `
	SELECT t.id, t.title, t.description, t.status, t.priority, t.primary_type, t.type,
	       t.team_id, t.created_by, t.assigned_to, t.created_at, t.updated_at,
	       c.full_name, a.full_name, tm.name
	FROM tickets t
	JOIN profiles c ON c.id = t.created_by
	LEFT JOIN profiles a ON a.id = t.assigned_to
	LEFT JOIN teams tm ON tm.id = t.team_id`

// scanTicket converts a joined ticket row to a core domain model.
func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket       domain.Ticket
		status       string
		priority     string
		teamID       pgtype.UUID
		assignedTo   pgtype.UUID
		assigneeName pgtype.Text
		teamName     pgtype.Text
	)
	err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&status,
		&priority,
		&ticket.PrimaryType,
		&ticket.Type,
		&teamID,
		&ticket.CreatedBy,
		&assignedTo,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.CreatorName,
		&assigneeName,
		&teamName,
	)
	if err != nil {
		return nil, err
	}

	ticket.Status = domain.TicketStatus(status)
	ticket.Priority = domain.TicketPriority(priority)
	ticket.TeamID = fromNullUUID(teamID)
	ticket.AssignedTo = fromNullUUID(assignedTo)
	ticket.AssigneeName = fromNullText(assigneeName)
	ticket.TeamName = fromNullText(teamName)
	return &ticket, nil
}

// mapTicketWriteError translates reference violations into domain errors.
func mapTicketWriteError(err error) error {
	constraint, ok := constraintViolation(err, pgForeignKeyViolation)
	if !ok {
		return err
	}
	switch constraint {
	case "tickets_team_id_fkey":
		return apperrors.ErrTeamNotFound
	default:
		return apperrors.ErrUserNotFound
	}
}

// Create persists a new ticket entity.
func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	query := `
		INSERT INTO tickets (id, title, description, status, priority, primary_type, type,
		                     team_id, created_by, assigned_to, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := GetDBTX(ctx, r.pool).Exec(ctx, query,
		toPgUUID(ticket.ID),
		ticket.Title,
		ticket.Description,
		string(ticket.Status),
		string(ticket.Priority),
		ticket.PrimaryType,
		ticket.Type,
		toNullUUID(ticket.TeamID),
		toPgUUID(ticket.CreatedBy),
		toNullUUID(ticket.AssignedTo),
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	if err != nil {
		if mapped := mapTicketWriteError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	return r.GetByID(ctx, ticket.ID)
}

// GetByID retrieves a single ticket by its ID.
func (r *TicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	ticket, err := scanTicket(GetDBTX(ctx, r.pool).QueryRow(ctx, ticketSelect+` WHERE t.id = $1`, toPgUUID(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return ticket, nil
}

// Update persists the mutable fields of an existing ticket.
func (r *TicketRepository) Update(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	query := `
		UPDATE tickets
		SET status = $2, priority = $3, team_id = $4, assigned_to = $5, updated_at = $6
		WHERE id = $1
	`

	tag, err := GetDBTX(ctx, r.pool).Exec(ctx, query,
		toPgUUID(ticket.ID),
		string(ticket.Status),
		string(ticket.Priority),
		toNullUUID(ticket.TeamID),
		toNullUUID(ticket.AssignedTo),
		ticket.UpdatedAt,
	)
	if err != nil {
		if mapped := mapTicketWriteError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("update ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.ErrTicketNotFound
	}

	return r.GetByID(ctx, ticket.ID)
}

// List retrieves tickets newest first, narrowed by the optional filters.
func (r *TicketRepository) List(ctx context.Context, filter ports.TicketFilter) ([]*domain.Ticket, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, string(*filter.Priority))
		conditions = append(conditions, fmt.Sprintf("t.priority = $%d", len(args)))
	}
	if filter.TeamID != nil {
		args = append(args, toPgUUID(*filter.TeamID))
		conditions = append(conditions, fmt.Sprintf("t.team_id = $%d", len(args)))
	}

	query := ticketSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY t.created_at DESC, t.id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	tickets := make([]*domain.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}

	return tickets, rows.Err()
}
