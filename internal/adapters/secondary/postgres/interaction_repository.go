package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/aegis-helpdesk/internal/core/errors"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

// InteractionRepository handles persistence for ticket interactions.
type InteractionRepository struct {
	pool *pgxpool.Pool
}

var _ ports.InteractionRepository = (*InteractionRepository)(nil)

// NewInteractionRepository creates a new interaction repository.
func NewInteractionRepository(pool *pgxpool.Pool) ports.InteractionRepository {
	return &InteractionRepository{pool: pool}
}

func scanInteraction(row pgx.Row) (*domain.Interaction, error) {
	var (
		interaction     domain.Interaction
		interactionType string
	)
	err := row.Scan(
		&interaction.ID,
		&interaction.TicketID,
		&interaction.AuthorID,
		&interaction.AuthorName,
		&interactionType,
		&interaction.Content,
		&interaction.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	interaction.Type = domain.InteractionType(interactionType)
	return &interaction, nil
}

// Create persists an interaction and returns it with the author's name.
func (r *InteractionRepository) Create(ctx context.Context, interaction *domain.Interaction) (*domain.Interaction, error) {
	query := `
		WITH inserted AS (
			INSERT INTO ticket_interactions (id, ticket_id, author_id, type, content, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, ticket_id, author_id, type, content, created_at
		)
		SELECT i.id, i.ticket_id, i.author_id, p.full_name, i.type, i.content, i.created_at
		FROM inserted i
		JOIN profiles p ON p.id = i.author_id
	`

	created, err := scanInteraction(GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		toPgUUID(interaction.ID),
		toPgUUID(interaction.TicketID),
		toPgUUID(interaction.AuthorID),
		string(interaction.Type),
		interaction.Content,
		interaction.CreatedAt,
	))
	if err != nil {
		if constraint, ok := constraintViolation(err, pgForeignKeyViolation); ok {
			if constraint == "ticket_interactions_ticket_id_fkey" {
				return nil, apperrors.ErrTicketNotFound
			}
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("create interaction: %w", err)
	}
	return created, nil
}

// ListByTicketID returns the ticket's interactions oldest first.
func (r *InteractionRepository) ListByTicketID(ctx context.Context, ticketID uuid.UUID) ([]*domain.Interaction, error) {
	query := `
		SELECT i.id, i.ticket_id, i.author_id, p.full_name, i.type, i.content, i.created_at
		FROM ticket_interactions i
		JOIN profiles p ON p.id = i.author_id
		WHERE i.ticket_id = $1
		ORDER BY i.created_at ASC, i.id
	`

	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query, toPgUUID(ticketID))
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	interactions := make([]*domain.Interaction, 0)
	for rows.Next() {
		interaction, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		interactions = append(interactions, interaction)
	}

	return interactions, rows.Err()
}
