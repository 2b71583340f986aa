package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/aegis-helpdesk/internal/core/errors"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

// TicketEventRepository handles persistence for ticket events.
type TicketEventRepository struct {
	pool *pgxpool.Pool
}

var _ ports.TicketEventRepository = (*TicketEventRepository)(nil)

// NewTicketEventRepository creates a new ticket event repository.
func NewTicketEventRepository(pool *pgxpool.Pool) ports.TicketEventRepository {
	return &TicketEventRepository{pool: pool}
}

const eventColumns = `id, ticket_id, type, payload, actor_id, created_at`

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var (
		event     domain.Event
		eventType string
		payload   []byte
		actorID   pgtype.UUID
	)
	if err := row.Scan(&event.ID, &event.TicketID, &eventType, &payload, &actorID, &event.CreatedAt); err != nil {
		return nil, err
	}

	event.Type = domain.EventType(eventType)
	event.Payload = json.RawMessage(payload)
	if actorID.Valid {
		event.ActorID = uuid.UUID(actorID.Bytes)
	}
	return &event, nil
}

// Create persists a new ticket event.
func (r *TicketEventRepository) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	query := `
		INSERT INTO ticket_events (ticket_id, type, payload, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + eventColumns

	payload := []byte(event.Payload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	created, err := scanEvent(GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		toPgUUID(event.TicketID),
		string(event.Type),
		payload,
		pgtype.UUID{Bytes: event.ActorID, Valid: event.ActorID != uuid.Nil},
		event.CreatedAt,
	))
	if err != nil {
		if _, ok := constraintViolation(err, pgForeignKeyViolation); ok {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, fmt.Errorf("create ticket event: %w", err)
	}
	return created, nil
}

// ListByTicketID retrieves events for a ticket after a cursor.
func (r *TicketEventRepository) ListByTicketID(ctx context.Context, ticketID uuid.UUID, afterID int64, limit int) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM ticket_events
		WHERE ticket_id = $1 AND id > $2
		ORDER BY id
		LIMIT $3
	`

	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query, toPgUUID(ticketID), afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list ticket events: %w", err)
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
