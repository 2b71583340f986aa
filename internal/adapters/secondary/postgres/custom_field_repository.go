package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/aegis-helpdesk/internal/core/errors"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

// CustomFieldRepository handles persistence for field definitions and values.
type CustomFieldRepository struct {
	pool *pgxpool.Pool
}

var _ ports.CustomFieldRepository = (*CustomFieldRepository)(nil)

// NewCustomFieldRepository creates a new custom field repository.
func NewCustomFieldRepository(pool *pgxpool.Pool) ports.CustomFieldRepository {
	return &CustomFieldRepository{pool: pool}
}

const fieldColumns = `id, key, label, type, team_id, required, order_index, options, created_at`

func scanField(row pgx.Row) (*domain.CustomField, error) {
	var (
		field     domain.CustomField
		fieldType string
		teamID    pgtype.UUID
	)
	err := row.Scan(
		&field.ID,
		&field.Key,
		&field.Label,
		&fieldType,
		&teamID,
		&field.Required,
		&field.OrderIndex,
		&field.Options,
		&field.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	field.Type = domain.FieldType(fieldType)
	field.TeamID = fromNullUUID(teamID)
	if field.Options == nil {
		field.Options = []string{}
	}
	return &field, nil
}

func mapFieldWriteError(err error, action string) error {
	if isUniqueViolation(err) {
		return apperrors.ErrFieldKeyExists
	}
	if _, ok := constraintViolation(err, pgForeignKeyViolation); ok {
		return apperrors.ErrTeamNotFound
	}
	return fmt.Errorf("%s custom field: %w", action, err)
}

// Create persists a field definition.
func (r *CustomFieldRepository) Create(ctx context.Context, field *domain.CustomField) (*domain.CustomField, error) {
	query := `
		INSERT INTO custom_fields (` + fieldColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + fieldColumns

	created, err := scanField(GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		toPgUUID(field.ID),
		field.Key,
		field.Label,
		string(field.Type),
		toNullUUID(field.TeamID),
		field.Required,
		field.OrderIndex,
		field.Options,
		field.CreatedAt,
	))
	if err != nil {
		return nil, mapFieldWriteError(err, "create")
	}
	return created, nil
}

// GetByID retrieves a field definition.
func (r *CustomFieldRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CustomField, error) {
	query := `SELECT ` + fieldColumns + ` FROM custom_fields WHERE id = $1`

	field, err := scanField(GetDBTX(ctx, r.pool).QueryRow(ctx, query, toPgUUID(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFieldNotFound
		}
		return nil, fmt.Errorf("get custom field: %w", err)
	}
	return field, nil
}

// Update replaces a field definition.
func (r *CustomFieldRepository) Update(ctx context.Context, field *domain.CustomField) (*domain.CustomField, error) {
	query := `
		UPDATE custom_fields
		SET key = $2, label = $3, type = $4, team_id = $5, required = $6, order_index = $7, options = $8
		WHERE id = $1
		RETURNING ` + fieldColumns

	updated, err := scanField(GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		toPgUUID(field.ID),
		field.Key,
		field.Label,
		string(field.Type),
		toNullUUID(field.TeamID),
		field.Required,
		field.OrderIndex,
		field.Options,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFieldNotFound
		}
		return nil, mapFieldWriteError(err, "update")
	}
	return updated, nil
}

// Delete removes a field definition. Stored values go with it.
func (r *CustomFieldRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := GetDBTX(ctx, r.pool).Exec(ctx, `DELETE FROM custom_fields WHERE id = $1`, toPgUUID(id))
	if err != nil {
		return fmt.Errorf("delete custom field: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrFieldNotFound
	}
	return nil
}

// ListApplicable returns global fields plus those of teamID, by order index.
func (r *CustomFieldRepository) ListApplicable(ctx context.Context, teamID *uuid.UUID) ([]*domain.CustomField, error) {
	query := `
		SELECT ` + fieldColumns + `
		FROM custom_fields
		WHERE team_id IS NULL OR team_id = $1
		ORDER BY order_index, label, id
	`

	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query, toNullUUID(teamID))
	if err != nil {
		return nil, fmt.Errorf("list custom fields: %w", err)
	}
	defer rows.Close()

	fields := make([]*domain.CustomField, 0)
	for rows.Next() {
		field, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, rows.Err()
}

// ListValues returns the stored field values of a ticket.
func (r *CustomFieldRepository) ListValues(ctx context.Context, ticketID uuid.UUID) ([]*domain.CustomFieldValue, error) {
	query := `
		SELECT id, ticket_id, field_id, value, updated_at
		FROM custom_field_values
		WHERE ticket_id = $1
	`

	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query, toPgUUID(ticketID))
	if err != nil {
		return nil, fmt.Errorf("list custom field values: %w", err)
	}
	defer rows.Close()

	values := make([]*domain.CustomFieldValue, 0)
	for rows.Next() {
		var value domain.CustomFieldValue
		if err := rows.Scan(&value.ID, &value.TicketID, &value.FieldID, &value.Value, &value.UpdatedAt); err != nil {
			return nil, err
		}
		values = append(values, &value)
	}
	return values, rows.Err()
}

// UpsertValue stores the value of a field on a ticket, replacing any
// previous one.
func (r *CustomFieldRepository) UpsertValue(ctx context.Context, value *domain.CustomFieldValue) (*domain.CustomFieldValue, error) {
	query := `
		INSERT INTO custom_field_values (id, ticket_id, field_id, value, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (ticket_id, field_id)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		RETURNING id, ticket_id, field_id, value, updated_at
	`

	var stored domain.CustomFieldValue
	err := GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		toPgUUID(value.ID),
		toPgUUID(value.TicketID),
		toPgUUID(value.FieldID),
		value.Value,
	).Scan(&stored.ID, &stored.TicketID, &stored.FieldID, &stored.Value, &stored.UpdatedAt)
	if err != nil {
		if constraint, ok := constraintViolation(err, pgForeignKeyViolation); ok {
			if constraint == "custom_field_values_ticket_id_fkey" {
				return nil, apperrors.ErrTicketNotFound
			}
			return nil, apperrors.ErrFieldNotFound
		}
		return nil, fmt.Errorf("upsert custom field value: %w", err)
	}
	return &stored, nil
}
