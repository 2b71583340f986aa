package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	apperrors "github.com/lorrc/aegis-helpdesk/internal/core/errors"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

// AuthorizationRepository handles database operations for RBAC.
type AuthorizationRepository struct {
	pool *pgxpool.Pool
}

// Ensure implementation matches the interface.
var _ ports.AuthorizationRepository = (*AuthorizationRepository)(nil)

// NewAuthorizationRepository creates a new repository for authorization queries.
func NewAuthorizationRepository(pool *pgxpool.Pool) ports.AuthorizationRepository {
	return &AuthorizationRepository{pool: pool}
}

// GetUserPermissions fetches all distinct permissions for a given user ID.
func (r *AuthorizationRepository) GetUserPermissions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `
		SELECT DISTINCT p.code
		FROM permissions p
		INNER JOIN role_permissions rp ON p.id = rp.permission_id
		INNER JOIN user_roles ur ON rp.role_id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY p.code
	`

	return r.queryStrings(ctx, query, userID)
}

// GetUserRoles fetches the names of the roles held by a user.
func (r *AuthorizationRepository) GetUserRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `
		SELECT ro.name
		FROM roles ro
		INNER JOIN user_roles ur ON ro.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY ro.name
	`

	return r.queryStrings(ctx, query, userID)
}

// AssignRole grants a role to a user.
func (r *AuthorizationRepository) AssignRole(ctx context.Context, userID uuid.UUID, role string) error {
	query := `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = $2
	`

	tag, err := GetDBTX(ctx, r.pool).Exec(ctx, query, toPgUUID(userID), role)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrRoleAlreadyAssigned
		}
		if _, ok := constraintViolation(err, pgForeignKeyViolation); ok {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("assign role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidRole
	}
	return nil
}

// SetUserRole replaces every role of a user with the given one.
func (r *AuthorizationRepository) SetUserRole(ctx context.Context, userID uuid.UUID, role string) error {
	return NewTransactionManager(r.pool).WithTransaction(ctx, func(txCtx context.Context) error {
		db := GetDBTX(txCtx, r.pool)

		if _, err := db.Exec(txCtx, `DELETE FROM user_roles WHERE user_id = $1`, toPgUUID(userID)); err != nil {
			return fmt.Errorf("clear roles: %w", err)
		}

		return r.AssignRole(txCtx, userID, role)
	})
}

func (r *AuthorizationRepository) queryStrings(ctx context.Context, query string, userID uuid.UUID) ([]string, error) {
	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query, toPgUUID(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		values = append(values, value)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return values, nil
}
