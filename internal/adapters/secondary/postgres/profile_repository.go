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

// ProfileRepository is the secondary adapter for profile persistence.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

var _ ports.ProfileRepository = (*ProfileRepository)(nil)

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(pool *pgxpool.Pool) ports.ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `
	p.id, p.full_name, p.email, p.password_hash, p.team_id, t.name,
	p.created_at, p.updated_at`

const profileFrom = `
	FROM profiles p
	LEFT JOIN teams t ON t.id = p.team_id`

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var (
		profile  domain.Profile
		teamID   pgtype.UUID
		teamName pgtype.Text
	)
	err := row.Scan(
		&profile.ID,
		&profile.FullName,
		&profile.Email,
		&profile.HashedPassword,
		&teamID,
		&teamName,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	profile.TeamID = fromNullUUID(teamID)
	profile.TeamName = fromNullText(teamName)
	profile.Roles = []string{}
	return &profile, nil
}

// Create persists a new profile.
func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	query := `
		INSERT INTO profiles (id, full_name, email, password_hash, team_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := GetDBTX(ctx, r.pool).Exec(ctx, query,
		toPgUUID(profile.ID),
		profile.FullName,
		profile.Email,
		profile.HashedPassword,
		toNullUUID(profile.TeamID),
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrUserExists
		}
		if _, ok := constraintViolation(err, pgForeignKeyViolation); ok {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	return r.GetByID(ctx, profile.ID)
}

// GetByID retrieves a profile by id.
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	query := `SELECT` + profileColumns + profileFrom + ` WHERE p.id = $1`

	profile, err := scanProfile(GetDBTX(ctx, r.pool).QueryRow(ctx, query, toPgUUID(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// GetByEmail retrieves a profile by its lowercased email.
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	query := `SELECT` + profileColumns + profileFrom + ` WHERE p.email = $1`

	profile, err := scanProfile(GetDBTX(ctx, r.pool).QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("get profile by email: %w", err)
	}
	return profile, nil
}

// List returns every profile ordered by full name.
func (r *ProfileRepository) List(ctx context.Context) ([]*domain.Profile, error) {
	query := `SELECT` + profileColumns + profileFrom + ` ORDER BY p.full_name, p.id`

	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]*domain.Profile, 0)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	return profiles, rows.Err()
}

// Update changes the profile's name and home team.
func (r *ProfileRepository) Update(ctx context.Context, id uuid.UUID, params domain.ProfileUpdateParams) (*domain.Profile, error) {
	query := `
		UPDATE profiles
		SET full_name = $2, team_id = $3, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := GetDBTX(ctx, r.pool).Exec(ctx, query, toPgUUID(id), params.FullName, toNullUUID(params.TeamID))
	if err != nil {
		if _, ok := constraintViolation(err, pgForeignKeyViolation); ok {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.ErrUserNotFound
	}

	return r.GetByID(ctx, id)
}
