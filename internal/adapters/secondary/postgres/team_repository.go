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

// TeamRepository handles persistence for teams and memberships.
type TeamRepository struct {
	pool *pgxpool.Pool
}

var _ ports.TeamRepository = (*TeamRepository)(nil)

// NewTeamRepository creates a new team repository.
func NewTeamRepository(pool *pgxpool.Pool) ports.TeamRepository {
	return &TeamRepository{pool: pool}
}

const teamSelect = `SELECT id, name, description, manager_id, created_at FROM teams`

const memberSelect = `
	SELECT m.id, m.team_id, m.profile_id, p.full_name, p.email, m.role, m.joined_at
	FROM team_members m
	JOIN profiles p ON p.id = m.profile_id`

func scanTeam(row pgx.Row) (*domain.Team, error) {
	var (
		team      domain.Team
		managerID pgtype.UUID
	)
	if err := row.Scan(&team.ID, &team.Name, &team.Description, &managerID, &team.CreatedAt); err != nil {
		return nil, err
	}
	team.ManagerID = fromNullUUID(managerID)
	return &team, nil
}

func scanMember(row pgx.Row) (*domain.TeamMember, error) {
	var (
		member domain.TeamMember
		role   string
	)
	err := row.Scan(
		&member.ID,
		&member.TeamID,
		&member.ProfileID,
		&member.FullName,
		&member.Email,
		&role,
		&member.JoinedAt,
	)
	if err != nil {
		return nil, err
	}
	member.Role = domain.TeamRole(role)
	return &member, nil
}

// Create persists a new team.
func (r *TeamRepository) Create(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	query := `
		INSERT INTO teams (id, name, description, manager_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, description, manager_id, created_at
	`

	created, err := scanTeam(GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		toPgUUID(team.ID),
		team.Name,
		team.Description,
		toNullUUID(team.ManagerID),
		team.CreatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrTeamExists
		}
		if _, ok := constraintViolation(err, pgForeignKeyViolation); ok {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("create team: %w", err)
	}
	return created, nil
}

// GetByID retrieves a team by id.
func (r *TeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	team, err := scanTeam(GetDBTX(ctx, r.pool).QueryRow(ctx, teamSelect+` WHERE id = $1`, toPgUUID(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	return team, nil
}

// List returns all teams ordered by name.
func (r *TeamRepository) List(ctx context.Context) ([]*domain.Team, error) {
	rows, err := GetDBTX(ctx, r.pool).Query(ctx, teamSelect+` ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]*domain.Team, 0)
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

// ListMembers returns the members of a team ordered by name.
func (r *TeamRepository) ListMembers(ctx context.Context, teamID uuid.UUID) ([]*domain.TeamMember, error) {
	return r.queryMembers(ctx, memberSelect+` WHERE m.team_id = $1 ORDER BY p.full_name, m.id`, toPgUUID(teamID))
}

// ListAllMembers returns every membership of every team.
func (r *TeamRepository) ListAllMembers(ctx context.Context) ([]*domain.TeamMember, error) {
	return r.queryMembers(ctx, memberSelect+` ORDER BY p.full_name, m.id`)
}

// AddMember persists a membership.
func (r *TeamRepository) AddMember(ctx context.Context, member *domain.TeamMember) (*domain.TeamMember, error) {
	query := `
		INSERT INTO team_members (id, team_id, profile_id, role)
		VALUES ($1, $2, $3, $4)
	`

	_, err := GetDBTX(ctx, r.pool).Exec(ctx, query,
		toPgUUID(member.ID),
		toPgUUID(member.TeamID),
		toPgUUID(member.ProfileID),
		string(member.Role),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrMemberExists
		}
		if constraint, ok := constraintViolation(err, pgForeignKeyViolation); ok {
			if constraint == "team_members_team_id_fkey" {
				return nil, apperrors.ErrTeamNotFound
			}
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("add team member: %w", err)
	}

	return r.GetMember(ctx, member.TeamID, member.ID)
}

// GetMember retrieves a membership of the given team.
func (r *TeamRepository) GetMember(ctx context.Context, teamID, memberID uuid.UUID) (*domain.TeamMember, error) {
	query := memberSelect + ` WHERE m.team_id = $1 AND m.id = $2`

	member, err := scanMember(GetDBTX(ctx, r.pool).QueryRow(ctx, query, toPgUUID(teamID), toPgUUID(memberID)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, fmt.Errorf("get team member: %w", err)
	}
	return member, nil
}

// UpdateMemberRole changes a member's role.
func (r *TeamRepository) UpdateMemberRole(ctx context.Context, teamID, memberID uuid.UUID, role domain.TeamRole) (*domain.TeamMember, error) {
	tag, err := GetDBTX(ctx, r.pool).Exec(ctx,
		`UPDATE team_members SET role = $3 WHERE team_id = $1 AND id = $2`,
		toPgUUID(teamID), toPgUUID(memberID), string(role),
	)
	if err != nil {
		return nil, fmt.Errorf("update team member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.ErrMemberNotFound
	}
	return r.GetMember(ctx, teamID, memberID)
}

// RemoveMember deletes a membership.
func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, memberID uuid.UUID) error {
	tag, err := GetDBTX(ctx, r.pool).Exec(ctx,
		`DELETE FROM team_members WHERE team_id = $1 AND id = $2`,
		toPgUUID(teamID), toPgUUID(memberID),
	)
	if err != nil {
		return fmt.Errorf("remove team member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMemberNotFound
	}
	return nil
}

// ManagesAnyTeam reports whether the profile manages at least one team.
func (r *TeamRepository) ManagesAnyTeam(ctx context.Context, profileID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM teams WHERE manager_id = $1
			UNION ALL
			SELECT 1 FROM team_members WHERE profile_id = $1 AND role = 'manager'
		)
	`

	var manages bool
	if err := GetDBTX(ctx, r.pool).QueryRow(ctx, query, toPgUUID(profileID)).Scan(&manages); err != nil {
		return false, fmt.Errorf("check team manager: %w", err)
	}
	return manages, nil
}

func (r *TeamRepository) queryMembers(ctx context.Context, query string, args ...interface{}) ([]*domain.TeamMember, error) {
	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()

	members := make([]*domain.TeamMember, 0)
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}
