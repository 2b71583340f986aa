package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/lorrc/aegis-helpdesk/internal/core/errors"
)

const (
	MaxTeamNameLength        = 100
	MaxTeamDescriptionLength = 1000
)

// TeamRole is a profile's role inside a team.
type TeamRole string

const (
	TeamRoleManager TeamRole = "manager"
	TeamRoleMember  TeamRole = "member"
)

// ParseTeamRole returns the canonical team role for raw.
func ParseTeamRole(raw string) (TeamRole, bool) {
	switch TeamRole(normalizeEnum(raw)) {
	case TeamRoleManager:
		return TeamRoleManager, true
	case TeamRoleMember:
		return TeamRoleMember, true
	default:
		return "", false
	}
}

// Team groups profiles that work a queue of tickets.
type Team struct {
	ID          uuid.UUID
	Name        string
	Description string
	ManagerID   *uuid.UUID
	CreatedAt   time.Time
}

// TeamMember links a profile to a team.
type TeamMember struct {
	ID        uuid.UUID
	TeamID    uuid.UUID
	ProfileID uuid.UUID
	FullName  string
	Email     string
	Role      TeamRole
	JoinedAt  time.Time
}

// TeamOverview is a team with its members and ticket counts.
type TeamOverview struct {
	Team    *Team
	Members []*TeamMember
	Counts  StatusCounts
}

// TeamParams holds the input for creating a team.
type TeamParams struct {
	Name        string
	Description string
	ManagerID   *uuid.UUID
}

// Validate validates the team parameters.
func (p *TeamParams) Validate() error {
	errs := apperrors.NewValidationErrors()

	name := strings.TrimSpace(p.Name)
	if name == "" {
		errs.Add("name", "Name is required")
	} else if len(name) > MaxTeamNameLength {
		errs.Add("name", "Name must be 100 characters or less")
	}

	if len(p.Description) > MaxTeamDescriptionLength {
		errs.Add("description", "Description must be 1000 characters or less")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// NewTeam creates a validated team.
func NewTeam(params TeamParams) (*Team, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return &Team{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(params.Name),
		Description: params.Description,
		ManagerID:   params.ManagerID,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// IsManagedBy reports whether the profile manages the team, either as the
// team's designated manager or through a manager membership.
func (t *Team) IsManagedBy(profileID uuid.UUID, members []*TeamMember) bool {
	if t.ManagerID != nil && *t.ManagerID == profileID {
		return true
	}
	for _, member := range members {
		if member.ProfileID == profileID && member.Role == TeamRoleManager {
			return true
		}
	}
	return false
}
