package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/aegis-helpdesk/internal/core/errors"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

// ProfileService manages profiles and global roles.
type ProfileService struct {
	profileRepo ports.ProfileRepository
	teamRepo    ports.TeamRepository
	authRepo    ports.AuthorizationRepository
	authzSvc    ports.AuthorizationService
}

var _ ports.ProfileService = (*ProfileService)(nil)

// NewProfileService creates a new profile service.
func NewProfileService(
	profileRepo ports.ProfileRepository,
	teamRepo ports.TeamRepository,
	authRepo ports.AuthorizationRepository,
	authzSvc ports.AuthorizationService,
) ports.ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		teamRepo:    teamRepo,
		authRepo:    authRepo,
		authzSvc:    authzSvc,
	}
}

// GetProfile returns a profile with its roles.
func (s *ProfileService) GetProfile(ctx context.Context, profileID uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	roles, err := s.authzSvc.GetRoles(ctx, profileID)
	if err != nil {
		return nil, err
	}
	profile.Roles = roles

	return profile, nil
}

// UpdateProfile changes the caller's own name and home team.
func (s *ProfileService) UpdateProfile(ctx context.Context, profileID uuid.UUID, params domain.ProfileUpdateParams) (*domain.Profile, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	params.FullName = strings.TrimSpace(params.FullName)

	if params.TeamID != nil {
		if _, err := s.teamRepo.GetByID(ctx, *params.TeamID); err != nil {
			return nil, err
		}
	}

	if _, err := s.profileRepo.Update(ctx, profileID, params); err != nil {
		return nil, err
	}

	return s.GetProfile(ctx, profileID)
}

// ListProfiles returns every profile ordered by name, for member and
// assignee pickers.
func (s *ProfileService) ListProfiles(ctx context.Context, actorID uuid.UUID) ([]*domain.Profile, error) {
	if err := requirePermission(ctx, s.authzSvc, actorID, "tickets:read"); err != nil {
		return nil, err
	}

	return s.profileRepo.List(ctx)
}

// SetRole replaces a profile's global role. Admin only.
func (s *ProfileService) SetRole(ctx context.Context, actorID, profileID uuid.UUID, role domain.Role) error {
	if err := requirePermission(ctx, s.authzSvc, actorID, "admin:access"); err != nil {
		return err
	}

	canonical, ok := domain.ParseRole(string(role))
	if !ok {
		return apperrors.ErrInvalidRole
	}

	if _, err := s.profileRepo.GetByID(ctx, profileID); err != nil {
		return err
	}

	return s.authRepo.SetUserRole(ctx, profileID, string(canonical))
}
