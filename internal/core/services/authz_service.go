package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/aegis-helpdesk/internal/core/errors"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

// AuthorizationService implements the business logic for RBAC.
type AuthorizationService struct {
	authRepo ports.AuthorizationRepository
}

// Ensure implementation matches the interface.
var _ ports.AuthorizationService = (*AuthorizationService)(nil)

// NewAuthorizationService creates a new service for authorization logic.
func NewAuthorizationService(authRepo ports.AuthorizationRepository) ports.AuthorizationService {
	return &AuthorizationService{
		authRepo: authRepo,
	}
}

// Can checks if a user has a specific permission.
func (s *AuthorizationService) Can(ctx context.Context, userID uuid.UUID, permission string) (bool, error) {
	userPermissions, err := s.ensurePermissions(ctx, userID)
	if err != nil {
		// If there's an error fetching permissions (e.g., db down), deny access.
		return false, err
	}

	for _, p := range userPermissions {
		if p == permission {
			return true, nil
		}
	}

	return false, nil
}

// GetPermissions returns all permissions for a user.
func (s *AuthorizationService) GetPermissions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return s.ensurePermissions(ctx, userID)
}

// GetRoles returns the role names held by a user.
func (s *AuthorizationService) GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if _, err := s.ensurePermissions(ctx, userID); err != nil {
		return nil, err
	}

	roles, err := s.authRepo.GetUserRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if roles == nil {
		return []string{}, nil
	}
	return roles, nil
}

// ensurePermissions lazily grants the default role to users without one.
func (s *AuthorizationService) ensurePermissions(ctx context.Context, userID uuid.UUID) ([]string, error) {
	permissions, err := s.authRepo.GetUserPermissions(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(permissions) == 0 {
		if err := s.authRepo.AssignRole(ctx, userID, string(domain.DefaultRole)); err != nil && !errors.Is(err, apperrors.ErrRoleAlreadyAssigned) {
			return nil, err
		}

		permissions, err = s.authRepo.GetUserPermissions(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	if permissions == nil {
		return []string{}, nil
	}

	return permissions, nil
}

// requirePermission returns ErrForbidden unless the user holds permission.
func requirePermission(ctx context.Context, authzSvc ports.AuthorizationService, userID uuid.UUID, permission string) error {
	allowed, err := authzSvc.Can(ctx, userID, permission)
	if err != nil {
		return err
	}
	if !allowed {
		return apperrors.ErrForbidden
	}
	return nil
}
