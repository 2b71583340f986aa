package services

import (
	"context"
	"errors"
	"strings"

	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/aegis-helpdesk/internal/core/errors"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

// AuthService implements authentication business logic
type AuthService struct {
	profileRepo ports.ProfileRepository
	authRepo    ports.AuthorizationRepository
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService creates a new authentication service
func NewAuthService(profileRepo ports.ProfileRepository, authRepo ports.AuthorizationRepository) ports.AuthService {
	return &AuthService{
		profileRepo: profileRepo,
		authRepo:    authRepo,
	}
}

// Register creates a new profile and grants it the default role
func (s *AuthService) Register(ctx context.Context, fullName, email, password string) (*domain.Profile, error) {
	params := domain.RegistrationParams{
		FullName: fullName,
		Email:    email,
		Password: password,
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	_, err := s.profileRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err == nil {
		return nil, apperrors.ErrUserExists
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	profile, err := domain.NewProfile(params)
	if err != nil {
		return nil, err
	}

	created, err := s.profileRepo.Create(ctx, profile)
	if err != nil {
		return nil, err
	}

	if err := s.authRepo.AssignRole(ctx, created.ID, string(domain.DefaultRole)); err != nil &&
		!errors.Is(err, apperrors.ErrRoleAlreadyAssigned) {
		return nil, err
	}
	created.Roles = []string{string(domain.DefaultRole)}

	return created, nil
}

// Login authenticates a profile with email and password
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Profile, error) {
	if email == "" {
		return nil, apperrors.ErrEmailRequired
	}
	if password == "" {
		return nil, apperrors.ErrPasswordRequired
	}

	profile, err := s.profileRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Don't reveal whether email exists
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !profile.CheckPassword(password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return profile, nil
}
