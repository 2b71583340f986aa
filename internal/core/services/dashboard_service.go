package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

// DashboardService computes ticket aggregates for the dashboard. Results
// are served from the cache while fresh. A nil cache or zero ttl disables
// caching.
type DashboardService struct {
	dashboardRepo ports.DashboardRepository
	cache         ports.DashboardCache
	authzSvc      ports.AuthorizationService
	ttl           time.Duration
	logger        *slog.Logger
}

var _ ports.DashboardService = (*DashboardService)(nil)

// NewDashboardService creates a new dashboard service.
func NewDashboardService(
	dashboardRepo ports.DashboardRepository,
	cache ports.DashboardCache,
	authzSvc ports.AuthorizationService,
	ttl time.Duration,
	logger *slog.Logger,
) ports.DashboardService {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		cache:         cache,
		authzSvc:      authzSvc,
		ttl:           ttl,
		logger:        logger.With("service", "dashboard"),
	}
}

// GetOverview returns the status counts across all tickets and the team count.
func (s *DashboardService) GetOverview(ctx context.Context, viewerID uuid.UUID) (*domain.DashboardOverview, error) {
	if err := requirePermission(ctx, s.authzSvc, viewerID, "dashboard:read"); err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		cached, found, err := s.cache.GetOverview(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "dashboard cache read failed", "key", "overview", "error", err)
		} else if found {
			return cached, nil
		}
	}

	statuses, err := s.dashboardRepo.ListTicketStatuses(ctx)
	if err != nil {
		return nil, err
	}
	totalTeams, err := s.dashboardRepo.CountTeams(ctx)
	if err != nil {
		return nil, err
	}

	overview := &domain.DashboardOverview{
		Counts:     domain.SummarizeStatuses(statuses),
		TotalTeams: totalTeams,
	}

	if s.cacheEnabled() {
		if err := s.cache.SetOverview(ctx, overview, s.ttl); err != nil {
			s.logger.WarnContext(ctx, "dashboard cache write failed", "key", "overview", "error", err)
		}
	}

	return overview, nil
}

// GetTeamStats returns per-team status counts in team-name order.
func (s *DashboardService) GetTeamStats(ctx context.Context, viewerID uuid.UUID) ([]domain.TeamAggregate, error) {
	if err := requirePermission(ctx, s.authzSvc, viewerID, "dashboard:read"); err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		cached, found, err := s.cache.GetTeamStats(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "dashboard cache read failed", "key", "teams", "error", err)
		} else if found {
			return cached, nil
		}
	}

	teams, err := s.dashboardRepo.ListTeamsWithTickets(ctx)
	if err != nil {
		return nil, err
	}
	stats := domain.SummarizeTeams(teams)

	if s.cacheEnabled() {
		if err := s.cache.SetTeamStats(ctx, stats, s.ttl); err != nil {
			s.logger.WarnContext(ctx, "dashboard cache write failed", "key", "teams", "error", err)
		}
	}

	return stats, nil
}

// Invalidate drops cached results after tickets change.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if !s.cacheEnabled() {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "dashboard cache invalidation failed", "error", err)
	}
}

func (s *DashboardService) cacheEnabled() bool {
	return s.cache != nil && s.ttl > 0
}
