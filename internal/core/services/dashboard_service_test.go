package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	apperrors "github.com/lorrc/aegis-helpdesk/internal/core/errors"
	"github.com/lorrc/aegis-helpdesk/internal/core/mocks"
	"github.com/lorrc/aegis-helpdesk/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDashboardService_GetOverview(t *testing.T) {
	ctx := context.Background()
	viewerID := uuid.New()
	ttl := 30 * time.Second
	statuses := []domain.TicketStatus{"open", "in_progress", "resolved", "closed"}

	t.Run("miss computes and stores", func(t *testing.T) {
		repo := mocks.NewMockDashboardRepository()
		cache := mocks.NewMockDashboardCache()
		authz := mocks.NewMockAuthorizationService()
		svc := services.NewDashboardService(repo, cache, authz, ttl, discardLogger())

		authz.On("Can", ctx, viewerID, "dashboard:read").Return(true, nil)
		cache.On("GetOverview", ctx).Return(nil, false, nil)
		repo.On("ListTicketStatuses", ctx).Return(statuses, nil)
		repo.On("CountTeams", ctx).Return(3, nil)
		cache.On("SetOverview", ctx, mock.AnythingOfType("*domain.DashboardOverview"), ttl).Return(nil)

		overview, err := svc.GetOverview(ctx, viewerID)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCounts{Total: 4, Open: 2, InProgress: 1, Resolved: 2}, overview.Counts)
		assert.Equal(t, 3, overview.TotalTeams)
		cache.AssertExpectations(t)
	})

	t.Run("hit skips the database", func(t *testing.T) {
		repo := mocks.NewMockDashboardRepository()
		cache := mocks.NewMockDashboardCache()
		authz := mocks.NewMockAuthorizationService()
		svc := services.NewDashboardService(repo, cache, authz, ttl, discardLogger())

		cached := &domain.DashboardOverview{Counts: domain.StatusCounts{Total: 7}, TotalTeams: 2}
		authz.On("Can", ctx, viewerID, "dashboard:read").Return(true, nil)
		cache.On("GetOverview", ctx).Return(cached, true, nil)

		overview, err := svc.GetOverview(ctx, viewerID)

		require.NoError(t, err)
		assert.Same(t, cached, overview)
		repo.AssertNotCalled(t, "ListTicketStatuses", mock.Anything)
	})

	t.Run("cache failures are ignored", func(t *testing.T) {
		repo := mocks.NewMockDashboardRepository()
		cache := mocks.NewMockDashboardCache()
		authz := mocks.NewMockAuthorizationService()
		svc := services.NewDashboardService(repo, cache, authz, ttl, discardLogger())

		authz.On("Can", ctx, viewerID, "dashboard:read").Return(true, nil)
		cache.On("GetOverview", ctx).Return(nil, false, errors.New("redis down"))
		repo.On("ListTicketStatuses", ctx).Return([]domain.TicketStatus{}, nil)
		repo.On("CountTeams", ctx).Return(0, nil)
		cache.On("SetOverview", ctx, mock.Anything, ttl).Return(errors.New("redis down"))

		overview, err := svc.GetOverview(ctx, viewerID)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCounts{}, overview.Counts)
		assert.Equal(t, 0, overview.Counts.CompletionPercent())
	})

	t.Run("nil cache disables caching", func(t *testing.T) {
		repo := mocks.NewMockDashboardRepository()
		authz := mocks.NewMockAuthorizationService()
		svc := services.NewDashboardService(repo, nil, authz, ttl, discardLogger())

		authz.On("Can", ctx, viewerID, "dashboard:read").Return(true, nil)
		repo.On("ListTicketStatuses", ctx).Return(statuses, nil)
		repo.On("CountTeams", ctx).Return(1, nil)

		_, err := svc.GetOverview(ctx, viewerID)
		require.NoError(t, err)

		assert.NotPanics(t, func() { svc.Invalidate(ctx) })
	})

	t.Run("forbidden", func(t *testing.T) {
		authz := mocks.NewMockAuthorizationService()
		svc := services.NewDashboardService(mocks.NewMockDashboardRepository(), nil, authz, ttl, discardLogger())

		authz.On("Can", ctx, viewerID, "dashboard:read").Return(false, nil)

		_, err := svc.GetOverview(ctx, viewerID)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("repository failure is returned", func(t *testing.T) {
		repo := mocks.NewMockDashboardRepository()
		authz := mocks.NewMockAuthorizationService()
		svc := services.NewDashboardService(repo, nil, authz, 0, discardLogger())
		boom := errors.New("timeout")

		authz.On("Can", ctx, viewerID, "dashboard:read").Return(true, nil)
		repo.On("ListTicketStatuses", ctx).Return(nil, boom)

		_, err := svc.GetOverview(ctx, viewerID)
		assert.ErrorIs(t, err, boom)
	})
}

func TestDashboardService_GetTeamStats(t *testing.T) {
	ctx := context.Background()
	viewerID := uuid.New()
	ttl := time.Minute
	alpha, beta := uuid.New(), uuid.New()

	repo := mocks.NewMockDashboardRepository()
	cache := mocks.NewMockDashboardCache()
	authz := mocks.NewMockAuthorizationService()
	svc := services.NewDashboardService(repo, cache, authz, ttl, discardLogger())

	authz.On("Can", ctx, viewerID, "dashboard:read").Return(true, nil)
	cache.On("GetTeamStats", ctx).Return(nil, false, nil)
	repo.On("ListTeamsWithTickets", ctx).Return([]domain.TeamTickets{
		{TeamID: alpha, TeamName: "Alpha", Statuses: []domain.TicketStatus{"resolved", "resolved", "open"}},
		{TeamID: beta, TeamName: "Beta"},
	}, nil)
	cache.On("SetTeamStats", ctx, mock.Anything, ttl).Return(nil)

	stats, err := svc.GetTeamStats(ctx, viewerID)

	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "Alpha", stats[0].TeamName)
	assert.Equal(t, 67, stats[0].Counts.CompletionPercent())
	assert.Equal(t, "Beta", stats[1].TeamName)
	assert.Equal(t, domain.StatusCounts{}, stats[1].Counts)

	t.Run("invalidate clears the cache", func(t *testing.T) {
		cache.On("Invalidate", ctx).Return(nil).Once()
		svc.Invalidate(ctx)
		cache.AssertCalled(t, "Invalidate", ctx)
	})
}
