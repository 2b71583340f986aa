package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

const (
	overviewKey  = "dashboard:overview"
	teamStatsKey = "dashboard:teams"
)

// DashboardCache stores dashboard aggregates as JSON values.
type DashboardCache struct {
	rdb    *goredis.Client
	prefix string
}

var _ ports.DashboardCache = (*DashboardCache)(nil)

// NewDashboardCache creates a cache on top of client. Keys are namespaced
// by prefix so several deployments can share one Redis database.
func NewDashboardCache(client *Client, prefix string) ports.DashboardCache {
	return &DashboardCache{rdb: client.rdb, prefix: prefix}
}

type cachedCounts struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"inProgress"`
	Resolved   int `json:"resolved"`
}

type cachedOverview struct {
	Counts     cachedCounts `json:"counts"`
	TotalTeams int          `json:"totalTeams"`
}

type cachedTeam struct {
	TeamID   string       `json:"teamId"`
	TeamName string       `json:"teamName"`
	Counts   cachedCounts `json:"counts"`
}

func toCachedCounts(c domain.StatusCounts) cachedCounts {
	return cachedCounts{Total: c.Total, Open: c.Open, InProgress: c.InProgress, Resolved: c.Resolved}
}

func (c cachedCounts) toDomain() domain.StatusCounts {
	return domain.StatusCounts{Total: c.Total, Open: c.Open, InProgress: c.InProgress, Resolved: c.Resolved}
}

// GetOverview returns the cached overview, found=false on a miss.
func (c *DashboardCache) GetOverview(ctx context.Context) (*domain.DashboardOverview, bool, error) {
	var cached cachedOverview
	found, err := c.get(ctx, overviewKey, &cached)
	if err != nil || !found {
		return nil, false, err
	}
	return &domain.DashboardOverview{
		Counts:     cached.Counts.toDomain(),
		TotalTeams: cached.TotalTeams,
	}, true, nil
}

// SetOverview caches the overview for ttl.
func (c *DashboardCache) SetOverview(ctx context.Context, overview *domain.DashboardOverview, ttl time.Duration) error {
	return c.set(ctx, overviewKey, cachedOverview{
		Counts:     toCachedCounts(overview.Counts),
		TotalTeams: overview.TotalTeams,
	}, ttl)
}

// GetTeamStats returns the cached per-team aggregates, found=false on a miss.
func (c *DashboardCache) GetTeamStats(ctx context.Context) ([]domain.TeamAggregate, bool, error) {
	var cached []cachedTeam
	found, err := c.get(ctx, teamStatsKey, &cached)
	if err != nil || !found {
		return nil, false, err
	}

	stats := make([]domain.TeamAggregate, 0, len(cached))
	for _, team := range cached {
		id, err := uuid.Parse(team.TeamID)
		if err != nil {
			return nil, false, fmt.Errorf("decode cached team id: %w", err)
		}
		stats = append(stats, domain.TeamAggregate{
			TeamID:   id,
			TeamName: team.TeamName,
			Counts:   team.Counts.toDomain(),
		})
	}
	return stats, true, nil
}

// SetTeamStats caches the per-team aggregates for ttl.
func (c *DashboardCache) SetTeamStats(ctx context.Context, stats []domain.TeamAggregate, ttl time.Duration) error {
	cached := make([]cachedTeam, 0, len(stats))
	for _, team := range stats {
		cached = append(cached, cachedTeam{
			TeamID:   team.TeamID.String(),
			TeamName: team.TeamName,
			Counts:   toCachedCounts(team.Counts),
		})
	}
	return c.set(ctx, teamStatsKey, cached, ttl)
}

// Invalidate drops every cached dashboard result.
func (c *DashboardCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, c.key(overviewKey), c.key(teamStatsKey)).Err(); err != nil {
		return fmt.Errorf("invalidate dashboard cache: %w", err)
	}
	return nil
}

func (c *DashboardCache) key(name string) string {
	if c.prefix == "" {
		return name
	}
	return c.prefix + ":" + name
}

func (c *DashboardCache) get(ctx context.Context, name string, dest interface{}) (bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

func (c *DashboardCache) set(ctx context.Context, name string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := c.rdb.Set(ctx, c.key(name), raw, ttl).Err(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
