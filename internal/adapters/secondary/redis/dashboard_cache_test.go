package redis

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/lorrc/aegis-helpdesk/internal/config"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
)

var testClient *Client

func TestMain(m *testing.M) {
	os.Exit(runTests(m))
}

func runTests(m *testing.M) int {
	ctx := context.Background()

	log.Println("Setting up Redis container...")
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("could not start redis container: %v", err)
	}
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			log.Printf("could not terminate redis container: %v", err)
		}
	}()

	addr, err := container.PortEndpoint(ctx, "6379/tcp", "")
	if err != nil {
		log.Fatalf("could not get redis endpoint: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	testClient = NewClient(ctx, config.RedisConfig{Addr: addr}, logger)
	defer testClient.Close()

	return m.Run()
}

func TestClient_Ping(t *testing.T) {
	require.NoError(t, testClient.Ping(context.Background()))

	var missing *Client
	assert.Error(t, missing.Ping(context.Background()))
}

func TestDashboardCache_Overview(t *testing.T) {
	ctx := context.Background()
	cache := NewDashboardCache(testClient, uuid.NewString())

	_, found, err := cache.GetOverview(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	overview := &domain.DashboardOverview{
		Counts:     domain.StatusCounts{Total: 5, Open: 3, InProgress: 1, Resolved: 2},
		TotalTeams: 4,
	}
	require.NoError(t, cache.SetOverview(ctx, overview, time.Minute))

	cached, found, err := cache.GetOverview(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, overview, cached)
}

func TestDashboardCache_TeamStats(t *testing.T) {
	ctx := context.Background()
	cache := NewDashboardCache(testClient, uuid.NewString())

	stats := []domain.TeamAggregate{
		{TeamID: uuid.New(), TeamName: "Apps", Counts: domain.StatusCounts{}},
		{TeamID: uuid.New(), TeamName: "Network", Counts: domain.StatusCounts{Total: 3, Open: 1, Resolved: 2}},
	}
	require.NoError(t, cache.SetTeamStats(ctx, stats, time.Minute))

	cached, found, err := cache.GetTeamStats(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, stats, cached)
}

func TestDashboardCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	cache := NewDashboardCache(testClient, uuid.NewString())

	require.NoError(t, cache.SetOverview(ctx, &domain.DashboardOverview{TotalTeams: 1}, time.Minute))
	require.NoError(t, cache.SetTeamStats(ctx, []domain.TeamAggregate{}, time.Minute))
	require.NoError(t, cache.Invalidate(ctx))

	_, found, err := cache.GetOverview(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = cache.GetTeamStats(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDashboardCache_Expires(t *testing.T) {
	ctx := context.Background()
	cache := NewDashboardCache(testClient, uuid.NewString())

	require.NoError(t, cache.SetOverview(ctx, &domain.DashboardOverview{TotalTeams: 1}, 100*time.Millisecond))
	time.Sleep(300 * time.Millisecond)

	_, found, err := cache.GetOverview(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}
