package postgres

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// testPool is a global connection pool used by all tests in this package.
var testPool *pgxpool.Pool

// TestMain sets up and tears down the test database container.
func TestMain(m *testing.M) {
	os.Exit(runTests(m))
}

func runTests(m *testing.M) int {
	ctx := context.Background()

	log.Println("Setting up PostgreSQL container...")
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			log.Printf("could not terminate postgres container: %v", err)
		}
	}()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("could not get connection string: %v", err)
	}

	// postgres -> secondary -> adapters -> internal -> project root
	migrationsPath, err := filepath.Abs("../../../../migrations")
	if err != nil {
		log.Fatalf("could not find migrations directory: %v", err)
	}

	mig, err := migrate.New("file://"+migrationsPath, connStr)
	if err != nil {
		log.Fatalf("could not create migrate instance: %v", err)
	}
	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatalf("could not run migrations: %v", err)
	}
	log.Println("Migrations applied successfully.")

	testPool, err = pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("could not create connection pool: %v", err)
	}
	defer testPool.Close()

	return m.Run()
}

// resetDB empties every table except the seeded roles and permissions.
func resetDB(t *testing.T) {
	t.Helper()
	require.NotNil(t, testPool, "testPool is nil. TestMain may not have run.")

	_, err := testPool.Exec(context.Background(), `
		TRUNCATE ticket_events, custom_field_values, custom_fields,
			ticket_interactions, tickets, team_members, user_roles, teams, profiles
		CASCADE
	`)
	require.NoError(t, err)
}

func createTestProfile(t *testing.T, ctx context.Context, name string) *domain.Profile {
	t.Helper()
	profile := &domain.Profile{
		ID:             uuid.New(),
		FullName:       name,
		Email:          uuid.NewString() + "@example.com",
		HashedPassword: "hashed",
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	created, err := NewProfileRepository(testPool).Create(ctx, profile)
	require.NoError(t, err)
	return created
}

func createTestTeam(t *testing.T, ctx context.Context, name string) *domain.Team {
	t.Helper()
	team, err := domain.NewTeam(domain.TeamParams{Name: name})
	require.NoError(t, err)
	created, err := NewTeamRepository(testPool).Create(ctx, team)
	require.NoError(t, err)
	return created
}

func createTestTicket(t *testing.T, ctx context.Context, title string, creatorID uuid.UUID, teamID *uuid.UUID) *domain.Ticket {
	t.Helper()
	ticket, err := domain.NewTicket(domain.TicketParams{
		Title:     title,
		CreatedBy: creatorID,
		TeamID:    teamID,
	})
	require.NoError(t, err)
	created, err := NewTicketRepository(testPool).Create(ctx, ticket)
	require.NoError(t, err)
	return created
}
