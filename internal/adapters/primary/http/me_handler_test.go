package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	mw "github.com/lorrc/aegis-helpdesk/internal/adapters/primary/http/middleware"
	pgadapter "github.com/lorrc/aegis-helpdesk/internal/adapters/secondary/postgres"
	"github.com/lorrc/aegis-helpdesk/internal/auth"
	"github.com/lorrc/aegis-helpdesk/internal/core/services"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(runTests(m))
}

func runTests(m *testing.M) int {
	ctx := context.Background()

	pgContainer, err := pgcontainer.Run(ctx,
		"postgres:16-alpine",
		pgcontainer.WithDatabase("test-db"),
		pgcontainer.WithUsername("user"),
		pgcontainer.WithPassword("password"),
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

	testPool, err = pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("could not create connection pool: %v", err)
	}
	defer testPool.Close()

	return m.Run()
}

// newMeRouter wires the auth and /me handlers to real services.
func newMeRouter() (*chi.Mux, *auth.TokenManager) {
	profileRepo := pgadapter.NewProfileRepository(testPool)
	teamRepo := pgadapter.NewTeamRepository(testPool)
	authRepo := pgadapter.NewAuthorizationRepository(testPool)

	authService := services.NewAuthService(profileRepo, authRepo)
	authzService := services.NewAuthorizationService(authRepo)
	profileService := services.NewProfileService(profileRepo, teamRepo, authRepo, authzService)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	errorHandler := NewErrorHandler(logger)
	tokenManager := auth.NewTokenManager("test-secret", time.Hour)

	router := chi.NewRouter()
	router.Route("/auth", NewAuthHandler(authService, tokenManager, errorHandler, logger).RegisterRoutes)
	router.Group(func(r chi.Router) {
		r.Use(mw.JWTMiddleware(tokenManager))
		r.Route("/me", NewMeHandler(profileService, authzService, errorHandler, logger).RegisterRoutes)
	})

	return router, tokenManager
}

func doJSON(t *testing.T, router stdhttp.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func registerAndLogin(t *testing.T, router stdhttp.Handler) (string, ProfileDTO) {
	t.Helper()

	email := uuid.NewString() + "@example.com"
	rec := doJSON(t, router, stdhttp.MethodPost, "/auth/register", "", map[string]string{
		"fullName": "Test User",
		"email":    email,
		"password": "Password1",
	})
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())

	var registered ProfileDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&registered))
	require.Equal(t, []string{"agent"}, registered.Roles)

	rec = doJSON(t, router, stdhttp.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": "Password1",
	})
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())

	var token TokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&token))
	require.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, int64(3600), token.ExpiresIn)

	return token.AccessToken, token.Profile
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	router, tokenManager := newMeRouter()

	token, profile := registerAndLogin(t, router)

	claims, err := tokenManager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, claims.UserID.String())
}

func TestAuth_RegisterDuplicateEmail(t *testing.T) {
	router, _ := newMeRouter()

	body := map[string]string{
		"fullName": "Dup User",
		"email":    uuid.NewString() + "@example.com",
		"password": "Password1",
	}
	rec := doJSON(t, router, stdhttp.MethodPost, "/auth/register", "", body)
	require.Equal(t, stdhttp.StatusCreated, rec.Code)

	rec = doJSON(t, router, stdhttp.MethodPost, "/auth/register", "", body)
	assert.Equal(t, stdhttp.StatusConflict, rec.Code)
}

func TestAuth_LoginWrongPassword(t *testing.T) {
	router, _ := newMeRouter()
	email := uuid.NewString() + "@example.com"

	rec := doJSON(t, router, stdhttp.MethodPost, "/auth/register", "", map[string]string{
		"fullName": "Test User",
		"email":    email,
		"password": "Password1",
	})
	require.Equal(t, stdhttp.StatusCreated, rec.Code)

	rec = doJSON(t, router, stdhttp.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": "Wrong-password1",
	})
	assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
}

func TestMe_GetAndUpdate(t *testing.T) {
	router, _ := newMeRouter()
	token, _ := registerAndLogin(t, router)

	rec := doJSON(t, router, stdhttp.MethodGet, "/me", token, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)

	var me ProfileDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&me))
	assert.Equal(t, "Test User", me.FullName)
	assert.Nil(t, me.TeamID)

	team := createTeam(t)
	rec = doJSON(t, router, stdhttp.MethodPatch, "/me", token, map[string]any{
		"fullName": "Renamed User",
		"teamId":   team,
	})
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())

	require.NoError(t, json.NewDecoder(rec.Body).Decode(&me))
	assert.Equal(t, "Renamed User", me.FullName)
	require.NotNil(t, me.TeamID)
	assert.Equal(t, team, *me.TeamID)

	// Omitting the name keeps it; an explicit null clears the team.
	rec = doJSON(t, router, stdhttp.MethodPatch, "/me", token, map[string]any{"teamId": nil})
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())

	require.NoError(t, json.NewDecoder(rec.Body).Decode(&me))
	assert.Equal(t, "Renamed User", me.FullName)
	assert.Nil(t, me.TeamID)
}

func TestMe_UpdateUnknownTeam(t *testing.T) {
	router, _ := newMeRouter()
	token, _ := registerAndLogin(t, router)

	rec := doJSON(t, router, stdhttp.MethodPatch, "/me", token, map[string]any{"teamId": uuid.NewString()})
	assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
}

func TestMePermissions(t *testing.T) {
	router, _ := newMeRouter()
	token, _ := registerAndLogin(t, router)

	rec := doJSON(t, router, stdhttp.MethodGet, "/me/permissions", token, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)

	var response PermissionsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	require.NotEmpty(t, response.Permissions)
	assert.Contains(t, response.Permissions, "tickets:create")
	assert.NotContains(t, response.Permissions, "admin:access")

	sorted := append([]string(nil), response.Permissions...)
	sort.Strings(sorted)
	assert.Equal(t, sorted, response.Permissions)
}

func TestMePermissions_Unauthorized(t *testing.T) {
	router, _ := newMeRouter()

	rec := doJSON(t, router, stdhttp.MethodGet, "/me/permissions", "", nil)

	require.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
}

func createTeam(t *testing.T) string {
	t.Helper()
	var id uuid.UUID
	err := testPool.QueryRow(context.Background(),
		`INSERT INTO teams (id, name) VALUES ($1, $2) RETURNING id`,
		uuid.New(), "Team "+uuid.NewString(),
	).Scan(&id)
	require.NoError(t, err)
	return id.String()
}
