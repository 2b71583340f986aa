package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	httpAdapter "github.com/lorrc/aegis-helpdesk/internal/adapters/primary/http"
	mw "github.com/lorrc/aegis-helpdesk/internal/adapters/primary/http/middleware"
	"github.com/lorrc/aegis-helpdesk/internal/adapters/primary/websocket"
	"github.com/lorrc/aegis-helpdesk/internal/adapters/secondary/email"
	"github.com/lorrc/aegis-helpdesk/internal/adapters/secondary/postgres"
	"github.com/lorrc/aegis-helpdesk/internal/adapters/secondary/redis"
	"github.com/lorrc/aegis-helpdesk/internal/auth"
	"github.com/lorrc/aegis-helpdesk/internal/config"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
	"github.com/lorrc/aegis-helpdesk/internal/core/services"
)

const dashboardCachePrefix = "aegis:dashboard"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and WebSocket API (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// 1. Load Configuration and Logger
	cfg, logger, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"config", cfg.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Initialize Database Pool
	pool, err := newPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("database connection established")

	// 3. Optional Dashboard Cache
	var (
		dashboardCache ports.DashboardCache
		cacheHealth    httpAdapter.HealthChecker
	)
	if cfg.CacheEnabled() {
		redisClient := redis.NewClient(ctx, cfg.Redis, logger)
		defer redisClient.Close()
		dashboardCache = redis.NewDashboardCache(redisClient, dashboardCachePrefix)
		cacheHealth = redisClient
	} else {
		logger.Info("dashboard cache disabled")
	}

	// 4. Repositories (Secondary Adapters)
	profileRepo := postgres.NewProfileRepository(pool)
	authzRepo := postgres.NewAuthorizationRepository(pool)
	ticketRepo := postgres.NewTicketRepository(pool)
	eventRepo := postgres.NewTicketEventRepository(pool)
	interactionRepo := postgres.NewInteractionRepository(pool)
	teamRepo := postgres.NewTeamRepository(pool)
	fieldRepo := postgres.NewCustomFieldRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	txManager := postgres.NewTransactionManager(pool)

	notifier := email.NewMockSMTPNotifier(profileRepo, logger)

	// 5. Security & Real-time Components
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	authzService := services.NewAuthorizationService(authzRepo)

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := websocket.NewHub(authzService, logger)
	go hub.Run(hubCtx)

	// 6. Services (Core)
	authService := services.NewAuthService(profileRepo, authzRepo)
	profileService := services.NewProfileService(profileRepo, teamRepo, authzRepo, authzService)
	dashboardService := services.NewDashboardService(dashboardRepo, dashboardCache, authzService, cfg.Dashboard.CacheTTL, logger)
	ticketService := services.NewTicketService(ticketRepo, eventRepo, authzService, txManager, notifier, hub, dashboardService)
	eventService := services.NewEventService(eventRepo, ticketService)
	interactionService := services.NewInteractionService(interactionRepo, eventRepo, ticketService, authzService, txManager, notifier, hub)
	teamService := services.NewTeamService(teamRepo, dashboardRepo, authzService)
	fieldService := services.NewCustomFieldService(fieldRepo, teamRepo, eventRepo, ticketService, authzService, txManager)

	// 7. Handlers (Primary Adapters)
	errorHandler := httpAdapter.NewErrorHandler(logger)
	fieldHandler := httpAdapter.NewCustomFieldHandler(fieldService, errorHandler, logger)
	handlers := httpAdapter.Handlers{
		Auth:    httpAdapter.NewAuthHandler(authService, tokenManager, errorHandler, logger),
		Me:      httpAdapter.NewMeHandler(profileService, authzService, errorHandler, logger),
		Profile: httpAdapter.NewProfileHandler(profileService, errorHandler, logger),
		Ticket: httpAdapter.NewTicketHandler(
			ticketService,
			eventService,
			httpAdapter.NewInteractionHandler(interactionService, errorHandler, logger),
			fieldHandler,
			errorHandler,
			logger,
		),
		Team:        httpAdapter.NewTeamHandler(teamService, errorHandler, logger),
		CustomField: fieldHandler,
		Dashboard:   httpAdapter.NewDashboardHandler(dashboardService, errorHandler, logger),
		Health:      httpAdapter.NewHealthHandler(pool, cacheHealth, cfg.App.Version),
		WebSocket:   httpAdapter.NewWebSocketHandler(hub, tokenManager, cfg, logger),
	}

	limiters := newRateLimiters(cfg.RateLimit)
	defer limiters.stop()

	// 8. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      httpAdapter.NewRouter(handlers, tokenManager, limiters.RateLimiters, cfg.CORS, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	// Let in-flight notifications and broadcasts finish before the hub stops.
	ticketService.Shutdown()
	interactionService.Shutdown()
	stopHub()

	logger.Info("server shutdown complete")
	return nil
}

func newPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return pool, nil
}

type rateLimiters struct {
	httpAdapter.RateLimiters
}

func newRateLimiters(cfg config.RateLimitConfig) rateLimiters {
	if !cfg.Enabled {
		return rateLimiters{}
	}

	return rateLimiters{httpAdapter.RateLimiters{
		General: mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RequestsPerSecond,
			BurstSize:         cfg.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		}),
		Auth: mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.AuthRPS,
			BurstSize:         cfg.AuthBurst,
			CleanupInterval:   time.Minute,
			TTL:               5 * time.Minute,
		}),
		Writes: mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.WriteRPS,
			BurstSize:         cfg.WriteBurst,
			CleanupInterval:   time.Minute,
			TTL:               5 * time.Minute,
		}),
	}}
}

func (l rateLimiters) stop() {
	for _, limiter := range []*mw.RateLimiter{l.General, l.Auth, l.Writes} {
		if limiter != nil {
			limiter.Stop()
		}
	}
}
