package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	mw "github.com/lorrc/aegis-helpdesk/internal/adapters/primary/http/middleware"
	"github.com/lorrc/aegis-helpdesk/internal/auth"
	"github.com/lorrc/aegis-helpdesk/internal/config"
)

// Handlers groups the primary adapters mounted by NewRouter.
type Handlers struct {
	Auth        *AuthHandler
	Me          *MeHandler
	Profile     *ProfileHandler
	Ticket      *TicketHandler
	Team        *TeamHandler
	CustomField *CustomFieldHandler
	Dashboard   *DashboardHandler
	Health      *HealthHandler
	WebSocket   *WebSocketHandler
}

// RateLimiters holds the optional limiters. A nil limiter is skipped.
type RateLimiters struct {
	General *mw.RateLimiter
	Auth    *mw.RateLimiter
	Writes  *mw.RateLimiter
}

// NewRouter builds the HTTP route tree.
func NewRouter(
	h Handlers,
	tokenManager *auth.TokenManager,
	limiters RateLimiters,
	corsCfg config.CORSConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsCfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", mw.RequestIDHeader},
		ExposedHeaders:   []string{mw.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           corsCfg.MaxAge,
	}))

	if limiters.General != nil {
		r.Use(limiters.General.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	if h.Health != nil {
		h.Health.RegisterRoutes(r)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes with stricter rate limiting
		r.Group(func(r chi.Router) {
			if limiters.Auth != nil {
				r.Use(limiters.Auth.Middleware)
			}
			r.Route("/auth", h.Auth.RegisterRoutes)
		})

		// Authentication is handled inside the handler via ?token=
		if h.WebSocket != nil {
			r.Get("/ws", h.WebSocket.ServeHTTP)
		}

		r.Group(func(r chi.Router) {
			r.Use(mw.JWTMiddleware(tokenManager))
			if limiters.Writes != nil {
				r.Use(limitWrites(limiters.Writes))
			}

			r.Route("/me", h.Me.RegisterRoutes)
			r.Route("/profiles", h.Profile.RegisterRoutes)
			r.Route("/tickets", h.Ticket.RegisterRoutes)
			r.Route("/teams", h.Team.RegisterRoutes)
			r.Route("/custom-fields", h.CustomField.RegisterRoutes)
			r.Route("/dashboard", h.Dashboard.RegisterRoutes)
		})
	})

	return r
}

// limitWrites applies the per-user limiter to mutating requests only.
func limitWrites(limiter *mw.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := limiter.UserMiddleware(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
			default:
				limited.ServeHTTP(w, r)
			}
		})
	}
}
