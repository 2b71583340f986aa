package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

// DashboardHandler serves the ticket status aggregates.
type DashboardHandler struct {
	dashboardService ports.DashboardService
	errorHandler     *ErrorHandler
	logger           *slog.Logger
}

func NewDashboardHandler(dashboardService ports.DashboardService, errorHandler *ErrorHandler, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		errorHandler:     errorHandler,
		logger:           logger.With("handler", "dashboard"),
	}
}

func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/overview", h.HandleOverview)
	r.Get("/teams", h.HandleTeamStats)
}

type DashboardOverviewResponse struct {
	Tickets    StatusCountsDTO `json:"tickets"`
	TotalTeams int             `json:"totalTeams"`
}

type TeamStatsDTO struct {
	TeamID   string          `json:"teamId"`
	TeamName string          `json:"teamName"`
	Stats    StatusCountsDTO `json:"stats"`
}

// HandleOverview handles GET /dashboard/overview
func (h *DashboardHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	overview, err := h.dashboardService.GetOverview(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, DashboardOverviewResponse{
		Tickets:    toStatusCountsDTO(overview.Counts),
		TotalTeams: overview.TotalTeams,
	})
}

// HandleTeamStats handles GET /dashboard/teams
func (h *DashboardHandler) HandleTeamStats(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	aggregates, err := h.dashboardService.GetTeamStats(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	response := make([]TeamStatsDTO, 0, len(aggregates))
	for _, aggregate := range aggregates {
		response = append(response, TeamStatsDTO{
			TeamID:   aggregate.TeamID.String(),
			TeamName: aggregate.TeamName,
			Stats:    toStatusCountsDTO(aggregate.Counts),
		})
	}

	WriteList(w, response)
}
