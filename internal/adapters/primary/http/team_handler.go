package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/aegis-helpdesk/internal/adapters/primary/validation"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

// TeamHandler handles HTTP requests for teams and their members.
type TeamHandler struct {
	teamService  ports.TeamService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewTeamHandler creates a new team handler.
func NewTeamHandler(teamService ports.TeamService, errorHandler *ErrorHandler, logger *slog.Logger) *TeamHandler {
	return &TeamHandler{
		teamService:  teamService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "team"),
	}
}

// RegisterRoutes registers the /teams routes.
func (h *TeamHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListTeams)
	r.Post("/", h.HandleCreateTeam)

	r.Route("/{teamID}", func(r chi.Router) {
		r.Get("/", h.HandleGetTeam)
		r.Post("/members", h.HandleAddMember)
		r.Patch("/members/{memberID}", h.HandleUpdateMember)
		r.Delete("/members/{memberID}", h.HandleRemoveMember)
	})
}

// --- Request/Response DTOs ---

type CreateTeamRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ManagerID   *string `json:"managerId"`
}

type AddMemberRequest struct {
	ProfileID string `json:"profileId"`
	Role      string `json:"role"`
}

type UpdateMemberRequest struct {
	Role string `json:"role"`
}

func validateTeamRole(v *validation.Validator, raw string) domain.TeamRole {
	if raw == "" {
		return domain.TeamRoleMember
	}
	role, ok := domain.ParseTeamRole(raw)
	v.Custom("role", ok, "Must be one of: manager, member")
	return role
}

// StatusCountsDTO is the JSON form of a status summary.
type StatusCountsDTO struct {
	Total             int `json:"total"`
	Open              int `json:"open"`
	InProgress        int `json:"inProgress"`
	Resolved          int `json:"resolved"`
	CompletionPercent int `json:"completionPercent"`
}

func toStatusCountsDTO(counts domain.StatusCounts) StatusCountsDTO {
	return StatusCountsDTO{
		Total:             counts.Total,
		Open:              counts.Open,
		InProgress:        counts.InProgress,
		Resolved:          counts.Resolved,
		CompletionPercent: counts.CompletionPercent(),
	}
}

type TeamMemberDTO struct {
	ID        string `json:"id"`
	ProfileID string `json:"profileId"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	JoinedAt  string `json:"joinedAt"`
}

func toTeamMemberDTO(member *domain.TeamMember) TeamMemberDTO {
	return TeamMemberDTO{
		ID:        member.ID.String(),
		ProfileID: member.ProfileID.String(),
		FullName:  member.FullName,
		Email:     member.Email,
		Role:      string(member.Role),
		JoinedAt:  formatTime(member.JoinedAt),
	}
}

// TeamDTO defines the JSON response for a team with its members and stats.
type TeamDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ManagerID   *string         `json:"managerId"`
	CreatedAt   string          `json:"createdAt"`
	Members     []TeamMemberDTO `json:"members"`
	Stats       StatusCountsDTO `json:"stats"`
}

func toTeamDTO(team *domain.Team, members []*domain.TeamMember, counts domain.StatusCounts) TeamDTO {
	memberDTOs := make([]TeamMemberDTO, 0, len(members))
	for _, member := range members {
		memberDTOs = append(memberDTOs, toTeamMemberDTO(member))
	}
	return TeamDTO{
		ID:          team.ID.String(),
		Name:        team.Name,
		Description: team.Description,
		ManagerID:   uuidString(team.ManagerID),
		CreatedAt:   formatTime(team.CreatedAt),
		Members:     memberDTOs,
		Stats:       toStatusCountsDTO(counts),
	}
}

func toTeamOverviewDTO(overview *domain.TeamOverview) TeamDTO {
	return toTeamDTO(overview.Team, overview.Members, overview.Counts)
}

// --- Handlers ---

// HandleListTeams handles GET /teams
func (h *TeamHandler) HandleListTeams(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	overviews, err := h.teamService.ListTeams(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	response := make([]TeamDTO, 0, len(overviews))
	for _, overview := range overviews {
		response = append(response, toTeamOverviewDTO(overview))
	}

	WriteList(w, response)
}

// HandleCreateTeam handles POST /teams
func (h *TeamHandler) HandleCreateTeam(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[CreateTeamRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	v := validation.NewValidator()
	v.Required("name", req.Name).
		MaxLength("name", req.Name, domain.MaxTeamNameLength)
	v.MaxLength("description", req.Description, domain.MaxTeamDescriptionLength)
	managerID := validation.ParseOptionalUUID(v, "managerId", req.ManagerID)
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	team, err := h.teamService.CreateTeam(r.Context(), claims.UserID, domain.TeamParams{
		Name:        req.Name,
		Description: req.Description,
		ManagerID:   managerID,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "team created",
		"team_id", team.ID,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toTeamDTO(team, nil, domain.StatusCounts{}))
}

// HandleGetTeam handles GET /teams/{teamID}
func (h *TeamHandler) HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	teamID, err := parseUUIDParam(r, "teamID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	overview, err := h.teamService.GetTeam(r.Context(), teamID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toTeamOverviewDTO(overview))
}

// HandleAddMember handles POST /teams/{teamID}/members
func (h *TeamHandler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	teamID, err := parseUUIDParam(r, "teamID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[AddMemberRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	v := validation.NewValidator()
	v.Required("profileId", req.ProfileID)
	profileID := validation.ParseOptionalUUID(v, "profileId", &req.ProfileID)
	role := validateTeamRole(v, req.Role)
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	member, err := h.teamService.AddMember(r.Context(), ports.AddMemberParams{
		TeamID:    teamID,
		ProfileID: *profileID,
		Role:      role,
		ActorID:   claims.UserID,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "team member added",
		"team_id", teamID,
		"profile_id", member.ProfileID,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toTeamMemberDTO(member))
}

// HandleUpdateMember handles PATCH /teams/{teamID}/members/{memberID}
func (h *TeamHandler) HandleUpdateMember(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	teamID, err := parseUUIDParam(r, "teamID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	memberID, err := parseUUIDParam(r, "memberID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[UpdateMemberRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	v := validation.NewValidator()
	v.Required("role", req.Role)
	role := validateTeamRole(v, req.Role)
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	member, err := h.teamService.UpdateMemberRole(r.Context(), claims.UserID, teamID, memberID, role)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toTeamMemberDTO(member))
}

// HandleRemoveMember handles DELETE /teams/{teamID}/members/{memberID}
func (h *TeamHandler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	teamID, err := parseUUIDParam(r, "teamID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	memberID, err := parseUUIDParam(r, "memberID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.teamService.RemoveMember(r.Context(), claims.UserID, teamID, memberID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "team member removed",
		"team_id", teamID,
		"member_id", memberID,
		"user_id", claims.UserID,
	)

	WriteNoContent(w)
}
