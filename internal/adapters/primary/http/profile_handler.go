package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/aegis-helpdesk/internal/adapters/primary/validation"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
	"github.com/lorrc/aegis-helpdesk/internal/core/ports"
)

// ProfileHandler serves the profile directory and role administration.
type ProfileHandler struct {
	profileService ports.ProfileService
	errorHandler   *ErrorHandler
	logger         *slog.Logger
}

func NewProfileHandler(profileService ports.ProfileService, errorHandler *ErrorHandler, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		errorHandler:   errorHandler,
		logger:         logger.With("handler", "profile"),
	}
}

func (h *ProfileHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListProfiles)
	r.Put("/{profileID}/role", h.HandleSetRole)
}

// ProfileDTO defines the JSON response for profiles.
type ProfileDTO struct {
	ID        string   `json:"id"`
	FullName  string   `json:"fullName"`
	Email     string   `json:"email"`
	TeamID    *string  `json:"teamId"`
	TeamName  string   `json:"teamName,omitempty"`
	Roles     []string `json:"roles"`
	CreatedAt string   `json:"createdAt"`
}

func toProfileDTO(profile *domain.Profile) ProfileDTO {
	roles := profile.Roles
	if roles == nil {
		roles = []string{}
	}
	return ProfileDTO{
		ID:        profile.ID.String(),
		FullName:  profile.FullName,
		Email:     profile.Email,
		TeamID:    uuidString(profile.TeamID),
		TeamName:  profile.TeamName,
		Roles:     roles,
		CreatedAt: formatTime(profile.CreatedAt),
	}
}

type SetRoleRequest struct {
	Role string `json:"role"`
}

func (r *SetRoleRequest) Validate() error {
	v := validation.NewValidator()

	_, ok := domain.ParseRole(r.Role)
	v.Required("role", r.Role).
		Custom("role", r.Role == "" || ok, "Must be one of: admin, manager, agent")

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// HandleListProfiles handles GET /profiles
func (h *ProfileHandler) HandleListProfiles(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	profiles, err := h.profileService.ListProfiles(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	response := make([]ProfileDTO, 0, len(profiles))
	for _, profile := range profiles {
		response = append(response, toProfileDTO(profile))
	}

	WriteList(w, response)
}

// HandleSetRole handles PUT /profiles/{profileID}/role
func (h *ProfileHandler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	profileID, err := parseUUIDParam(r, "profileID")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[SetRoleRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	role, _ := domain.ParseRole(req.Role)
	if err := h.profileService.SetRole(r.Context(), claims.UserID, profileID, role); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "profile role updated",
		"profile_id", profileID,
		"role", role,
		"actor_id", claims.UserID,
	)

	WriteNoContent(w)
}
